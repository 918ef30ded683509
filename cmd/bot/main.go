package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/Thomashsu19/stock-app/internal/bot"
	"github.com/Thomashsu19/stock-app/internal/config"
	"github.com/Thomashsu19/stock-app/internal/logger"
	"github.com/Thomashsu19/stock-app/internal/portfolio"
	"github.com/Thomashsu19/stock-app/internal/quotes"
	"github.com/Thomashsu19/stock-app/internal/sheets"
	"github.com/Thomashsu19/stock-app/internal/storage"
	"github.com/Thomashsu19/stock-app/internal/telegram"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Init logger
	log := logger.New(cfg.Logging.Level)
	log.Info("starting stock-app", "backend", cfg.Storage.Backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init ledger backend
	var ledger portfolio.Ledger
	switch cfg.Storage.Backend {
	case "sqlite":
		sl, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			log.Error("database init failed", "error", err)
			os.Exit(1)
		}
		ledger = sl
	default:
		sl, err := sheets.NewLedger(ctx, cfg, log)
		if err != nil {
			log.Error("sheets init failed", "error", err)
			os.Exit(1)
		}
		ledger = sl
	}

	// Init services
	quoteClient := quotes.NewClient(cfg.Finnhub.APIKey, log)
	notifier := telegram.NewNotifier(cfg, log)
	svc := portfolio.NewService(ledger, quoteClient, notifier, log)
	handler := bot.NewHandler(svc, log)

	lineClient, err := linebot.New(cfg.Line.ChannelSecret, cfg.Line.ChannelAccessToken)
	if err != nil {
		log.Error("line client init failed", "error", err)
		os.Exit(1)
	}

	server := bot.NewServer(lineClient, handler, cfg, log)

	// Start webhook server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("webhook server error", "error", err)
		}
	}()

	notifier.NotifyStatus("🤖 stock-app started")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("webhook server shutdown error", "error", err)
	}

	notifier.NotifyStatus("🛑 stock-app stopped")
	log.Info("stock-app stopped")
}
