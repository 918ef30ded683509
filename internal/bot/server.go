package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/Thomashsu19/stock-app/internal/config"
	"github.com/Thomashsu19/stock-app/internal/logger"
)

// Server exposes the LINE webhook endpoint. Signature verification and
// envelope parsing belong to the LINE SDK; this server only routes decoded
// text messages through the Handler and sends the reply.
type Server struct {
	httpServer *http.Server
	client     *linebot.Client
	handler    *Handler
	config     *config.Config
	logger     *logger.Logger
}

func NewServer(client *linebot.Client, h *Handler, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		client:  client,
		handler: h,
		config:  cfg,
		logger:  log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	events, err := s.client.ParseRequest(r)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			s.logger.Error("parse webhook request", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	for _, event := range events {
		if event.Type != linebot.EventTypeMessage {
			continue
		}
		msg, isText := event.Message.(*linebot.TextMessage)
		if !isText {
			continue
		}

		var userID string
		if event.Source != nil {
			userID = event.Source.UserID
		}

		reply, ok := s.handler.HandleText(r.Context(), userID, msg.Text)
		if !ok {
			continue
		}

		_, err := s.client.ReplyMessage(event.ReplyToken, linebot.NewTextMessage(reply)).Do()
		if err != nil {
			s.logger.Error("reply message", "user_id", userID, "error", err)
		}
	}

	fmt.Fprint(w, "OK")
}

func (s *Server) Start() error {
	s.logger.Info("webhook server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webhook server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
