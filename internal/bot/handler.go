package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Thomashsu19/stock-app/internal/logger"
	"github.com/Thomashsu19/stock-app/internal/portfolio"
)

// User-facing replies, in the user's language.
const (
	replyPrompt    = "請輸入購買資訊，先股價再股數（例如：20250625,AAPL,30,20）"
	replyBadFormat = "格式錯誤，請輸入正確的格式：日期,股票代號,價格,股數"
	replyBadDate   = "日期錯誤，請輸入正確的日期且不能是未來的日期"
	replyBadNumber = "有東西打錯，請重新輸入"
	replyInternal  = "系統發生錯誤，請稍後再試"
)

// Portfolio is what the conversation handler needs from the portfolio service.
type Portfolio interface {
	AddRecord(ctx context.Context, rec portfolio.Record) error
	Report(ctx context.Context) (string, error)
}

// Handler turns one inbound text message into at most one reply.
type Handler struct {
	sessions  *Sessions
	portfolio Portfolio
	log       *logger.Logger
	now       func() time.Time
}

func NewHandler(p Portfolio, log *logger.Logger) *Handler {
	return &Handler{
		sessions:  NewSessions(),
		portfolio: p,
		log:       log,
		now:       time.Now,
	}
}

// HandleText runs one step of the per-user state machine. ok is false for the
// deliberate no-reply case (idle user, unrecognized text).
func (h *Handler) HandleText(ctx context.Context, userID, text string) (reply string, ok bool) {
	if h.sessions.Get(userID) == StateAwaitingPurchase {
		// Always back to idle, whatever the input looks like.
		h.sessions.Set(userID, StateIdle)
		return h.handlePurchaseInput(ctx, text), true
	}

	switch text {
	case "1":
		report, err := h.portfolio.Report(ctx)
		if err != nil {
			h.log.Error("report failed", "user_id", userID, "error", err)
			return replyInternal, true
		}
		return report, true
	case "2":
		h.sessions.Set(userID, StateAwaitingPurchase)
		return replyPrompt, true
	}

	return "", false
}

func (h *Handler) handlePurchaseInput(ctx context.Context, text string) string {
	fields := strings.Split(text, ",")
	if len(fields) != 4 {
		return replyBadFormat
	}

	date, err := normalizeDate(strings.TrimSpace(fields[0]), h.now())
	if err != nil {
		return replyBadDate
	}

	symbol := strings.ToUpper(strings.TrimSpace(fields[1]))
	price, priceErr := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	quantity, quantityErr := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if symbol == "" || priceErr != nil || quantityErr != nil || price <= 0 || quantity <= 0 {
		return replyBadNumber
	}

	rec := portfolio.Record{
		Date:     date,
		Symbol:   symbol,
		Price:    price,
		Quantity: quantity,
	}
	if err := h.portfolio.AddRecord(ctx, rec); err != nil {
		h.log.Error("add record failed", "symbol", symbol, "error", err)
		return replyInternal
	}

	return "已新增：" + text
}

// normalizeDate turns YYYYMMDD into YYYY/MM/DD, rejecting malformed calendar
// dates and dates after now.
func normalizeDate(s string, now time.Time) (string, error) {
	t, err := time.ParseInLocation("20060102", s, now.Location())
	if err != nil {
		return "", err
	}
	if t.After(now) {
		return "", fmt.Errorf("date %s is in the future", s)
	}
	return t.Format("2006/01/02"), nil
}
