package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"opentalk/pkg/utils"

	"go.uber.org/zap"
)

// Sink delivers a verification code out-of-band. Delivery is best-effort:
// callers treat issuance as successful once the code is persisted,
// regardless of delivery outcome.
type Sink interface {
	SendCode(ctx context.Context, phone, code string) error
}

// TelegramSink posts codes to a channel through the Bot API.
type TelegramSink struct {
	botToken  string
	channelID string
	client    *http.Client
	log       *zap.Logger
}

func NewTelegramSink(config utils.TelegramConfig, log *zap.Logger) *TelegramSink {
	return &TelegramSink{
		botToken:  config.BotToken,
		channelID: config.ChannelID,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With(zap.String("notifier", "telegram")),
	}
}

func (s *TelegramSink) SendCode(ctx context.Context, phone, code string) error {
	if s.botToken == "" || s.channelID == "" {
		return fmt.Errorf("telegram bot token or channel id not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": s.channelID,
		"text":    fmt.Sprintf("%s - %s", MaskPhone(phone), code),
	})
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	s.log.Info("Verification code dispatched",
		zap.String("phone", MaskPhone(phone)),
	)

	return nil
}

// MaskPhone hides all but the last four digits: +7 (***) ***-11-22.
func MaskPhone(phone string) string {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 5 {
		return "***"
	}
	last := digits[len(digits)-4:]
	return fmt.Sprintf("+%c (***) ***-%s-%s", digits[0], last[:2], last[2:])
}
