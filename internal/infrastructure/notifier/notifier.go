package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

const SignatureHeader = "X-Escrow-Signature"

// WebhookPublisher отправляет события outbox POST-запросом на callback URL.
// Реализует domain.PublisherPort, используется релеем при выключенной kafka.
type WebhookPublisher struct {
	callbackURL string
	secret      []byte
	client      *http.Client
	logger      *slog.Logger
}

func NewWebhookPublisher(callbackURL, secret string, timeout time.Duration, logger *slog.Logger) *WebhookPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookPublisher{
		callbackURL: callbackURL,
		secret:      []byte(secret),
		client:      &http.Client{Timeout: timeout},
		logger:      logger.With("component", "webhook"),
	}
}

func (w *WebhookPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	payload := WebhookPayload{Topic: topic, Events: make([]json.RawMessage, 0, len(msgs))}
	for _, m := range msgs {
		payload.Events = append(payload.Events, json.RawMessage(m.Value))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(w.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(w.secret, body))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	w.logger.Debug("callback sent", slog.String("topic", topic), slog.Int("events", len(msgs)))
	return nil
}

// Sign - hex HMAC-SHA256 тела запроса
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
