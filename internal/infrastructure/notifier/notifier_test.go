package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPublisher_Publish(t *testing.T) {
	var (
		got       WebhookPayload
		signature string
		body      []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		signature = r.Header.Get(SignatureHeader)
		body, _ = io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pub := NewWebhookPublisher(srv.URL, "s3cret", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := pub.Publish(context.Background(), "escrow-events",
		domain.Message{Key: []byte("a"), Value: []byte(`{"id":"evt-1"}`)},
		domain.Message{Key: []byte("b"), Value: []byte(`{"id":"evt-2"}`)},
	)
	require.NoError(t, err)

	assert.Equal(t, "escrow-events", got.Topic)
	require.Len(t, got.Events, 2)
	assert.JSONEq(t, `{"id":"evt-2"}`, string(got.Events[1]))
	assert.Equal(t, Sign([]byte("s3cret"), body), signature)
}

func TestWebhookPublisher_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	pub := NewWebhookPublisher(srv.URL, "", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := pub.Publish(context.Background(), "dispute-events", domain.Message{Value: []byte(`{}`)})
	assert.ErrorContains(t, err, "502")
}

func TestWebhookPublisher_EmptyBatchSkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	pub := NewWebhookPublisher(srv.URL, "", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, pub.Publish(context.Background(), "governance-events"))
	assert.False(t, called)
}
