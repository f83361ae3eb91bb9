package notifier

import "encoding/json"

// WebhookPayload - пачка событий одного топика
type WebhookPayload struct {
	Topic  string            `json:"topic"`
	Events []json.RawMessage `json:"events"`
}
