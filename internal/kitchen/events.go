package kitchen

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

const (
	OrdersExchange        = "orders_topic"
	NotificationsExchange = "notifications_fanout"

	EventFired         = "kitchen.order.fired"
	EventStatusChanged = "kitchen.order.status_changed"
)

// Publisher sends an encoded event to an exchange. broker.Client
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []byte) error { return nil }

// Event is the message body for both fired and status events.
type Event struct {
	Type       string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Order      Order     `json:"order"`
	OldStatus  Status    `json:"old_status,omitempty"`
	NewStatus  Status    `json:"new_status"`
}

// FiredRoutingKey is "kitchen.fired.<table>", matching the kitchen.*.*
// binding of kitchen.q.
func FiredRoutingKey(tableID string) string {
	return "kitchen.fired." + routingWord(tableID)
}

// routingWord lowercases s and folds anything outside [a-z0-9] to "_"
// so it stays one topic word.
func routingWord(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	word := strings.TrimSuffix(b.String(), "_")
	if word == "" {
		return "unknown"
	}
	return word
}

func encodeEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}
