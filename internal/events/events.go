package events

import (
	"context"
	"fmt"
)

const topicPrefix = "marketplace"

// Actions carried in topics.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TopicOrderCheckout is emitted when a cart is turned into an order.
const TopicOrderCheckout = topicPrefix + ".order.checkout"

// Topic returns the subject for a mutation of the given item kind,
// e.g. "marketplace.product.created".
func Topic(kind, action string) string {
	return fmt.Sprintf("%s.%s.%s", topicPrefix, kind, action)
}

// ItemChanged is published after a successful create or update.
type ItemChanged struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Item any    `json:"item"`
}

// ItemDeleted is published after a successful delete.
type ItemDeleted struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// CheckoutCompleted is published when a session cart becomes an order.
type CheckoutCompleted struct {
	OrderID   string  `json:"order_id"`
	SessionID string  `json:"session_id"`
	Total     float64 `json:"total"`
	Lines     int     `json:"lines"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
