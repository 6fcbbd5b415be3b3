package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/victorgmp/SGPC-auth/internal/transport"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type CredentialDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

type Handler func(ctx context.Context, value []byte) error

// Dispatcher routes consumed messages to their handler.
type Dispatcher struct {
	Service string
	Events  Publisher
	Auth    CredentialDeleter
}

func (d *Dispatcher) handlers() map[string]Handler {
	return map[string]Handler{
		TopicCheckHealthz: d.CheckHealthz,
		TopicUserDeleted:  d.UserDeleted,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, topic string, value []byte) error {
	h, ok := d.handlers()[topic]
	if !ok {
		return fmt.Errorf("no handler for topic %q", topic)
	}
	return h(ctx, value)
}

func (d *Dispatcher) CheckHealthz(ctx context.Context, _ []byte) error {
	logging.FromContext(ctx).Info("healthz_checked")
	return d.Events.Publish(ctx, TopicHealthzChecked, d.Service, transport.HealthzEvent{Service: d.Service})
}

// UserDeleted drops the credential of a user removed upstream.
func (d *Dispatcher) UserDeleted(ctx context.Context, value []byte) error {
	var ev transport.UserEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", TopicUserDeleted, err)
	}
	if ev.UserID == "" {
		return fmt.Errorf("decode %s: empty userId", TopicUserDeleted)
	}
	return d.Auth.DeleteByUserID(ctx, ev.UserID)
}
