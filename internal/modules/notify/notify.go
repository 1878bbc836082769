package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

// Event is one user-facing notification.
type Event struct {
	UserID  uuid.UUID              `json:"user_id"`
	Kind    types.NotificationKind `json:"notification_type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Link    string                 `json:"link,omitempty"`
	Data    map[string]any         `json:"data,omitempty"`
}

type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

// Notifier is what the quiz and certificate flows depend on.
type Notifier interface {
	Emit(ctx context.Context, ev Event)
}

// Emitter fans an event out to every sink. Emit never fails: sink errors and
// panics are logged and dropped so the calling operation is unaffected.
type Emitter struct {
	log   *logger.Logger
	sinks []Sink
}

func NewEmitter(log *logger.Logger, sinks ...Sink) *Emitter {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Emitter{log: log.With("service", "NotificationEmitter"), sinks: out}
}

func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if e == nil || ev.UserID == uuid.Nil {
		return
	}
	for _, s := range e.sinks {
		if err := deliver(ctx, s, ev); err != nil {
			e.log.Warn("Notification delivery failed",
				"sink", s.Name(),
				"kind", string(ev.Kind),
				"user_id", ev.UserID.String(),
				"error", err,
			)
		}
	}
}

func deliver(ctx context.Context, s Sink, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	return s.Deliver(ctx, ev)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
