package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/medoffice-api/pkg/logger"
	"github.com/jwalitptl/medoffice-api/pkg/messaging"
)

// HandlerFunc processes one decoded change event.
type HandlerFunc func(ctx context.Context, msg messaging.Message) error

// EventListener drains a broker channel and hands every decoded message to
// its handler. Malformed messages and handler failures are logged and
// skipped.
type EventListener struct {
	broker  messaging.Broker
	channel string
	handler HandlerFunc
	logger  *logger.Logger
}

func NewEventListener(broker messaging.Broker, channel string, handler HandlerFunc, log *logger.Logger) *EventListener {
	if channel == "" {
		channel = messaging.DefaultChannel
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EventListener{
		broker:  broker,
		channel: channel,
		handler: handler,
		logger:  log,
	}
}

// Start blocks until ctx is cancelled or the subscription ends.
func (l *EventListener) Start(ctx context.Context) error {
	msgs, err := l.broker.Subscribe(ctx, l.channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	l.logger.Info("Starting event listener", "channel", l.channel)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Shutting down event listener")
			return nil
		case raw, ok := <-msgs:
			if !ok {
				l.logger.Info("Subscription closed")
				return nil
			}
			l.process(ctx, raw)
		}
	}
}

func (l *EventListener) process(ctx context.Context, raw []byte) {
	var msg messaging.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		l.logger.Error(err, "Failed to decode event")
		return
	}
	if err := l.handler(ctx, msg); err != nil {
		l.logger.Error(err, "Failed to handle event", "event_type", msg.Type)
	}
}

// LogEvents is a HandlerFunc that writes every event to log.
func LogEvents(log *logger.Logger) HandlerFunc {
	return func(_ context.Context, msg messaging.Message) error {
		log.Info("event received", "event_type", msg.Type, "payload", msg.Payload)
		return nil
	}
}
