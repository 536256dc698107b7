package event

import (
	"context"
	"time"

	"github.com/jwalitptl/medoffice-api/pkg/logger"
	"github.com/jwalitptl/medoffice-api/pkg/messaging"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
)

const publishTimeout = 2 * time.Second

// Publisher forwards change events to a message broker.
type Publisher struct {
	broker  messaging.Broker
	channel string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewPublisher(broker messaging.Broker, channel string, log *logger.Logger, m *metrics.Metrics) *Publisher {
	if broker == nil {
		broker = messaging.NopBroker{}
	}
	if channel == "" {
		channel = messaging.DefaultChannel
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{
		broker:  broker,
		channel: channel,
		logger:  log,
		metrics: m,
	}
}

func (p *Publisher) Emit(ctx context.Context, resource string, action Action, payload interface{}) {
	eventType := Type(resource, action)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.broker.Publish(ctx, p.channel, messaging.Message{
		Type:    eventType,
		Payload: payload,
	})
	p.metrics.ObserveEvent(eventType, err)
	if err != nil {
		p.logger.Error(err, "failed to publish event", "event_type", eventType, "channel", p.channel)
	}
}
