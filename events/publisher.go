package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends domain events to the order management process.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (NopPublisher) Close() error                                         { return nil }

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch channel
}

// NewRabbitPublisher opens a channel on conn and declares the queues it
// publishes to, so publishing never fails on missing infra.
func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare %s: %w", OrderPlacedQueue, err)
	}
	return &RabbitPublisher{ch: ch}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	env := newEnvelope(OrderPlacedEvent, OrderPlacedVersion, ev.UserID, ev)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", OrderPlacedEvent, err)
	}

	err = p.ch.PublishWithContext(ctx, "", OrderPlacedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.EventID,
		Timestamp:    env.OccurredAt,
		Type:         OrderPlacedEvent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", OrderPlacedEvent, err)
	}
	return nil
}
