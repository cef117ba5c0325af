package main

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/intelliDean/Stripe-Payment/common/broker"
)

// EventPublisher forwards verified webhook payloads to downstream services.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, messageID string, body []byte) error
}

type amqpPublisher struct {
	channel *amqp.Channel
}

func NewAMQPPublisher(channel *amqp.Channel) EventPublisher {
	return &amqpPublisher{channel: channel}
}

func (p *amqpPublisher) Publish(ctx context.Context, exchange, messageID string, body []byte) error {
	return p.channel.PublishWithContext(ctx, exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    messageID,
		Headers:      broker.InjectTraceContext(ctx),
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
}

// nopPublisher is used when AMQP is disabled.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, []byte) error { return nil }
