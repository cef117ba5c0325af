package broker

import (
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchanges the relay publishes verified Stripe events to.
// Downstream services bind their own queues.
const (
	CustomerCreatedEvent = "stripe.customer.created"
	ChargeCapturedEvent  = "stripe.charge.captured"
)

// Exchanges lists every exchange declared on Connect.
var Exchanges = []string{
	CustomerCreatedEvent,
	ChargeCapturedEvent,
}

// Connect dials RabbitMQ, opens a channel and declares the relay's exchanges.
// The returned close func shuts the channel before the connection.
func Connect(user, pass, host, port string, log *slog.Logger) (*amqp.Channel, func() error, error) {
	address := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareExchanges(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	log.Info("exchanges declared", slog.Any("exchanges", Exchanges))

	closeFn := func() error {
		if err := ch.Close(); err != nil {
			return err
		}
		return conn.Close()
	}

	return ch, closeFn, nil
}

func declareExchanges(ch *amqp.Channel) error {
	for _, name := range Exchanges {
		err := ch.ExchangeDeclare(
			name,
			"direct",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare %s exchange: %w", name, err)
		}
	}
	return nil
}
