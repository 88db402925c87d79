package brokerconn

import (
	"context"
	"fmt"
	"sync"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wsa-2002/pd6-be-sub001/common/config"
	"github.com/wsa-2002/pd6-be-sub001/common/constants/priority"
	"github.com/wsa-2002/pd6-be-sub001/lib/logger"
)

// maxQueuePriority is the x-max-priority every judge queue is declared with.
// It must stay above the largest value in the priority ordinal table.
const maxQueuePriority = 10

// Handler processes one consumed message body. A nil return acknowledges
// the message; an error drops it permanently (nack without requeue).
type Handler func(ctx context.Context, body []byte) error

// Broker is what the dispatcher and the report consumer need from the
// message broker. Connector is the amqp implementation.
type Broker interface {
	Publish(ctx context.Context, queueName string, prio priority.Priority, body []byte) error
	Consume(ctx context.Context, queueName string, handler Handler) error
}

// Connector owns one amqp connection and one publishing channel. It is
// constructed explicitly and passed around, there is no package level state.
type Connector struct {
	config config.BrokerConfig

	mutex    sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	declared map[string]struct{}
}

func NewConnector(config config.BrokerConfig) *Connector {
	return &Connector{
		config:   config,
		declared: make(map[string]struct{}),
	}
}

// Open dials the broker and opens the publishing channel.
func (b *Connector) Open() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.openLocked()
}

func (b *Connector) openLocked() error {
	conn, err := amqp.Dial(b.config.URL)
	if err != nil {
		return fmt.Errorf("can not dial broker at %s: %w", b.config.URL, err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("can not open broker channel: %w", err)
	}
	b.conn = conn
	b.channel = channel
	b.declared = make(map[string]struct{})
	return nil
}

func (b *Connector) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	b.channel = nil
	return err
}

// mutex must be locked
func (b *Connector) declareQueueLocked(queueName string) error {
	if _, ok := b.declared[queueName]; ok {
		return nil
	}
	_, err := b.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		amqp.Table{"x-max-priority": int32(maxQueuePriority)},
	)
	if err != nil {
		return fmt.Errorf("can not declare queue %s: %w", queueName, err)
	}
	b.declared[queueName] = struct{}{}
	return nil
}

// Publish sends one durable message to queueName at the given priority.
func (b *Connector) Publish(ctx context.Context, queueName string, prio priority.Priority, body []byte) error {
	brokerPriority, err := prio.BrokerPriority()
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.channel == nil {
		return fmt.Errorf("broker connector is not opened")
	}
	if err := b.declareQueueLocked(queueName); err != nil {
		return err
	}

	return b.channel.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Priority:     brokerPriority,
			Body:         body,
		},
	)
}

// Consume drains queueName until ctx is cancelled, processing one message
// at a time. Delivery is at least once: a message is acknowledged only
// after handler returns nil. On handler error the message is nacked
// without requeue and its full body is logged for manual recovery; a
// malformed report must not loop forever.
func (b *Connector) Consume(ctx context.Context, queueName string, handler Handler) error {
	for {
		err := b.consumeOnce(ctx, queueName, handler)
		if ctx.Err() != nil {
			return nil
		}
		logger.Warn("consume loop for queue %s interrupted: %v, reconnecting", queueName, err)

		_, err = backoff.Retry(ctx, func() (*struct{}, error) {
			b.mutex.Lock()
			defer b.mutex.Unlock()
			return nil, b.openLocked()
		}, backoff.WithBackOff(newReconnectBackOff(b.config)))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("can not reconnect to broker: %w", err)
		}
	}
}

func (b *Connector) consumeOnce(ctx context.Context, queueName string, handler Handler) error {
	b.mutex.Lock()
	if b.conn == nil {
		b.mutex.Unlock()
		return fmt.Errorf("broker connector is not opened")
	}
	channel, err := b.conn.Channel()
	if err != nil {
		b.mutex.Unlock()
		return fmt.Errorf("can not open consume channel: %w", err)
	}
	b.mutex.Unlock()
	defer channel.Close()

	_, err = channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		amqp.Table{"x-max-priority": int32(maxQueuePriority)},
	)
	if err != nil {
		return fmt.Errorf("can not declare queue %s: %w", queueName, err)
	}

	// One unacknowledged message at a time, so reports are processed in
	// delivery order within this queue.
	if err := channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("can not set qos on queue %s: %w", queueName, err)
	}

	deliveries, err := channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("can not consume queue %s: %w", queueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case message, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel for queue %s closed", queueName)
			}
			if err := handler(ctx, message.Body); err != nil {
				logger.Error("dropping message from queue %s: %v, body: %s", queueName, err, string(message.Body))
				if nackErr := message.Nack(false, false); nackErr != nil {
					return fmt.Errorf("can not nack message: %w", nackErr)
				}
				continue
			}
			if ackErr := message.Ack(false); ackErr != nil {
				return fmt.Errorf("can not ack message: %w", ackErr)
			}
		}
	}
}

func newReconnectBackOff(config config.BrokerConfig) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = config.ReconnectMaxInterval
	return b
}
