package broker

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange        = "orders_topic"
	NotificationsExchange = "notifications_fanout"
	DeadLetterExchange    = "dlx"

	KitchenQueue       = "kitchen.q"
	NotificationsQueue = "notifications.q"
	DeadLetterQueue    = "dlq"

	kitchenBinding = "kitchen.*.*"
)

var ErrNack = errors.New("publish NACK from broker")

// confirmation is the broker's answer to one published message.
// *amqp.DeferredConfirmation satisfies it.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)

// Client holds one channel in confirm mode. Every publish carries its
// own deferred confirmation, so an abandoned wait never leaks into the
// next message.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	publish publishFunc
}

func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	c := &Client{conn: conn, ch: ch}
	c.publish = func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
		if err != nil {
			return nil, err
		}
		if dc == nil {
			return nil, errors.New("channel is not in confirm mode")
		}
		return dc, nil
	}
	return c, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareTopology declares the exchanges and queues both the API and the
// kitchen printer rely on. Safe to call from each process.
func (c *Client) DeclareTopology() error {
	exchanges := []struct{ name, kind string }{
		{OrdersExchange, "topic"},
		{NotificationsExchange, "fanout"},
		{DeadLetterExchange, "direct"},
	}
	for _, ex := range exchanges {
		if err := c.ch.ExchangeDeclare(ex.name, ex.kind, true, false, false, false, nil); err != nil {
			return err
		}
	}

	if _, err := c.ch.QueueDeclare(KitchenQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": DeadLetterQueue,
	}); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return err
	}

	if err := c.ch.QueueBind(KitchenQueue, kitchenBinding, OrdersExchange, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(DeadLetterQueue, DeadLetterQueue, DeadLetterExchange, false, nil)
}

// Publish sends a persistent JSON message and waits for the broker's
// confirm of that message or ctx cancellation.
func (c *Client) Publish(ctx context.Context, exchange, key string, body []byte) error {
	conf, err := c.publish(ctx, exchange, key, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return err
	}

	ack, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ack {
		return ErrNack
	}
	return nil
}

// Consume starts a manual-ack consumer limited to prefetch unacked
// deliveries.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
