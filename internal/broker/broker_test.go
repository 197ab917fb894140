package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestPingWithoutConnection(t *testing.T) {
	var c *Client
	if err := c.Ping(); err == nil {
		t.Fatalf("expected error for nil client")
	}
	c.Close()

	if err := (&Client{}).Ping(); err == nil {
		t.Fatalf("expected error for client without connection")
	}
}

// fakeConfirm answers once its result is sent.
type fakeConfirm struct {
	result chan bool
}

func (f *fakeConfirm) WaitContext(ctx context.Context) (bool, error) {
	select {
	case ack := <-f.result:
		return ack, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type fakeChannel struct {
	published chan amqp.Publishing
	confirms  chan *fakeConfirm
	err       error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		published: make(chan amqp.Publishing, 4),
		confirms:  make(chan *fakeConfirm, 4),
	}
}

func (f *fakeChannel) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	if f.err != nil {
		return nil, f.err
	}
	conf := &fakeConfirm{result: make(chan bool, 1)}
	f.published <- msg
	f.confirms <- conf
	return conf, nil
}

func TestPublishWaitsForItsOwnConfirm(t *testing.T) {
	ch := newFakeChannel()
	c := &Client{publish: ch.publish}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := c.Publish(ctx, OrdersExchange, "kitchen.fired.t1", []byte(`{}`)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	<-ch.published
	// The first message is acked only after its caller gave up.
	(<-ch.confirms).result <- true

	done := make(chan error, 1)
	go func() {
		done <- c.Publish(context.Background(), OrdersExchange, "kitchen.fired.t2", []byte(`{}`))
	}()

	msg := <-ch.published
	(<-ch.confirms).result <- false

	if err := <-done; !errors.Is(err, ErrNack) {
		t.Fatalf("expected the second message's nack, got %v", err)
	}
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Fatalf("unexpected publishing %+v", msg)
	}
}

func TestPublishReturnsSendError(t *testing.T) {
	ch := newFakeChannel()
	ch.err = errors.New("channel closed")
	c := &Client{publish: ch.publish}

	if err := c.Publish(context.Background(), NotificationsExchange, "", []byte(`{}`)); err == nil {
		t.Fatalf("expected error")
	}
}
