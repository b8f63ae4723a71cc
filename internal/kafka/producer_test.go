package kafka

import (
	"context"
	"testing"
	"time"
)

func waitClosed(t *testing.T, p *Producer) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer loop did not exit")
	}
}

// The api process closes the inbox first and cancels the context after;
// the loop must survive both orders without a double close or a hang.
func TestProducerShutdownCloseThenCancel(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "shop.order.created", 4)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Close()
	cancel()
	waitClosed(t, p)
}

func TestProducerShutdownCancelThenClose(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "shop.order.created", 4)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	p.Close()
	waitClosed(t, p)
}

func TestProducerDoubleClose(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "shop.order.created", 4)
	p.Start(context.Background())

	p.Close()
	p.Close()
	waitClosed(t, p)
}
