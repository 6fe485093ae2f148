package service

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	q "github.com/iliyamo/smart-medicine-box/internal/queue"
)

// silentBroker accepts TCP connections and never answers the AMQP handshake.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublisherHonoursContextDeadline(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := pub.PublishPredictionServed(ctx, q.PredictionServedEvent{EventID: "ev-1"})
	if err == nil {
		t.Fatal("expected handshake timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("publish blocked for %v", elapsed)
	}
}

func TestPublisherExpiredContext(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "", nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	if err := pub.PublishPredictionServed(ctx, q.PredictionServedEvent{}); err != context.DeadlineExceeded {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestHandleBoundedByPublishTimeout(t *testing.T) {
	pub := NewAMQPPublisher(silentBroker(t), "", nil)
	svc := New(newRegistry(t, constant(1), constant(480)), pub, nil)

	start := time.Now()
	res, err := svc.Handle(context.Background(), []byte(validBody), Meta{RequestID: "req-slow"})
	if err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if res.PredictedTimeFormatted != "08:00" {
		t.Fatalf("unexpected result %+v", res)
	}
	if elapsed := time.Since(start); elapsed > publishTimeout+time.Second {
		t.Fatalf("Handle took %v, expected at most about %v", elapsed, publishTimeout)
	}
}
