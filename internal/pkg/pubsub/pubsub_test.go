package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPubSub(t *testing.T) (*Publisher, *Subscriber) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewPublisher(rdb), NewSubscriber(rdb)
}

func TestPublishProgress_RoundTrip(t *testing.T) {
	publisher, subscriber := setupPubSub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *Event, 1)
	go subscriber.Subscribe(ctx, func(ev *Event) {
		received <- ev
	})

	// give the subscriber a moment to attach
	time.Sleep(50 * time.Millisecond)

	err := publisher.PublishProgress(ctx, &Event{
		UserID: 7,
		WorkID: 42,
		Status: "processing",
		Step:   StepComposing,
	})
	require.NoError(t, err)

	select {
	case ev := <-received:
		assert.Equal(t, EventGenerateProgress, ev.Type)
		assert.Equal(t, int64(7), ev.UserID)
		assert.Equal(t, int64(42), ev.WorkID)
		assert.Equal(t, StepComposing, ev.Step)
		// progress and message auto-filled from the step
		assert.Equal(t, StepProgress[StepComposing], ev.Progress)
		assert.Equal(t, StepMessages[StepComposing], ev.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishPaymentResult(t *testing.T) {
	publisher, subscriber := setupPubSub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *Event, 1)
	go subscriber.Subscribe(ctx, func(ev *Event) {
		received <- ev
	})
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, publisher.PublishPaymentResult(ctx, 7, 100, true))

	select {
	case ev := <-received:
		assert.Equal(t, EventPaymentResult, ev.Type)
		assert.Equal(t, int64(7), ev.UserID)
		assert.Equal(t, int64(100), ev.OrderID)
		assert.Equal(t, "verified", ev.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribe_StopsOnCancel(t *testing.T) {
	_, subscriber := setupPubSub(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(*Event) {})
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop after cancel")
	}
}
