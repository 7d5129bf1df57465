package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueue(t *testing.T) *Queue {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewQueue(rdb, "test_queue")
}

func TestQueue_PushPop(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	msg := &GenerateMessage{
		WorkID:      42,
		UserID:      7,
		Prompt:      "轻快的吉他曲",
		Style:       "folk",
		DurationSec: 90,
	}
	require.NoError(t, q.Push(ctx, msg))

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.WorkID)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "folk", got.Style)
	assert.Equal(t, 90, got.DurationSec)
}

func TestQueue_FIFO(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, &GenerateMessage{WorkID: 1}))
	require.NoError(t, q.Push(ctx, &GenerateMessage{WorkID: 2}))

	first, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	second, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.WorkID)
	assert.Equal(t, int64(2), second.WorkID)
}

func TestQueue_PopTimeout(t *testing.T) {
	q := setupQueue(t)

	msg, err := q.Pop(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestQueue_Length(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()

	n, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, q.Push(ctx, &GenerateMessage{WorkID: 1}))
	require.NoError(t, q.Push(ctx, &GenerateMessage{WorkID: 2}))

	n, err = q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
