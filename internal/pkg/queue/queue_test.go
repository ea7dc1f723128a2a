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

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestQueue_PushPop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_quiz_jobs")

	msg := &JobMessage{
		QuizID:        7,
		DocumentID:    3,
		UserID:        42,
		QuestionCount: 10,
		Subject:       "maths",
		Level:         "bac-s1",
	}
	require.NoError(t, q.Push(context.Background(), msg))

	length, err := q.Length(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	got, err := q.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.QuizID)
	assert.Equal(t, "maths", got.Subject)
}

func TestQueue_Pop_Timeout(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "empty_queue")

	got, err := q.Pop(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueue_FIFO(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "ordered_queue")

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, q.Push(context.Background(), &JobMessage{QuizID: i}))
	}

	for i := int64(1); i <= 3; i++ {
		got, err := q.Pop(context.Background(), time.Second)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, i, got.QuizID)
	}
}
