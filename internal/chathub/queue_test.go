package chathub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pairchat/backend/internal/chathub"
)

func TestWaitQueueFIFO(t *testing.T) {
	q := chathub.NewWaitQueue()

	assert.True(t, q.Enqueue("a"))
	assert.True(t, q.Enqueue("b"))
	assert.True(t, q.Enqueue("c"))
	assert.Equal(t, 3, q.Len())

	id, ok := q.DequeueNext()
	assert.True(t, ok)
	assert.Equal(t, "a", id, "oldest waiter comes out first")

	id, ok = q.DequeueNext()
	assert.True(t, ok)
	assert.Equal(t, "b", id)

	id, ok = q.DequeueNext()
	assert.True(t, ok)
	assert.Equal(t, "c", id)

	_, ok = q.DequeueNext()
	assert.False(t, ok, "empty queue yields nothing")
}

func TestWaitQueueEnqueueDedup(t *testing.T) {
	q := chathub.NewWaitQueue()

	assert.True(t, q.Enqueue("a"))
	assert.False(t, q.Enqueue("a"), "re-enqueueing a waiting id is a no-op")
	assert.Equal(t, 1, q.Len())

	// After leaving the queue the id may wait again.
	q.DequeueNext()
	assert.True(t, q.Enqueue("a"))
}

func TestWaitQueueRemove(t *testing.T) {
	q := chathub.NewWaitQueue()
	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	assert.True(t, q.Remove("b"))
	assert.False(t, q.Remove("b"), "second remove finds nothing")
	assert.False(t, q.Contains("b"))
	assert.Equal(t, 2, q.Len())

	// Order of the remaining entries is preserved.
	id, _ := q.DequeueNext()
	assert.Equal(t, "a", id)
	id, _ = q.DequeueNext()
	assert.Equal(t, "c", id)
}

func TestWaitQueueRemoveHead(t *testing.T) {
	q := chathub.NewWaitQueue()
	q.Enqueue("a")
	q.Enqueue("b")

	assert.True(t, q.Remove("a"))

	id, ok := q.DequeueNext()
	assert.True(t, ok)
	assert.Equal(t, "b", id)
}
