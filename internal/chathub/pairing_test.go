package chathub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairchat/backend/internal/models"
)

type stubClient struct {
	id   string
	recv chan models.ServerEvent
}

func newStubClient(id string) *stubClient {
	return &stubClient{id: id, recv: make(chan models.ServerEvent, 8)}
}

func (c *stubClient) GetAnonID() string                         { return c.id }
func (c *stubClient) GetSendChannel() chan<- models.ServerEvent { return c.recv }
func (c *stubClient) Run()                                      {}
func (c *stubClient) Close()                                    {}

// seedWaiter plants a connection directly into the waiting state, something
// the public surface only produces one connection at a time.
func seedWaiter(co *Coordinator, id string) *stubClient {
	client := newStubClient(id)
	sess := co.registry.Register(client)
	sess.State = models.StateWaiting
	co.queue.Enqueue(id)
	return client
}

func TestOldestWaiterMatchedFirst(t *testing.T) {
	co := NewCoordinator(nil)
	seedWaiter(co, "a")
	seedWaiter(co, "b")
	seedWaiter(co, "c")

	co.Register(newStubClient("d"))
	co.Dispatch("d", models.ClientEvent{Type: models.EventNewChat})

	roomD, ok := co.RoomOf("d")
	require.True(t, ok)
	roomA, ok := co.RoomOf("a")
	require.True(t, ok)
	assert.Equal(t, roomA, roomD, "d pairs with a, the oldest waiter, not c")

	stateB, _ := co.SessionState("b")
	stateC, _ := co.SessionState("c")
	assert.Equal(t, models.StateWaiting, stateB)
	assert.Equal(t, models.StateWaiting, stateC)

	next, _ := co.queue.DequeueNext()
	assert.Equal(t, "b", next, "the rest of the queue keeps its order")
}

func TestStaleQueueEntriesSkipped(t *testing.T) {
	co := NewCoordinator(nil)

	// Entries whose transport vanished without a disconnect event: still
	// queued, but no longer in the registry.
	co.queue.Enqueue("ghost_1")
	co.queue.Enqueue("ghost_2")
	seedWaiter(co, "alive")

	co.Register(newStubClient("requester"))
	co.Dispatch("requester", models.ClientEvent{Type: models.EventNewChat})

	roomR, ok := co.RoomOf("requester")
	require.True(t, ok, "the requester must not be failed by stale entries")
	roomAlive, _ := co.RoomOf("alive")
	assert.Equal(t, roomAlive, roomR)
	assert.Equal(t, 0, co.queue.Len(), "stale entries are discarded, not requeued")
}

func TestStaleOnlyQueueEndsUpWaiting(t *testing.T) {
	co := NewCoordinator(nil)
	co.queue.Enqueue("ghost_1")
	co.queue.Enqueue("ghost_2")

	co.Register(newStubClient("requester"))
	co.Dispatch("requester", models.ClientEvent{Type: models.EventNewChat})

	state, _ := co.SessionState("requester")
	assert.Equal(t, models.StateWaiting, state)
	assert.Equal(t, 1, co.queue.Len())
	assert.True(t, co.queue.Contains("requester"))
}

// A queued-but-paired id (possible only through races the lock already
// prevents; defended anyway) must never be matched a second time.
func TestNonWaitingQueueEntrySkipped(t *testing.T) {
	co := NewCoordinator(nil)
	client := seedWaiter(co, "flipped")
	sess, _ := co.registry.Lookup("flipped")
	sess.State = models.StatePaired

	co.Register(newStubClient("requester"))
	co.Dispatch("requester", models.ClientEvent{Type: models.EventNewChat})

	state, _ := co.SessionState("requester")
	assert.Equal(t, models.StateWaiting, state)
	assert.Empty(t, client.recv)
}

func TestRoomNamesNeverReused(t *testing.T) {
	co := NewCoordinator(nil)

	co.Register(newStubClient("a"))
	co.Register(newStubClient("b"))
	co.Dispatch("a", models.ClientEvent{Type: models.EventNewChat})
	co.Dispatch("b", models.ClientEvent{Type: models.EventNewChat})

	first, _ := co.RoomOf("a")
	assert.Equal(t, "room-1", first)

	co.Dispatch("a", models.ClientEvent{Type: models.EventEndChat})

	co.Dispatch("a", models.ClientEvent{Type: models.EventNewChat})
	co.Dispatch("b", models.ClientEvent{Type: models.EventNewChat})

	second, _ := co.RoomOf("a")
	assert.Equal(t, "room-2", second, "names come from a counter that never rolls back")
}
