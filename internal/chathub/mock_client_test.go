package chathub_test

import (
	"pairchat/backend/internal/models"
)

// MockClient implements chathub.Client for tests. Delivered events pile up
// in Recv so assertions can drain them synchronously.
type MockClient struct {
	anonID string
	Recv   chan models.ServerEvent
	Closed bool
}

func newMockClient(anonID string) *MockClient {
	return &MockClient{
		anonID: anonID,
		Recv:   make(chan models.ServerEvent, 32),
	}
}

func (c *MockClient) GetAnonID() string { return c.anonID }

func (c *MockClient) GetSendChannel() chan<- models.ServerEvent {
	return c.Recv
}

func (c *MockClient) Run() {}

func (c *MockClient) Close() { c.Closed = true }

// drain empties the receive buffer and returns what was in it.
func (c *MockClient) drain() []models.ServerEvent {
	var events []models.ServerEvent
	for {
		select {
		case ev := <-c.Recv:
			events = append(events, ev)
		default:
			return events
		}
	}
}
