package gateway

import (
	"context"

	"tickpipe/internal/depth"
)

// MockDepthFeed is an in-memory depth.Feed for tests & demos: Subscribe
// acknowledges immediately and snapshots are injected by hand.
type MockDepthFeed struct {
	updates    chan depth.Snapshot
	errors     chan error
	subscribed bool
}

func NewMockDepthFeed() *MockDepthFeed {
	return &MockDepthFeed{
		updates: make(chan depth.Snapshot, 64),
		errors:  make(chan error, 16),
	}
}

func (m *MockDepthFeed) Subscribe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.subscribed = true
	return nil
}

func (m *MockDepthFeed) Unsubscribe() { m.subscribed = false }

func (m *MockDepthFeed) Updates() <-chan depth.Snapshot { return m.updates }

func (m *MockDepthFeed) Errors() <-chan error { return m.errors }

func (m *MockDepthFeed) Subscribed() bool { return m.subscribed }

// Helpers for tests
func (m *MockDepthFeed) SendSnapshot(s depth.Snapshot) { m.updates <- s }

func (m *MockDepthFeed) SendError(e error) { m.errors <- e }

func (m *MockDepthFeed) CloseUpdates() { close(m.updates) }
