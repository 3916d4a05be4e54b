package depth

import (
	"context"
	"time"
)

// Level is one order-book price level, already decoded to real units.
type Level struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// Snapshot is a point-in-time capture of the book delivered by the feed.
// Levels keep feed order.
type Snapshot struct {
	Time   time.Time `json:"time"`
	Levels []Level   `json:"levels"`
}

// Feed is the subscription a Collector consumes. Subscribe blocks until the
// feed acknowledges the subscription (or ctx is cancelled). Updates delivers
// decoded snapshots in arrival order; Errors carries transport or decode
// failures. Unsubscribe releases the subscription.
type Feed interface {
	Subscribe(ctx context.Context) error
	Unsubscribe()
	Updates() <-chan Snapshot
	Errors() <-chan error
}
