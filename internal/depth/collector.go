package depth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrInvalidConfig is returned for a non-positive snapshot cap.
var ErrInvalidConfig = errors.New("max snapshots must be > 0")

// ErrFeedClosed means the feed shut its update channel before the cap was reached.
var ErrFeedClosed = errors.New("depth feed closed")

type State int32

const (
	Idle State = iota
	Subscribing
	Collecting
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Subscribing:
		return "subscribing"
	case Collecting:
		return "collecting"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is handed to the caller once the collector reaches a terminal state.
// Complete distinguishes "collected enough" from a session that died early;
// on failure Snapshots still holds whatever was gathered.
type Result struct {
	Snapshots []Snapshot
	Complete  bool
	Err       error
}

// Collector runs one subscription session against a Feed and accumulates up
// to its cap of snapshots, in arrival order. It is single-use: one Collect
// call per Collector. Done is closed on reaching a terminal state so other
// goroutines can observe completion without polling.
type Collector struct {
	feed Feed
	max  int

	state atomic.Int32
	done  chan struct{}
}

func NewCollector(feed Feed, maxSnapshots int) (*Collector, error) {
	if maxSnapshots <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidConfig, maxSnapshots)
	}
	return &Collector{
		feed: feed,
		max:  maxSnapshots,
		done: make(chan struct{}),
	}, nil
}

func (c *Collector) State() State { return State(c.state.Load()) }

func (c *Collector) Done() <-chan struct{} { return c.done }

// Collect subscribes, gathers snapshots until the cap is reached, then
// releases the subscription and returns the complete collection. A feed error
// or ctx cancellation ends the session early; the partial collection is still
// returned, marked incomplete, alongside the error.
func (c *Collector) Collect(ctx context.Context) (Result, error) {
	c.state.Store(int32(Subscribing))

	if err := c.feed.Subscribe(ctx); err != nil {
		return c.fail(nil, fmt.Errorf("subscribe: %w", err))
	}
	c.state.Store(int32(Collecting))

	snapshots := make([]Snapshot, 0, c.max)
	for {
		select {
		case snap, ok := <-c.feed.Updates():
			if !ok {
				return c.fail(snapshots, ErrFeedClosed)
			}
			snapshots = append(snapshots, snap)
			if len(snapshots) == c.max {
				c.feed.Unsubscribe()
				c.state.Store(int32(Completed))
				close(c.done)
				return Result{Snapshots: snapshots, Complete: true}, nil
			}
		case err := <-c.feed.Errors():
			c.feed.Unsubscribe()
			return c.fail(snapshots, err)
		case <-ctx.Done():
			c.feed.Unsubscribe()
			return c.fail(snapshots, ctx.Err())
		}
	}
}

func (c *Collector) fail(partial []Snapshot, err error) (Result, error) {
	c.state.Store(int32(Failed))
	close(c.done)
	return Result{Snapshots: partial, Complete: false, Err: err}, err
}
