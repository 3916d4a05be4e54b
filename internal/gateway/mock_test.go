package gateway

import (
	"context"
	"testing"
	"time"

	"tickpipe/internal/depth"
)

func TestMockDepthFeed(t *testing.T) {
	mock := NewMockDepthFeed()

	if err := mock.Subscribe(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !mock.Subscribed() {
		t.Fatal("not subscribed")
	}

	mock.SendSnapshot(depth.Snapshot{Time: time.UnixMilli(1).UTC()})
	select {
	case got := <-mock.Updates():
		if got.Time != time.UnixMilli(1).UTC() {
			t.Fatalf("bad snapshot %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no update")
	}

	mock.Unsubscribe()
	if mock.Subscribed() {
		t.Fatal("still subscribed")
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := mock.Subscribe(cancelled); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

// End-to-end: a collector over the mock feed stops at the cap and never sees
// the extra event.
func TestCollectorOverMockFeed(t *testing.T) {
	mock := NewMockDepthFeed()
	col, err := depth.NewCollector(mock, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := int64(1); i <= 3; i++ {
		mock.SendSnapshot(depth.Snapshot{Time: time.UnixMilli(i).UTC()})
	}

	res, err := col.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Complete || len(res.Snapshots) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Snapshots[1].Time != time.UnixMilli(2).UTC() {
		t.Fatalf("order broken: %+v", res.Snapshots)
	}
	if mock.Subscribed() {
		t.Fatal("subscription left open after completion")
	}
}
