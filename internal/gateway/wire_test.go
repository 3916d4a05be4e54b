package gateway

import (
	"testing"
	"time"
)

func TestDecodeSnapshot(t *testing.T) {
	msg := inboundMsg{
		Type: msgDepth,
		Ts:   1700000000123,
		Levels: []wireLevel{
			{Price: 1234567, Volume: 1550}, // 12.34567 / 15.50
			{Price: 1234500, Volume: 1},    // 12.345 / 0.01
		},
	}
	snap, err := decodeSnapshot(msg)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Time != time.UnixMilli(1700000000123).UTC() {
		t.Fatalf("bad time %v", snap.Time)
	}
	if len(snap.Levels) != 2 {
		t.Fatalf("got %d levels want 2", len(snap.Levels))
	}
	if snap.Levels[0].Price != 12.34567 || snap.Levels[0].Volume != 15.5 {
		t.Fatalf("level 0 decoded as %+v", snap.Levels[0])
	}
	if snap.Levels[1].Price != 12.345 || snap.Levels[1].Volume != 0.01 {
		t.Fatalf("level 1 decoded as %+v", snap.Levels[1])
	}
}

func TestDecodeSnapshotKeepsLevelOrder(t *testing.T) {
	msg := inboundMsg{
		Type:   msgDepth,
		Ts:     1,
		Levels: []wireLevel{{Price: 300, Volume: 1}, {Price: 100, Volume: 1}, {Price: 200, Volume: 1}},
	}
	snap, err := decodeSnapshot(msg)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.003, 0.001, 0.002}
	for i, lvl := range snap.Levels {
		if lvl.Price != want[i] {
			t.Fatalf("level %d reordered: got %v want %v", i, lvl.Price, want[i])
		}
	}
}

func TestDecodeSnapshotRejectsMalformed(t *testing.T) {
	cases := []inboundMsg{
		{Type: msgDepth, Ts: 0, Levels: []wireLevel{{Price: 1, Volume: 1}}},
		{Type: msgDepth, Ts: 1},
		{Type: msgDepth, Ts: 1, Levels: []wireLevel{{Price: 0, Volume: 1}}},
		{Type: msgDepth, Ts: 1, Levels: []wireLevel{{Price: -100, Volume: 1}}},
		{Type: msgDepth, Ts: 1, Levels: []wireLevel{{Price: 100, Volume: -1}}},
	}
	for i, msg := range cases {
		if _, err := decodeSnapshot(msg); err == nil {
			t.Fatalf("case %d: malformed event decoded without error", i)
		}
	}
}
