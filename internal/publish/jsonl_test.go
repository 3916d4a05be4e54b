package publish

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"tickpipe/internal/renko"
)

func TestJSONLRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bricks.jsonl")
	rec, err := NewJSONLRecorder(path)
	if err != nil {
		t.Fatal(err)
	}

	bricks := []renko.Brick{
		{Index: 0, Price: 100, Direction: renko.Initial},
		{Index: 1, Price: 101, Direction: renko.Up},
	}
	for _, b := range bricks {
		if err := rec.Record(b); err != nil {
			t.Fatal(err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil { // double close is harmless
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var v map[string]any
		if err := json.Unmarshal(sc.Bytes(), &v); err != nil {
			t.Fatal(err)
		}
		lines = append(lines, v)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines want 2", len(lines))
	}
	if lines[0]["direction"] != "initial" || lines[1]["direction"] != "up" {
		t.Fatalf("directions not serialized as enum strings: %+v", lines)
	}
	if lines[1]["price"] != 101.0 {
		t.Fatalf("price lost: %+v", lines[1])
	}
}
