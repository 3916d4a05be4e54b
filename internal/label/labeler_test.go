package label

import (
	"errors"
	"reflect"
	"testing"
)

func TestInvalidConfig(t *testing.T) {
	cases := []struct {
		targetMove float64
		lookahead  int
	}{
		{0, 5},
		{-0.1, 5},
		{0.1, 0},
		{0.1, -3},
	}
	for _, c := range cases {
		if _, err := NewLabeler(c.targetMove, c.lookahead); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("(%v,%d): got %v want ErrInvalidConfig", c.targetMove, c.lookahead, err)
		}
	}
}

func TestConstantPathYieldsNoLabels(t *testing.T) {
	l, err := NewLabeler(0.5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Labels([]float64{7, 7, 7, 7, 7, 7}); len(got) != 0 {
		t.Fatalf("expected no labels, got %+v", got)
	}
}

func TestMonotonicUpLabelsEverything(t *testing.T) {
	l, err := NewLabeler(0.5, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Every step is a full point, well past the 0.5 target.
	prices := []float64{1, 2, 3, 4, 5, 6}
	got := l.Labels(prices)
	if len(got) != len(prices)-1 {
		t.Fatalf("got %d labels want %d", len(got), len(prices)-1)
	}
	for i, lb := range got {
		if lb.SourceIndex != i || lb.Value != 1 {
			t.Fatalf("label %d: %+v", i, lb)
		}
	}
}

func TestLookaheadBoundaryInclusive(t *testing.T) {
	prices := []float64{10, 10, 10, 13, 10}

	// lookahead 3 covers index i+3, so index 0 sees the 13.
	l, err := NewLabeler(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []Label{
		{SourceIndex: 0, Value: 1},
		{SourceIndex: 1, Value: 1},
		{SourceIndex: 2, Value: 1},
		{SourceIndex: 3, Value: -1}, // from 13, the drop back to 10 hits the lower barrier
	}
	if got := l.Labels(prices); !reflect.DeepEqual(got, want) {
		t.Fatalf("lookahead=3: got %+v want %+v", got, want)
	}

	// lookahead 2 stops at index 2; index 0 never resolves and is dropped.
	l, err = NewLabeler(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	want = []Label{
		{SourceIndex: 1, Value: 1},
		{SourceIndex: 2, Value: 1},
		{SourceIndex: 3, Value: -1},
	}
	if got := l.Labels(prices); !reflect.DeepEqual(got, want) {
		t.Fatalf("lookahead=2: got %+v want %+v", got, want)
	}
}

func TestFirstTouchWins(t *testing.T) {
	l, err := NewLabeler(1, 5)
	if err != nil {
		t.Fatal(err)
	}
	// From 10 the path dips to 9 before rallying to 12: down touches first.
	got := l.Labels([]float64{10, 9, 12})
	if len(got) == 0 || got[0].SourceIndex != 0 || got[0].Value != -1 {
		t.Fatalf("got %+v want index 0 labeled -1", got)
	}
}

func TestEqualHitResolvesDown(t *testing.T) {
	// A zero target move makes both barriers touch at the same index; the
	// comparison is strict, so the down branch wins. The constructor rejects
	// this configuration, which is why the struct is built directly here.
	l := &Labeler{targetMove: 0, lookahead: 3}
	got := l.Labels([]float64{10, 10})
	if len(got) != 1 || got[0].Value != -1 {
		t.Fatalf("got %+v want single -1 label", got)
	}
}

func TestEachStopsEarly(t *testing.T) {
	l, err := NewLabeler(0.5, 3)
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	l.Each([]float64{1, 2, 3, 4, 5, 6}, func(Label) bool {
		calls++
		return calls < 2
	})
	if calls != 2 {
		t.Fatalf("walk continued after stop: %d calls", calls)
	}
}
