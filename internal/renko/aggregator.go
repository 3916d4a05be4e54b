package renko

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned for a non-positive brick size.
var ErrInvalidConfig = errors.New("brick size must be > 0")

type Direction int8

const (
	Down    Direction = -1
	Initial Direction = 0
	Up      Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "initial"
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// Brick is one step of the discretized price series. Consecutive bricks
// differ by exactly one brick size, except the initial brick which seeds
// the baseline.
type Brick struct {
	Index     int       `json:"index"`
	Price     float64   `json:"price"`
	Direction Direction `json:"direction"`
}

// Aggregator converts a mid-price stream into bricks. The only carried state
// is the last brick price, so ticks can be pushed incrementally without
// buffering history.
type Aggregator struct {
	size   float64
	last   float64
	seeded bool
	count  int
}

func NewAggregator(size float64) (*Aggregator, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w (got %v)", ErrInvalidConfig, size)
	}
	return &Aggregator{size: size}, nil
}

// Push ingests the next mid-price and returns the bricks it produced, in
// order. The first price seeds the baseline and yields the initial brick;
// after that a price may yield zero bricks (movement under one step) or
// several (a gap spanning multiple steps yields one brick per step).
func (a *Aggregator) Push(mid float64) []Brick {
	if !a.seeded {
		a.seeded = true
		a.last = mid
		b := Brick{Index: a.count, Price: mid, Direction: Initial}
		a.count++
		return []Brick{b}
	}

	// Truncate toward zero: a 1.9-step move yields one brick, -1.5 yields one down.
	steps := int(math.Trunc((mid - a.last) / a.size))
	if steps == 0 {
		return nil
	}

	dir := Up
	if steps < 0 {
		dir = Down
		steps = -steps
	}
	out := make([]Brick, 0, steps)
	for i := 0; i < steps; i++ {
		a.last += a.size * float64(dir)
		out = append(out, Brick{Index: a.count, Price: a.last, Direction: dir})
		a.count++
	}
	return out
}

// FromMids runs a fresh aggregator over a whole mid-price path.
func FromMids(size float64, mids []float64) ([]Brick, error) {
	agg, err := NewAggregator(size)
	if err != nil {
		return nil, err
	}
	bricks := make([]Brick, 0, len(mids))
	for _, m := range mids {
		bricks = append(bricks, agg.Push(m)...)
	}
	return bricks, nil
}
