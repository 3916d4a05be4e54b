package series

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInsufficientData is returned when a leading bid or ask is non-positive
// and there is no earlier valid print to fill it from.
var ErrInsufficientData = errors.New("insufficient data: no prior valid quote to fill from")

// Tick is a raw quote as it arrives from storage or a feed. Bid/Ask may carry
// a non-positive sentinel meaning "no print at this instant".
type Tick struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Bid    float64   `json:"bid"`
	Ask    float64   `json:"ask"`
}

// Quote is one record of a normalized series: positive bid/ask and a derived mid.
type Quote struct {
	Time time.Time `json:"time"`
	Bid  float64   `json:"bid"`
	Ask  float64   `json:"ask"`
	Mid  float64   `json:"mid"`
}

// Normalize cleans a raw tick batch into a series both downstream algorithms
// can consume: sorted by timestamp (stable, ties keep arrival order), bid and
// ask forward-filled independently from the last valid print, mid derived per
// record. The input slice is not modified.
func Normalize(ticks []Tick) ([]Quote, error) {
	if len(ticks) == 0 {
		return nil, nil
	}

	ordered := make([]Tick, len(ticks))
	copy(ordered, ticks)
	slices.SortStableFunc(ordered, func(a, b Tick) int {
		return a.Time.Compare(b.Time)
	})

	quotes := make([]Quote, 0, len(ordered))
	var lastBid, lastAsk float64
	for i, t := range ordered {
		bid := t.Bid
		if !(bid > 0) {
			if !(lastBid > 0) {
				return nil, fmt.Errorf("tick %d: bid: %w", i, ErrInsufficientData)
			}
			bid = lastBid
		}
		ask := t.Ask
		if !(ask > 0) {
			if !(lastAsk > 0) {
				return nil, fmt.Errorf("tick %d: ask: %w", i, ErrInsufficientData)
			}
			ask = lastAsk
		}
		lastBid, lastAsk = bid, ask
		quotes = append(quotes, Quote{
			Time: t.Time,
			Bid:  bid,
			Ask:  ask,
			Mid:  (bid + ask) / 2,
		})
	}
	return quotes, nil
}

// Mids extracts the mid-price path from a normalized series.
func Mids(quotes []Quote) []float64 {
	mids := make([]float64, len(quotes))
	for i, q := range quotes {
		mids[i] = q.Mid
	}
	return mids
}
