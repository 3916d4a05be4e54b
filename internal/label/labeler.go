package label

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for a non-positive target move or lookahead.
var ErrInvalidConfig = errors.New("target move and lookahead must be > 0")

// Label classifies one point of a price path by which barrier was touched
// first within the lookahead window: +1 up, -1 down. Points where neither
// barrier is touched get no label at all.
type Label struct {
	SourceIndex int `json:"sourceIndex"`
	Value       int `json:"value"`
}

// Labeler resolves triple-barrier labels over a mid-price path. The scan is
// O(n * lookahead), which is fine at batch-analysis sizes.
type Labeler struct {
	targetMove float64
	lookahead  int
}

func NewLabeler(targetMove float64, lookahead int) (*Labeler, error) {
	if targetMove <= 0 || lookahead <= 0 {
		return nil, fmt.Errorf("%w (targetMove=%v lookahead=%d)", ErrInvalidConfig, targetMove, lookahead)
	}
	return &Labeler{targetMove: targetMove, lookahead: lookahead}, nil
}

// Each walks the resolvable labels in source-index order without materializing
// them, stopping early if fn returns false.
func (l *Labeler) Each(prices []float64, fn func(Label) bool) {
	n := len(prices)
	for i := 0; i < n-1; i++ {
		base := prices[i]
		end := i + l.lookahead
		if end > n-1 {
			end = n - 1
		}
		upHit, downHit := -1, -1
		for j := i + 1; j <= end; j++ {
			if upHit < 0 && prices[j] >= base+l.targetMove {
				upHit = j
			}
			if downHit < 0 && prices[j] <= base-l.targetMove {
				downHit = j
			}
			if upHit >= 0 && downHit >= 0 {
				break
			}
		}
		if upHit < 0 && downHit < 0 {
			continue
		}
		// First touch wins; an equal-index tie resolves down (only reachable
		// with a zero target move, which the constructor rejects).
		value := -1
		if upHit >= 0 && (downHit < 0 || upHit < downHit) {
			value = 1
		}
		if !fn(Label{SourceIndex: i, Value: value}) {
			return
		}
	}
}

// Labels materializes every resolvable label for the given path.
func (l *Labeler) Labels(prices []float64) []Label {
	out := make([]Label, 0, len(prices))
	l.Each(prices, func(lb Label) bool {
		out = append(out, lb)
		return true
	})
	return out
}
