package gateway

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tickpipe/internal/depth"
)

// Inbound frames are a tagged variant discriminated by "type"; everything is
// decoded here at the boundary so nothing downstream sees wire JSON.
const (
	msgAuthAck      = "auth_ack"
	msgSubscribeAck = "subscribe_ack"
	msgDepth        = "depth"
	msgError        = "error"
)

type authRequest struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type subscribeRequest struct {
	Type      string `json:"type"`
	AccountID int64  `json:"accountId"`
	SymbolID  int64  `json:"symbolId"`
}

// wireLevel carries fixed-point integers: price scaled by 1e5, volume by 1e2.
type wireLevel struct {
	Price  int64 `json:"price"`
	Volume int64 `json:"volume"`
}

type inboundMsg struct {
	Type    string      `json:"type"`
	Ts      int64       `json:"ts"` // ms epoch
	Levels  []wireLevel `json:"levels"`
	Message string      `json:"message"`
}

func decodeSnapshot(m inboundMsg) (depth.Snapshot, error) {
	if m.Ts <= 0 {
		return depth.Snapshot{}, fmt.Errorf("depth event with bad timestamp %d", m.Ts)
	}
	if len(m.Levels) == 0 {
		return depth.Snapshot{}, fmt.Errorf("depth event without levels")
	}
	levels := make([]depth.Level, 0, len(m.Levels))
	for _, l := range m.Levels {
		if l.Price <= 0 || l.Volume < 0 {
			return depth.Snapshot{}, fmt.Errorf("malformed level price=%d volume=%d", l.Price, l.Volume)
		}
		levels = append(levels, depth.Level{
			Price:  decimal.NewFromInt(l.Price).Shift(-5).InexactFloat64(),
			Volume: decimal.NewFromInt(l.Volume).Shift(-2).InexactFloat64(),
		})
	}
	return depth.Snapshot{Time: time.UnixMilli(m.Ts).UTC(), Levels: levels}, nil
}
