package ticksource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"tickpipe/internal/series"
)

// LoadCSV reads a tick batch from a file with a header row of
// symbol,timestamp,bid,ask (timestamp in ms epoch). Empty bid/ask cells are
// kept as the zero sentinel for the normalizer to resolve.
func LoadCSV(path string) ([]series.Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) ([]series.Tick, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != "symbol" || header[1] != "timestamp" || header[2] != "bid" || header[3] != "ask" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var ticks []series.Tick
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ms, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}
		bid, err := parsePrice(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: bid: %w", line, err)
		}
		ask, err := parsePrice(rec[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: ask: %w", line, err)
		}
		ticks = append(ticks, series.Tick{
			Symbol: rec[0],
			Time:   time.UnixMilli(ms).UTC(),
			Bid:    bid,
			Ask:    ask,
		})
	}
	return ticks, nil
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil // no print; normalizer fills it
	}
	return strconv.ParseFloat(s, 64)
}
