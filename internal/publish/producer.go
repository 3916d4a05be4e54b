package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"tickpipe/internal/depth"
	"tickpipe/internal/label"
	"tickpipe/internal/renko"
)

// Record is the envelope published for every pipeline output.
type Record struct {
	Kind     string          `json:"kind"` // "brick" | "label" | "snapshot"
	Symbol   string          `json:"symbol"`
	Brick    *renko.Brick    `json:"brick,omitempty"`
	Label    *label.Label    `json:"label,omitempty"`
	Snapshot *depth.Snapshot `json:"snapshot,omitempty"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond, // Low latency
		Async:        true,
	}
	return &Producer{writer: w}
}

func (p *Producer) publish(symbol string, rec Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", rec.Kind, err)
	}
	return p.writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(symbol),
			Value: value,
		},
	)
}

func (p *Producer) PublishBrick(symbol string, b renko.Brick) error {
	return p.publish(symbol, Record{Kind: "brick", Symbol: symbol, Brick: &b})
}

func (p *Producer) PublishLabel(symbol string, l label.Label) error {
	return p.publish(symbol, Record{Kind: "label", Symbol: symbol, Label: &l})
}

func (p *Producer) PublishSnapshot(symbol string, s depth.Snapshot) error {
	return p.publish(symbol, Record{Kind: "snapshot", Symbol: symbol, Snapshot: &s})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
