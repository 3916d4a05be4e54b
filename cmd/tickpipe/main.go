package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"tickpipe/internal/config"
	"tickpipe/internal/depth"
	"tickpipe/internal/gateway"
	"tickpipe/internal/label"
	"tickpipe/internal/metrics"
	"tickpipe/internal/publish"
	"tickpipe/internal/renko"
	"tickpipe/internal/series"
	"tickpipe/internal/ticksource"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // best-effort: .env is optional

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config.yaml: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.LogLevel)

	logger.Info("tickpipe starting",
		slog.String("symbol", cfg.Symbol),
		slog.Float64("brick_size", cfg.BrickSize),
		slog.Float64("target_move", cfg.TargetMove),
		slog.Int("lookahead", cfg.Lookahead),
		slog.Int("max_snapshots", cfg.MaxSnapshots),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metrics.Serve(cfg.MetricsAddr)
		logger.Info("metrics listening", slog.String("addr", cfg.MetricsAddr))
	}

	var producer *publish.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = publish.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		logger.Info("publishing to kafka", slog.String("topic", cfg.KafkaTopic))
	}

	if cfg.TicksCSV != "" {
		if err := runBatch(cfg, logger, producer); err != nil {
			logger.Error("batch pipeline failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.AccountID != 0 {
		if err := runDepthSession(ctx, cfg, logger, producer); err != nil {
			logger.Error("depth session failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("done")
}

// runBatch drives the historical path: CSV ticks -> normalized series ->
// {bricks, labels} -> kafka or JSONL files.
func runBatch(cfg config.Config, logger *slog.Logger, producer *publish.Producer) error {
	agg, err := renko.NewAggregator(cfg.BrickSize)
	if err != nil {
		return err
	}
	labeler, err := label.NewLabeler(cfg.TargetMove, cfg.Lookahead)
	if err != nil {
		return err
	}

	ticks, err := ticksource.LoadCSV(cfg.TicksCSV)
	if err != nil {
		return err
	}
	quotes, err := series.Normalize(ticks)
	if err != nil {
		return err
	}
	metrics.TicksNormalized.WithLabelValues(cfg.Symbol).Add(float64(len(quotes)))
	mids := series.Mids(quotes)

	var brickSink, labelSink *publish.JSONLRecorder
	if producer == nil {
		if brickSink, err = publish.NewJSONLRecorder(filepath.Join(cfg.OutputDir, "bricks.jsonl")); err != nil {
			return err
		}
		defer brickSink.Close()
		if labelSink, err = publish.NewJSONLRecorder(filepath.Join(cfg.OutputDir, "labels.jsonl")); err != nil {
			return err
		}
		defer labelSink.Close()
	}

	brickCount := 0
	for _, m := range mids {
		for _, b := range agg.Push(m) {
			metrics.BricksEmitted.WithLabelValues(cfg.Symbol, b.Direction.String()).Inc()
			brickCount++
			if producer != nil {
				if err := producer.PublishBrick(cfg.Symbol, b); err != nil {
					return err
				}
			} else if err := brickSink.Record(b); err != nil {
				return err
			}
		}
	}

	labelCount := 0
	var sinkErr error
	labeler.Each(mids, func(lb label.Label) bool {
		metrics.LabelsEmitted.WithLabelValues(cfg.Symbol, fmt.Sprintf("%+d", lb.Value)).Inc()
		labelCount++
		if producer != nil {
			sinkErr = producer.PublishLabel(cfg.Symbol, lb)
		} else {
			sinkErr = labelSink.Record(lb)
		}
		return sinkErr == nil
	})
	if sinkErr != nil {
		return sinkErr
	}

	logger.Info("batch pipeline finished",
		slog.Int("ticks", len(quotes)),
		slog.Int("bricks", brickCount),
		slog.Int("labels", labelCount),
	)
	return nil
}

// runDepthSession collects a bounded set of live depth snapshots from the
// gateway and hands them to the configured sink.
func runDepthSession(ctx context.Context, cfg config.Config, logger *slog.Logger, producer *publish.Producer) error {
	feed := gateway.NewDepthFeed(cfg.GatewayURL, os.Getenv("GATEWAY_TOKEN"), cfg.AccountID, cfg.SymbolID, logger)
	defer feed.Close()

	go feed.Run(ctx, func(connected bool) {
		logger.Info("gateway status", slog.Bool("connected", connected))
	})

	collector, err := depth.NewCollector(feed, cfg.MaxSnapshots)
	if err != nil {
		return err
	}
	result, err := collector.Collect(ctx)
	if !result.Complete {
		logger.Warn("depth session incomplete",
			slog.Int("snapshots", len(result.Snapshots)),
			slog.String("err", result.Err.Error()),
		)
	}

	var sink *publish.JSONLRecorder
	if producer == nil {
		if sink, err = publish.NewJSONLRecorder(filepath.Join(cfg.OutputDir, "snapshots.jsonl")); err != nil {
			return err
		}
		defer sink.Close()
	}
	for _, snap := range result.Snapshots {
		if producer != nil {
			if err := producer.PublishSnapshot(cfg.Symbol, snap); err != nil {
				return err
			}
		} else if err := sink.Record(snap); err != nil {
			return err
		}
	}

	logger.Info("depth session finished",
		slog.Int("snapshots", len(result.Snapshots)),
		slog.Bool("complete", result.Complete),
		slog.String("state", collector.State().String()),
	)
	return result.Err
}
