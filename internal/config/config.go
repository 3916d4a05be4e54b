package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string `yaml:"log_level"`

	Symbol       string  `yaml:"symbol"`
	BrickSize    float64 `yaml:"brick_size"`
	TargetMove   float64 `yaml:"target_move"`
	Lookahead    int     `yaml:"lookahead"`
	MaxSnapshots int     `yaml:"max_snapshots"`

	TicksCSV  string `yaml:"ticks_csv"`
	OutputDir string `yaml:"output_dir"`

	GatewayURL string `yaml:"gateway_url"`
	AccountID  int64  `yaml:"account_id"`
	SymbolID   int64  `yaml:"symbol_id"`

	MetricsAddr  string   `yaml:"metrics_addr"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
}

func defaults() Config {
	return Config{
		LogLevel:     "info",
		Symbol:       "EURUSD",
		BrickSize:    0.0001,
		TargetMove:   0.0003,
		Lookahead:    50,
		MaxSnapshots: 100,
		TicksCSV:     "./data/ticks.csv",
		OutputDir:    "./data/out",
		GatewayURL:   "wss://127.0.0.1:5035/stream",
		SymbolID:     1,
		KafkaTopic:   "tickpipe.events",
	}
}

func Load(path string) (Config, error) {
	cfg := defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	// Validation & normalization
	cfg.Symbol = strings.ToUpper(strings.TrimSpace(cfg.Symbol))
	if cfg.Symbol == "" {
		return cfg, errors.New("symbol must be set")
	}
	if cfg.BrickSize <= 0 {
		return cfg, errors.New("brick_size must be > 0")
	}
	if cfg.TargetMove <= 0 {
		return cfg, errors.New("target_move must be > 0")
	}
	if cfg.Lookahead <= 0 {
		return cfg, errors.New("lookahead must be > 0")
	}
	if cfg.MaxSnapshots <= 0 {
		return cfg, errors.New("max_snapshots must be > 0")
	}
	if cfg.AccountID != 0 && cfg.GatewayURL == "" {
		return cfg, errors.New("gateway_url required when account_id is set")
	}
	return cfg, nil
}

func NewLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}
