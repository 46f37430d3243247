package watermarks

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OutputPane is a Diagnostics sink writing to a zap logger.
//
// The logger is only built on first write.
type OutputPane struct {
	name   string
	build  func() (*zap.Logger, error)
	once   sync.Once
	logger *zap.Logger
}

// OutputPaneOption configures an OutputPane.
type OutputPaneOption func(*OutputPane)

// WithPaneLogger makes the pane write to l instead of building its own logger.
func WithPaneLogger(l *zap.Logger) OutputPaneOption {
	return func(p *OutputPane) {
		p.build = func() (*zap.Logger, error) {
			return l, nil
		}
	}
}

// WithPaneName sets the name attached to every message.
func WithPaneName(name string) OutputPaneOption {
	return func(p *OutputPane) {
		p.name = name
	}
}

// NewOutputPane creates a pane which, by default, writes JSON lines to stderr.
func NewOutputPane(opts ...OutputPaneOption) *OutputPane {
	p := &OutputPane{
		name:  "Water Mark",
		build: defaultPaneLogger,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func defaultPaneLogger() (*zap.Logger, error) {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zapcore.EncoderConfig{MessageKey: "M", LevelKey: "L", NameKey: "N"},
	}

	return cfg.Build()
}

func (p *OutputPane) init() {
	logger, err := p.build()
	if err != nil || logger == nil {
		logger = zap.NewNop()
	}
	p.logger = logger.Named(p.name)
}

// Write appends message to the pane.
func (p *OutputPane) Write(message string) {
	p.once.Do(p.init)
	p.logger.Info(message)
}

// Sync flushes the underlying logger, when it has been built.
func (p *OutputPane) Sync() error {
	if p.logger == nil {
		return nil
	}

	return p.logger.Sync()
}
