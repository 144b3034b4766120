// Package timer drives countdown timers from a wall-clock ticker.
package timer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"daylog/internal/domain"
	"daylog/internal/logging"
)

// Board is advanced once per tick.
type Board interface {
	Tick(ctx context.Context) ([]domain.Timer, error)
}

// BoardFunc adapts a function to the Board interface.
type BoardFunc func(ctx context.Context) ([]domain.Timer, error)

// Tick implements Board.
func (f BoardFunc) Tick(ctx context.Context) ([]domain.Timer, error) {
	return f(ctx)
}

// Ticker calls Board.Tick at a fixed interval until its context is cancelled.
type Ticker struct {
	board    Board
	interval time.Duration
	onFinish func(domain.Timer)
	log      *zap.Logger
}

// Option configures a Ticker.
type Option func(*Ticker)

// OnFinish is called for every timer that reaches zero.
func OnFinish(fn func(domain.Timer)) Option {
	return func(t *Ticker) { t.onFinish = fn }
}

// NewTicker creates a ticker. A non-positive interval means one second.
func NewTicker(board Board, interval time.Duration, opts ...Option) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Ticker{
		board:    board,
		interval: interval,
		log:      logging.L().Named("ticker"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run blocks until ctx is done. Tick errors are logged and do not stop the loop.
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	t.log.Debug("ticker started", zap.Duration("interval", t.interval))
	for {
		select {
		case <-ctx.Done():
			t.log.Debug("ticker stopped")
			return nil
		case <-tk.C:
			finished, err := t.board.Tick(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				t.log.Warn("tick failed", zap.Error(err))
			}
			if t.onFinish != nil {
				for _, f := range finished {
					t.onFinish(f)
				}
			}
		}
	}
}
