package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/johndosdos/anonchat/internal/model"
)

const DefaultPollInterval = time.Second

// Poller calls Fetch every Interval and hands the result to OnMessages.
// At most one Fetch runs at a time; a tick that arrives while the previous
// fetch is still running is skipped. Fetch errors are logged and dropped.
type Poller struct {
	Interval   time.Duration
	Fetch      func(ctx context.Context) ([]model.Message, error)
	OnMessages func([]model.Message)
	Logger     *slog.Logger

	// ErrorLogInterval limits how often repeated fetch errors are logged.
	ErrorLogInterval time.Duration

	inFlight atomic.Bool
	skipped  atomic.Int64
	wg       sync.WaitGroup
}

// Run polls until ctx is cancelled. Cancelling ctx also cancels the
// in-flight fetch; Run waits for it to return before returning itself.
func (p *Poller) Run(ctx context.Context) error {
	if p.Fetch == nil {
		return errors.New("internal/client: poller has no fetch function")
	}

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errEvery := p.ErrorLogInterval
	if errEvery <= 0 {
		errEvery = 10 * time.Second
	}
	errLog := &rate.Sometimes{First: 1, Interval: errEvery}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return nil
		case <-ticker.C:
			p.tick(ctx, logger, errLog)
		}
	}
}

// Skipped reports how many ticks were dropped because a fetch was in flight.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}

func (p *Poller) tick(ctx context.Context, logger *slog.Logger, errLog *rate.Sometimes) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		logger.Debug("previous poll still in flight, skipping tick")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)

		messages, err := p.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			errLog.Do(func() {
				logger.Warn("error fetching messages", slog.Any("error", err))
			})
			return
		}

		if p.OnMessages != nil {
			p.OnMessages(messages)
		}
	}()
}
