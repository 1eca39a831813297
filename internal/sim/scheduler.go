package sim

import (
	"context"
	"time"
)

// DisplayRate is the host refresh cadence the ticker scheduler emulates.
const DisplayRate = time.Second / 60

// TickerScheduler emits frames at a fixed display rate.
type TickerScheduler struct {
	ticker *time.Ticker
}

func NewTickerScheduler(rate time.Duration) *TickerScheduler {
	if rate <= 0 {
		rate = DisplayRate
	}
	return &TickerScheduler{ticker: time.NewTicker(rate)}
}

func (s *TickerScheduler) NextFrame(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case t := <-s.ticker.C:
		return t, nil
	}
}

func (s *TickerScheduler) Stop() { s.ticker.Stop() }

// ManualScheduler delivers frames pushed by the caller.
type ManualScheduler struct {
	frames chan time.Time
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{frames: make(chan time.Time)}
}

// Fire blocks until the running driver accepts the frame.
func (s *ManualScheduler) Fire(t time.Time) { s.frames <- t }

func (s *ManualScheduler) NextFrame(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case t := <-s.frames:
		return t, nil
	}
}
