package sim

import (
	"context"
	"time"

	"github.com/san-kum/glyphrain/internal/rain"
)

// Frame describes one processed tick.
type Frame struct {
	Tick      uint64
	Time      time.Time
	Particles int
	Density   int
	State     rain.FaucetState
	Rendered  bool
}

// Observer is notified after every processed frame.
type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

// Metric accumulates a single value over processed frames.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Scheduler hands out frame callbacks. NextFrame blocks until the host is
// ready for another frame and returns its timestamp.
type Scheduler interface {
	NextFrame(ctx context.Context) (time.Time, error)
}

// Stats counts frame callbacks, including the throttled ones.
type Stats struct {
	Calls      uint64
	Processed  uint64
	Throttled  uint64
	Unrendered uint64
}

// Summary is the outcome of a bounded run.
type Summary struct {
	Seed      int64
	Ticks     uint64
	Particles int
	State     rain.FaucetState
	Metrics   map[string]float64
	Elapsed   time.Duration
}
