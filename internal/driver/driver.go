// Package driver advances the simulation on a wall-clock ticker.
package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = 100 * time.Millisecond
	DefaultTimeScale  = 1.0
)

// Ticker is advanced once per tick by dt of simulated time.
type Ticker interface {
	Tick(ctx context.Context, dt time.Duration) error
}

// Stopper is implemented by tickers that need to clean up once the driver
// has run its last tick.
type Stopper interface {
	Stop()
}

type SimDriver struct {
	tickLength time.Duration
	timeScale  float64
	tickers    []Ticker
}

func NewSimDriver(tickers []Ticker, opts ...SimDriverOpt) *SimDriver {
	d := &SimDriver{
		tickLength: DefaultTickLength,
		timeScale:  DefaultTimeScale,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *SimDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

// Tick advances every ticker in order and stops at the first error.
func (d *SimDriver) Tick(ctx context.Context) error {
	dt := d.Step()
	for _, t := range d.tickers {
		err := t.Tick(ctx, dt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *SimDriver) stop() {
	for _, t := range d.tickers {
		if s, ok := t.(Stopper); ok {
			s.Stop()
		}
	}
}

// Step is the simulated time covered by one tick.
func (d *SimDriver) Step() time.Duration {
	return time.Duration(float64(d.tickLength) * d.timeScale)
}
