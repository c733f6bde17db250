package driver

import "time"

type SimDriverOpt func(*SimDriver)

func WithTickLength(tickLength time.Duration) SimDriverOpt {
	return func(d *SimDriver) {
		d.tickLength = tickLength
	}
}

// WithTimeScale runs simulated time faster (>1) or slower (<1) than the wall
// clock.
func WithTimeScale(scale float64) SimDriverOpt {
	return func(d *SimDriver) {
		d.timeScale = scale
	}
}
