package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const minTickInterval = 10 * time.Millisecond

type Config struct {
	TickInterval string           `json:"tick_interval"`
	TimeScale    float64          `json:"time_scale,omitempty"`
	Floor        FloorConfig      `json:"floor"`
	Storage      StorageConfig    `json:"storage"`
	Nats         NatsConfig       `json:"nats"`
	Console      ConsoleConfig    `json:"console"`
	Listeners    []ListenerConfig `json:"listeners"`
	Http         HttpConfig       `json:"http"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < minTickInterval {
		el.Add(fmt.Errorf("tick_interval must be at least %s", minTickInterval))
	}

	if c.TimeScale < 0 {
		el.Add(fmt.Errorf("time_scale must not be negative"))
	}

	el.Add(c.Floor.Validate())
	el.Add(c.Storage.Validate())
	el.Add(c.Nats.Validate())
	el.Add(c.Console.Validate())

	for i, l := range c.Listeners {
		err := l.Validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Http.Validate())

	return el.Err()
}

func (c *Config) tickInterval() time.Duration {
	d, _ := time.ParseDuration(c.TickInterval)
	return d
}

// ConsoleConfig applies to every listener.
type ConsoleConfig struct {
	MaxSessions int `json:"max_sessions"`
}

func (c *ConsoleConfig) Validate() error {
	if c.MaxSessions < 0 {
		return fmt.Errorf("console: max_sessions must not be negative")
	}
	return nil
}
