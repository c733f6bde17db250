package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-cafe/internal/cafe"
	"github.com/pixil98/go-cafe/internal/floor"
	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-cafe/internal/seating"
	"github.com/pixil98/go-cafe/internal/spawn"
	"github.com/pixil98/go-errors"
)

type FloorConfig struct {
	Seed          uint64      `json:"seed,omitempty"`
	SeatSelection string      `json:"seat_selection,omitempty"`
	AutoSpawn     *bool       `json:"auto_spawn,omitempty"`
	MaxCustomers  int         `json:"max_customers,omitempty"`
	SpawnInterval cafe.Range  `json:"spawn_interval,omitempty"`
	Prewarm       int         `json:"prewarm,omitempty"`
	Settle        string      `json:"settle,omitempty"`
	Walkable      []nav.Rect  `json:"walkable,omitempty"`
	Entrances     []nav.Point `json:"entrances,omitempty"`
}

func (c *FloorConfig) Validate() error {
	el := errors.NewErrorList()

	if _, err := seating.NewSelector(c.SeatSelection, nil); err != nil {
		el.Add(fmt.Errorf("floor: %w", err))
	}
	if c.MaxCustomers < 0 {
		el.Add(fmt.Errorf("floor: max_customers must not be negative"))
	}
	if c.Prewarm < 0 {
		el.Add(fmt.Errorf("floor: prewarm must not be negative"))
	}

	lo, hi, err := c.SpawnInterval.Parse()
	if err != nil {
		el.Add(fmt.Errorf("floor: spawn_interval: %w", err))
	} else if hi > 0 && lo <= 0 {
		el.Add(fmt.Errorf("floor: spawn_interval min must be positive"))
	}

	if c.Settle != "" {
		if _, err := time.ParseDuration(c.Settle); err != nil {
			el.Add(fmt.Errorf("floor: parsing settle: %w", err))
		}
	}

	area := nav.Area(c.Walkable)
	for i, r := range c.Walkable {
		if r.Max.X < r.Min.X || r.Max.Y < r.Min.Y {
			el.Add(fmt.Errorf("floor: walkable %d is inverted", i))
		}
	}
	for i, p := range c.Entrances {
		if !area.Contains(p) {
			el.Add(fmt.Errorf("floor: entrance %d at %s is not walkable", i, p))
		}
	}

	return el.Err()
}

func (c *FloorConfig) floorOpts() ([]floor.FloorOpt, error) {
	sel, err := seating.NewSelector(c.SeatSelection, nil)
	if err != nil {
		return nil, err
	}

	opts := []floor.FloorOpt{
		floor.WithArea(nav.Area(c.Walkable)),
		floor.WithSelector(sel),
		floor.WithPrewarm(c.Prewarm),
	}
	if c.Seed != 0 {
		opts = append(opts, floor.WithSeed(c.Seed))
	}
	if c.AutoSpawn != nil {
		opts = append(opts, floor.WithAutoSpawn(*c.AutoSpawn))
	}
	if c.Settle != "" {
		d, err := time.ParseDuration(c.Settle)
		if err != nil {
			return nil, fmt.Errorf("parsing settle: %w", err)
		}
		opts = append(opts, floor.WithSettle(d))
	}

	var spawnOpts []spawn.SpawnerOpt
	if len(c.Entrances) > 0 {
		spawnOpts = append(spawnOpts, spawn.WithEntrances(c.Entrances...))
	}
	if c.MaxCustomers > 0 {
		spawnOpts = append(spawnOpts, spawn.WithMaxCustomers(c.MaxCustomers))
	}
	lo, hi, err := c.SpawnInterval.Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing spawn_interval: %w", err)
	}
	if hi > 0 {
		spawnOpts = append(spawnOpts, spawn.WithInterval(lo, hi))
	}

	return append(opts, floor.WithSpawnerOpts(spawnOpts...)), nil
}
