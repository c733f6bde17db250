package floor

import (
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-cafe/internal/seating"
	"github.com/pixil98/go-cafe/internal/spawn"
)

type FloorOpt func(*Floor)

// WithArea sets the walkable part of the floor.
func WithArea(area nav.Area) FloorOpt {
	return func(f *Floor) {
		f.area = area
	}
}

// WithSeed makes every random draw reproducible.
func WithSeed(seed uint64) FloorOpt {
	return func(f *Floor) {
		f.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

func WithSelector(s seating.Selector) FloorOpt {
	return func(f *Floor) {
		f.selector = s
	}
}

func WithSettle(d time.Duration) FloorOpt {
	return func(f *Floor) {
		f.settle = d
	}
}

// WithPrewarm builds n idle customers up front.
func WithPrewarm(n int) FloorOpt {
	return func(f *Floor) {
		f.prewarm = n
	}
}

func WithAutoSpawn(on bool) FloorOpt {
	return func(f *Floor) {
		f.autoSpawn = on
	}
}

func WithSpawnerOpts(opts ...spawn.SpawnerOpt) FloorOpt {
	return func(f *Floor) {
		f.spawnOpts = append(f.spawnOpts, opts...)
	}
}

// WithObserver receives every customer event after the floor's own stats.
func WithObserver(o customer.Observer) FloorOpt {
	return func(f *Floor) {
		f.observers = append(f.observers, o)
	}
}
