package customer

import (
	"math/rand/v2"
	"time"
)

const (
	DefaultPatienceMin = 10 * time.Second
	DefaultPatienceMax = 15 * time.Second
	DefaultDwellMin    = 20 * time.Second
	DefaultDwellMax    = 30 * time.Second
	DefaultSettle      = 500 * time.Millisecond
)

// Profile holds the per-visit tuning a spawned customer is configured with.
type Profile struct {
	Patron      string
	PatienceMin time.Duration
	PatienceMax time.Duration
	DwellMin    time.Duration
	DwellMax    time.Duration
	Speed       float64
	Menu        []string
}

// DefaultProfile is used for visits that are never configured.
func DefaultProfile() Profile {
	return Profile{
		PatienceMin: DefaultPatienceMin,
		PatienceMax: DefaultPatienceMax,
		DwellMin:    DefaultDwellMin,
		DwellMax:    DefaultDwellMax,
	}
}

// between draws uniformly from [lo, hi]. A nil rng uses the global source.
func between(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	span := int64(hi-lo) + 1
	if rng == nil {
		return lo + time.Duration(rand.Int64N(span))
	}
	return lo + time.Duration(rng.Int64N(span))
}

func pick(rng *rand.Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	if rng == nil {
		return items[rand.IntN(len(items))]
	}
	return items[rng.IntN(len(items))]
}
