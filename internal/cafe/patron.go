package cafe

import (
	"fmt"
	"time"

	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-errors"
)

// Range is an inclusive duration range written as Go duration strings.
type Range struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Parse returns the bounds. An empty range yields zeros.
func (r Range) Parse() (time.Duration, time.Duration, error) {
	if r.Min == "" && r.Max == "" {
		return 0, 0, nil
	}

	lo, err := time.ParseDuration(r.Min)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing min: %w", err)
	}
	hi, err := time.ParseDuration(r.Max)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing max: %w", err)
	}
	if lo < 0 || hi < lo {
		return 0, 0, fmt.Errorf("range %s..%s is invalid", r.Min, r.Max)
	}

	return lo, hi, nil
}

// Patron is a kind of customer. The spawner picks patrons with probability
// proportional to Weight.
type Patron struct {
	Name     string   `json:"name"`
	Weight   int      `json:"weight"`
	Patience Range    `json:"patience"`
	Dwell    Range    `json:"dwell"`
	Speed    float64  `json:"speed,omitempty"`
	Menu     []string `json:"menu"`
}

func (p *Patron) Validate() error {
	el := errors.NewErrorList()

	if p.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if p.Weight < 0 {
		el.Add(fmt.Errorf("weight must not be negative"))
	}
	if p.Speed < 0 {
		el.Add(fmt.Errorf("speed must not be negative"))
	}
	if lo, hi, err := p.Patience.Parse(); err != nil {
		el.Add(fmt.Errorf("patience: %w", err))
	} else if hi > 0 && (lo < customer.DefaultPatienceMin || hi > customer.DefaultPatienceMax) {
		el.Add(fmt.Errorf("patience: range %s..%s must lie within %s..%s",
			p.Patience.Min, p.Patience.Max, customer.DefaultPatienceMin, customer.DefaultPatienceMax))
	}
	if _, _, err := p.Dwell.Parse(); err != nil {
		el.Add(fmt.Errorf("dwell: %w", err))
	}
	for i, item := range p.Menu {
		if item == "" {
			el.Add(fmt.Errorf("menu item %d is empty", i))
		}
	}

	return el.Err()
}

// Profile converts the patron into visit tuning. Ranges left empty fall back
// to the customer defaults. A validated patron's patience stays within the
// default bounds, so it can only narrow the draw.
func (p *Patron) Profile(id string) customer.Profile {
	prof := customer.DefaultProfile()
	prof.Patron = id
	prof.Speed = p.Speed
	prof.Menu = append([]string(nil), p.Menu...)

	if lo, hi, err := p.Patience.Parse(); err == nil && hi > 0 {
		prof.PatienceMin, prof.PatienceMax = lo, hi
	}
	if lo, hi, err := p.Dwell.Parse(); err == nil && hi > 0 {
		prof.DwellMin, prof.DwellMax = lo, hi
	}

	return prof
}
