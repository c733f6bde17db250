package nav

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrUnreachable = errors.New("target is not on a navigable surface")

// Point is a position on the café floor.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Dist returns the straight-line distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect is an axis-aligned walkable region, inclusive of its edges.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Area is the union of walkable rectangles. An empty Area treats every point
// as walkable.
type Area []Rect

func (a Area) Contains(p Point) bool {
	if len(a) == 0 {
		return true
	}
	for _, r := range a {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// Status is the polled outcome of a navigation request.
type Status int

const (
	StatusIdle Status = iota
	StatusMoving
	StatusArrived
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusMoving:
		return "moving"
	case StatusArrived:
		return "arrived"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Navigator moves a single body toward a target over successive Step calls.
type Navigator interface {
	NavigateTo(target Point) error
	Status() Status
	Step(dt time.Duration)
	Stop()
	WarpTo(p Point)
	Position() Point
	OnNavigableSurface() bool
}
