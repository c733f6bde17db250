package nav

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

var floor = Area{{Min: Point{X: 0, Y: 0}, Max: Point{X: 10, Y: 10}}}

func TestAgent_NavigateTo(t *testing.T) {
	tests := map[string]struct {
		area      Area
		start     Point
		target    Point
		steps     int
		expErr    bool
		expStatus Status
		expPos    Point
	}{
		"arrives after enough steps": {
			area:      floor,
			start:     Point{X: 0, Y: 0},
			target:    Point{X: 4, Y: 0},
			steps:     2,
			expStatus: StatusArrived,
			expPos:    Point{X: 4, Y: 0},
		},
		"still moving mid route": {
			area:      floor,
			start:     Point{X: 0, Y: 0},
			target:    Point{X: 4, Y: 0},
			steps:     1,
			expStatus: StatusMoving,
			expPos:    Point{X: 2, Y: 0},
		},
		"target off area": {
			area:      floor,
			start:     Point{X: 0, Y: 0},
			target:    Point{X: 20, Y: 0},
			expErr:    true,
			expStatus: StatusFailed,
			expPos:    Point{X: 0, Y: 0},
		},
		"agent off area fails on step": {
			area:      floor,
			start:     Point{X: -5, Y: 0},
			target:    Point{X: 4, Y: 0},
			steps:     1,
			expStatus: StatusFailed,
			expPos:    Point{X: -5, Y: 0},
		},
		"empty area is walkable everywhere": {
			area:      nil,
			start:     Point{X: 100, Y: 100},
			target:    Point{X: 100, Y: 101},
			steps:     1,
			expStatus: StatusArrived,
			expPos:    Point{X: 100, Y: 101},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a := NewAgent(tt.area, WithSpeed(2))
			a.WarpTo(tt.start)

			err := a.NavigateTo(tt.target)
			testutil.AssertEqual(t, "error", err != nil, tt.expErr)

			for range tt.steps {
				a.Step(time.Second)
			}

			testutil.AssertEqual(t, "status", a.Status(), tt.expStatus)
			testutil.AssertEqual(t, "position", a.Position(), tt.expPos)
		})
	}
}

func TestAgent_WarpClearsMove(t *testing.T) {
	a := NewAgent(floor)
	_ = a.NavigateTo(Point{X: 5, Y: 5})
	a.WarpTo(Point{X: 1, Y: 1})

	testutil.AssertEqual(t, "status", a.Status(), StatusIdle)
	a.Step(time.Second)
	testutil.AssertEqual(t, "position", a.Position(), Point{X: 1, Y: 1})
}
