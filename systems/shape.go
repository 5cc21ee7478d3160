package systems

import (
	"math"

	"github.com/pthm-cable/circuit/config"
)

// Shape identifies the active visual mode.
type Shape uint8

const (
	Hexagon Shape = iota // free six-direction traces from the centre
	Chip                 // four-direction traces leaving a square outline
)

// ParseShape maps a shape name to a Shape. ok is false for unknown names.
func ParseShape(name string) (s Shape, ok bool) {
	switch name {
	case config.ShapeHexagon:
		return Hexagon, true
	case config.ShapeChip:
		return Chip, true
	}
	return Hexagon, false
}

// String returns the config name of the shape.
func (s Shape) String() string {
	if s == Chip {
		return config.ShapeChip
	}
	return config.ShapeHexagon
}

// BaseAngle is the angle between adjacent canonical headings.
func (s Shape) BaseAngle() float64 {
	if s == Chip {
		return math.Pi / 2
	}
	return math.Pi / 3
}

// Directions is the number of canonical headings.
func (s Shape) Directions() int {
	if s == Chip {
		return 4
	}
	return 6
}
