package geometry

import (
	"fmt"
	"strings"
)

// Axis selects one of the three coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis converts "x", "y" or "z" (any case) into an Axis
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisZ, fmt.Errorf("invalid axis: %q (must be x, y or z)", s)
}

// Unit returns the positive unit vector along the axis
func (a Axis) Unit() Vector3 {
	return Vector3{}.WithComponent(a, 1)
}

// String returns the lower-case axis name
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Valid reports whether a names one of the three axes
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// dominantAxis returns the axis along which n has the largest magnitude
func dominantAxis(n Vector3) Axis {
	ax, ay, az := abs(n.X), abs(n.Y), abs(n.Z)
	if ax >= ay && ax >= az {
		return AxisX
	}
	if ay >= az {
		return AxisY
	}
	return AxisZ
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
