package solidify

import (
	"fmt"

	"github.com/philipparndt/gosolid/pkg/geometry"
)

// DefaultDepth is the fixed extrusion depth below the surface
const DefaultDepth = 5000.0

// Options configures a pipeline run
type Options struct {
	// Offset translates the extruded boundary. Used unless AutoDepth
	// produces a depth.
	Offset geometry.Vector3

	// Axis is measured by the extent scan and collapsed by the flattener
	Axis geometry.Axis

	// AutoDepth sizes the extrusion as -1.1 * span / 2 along Axis
	AutoDepth bool

	// Simplify enables the downward-face dissolve stage
	Simplify bool

	SimplifyOptions SimplifyOptions
}

// DefaultOptions extrudes 5000 units down Z without simplification
func DefaultOptions() Options {
	return Options{
		Offset:          geometry.NewVector3(0, 0, -DefaultDepth),
		Axis:            geometry.AxisZ,
		SimplifyOptions: DefaultSimplifyOptions(),
	}
}

// Validate checks that the options can drive a run
func (o Options) Validate() error {
	if !o.Axis.Valid() {
		return fmt.Errorf("invalid axis %d", int(o.Axis))
	}
	if o.Offset.IsZero() && !o.AutoDepth {
		return ErrZeroOffset
	}
	if o.SimplifyOptions.AngleLimit < 0 {
		return fmt.Errorf("angle limit must not be negative, got %v", o.SimplifyOptions.AngleLimit)
	}
	if o.SimplifyOptions.NormalThreshold < -1 || o.SimplifyOptions.NormalThreshold > 1 {
		return fmt.Errorf("normal threshold must be within [-1, 1], got %v", o.SimplifyOptions.NormalThreshold)
	}
	return nil
}

// OffsetFor returns the extrusion offset for a surface of the given span
func (o Options) OffsetFor(span float64) geometry.Vector3 {
	if o.AutoDepth && span > 0 {
		return o.Axis.Unit().Mul(-1.1 * span / 2)
	}
	return o.Offset
}
