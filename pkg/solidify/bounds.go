package solidify

import (
	"gonum.org/v1/gonum/floats"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// ComputeAxisExtent returns the smallest and largest vertex coordinate
// along axis. A mesh without vertices yields (0, 0).
func ComputeAxisExtent(m *mesh.Mesh, axis geometry.Axis) (min, max float64) {
	if m == nil || len(m.Vertices) == 0 {
		return 0, 0
	}
	coords := make([]float64, len(m.Vertices))
	for i, p := range m.Vertices {
		coords[i] = p.Component(axis)
	}
	return floats.Min(coords), floats.Max(coords)
}

// Span returns the extent between min and max, computed as max + (-1 * min)
func Span(min, max float64) float64 {
	return max + min*-1
}
