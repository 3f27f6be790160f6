package solidify

import (
	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// Flatten scales the selected vertices by zero along axis around the
// selection's median point, so they all land on the plane through the
// pivot. Normals of the touched faces are recomputed. The pivot is
// returned; an empty selection changes nothing.
func Flatten(m *mesh.Mesh, sel mesh.Selection, axis geometry.Axis) geometry.Vector3 {
	if len(sel.Verts) == 0 {
		return geometry.Vector3{}
	}

	pivot := sel.Pivot(m)
	level := pivot.Component(axis)
	if flat, ok := commonLevel(m, sel, axis); ok {
		// already planar, the mean can drift in the last bit
		level = flat
	}
	// the other two axes scale by one, so only the flattened coordinate is
	// written and the rest stay bit-identical
	for _, v := range sel.Verts {
		m.Vertices[v] = m.Vertices[v].WithComponent(axis, level)
	}

	moved := sel.VertSet()
	for i, f := range m.Faces {
		for _, v := range f.Verts {
			if _, ok := moved[v]; ok {
				m.UpdateNormal(mesh.FaceID(i))
				break
			}
		}
	}
	return pivot.WithComponent(axis, level)
}

func commonLevel(m *mesh.Mesh, sel mesh.Selection, axis geometry.Axis) (float64, bool) {
	level := m.Vertices[sel.Verts[0]].Component(axis)
	for _, v := range sel.Verts[1:] {
		if m.Vertices[v].Component(axis) != level {
			return 0, false
		}
	}
	return level, true
}
