// Package solidcheck verifies that a mesh encloses a solid before it is
// written out.
package solidcheck

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// Report summarises a check
type Report struct {
	// Closed is true when every polygon edge borders exactly two faces
	Closed bool

	// Watertight is true when the triangulated mesh needs no repair
	Watertight bool

	BoundaryEdges int
	Triangles     int
	Volume        float64
	Min, Max      geometry.Vector3
}

// OK reports whether the mesh passed both checks
func (r Report) OK() bool {
	return r.Closed && r.Watertight
}

func (r Report) String() string {
	return fmt.Sprintf("closed=%t watertight=%t boundary_edges=%d triangles=%d volume=%.6f",
		r.Closed, r.Watertight, r.BoundaryEdges, r.Triangles, r.Volume)
}

// Check inspects the polygon topology of m and, after triangulation,
// lets model3d confirm that every triangle edge is shared by exactly two
// triangles
func Check(m *mesh.Mesh) Report {
	tris := m.Triangles()
	report := Report{
		Closed:        m.IsClosed(),
		BoundaryEdges: len(m.BoundaryEdges(nil)),
		Triangles:     len(tris),
		Volume:        m.SignedVolume(),
	}
	if len(tris) == 0 {
		return report
	}

	solid := ToModel3D(tris)
	report.Watertight = !solid.NeedsRepair()
	report.Min = fromCoord(solid.Min())
	report.Max = fromCoord(solid.Max())
	return report
}

// ToModel3D converts triangles into a model3d mesh
func ToModel3D(tris []geometry.Triangle) *model3d.Mesh {
	converted := make([]*model3d.Triangle, len(tris))
	for i, t := range tris {
		converted[i] = &model3d.Triangle{toCoord(t.V1), toCoord(t.V2), toCoord(t.V3)}
	}
	return model3d.NewMeshTriangles(converted)
}

func toCoord(v geometry.Vector3) model3d.Coord3D {
	return model3d.Coord3D{X: v.X, Y: v.Y, Z: v.Z}
}

func fromCoord(c model3d.Coord3D) geometry.Vector3 {
	return geometry.NewVector3(c.X, c.Y, c.Z)
}
