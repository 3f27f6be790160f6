// Package mesh holds an indexed polygon mesh and the topology queries the
// solidify operations are built on.
package mesh

import (
	"fmt"

	"github.com/philipparndt/gosolid/pkg/geometry"
)

// VertexID indexes Mesh.Vertices
type VertexID int

// FaceID indexes Mesh.Faces
type FaceID int

// Face is a polygon over mesh vertices. Normal is the outward unit normal
// derived from the vertex positions and winding.
type Face struct {
	Verts  []VertexID
	Normal geometry.Vector3
}

// Mesh is an indexed polygon mesh. Every face references vertices of the
// same mesh and at least three distinct ones.
type Mesh struct {
	Name     string
	Vertices []geometry.Vector3
	Faces    []Face
}

// New creates an empty mesh
func New(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]geometry.Vector3, 0),
		Faces:    make([]Face, 0),
	}
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// AddVertex appends a vertex and returns its id
func (m *Mesh) AddVertex(p geometry.Vector3) VertexID {
	m.Vertices = append(m.Vertices, p)
	return VertexID(len(m.Vertices) - 1)
}

// AddFace appends a face and computes its normal
func (m *Mesh) AddFace(verts ...VertexID) (FaceID, error) {
	if err := m.checkFace(verts); err != nil {
		return -1, err
	}
	face := Face{Verts: append([]VertexID(nil), verts...)}
	face.Normal = m.polygonNormal(face.Verts)
	m.Faces = append(m.Faces, face)
	return FaceID(len(m.Faces) - 1), nil
}

// Position returns the position of a vertex
func (m *Mesh) Position(id VertexID) geometry.Vector3 {
	return m.Vertices[id]
}

// Polygon returns the positions of a face's vertices in winding order
func (m *Mesh) Polygon(id FaceID) []geometry.Vector3 {
	verts := m.Faces[id].Verts
	points := make([]geometry.Vector3, len(verts))
	for i, v := range verts {
		points[i] = m.Vertices[v]
	}
	return points
}

// UpdateNormal recomputes the normal of one face
func (m *Mesh) UpdateNormal(id FaceID) {
	m.Faces[id].Normal = m.polygonNormal(m.Faces[id].Verts)
}

// RecomputeNormals recomputes every face normal
func (m *Mesh) RecomputeNormals() {
	for i := range m.Faces {
		m.UpdateNormal(FaceID(i))
	}
}

func (m *Mesh) polygonNormal(verts []VertexID) geometry.Vector3 {
	points := make([]geometry.Vector3, len(verts))
	for i, v := range verts {
		points[i] = m.Vertices[v]
	}
	return geometry.NewellNormal(points)
}

func (m *Mesh) checkFace(verts []VertexID) error {
	distinct := make(map[VertexID]struct{}, len(verts))
	for _, v := range verts {
		if v < 0 || int(v) >= len(m.Vertices) {
			return fmt.Errorf("vertex %d out of range (mesh has %d vertices)", v, len(m.Vertices))
		}
		distinct[v] = struct{}{}
	}
	if len(distinct) < 3 {
		return fmt.Errorf("face needs at least 3 distinct vertices, got %d", len(distinct))
	}
	return nil
}

// Validate checks the mesh invariants: every face references vertices of
// this mesh and at least three distinct ones
func (m *Mesh) Validate() error {
	for i, face := range m.Faces {
		if err := m.checkFace(face.Verts); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Name:     m.Name,
		Vertices: append([]geometry.Vector3(nil), m.Vertices...),
		Faces:    make([]Face, len(m.Faces)),
	}
	for i, f := range m.Faces {
		c.Faces[i] = Face{Verts: append([]VertexID(nil), f.Verts...), Normal: f.Normal}
	}
	return c
}

// Compact removes vertices no face references and renumbers the rest.
// It returns the number of vertices removed.
func (m *Mesh) Compact() int {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for _, v := range f.Verts {
			used[v] = true
		}
	}

	remap := make([]VertexID, len(m.Vertices))
	kept := m.Vertices[:0]
	for i, p := range m.Vertices {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = VertexID(len(kept))
		kept = append(kept, p)
	}
	removed := len(m.Vertices) - len(kept)
	m.Vertices = kept

	for i := range m.Faces {
		for j, v := range m.Faces[i].Verts {
			m.Faces[i].Verts[j] = remap[v]
		}
	}
	return removed
}

// BoundingBox calculates the bounding box of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, p := range m.Vertices {
		bbox.Extend(p)
	}
	return bbox
}

// SurfaceArea calculates the total area of all faces
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, tri := range m.Triangles() {
		total += tri.Area()
	}
	return total
}
