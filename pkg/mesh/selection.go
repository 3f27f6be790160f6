package mesh

import (
	"sort"

	"github.com/philipparndt/gosolid/pkg/geometry"
)

// Selection is a named subset of a mesh's vertices and faces. Operations
// take one as input and hand back the selection of what they produced.
type Selection struct {
	Name  string
	Verts []VertexID
	Faces []FaceID
}

// SelectAll selects every vertex and face of the mesh
func SelectAll(m *Mesh) Selection {
	sel := Selection{
		Name:  "all",
		Verts: make([]VertexID, len(m.Vertices)),
		Faces: make([]FaceID, len(m.Faces)),
	}
	for i := range sel.Verts {
		sel.Verts[i] = VertexID(i)
	}
	for i := range sel.Faces {
		sel.Faces[i] = FaceID(i)
	}
	return sel
}

// SelectFaces selects the faces matching keep, together with their vertices
func SelectFaces(m *Mesh, name string, keep func(id FaceID, f Face) bool) Selection {
	sel := Selection{Name: name}
	seen := make(map[VertexID]struct{})
	for i, f := range m.Faces {
		if !keep(FaceID(i), f) {
			continue
		}
		sel.Faces = append(sel.Faces, FaceID(i))
		for _, v := range f.Verts {
			seen[v] = struct{}{}
		}
	}
	sel.Verts = sortedVerts(seen)
	return sel
}

// Empty reports whether nothing is selected
func (s Selection) Empty() bool {
	return len(s.Verts) == 0 && len(s.Faces) == 0
}

// Covers reports whether every vertex of m is selected
func (s Selection) Covers(m *Mesh) bool {
	set := s.VertSet()
	for i := range m.Vertices {
		if _, ok := set[VertexID(i)]; !ok {
			return false
		}
	}
	return true
}

// VertSet returns the selected vertices as a set
func (s Selection) VertSet() map[VertexID]struct{} {
	set := make(map[VertexID]struct{}, len(s.Verts))
	for _, v := range s.Verts {
		set[v] = struct{}{}
	}
	return set
}

// FaceSet returns the selected faces as a set
func (s Selection) FaceSet() map[FaceID]struct{} {
	set := make(map[FaceID]struct{}, len(s.Faces))
	for _, f := range s.Faces {
		set[f] = struct{}{}
	}
	return set
}

// Pivot returns the median point (mean position) of the selected vertices
func (s Selection) Pivot(m *Mesh) geometry.Vector3 {
	if len(s.Verts) == 0 {
		return geometry.Vector3{}
	}
	var sum geometry.Vector3
	for _, v := range s.Verts {
		sum = sum.Add(m.Vertices[v])
	}
	return sum.Mul(1 / float64(len(s.Verts)))
}

func sortedVerts(set map[VertexID]struct{}) []VertexID {
	verts := make([]VertexID, 0, len(set))
	for v := range set {
		verts = append(verts, v)
	}
	sort.Slice(verts, func(i, j int) bool { return verts[i] < verts[j] })
	return verts
}
