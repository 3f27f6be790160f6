package mesh

import (
	"github.com/unixpickle/model3d/model3d"

	"github.com/philipparndt/gosolid/pkg/geometry"
)

// FromTriangles welds a triangle soup into an indexed mesh. Corners with
// identical positions share one vertex. Facets that collapse to fewer than
// three distinct vertices are dropped.
func FromTriangles(name string, tris []geometry.Triangle) *Mesh {
	m := New(name)
	index := make(map[geometry.Vector3]VertexID, len(tris))

	weld := func(p geometry.Vector3) VertexID {
		if id, ok := index[p]; ok {
			return id
		}
		id := m.AddVertex(p)
		index[p] = id
		return id
	}

	for _, tri := range tris {
		a, b, c := weld(tri.V1), weld(tri.V2), weld(tri.V3)
		if a == b || b == c || a == c {
			continue
		}
		// distinct ids cannot fail the face checks
		_, _ = m.AddFace(a, b, c)
	}
	return m
}

// Triangles returns every face split into triangles, winding preserved.
// Polygons are triangulated by model3d.
func (m *Mesh) Triangles() []geometry.Triangle {
	tris := make([]geometry.Triangle, 0, len(m.Faces))
	for i, face := range m.Faces {
		points := m.Polygon(FaceID(i))
		if len(points) == 3 {
			tris = append(tris, facet(face.Normal, points[0], points[1], points[2]))
			continue
		}
		tris = append(tris, triangulateFace(points, face.Normal)...)
	}
	return tris
}

// triangulateFace splits a polygon with model3d.TriangulateFace. When
// model3d cannot split the polygon into len(points)-2 triangles over the
// polygon's own corners, the face is ear clipped on its plane instead.
func triangulateFace(points []geometry.Vector3, normal geometry.Vector3) []geometry.Triangle {
	if tris, ok := model3dTriangles(points, normal); ok {
		return tris
	}
	var tris []geometry.Triangle
	for _, t := range geometry.TriangulatePolygon(points, normal) {
		tris = append(tris, facet(normal, points[t[0]], points[t[1]], points[t[2]]))
	}
	return tris
}

func model3dTriangles(points []geometry.Vector3, normal geometry.Vector3) (tris []geometry.Triangle, ok bool) {
	defer func() {
		if recover() != nil {
			tris, ok = nil, false
		}
	}()

	corners := make(map[geometry.Vector3]struct{}, len(points))
	coords := make([]model3d.Coord3D, len(points))
	for i, p := range points {
		corners[p] = struct{}{}
		coords[i] = model3d.Coord3D{X: p.X, Y: p.Y, Z: p.Z}
	}

	split := model3d.TriangulateFace(coords)
	if len(split) != len(points)-2 {
		return nil, false
	}
	for _, t := range split {
		var v [3]geometry.Vector3
		for k, c := range t {
			v[k] = geometry.NewVector3(c.X, c.Y, c.Z)
			if _, ok := corners[v[k]]; !ok {
				return nil, false
			}
		}
		tri := facet(normal, v[0], v[1], v[2])
		if tri.Normal.Dot(normal) < 0 {
			tri = facet(normal, v[0], v[2], v[1])
		}
		tris = append(tris, tri)
	}
	return tris, true
}

func facet(faceNormal, v1, v2, v3 geometry.Vector3) geometry.Triangle {
	tri := geometry.TriangleFromPoints(v1, v2, v3)
	if tri.Normal.IsZero() {
		tri.Normal = faceNormal
	}
	return tri
}

// SignedVolume returns the volume enclosed by the faces, positive when
// they are wound outward. Only meaningful for closed meshes.
func (m *Mesh) SignedVolume() float64 {
	volume := 0.0
	for _, tri := range m.Triangles() {
		volume += tri.V1.Dot(tri.V2.Cross(tri.V3))
	}
	return volume / 6
}

// Flip reverses the winding of every face
func (m *Mesh) Flip() {
	for i := range m.Faces {
		verts := m.Faces[i].Verts
		for a, b := 0, len(verts)-1; a < b; a, b = a+1, b-1 {
			verts[a], verts[b] = verts[b], verts[a]
		}
		m.Faces[i].Normal = m.Faces[i].Normal.Mul(-1)
	}
}
