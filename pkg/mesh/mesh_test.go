package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gosolid/internal/fixture"
	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

func TestAddFaceRejectsInvalidFaces(t *testing.T) {
	m := mesh.New("bad")
	a := m.AddVertex(geometry.NewVector3(0, 0, 0))
	b := m.AddVertex(geometry.NewVector3(1, 0, 0))

	_, err := m.AddFace(a, b, a)
	assert.Error(t, err, "two distinct vertices")

	_, err = m.AddFace(a, b, 7)
	assert.Error(t, err, "out of range vertex")

	assert.Equal(t, 0, m.FaceCount())
}

func TestAddFaceComputesNormal(t *testing.T) {
	m := fixture.Square(1, 0)
	require.Equal(t, 1, m.FaceCount())
	assert.Equal(t, geometry.NewVector3(0, 0, 1), m.Faces[0].Normal)
}

func TestValidate(t *testing.T) {
	m := fixture.Square(1, 0)
	require.NoError(t, m.Validate())

	m.Faces[0].Verts[1] = 42
	assert.Error(t, m.Validate())
}

func TestCompact(t *testing.T) {
	m := fixture.Square(1, 0)
	stray := m.AddVertex(geometry.NewVector3(9, 9, 9))
	require.Equal(t, mesh.VertexID(4), stray)

	// move the stray vertex to the front so ids shift
	m.Vertices = append([]geometry.Vector3{m.Vertices[4]}, m.Vertices[:4]...)
	for i, v := range m.Faces[0].Verts {
		m.Faces[0].Verts[i] = v + 1
	}

	removed := m.Compact()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, []mesh.VertexID{0, 1, 2, 3}, m.Faces[0].Verts)
	assert.Equal(t, geometry.NewVector3(0, 0, 0), m.Vertices[0])
}

func TestClone(t *testing.T) {
	m := fixture.Square(1, 0)
	c := m.Clone()
	c.Vertices[0] = geometry.NewVector3(5, 5, 5)
	c.Faces[0].Verts[0] = 3

	assert.Equal(t, geometry.NewVector3(0, 0, 0), m.Vertices[0])
	assert.Equal(t, mesh.VertexID(0), m.Faces[0].Verts[0])
}

func TestFromTrianglesWelds(t *testing.T) {
	p := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0),
		geometry.NewVector3(0, 1, 0),
	}
	tris := []geometry.Triangle{
		geometry.TriangleFromPoints(p[0], p[1], p[2]),
		geometry.TriangleFromPoints(p[0], p[2], p[3]),
		geometry.TriangleFromPoints(p[0], p[0], p[3]),
	}

	m := mesh.FromTriangles("welded", tris)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount(), "degenerate facet dropped")
	assert.Len(t, m.BoundaryEdges(nil), 4)
}

func TestTrianglesSplitsPolygons(t *testing.T) {
	m := fixture.Square(2, 0)
	tris := m.Triangles()

	require.Len(t, tris, 2)
	for _, tri := range tris {
		assert.Equal(t, geometry.NewVector3(0, 0, 1), tri.Normal)
	}
	assert.InDelta(t, 4.0, m.SurfaceArea(), 1e-10)
}

func TestTrianglesSplitsConcavePolygon(t *testing.T) {
	tests := []struct {
		name string
		flip bool
		want geometry.Vector3
	}{
		{"up", false, geometry.NewVector3(0, 0, 1)},
		{"down", true, geometry.NewVector3(0, 0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// L shape with a collinear corner on its long side
			m := mesh.New("ell")
			var ids []mesh.VertexID
			for _, p := range [][2]float64{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}} {
				ids = append(ids, m.AddVertex(geometry.NewVector3(p[0], p[1], 0)))
			}
			_, err := m.AddFace(ids...)
			require.NoError(t, err)
			if tt.flip {
				m.Flip()
			}

			tris := m.Triangles()
			require.Len(t, tris, 5)
			area := 0.0
			for _, tri := range tris {
				area += tri.Area()
				if tri.Area() > 1e-12 {
					assert.Equal(t, tt.want, tri.Normal)
				}
				for _, v := range tri.Vertices() {
					assert.Contains(t, m.Vertices, v)
				}
			}
			assert.InDelta(t, 3.0, area, 1e-10)
		})
	}
}

func TestBoundaryLoops(t *testing.T) {
	m := fixture.Square(1, 0)
	edges := m.BoundaryEdges(nil)
	require.Len(t, edges, 4)

	loops := mesh.BoundaryLoops(edges)
	require.Len(t, loops, 1)
	assert.Equal(t, []mesh.VertexID{0, 1, 2, 3}, loops[0])
}

func TestBoundaryLoopsAnnulus(t *testing.T) {
	m := fixture.Annulus(4, 2)
	loops := mesh.BoundaryLoops(m.BoundaryEdges(nil))

	require.Len(t, loops, 2)
	assert.Len(t, loops[0], 4)
	assert.Len(t, loops[1], 4)
}

func TestIsClosed(t *testing.T) {
	assert.False(t, fixture.Square(1, 0).IsClosed())
	assert.True(t, fixture.Tetrahedron().IsClosed())
	assert.False(t, mesh.New("empty").IsClosed())
}

func TestGridInteriorEdgesAreShared(t *testing.T) {
	m := fixture.Grid(3, 3, nil)
	assert.Equal(t, 16, m.VertexCount())
	assert.Equal(t, 18, m.FaceCount())
	assert.Len(t, m.BoundaryEdges(nil), 12)
}

func TestSelection(t *testing.T) {
	m := fixture.Square(2, 1)
	all := mesh.SelectAll(m)

	assert.True(t, all.Covers(m))
	assert.False(t, all.Empty())
	assert.Equal(t, geometry.NewVector3(1, 1, 1), all.Pivot(m))

	partial := mesh.Selection{Name: "partial", Verts: []mesh.VertexID{0, 1}}
	assert.False(t, partial.Covers(m))

	none := mesh.SelectFaces(m, "none", func(mesh.FaceID, mesh.Face) bool { return false })
	assert.True(t, none.Empty())
	assert.Equal(t, geometry.Vector3{}, none.Pivot(m))
}

func TestSceneTarget(t *testing.T) {
	var scene mesh.Scene
	_, ok := scene.Target()
	assert.False(t, ok)

	scene.Add(fixture.Square(1, 0))
	scene.Add(fixture.Tetrahedron())
	target, ok := scene.Target()
	require.True(t, ok)
	assert.Equal(t, "square", target.Name)

	v, f := scene.Counts()
	assert.Equal(t, 8, v)
	assert.Equal(t, 5, f)
}
