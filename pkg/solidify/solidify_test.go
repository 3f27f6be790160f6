package solidify_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gosolid/internal/fixture"
	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
	"github.com/philipparndt/gosolid/pkg/solidify"
)

var down = geometry.NewVector3(0, 0, -5000)

func TestComputeAxisExtent(t *testing.T) {
	m := fixture.Grid(2, 4, func(x, y float64) float64 { return x - 1 })

	min, max := solidify.ComputeAxisExtent(m, geometry.AxisZ)
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 3.0, max)
	assert.Equal(t, 4.0, solidify.Span(min, max))

	min, max = solidify.ComputeAxisExtent(m, geometry.AxisY)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 4.0, max)
}

func TestComputeAxisExtentEmpty(t *testing.T) {
	min, max := solidify.ComputeAxisExtent(mesh.New("empty"), geometry.AxisZ)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 0.0, max)
	assert.Equal(t, 0.0, solidify.Span(min, max))

	min, max = solidify.ComputeAxisExtent(nil, geometry.AxisZ)
	assert.Equal(t, 0.0, min+max)
}

func TestSpanNegativeRange(t *testing.T) {
	assert.Equal(t, 3.0, solidify.Span(-5, -2))
}

func TestExtrudeSquareMakesBox(t *testing.T) {
	m := fixture.Square(1, 0)

	created, err := solidify.Extrude(m, mesh.SelectAll(m), down)
	require.NoError(t, err)

	assert.Equal(t, "extruded", created.Name)
	assert.Len(t, created.Verts, 4)
	assert.Len(t, created.Faces, 1)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 6, m.FaceCount())
	assert.True(t, m.IsClosed())
	assert.InDelta(t, 5000.0, m.SignedVolume(), 1e-6)

	for _, v := range created.Verts {
		assert.Equal(t, -5000.0, m.Vertices[v].Z)
	}
	capNormal := m.Faces[created.Faces[0]].Normal
	assert.Equal(t, geometry.NewVector3(0, 0, -1), capNormal)
}

func TestExtrudeKeepsOriginalFaces(t *testing.T) {
	m := fixture.Grid(3, 3, func(x, y float64) float64 { return x * y / 9 })
	before := m.Clone()

	_, err := solidify.Extrude(m, mesh.SelectAll(m), down)
	require.NoError(t, err)

	if diff := cmp.Diff(before.Vertices, m.Vertices[:len(before.Vertices)]); diff != "" {
		t.Errorf("original vertices moved (-want +got):\n%s", diff)
	}
	assert.Equal(t, 16+12, m.VertexCount(), "one copy per boundary vertex")
	assert.Equal(t, 18+12+1, m.FaceCount())
	assert.True(t, m.IsClosed())
}

func TestExtrudeAnnulusCapsHole(t *testing.T) {
	m := fixture.Annulus(4, 2)

	created, err := solidify.Extrude(m, mesh.SelectAll(m), down)
	require.NoError(t, err)

	assert.Len(t, created.Verts, 8)
	assert.True(t, m.IsClosed())
	assert.InDelta(t, 12*5000.0, m.SignedVolume(), 1e-6)
}

func TestExtrudeFlipsInsideOutShell(t *testing.T) {
	m := mesh.New("clockwise")
	a := m.AddVertex(geometry.NewVector3(0, 0, 0))
	b := m.AddVertex(geometry.NewVector3(0, 1, 0))
	c := m.AddVertex(geometry.NewVector3(1, 1, 0))
	d := m.AddVertex(geometry.NewVector3(1, 0, 0))
	_, err := m.AddFace(a, b, c, d)
	require.NoError(t, err)

	_, err = solidify.Extrude(m, mesh.SelectAll(m), down)
	require.NoError(t, err)
	assert.Greater(t, m.SignedVolume(), 0.0)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), m.Faces[0].Normal)
}

func TestExtrudeErrors(t *testing.T) {
	t.Run("zero offset", func(t *testing.T) {
		m := fixture.Square(1, 0)
		_, err := solidify.Extrude(m, mesh.SelectAll(m), geometry.Vector3{})
		assert.True(t, errors.Is(err, solidify.ErrZeroOffset))
		assert.Equal(t, 1, m.FaceCount())
	})

	t.Run("partial selection", func(t *testing.T) {
		m := fixture.Grid(2, 2, nil)
		sel := mesh.SelectFaces(m, "one", func(id mesh.FaceID, _ mesh.Face) bool { return id == 0 })
		_, err := solidify.Extrude(m, sel, down)
		assert.True(t, errors.Is(err, solidify.ErrPartialSelection))
	})

	t.Run("closed mesh", func(t *testing.T) {
		m := fixture.Tetrahedron()
		_, err := solidify.Extrude(m, mesh.SelectAll(m), down)
		assert.True(t, errors.Is(err, solidify.ErrNothingToExtrude))
		assert.Equal(t, 4, m.VertexCount())
	})

	t.Run("no faces", func(t *testing.T) {
		m := mesh.New("points")
		m.AddVertex(geometry.NewVector3(0, 0, 0))
		_, err := solidify.Extrude(m, mesh.SelectAll(m), down)
		assert.True(t, errors.Is(err, solidify.ErrNothingToExtrude))
	})
}

func TestFlatten(t *testing.T) {
	m := fixture.Grid(2, 2, func(x, y float64) float64 { return x })
	sel := mesh.SelectAll(m)

	pivot := solidify.Flatten(m, sel, geometry.AxisZ)
	assert.InDelta(t, 1.0, pivot.Z, 1e-12)
	assert.InDelta(t, 1.0, pivot.X, 1e-12)

	for i, p := range m.Vertices {
		assert.Equal(t, pivot.Z, p.Z, "vertex %d", i)
	}
	for _, f := range m.Faces {
		assert.InDelta(t, 1.0, f.Normal.Z, 1e-12)
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	m := fixture.Grid(3, 1, func(x, y float64) float64 { return math.Sin(x) + y/3 })
	sel := mesh.SelectAll(m)

	first := solidify.Flatten(m, sel, geometry.AxisZ)
	snapshot := append([]geometry.Vector3(nil), m.Vertices...)
	second := solidify.Flatten(m, sel, geometry.AxisZ)

	assert.Equal(t, first.Z, second.Z)
	if diff := cmp.Diff(snapshot, m.Vertices); diff != "" {
		t.Errorf("second flatten moved vertices (-first +second):\n%s", diff)
	}
}

func TestFlattenOnlyTouchesSelection(t *testing.T) {
	m := fixture.Square(1, 0)
	created, err := solidify.Extrude(m, mesh.SelectAll(m), geometry.NewVector3(0, 0, -10))
	require.NoError(t, err)
	m.Vertices[created.Verts[0]].Z = -12

	solidify.Flatten(m, created, geometry.AxisZ)
	for _, v := range created.Verts {
		assert.Equal(t, -10.5, m.Vertices[v].Z)
	}
	for v := 0; v < 4; v++ {
		assert.Equal(t, 0.0, m.Vertices[v].Z)
	}
}

func TestFlattenEmptySelection(t *testing.T) {
	m := fixture.Square(1, 3)
	assert.Equal(t, geometry.Vector3{}, solidify.Flatten(m, mesh.Selection{}, geometry.AxisZ))
	assert.Equal(t, 3.0, m.Vertices[0].Z)
}

func TestIsDownward(t *testing.T) {
	assert.True(t, solidify.IsDownward(geometry.NewVector3(0, 0, -1), 0.5))
	assert.True(t, solidify.IsDownward(geometry.NewVector3(0, 0.7, -0.71), 0.5))
	assert.False(t, solidify.IsDownward(geometry.NewVector3(0, 0.87, -0.5), 0.5))
	assert.False(t, solidify.IsDownward(geometry.NewVector3(0, 0, 1), 0.5))
}

func TestSimplifyWithoutDownwardFacesIsNoop(t *testing.T) {
	m := fixture.Grid(2, 2, nil)
	before := m.Clone()

	stats, err := solidify.SimplifyDownwardFaces(m, solidify.DefaultSimplifyOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Selected)
	assert.Equal(t, stats.FacesBefore, stats.FacesAfter)
	assert.Equal(t, before, m)
}

func TestSimplifyMergesDownwardGrid(t *testing.T) {
	m := fixture.Grid(2, 2, nil)
	m.Flip()

	stats, err := solidify.SimplifyDownwardFaces(m, solidify.DefaultSimplifyOptions())
	require.NoError(t, err)

	assert.Equal(t, 8, stats.Selected)
	assert.Equal(t, 1, stats.Groups)
	assert.Equal(t, 8, stats.FacesBefore)
	assert.Equal(t, 1, stats.FacesAfter)
	assert.Equal(t, 5, stats.VertsRemoved, "edge midpoints and the center")
	require.Equal(t, 1, m.FaceCount())
	assert.Len(t, m.Faces[0].Verts, 4)
	assert.Equal(t, geometry.NewVector3(0, 0, -1), m.Faces[0].Normal)
	assert.NoError(t, m.Validate())
}

func TestSimplifyKeepsSharedVertices(t *testing.T) {
	m := fixture.Grid(2, 2, nil)
	created, err := solidify.Extrude(m, mesh.SelectAll(m), down)
	require.NoError(t, err)
	solidify.Flatten(m, created, geometry.AxisZ)
	before := m.VertexCount()

	stats, err := solidify.SimplifyDownwardFaces(m, solidify.DefaultSimplifyOptions())
	require.NoError(t, err)

	// the bottom is already a single cap polygon
	assert.Equal(t, 1, stats.Selected)
	assert.Equal(t, before, m.VertexCount())
	assert.True(t, m.IsClosed())
}

func TestSimplifySplitsHoledCap(t *testing.T) {
	m := fixture.Annulus(4, 2)
	created, err := solidify.Extrude(m, mesh.SelectAll(m), down)
	require.NoError(t, err)
	solidify.Flatten(m, created, geometry.AxisZ)
	require.Greater(t, len(created.Faces), 1, "the cap is triangulated around the hole")

	stats, err := solidify.SimplifyDownwardFaces(m, solidify.DefaultSimplifyOptions())
	require.NoError(t, err)

	assert.Greater(t, stats.Selected, 1)
	assert.GreaterOrEqual(t, stats.Groups, 1)
	assert.Equal(t, 0, stats.SkippedGroups)
	assert.Less(t, stats.FacesAfter, stats.FacesBefore)
	assert.Equal(t, 0, stats.VertsRemoved, "cap corners are shared with the walls")
	assert.True(t, m.IsClosed())
	assert.NoError(t, m.Validate())
	assert.InDelta(t, 12*5000.0, m.SignedVolume(), 1e-6)
}

func TestSimplifySkipsSteepNeighbours(t *testing.T) {
	m := fixture.Grid(2, 2, func(x, y float64) float64 {
		if x > 1 {
			return -(x - 1) * 0.5
		}
		return 0
	})
	m.Flip()

	stats, err := solidify.SimplifyDownwardFaces(m, solidify.DefaultSimplifyOptions())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Selected)
	assert.Equal(t, 2, stats.Groups, "the fold splits the grid")
	assert.Equal(t, 2, m.FaceCount())
}

func TestEditSession(t *testing.T) {
	m := fixture.Square(1, 0)
	s := solidify.NewEditSession(m)
	assert.Equal(t, solidify.ModeObject, s.Mode())

	_, err := s.Mesh()
	assert.True(t, errors.Is(err, solidify.ErrModeTransition))

	require.NoError(t, s.Enter())
	assert.Equal(t, solidify.ModeEdit, s.Mode())
	assert.Equal(t, "EDIT", s.Mode().String())

	got, err := s.Mesh()
	require.NoError(t, err)
	assert.Same(t, m, got)

	s.Release()
	s.Release()
	assert.Equal(t, solidify.ModeObject, s.Mode())
}

func TestEditSessionRejectsBrokenMesh(t *testing.T) {
	m := &mesh.Mesh{
		Name:     "broken",
		Vertices: []geometry.Vector3{{}, {X: 1}},
		Faces:    []mesh.Face{{Verts: []mesh.VertexID{0, 1, 7}}},
	}
	s := solidify.NewEditSession(m)

	err := s.Enter()
	assert.True(t, errors.Is(err, solidify.ErrModeTransition))
	assert.Equal(t, solidify.ModeObject, s.Mode())

	assert.Error(t, solidify.NewEditSession(nil).Enter())
}

func TestOptions(t *testing.T) {
	opts := solidify.DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, down, opts.OffsetFor(10))

	opts.AutoDepth = true
	assert.Equal(t, geometry.NewVector3(0, 0, -5.5), opts.OffsetFor(10))
	assert.Equal(t, down, opts.OffsetFor(0), "flat surfaces fall back to the fixed offset")

	opts.AutoDepth = false
	opts.Offset = geometry.Vector3{}
	assert.True(t, errors.Is(opts.Validate(), solidify.ErrZeroOffset))

	opts = solidify.DefaultOptions()
	opts.SimplifyOptions.NormalThreshold = 2
	assert.Error(t, opts.Validate())
}
