package solidify_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gosolid/internal/fixture"
	"github.com/philipparndt/gosolid/internal/logging"
	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/meshio"
	"github.com/philipparndt/gosolid/pkg/solidify"
)

const squareSTL = `solid square
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 1 1 0
endloop
endfacet
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 1 0
vertex 0 1 0
endloop
endfacet
endsolid square
`

const shapeOBJ = `o shape
v 0 0 1
v 2 0 1
v 2 2 3
v 0 2 3
f 1 2 3 4
`

// captureLogs routes the progress log into a slice for the duration of t
func captureLogs(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	logf(t, func(format string, v ...interface{}) {
		lines = append(lines, format)
		t.Logf(format, v...)
	})
	return &lines
}

// logf installs f as the progress logger and restores the previous one
// when t finishes
func logf(t *testing.T, f func(format string, v ...interface{})) {
	t.Helper()
	prev := logging.Logf
	logging.SetLogger(f)
	t.Cleanup(func() { logging.SetLogger(prev) })
}

func TestCaptureLogsRestoresLogger(t *testing.T) {
	var outer []string
	logf(t, func(format string, v ...interface{}) { outer = append(outer, format) })

	t.Run("inner", func(t *testing.T) {
		captureLogs(t)
		logging.Logf("inner")
	})

	logging.Logf("outer")
	assert.Equal(t, []string{"outer"}, outer)
}

func TestPipelineStateDuringRun(t *testing.T) {
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("square.stl", []byte(squareSTL))
	p := newPipeline(t, fsys, solidify.DefaultOptions())

	var seen []solidify.State
	logf(t, func(string, ...interface{}) { seen = append(seen, p.State()) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			_ = p.State()
		}
	}()

	res, err := p.Run(context.Background(), "square.stl")
	<-done
	require.NoError(t, err)
	assert.Equal(t, solidify.StateExported, res.State)
	assert.Contains(t, seen, solidify.StateExtruded)
	assert.Contains(t, seen, solidify.StateFlattened)
	assert.Equal(t, solidify.StateIdle, p.State())
}

func newPipeline(t *testing.T, fsys meshio.FileSystem, opts solidify.Options) *solidify.Pipeline {
	t.Helper()
	p, err := solidify.New(fsys, opts)
	require.NoError(t, err)
	return p
}

func TestPipelineSquareSTL(t *testing.T) {
	logs := captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("square.stl", []byte(squareSTL))

	p := newPipeline(t, fsys, solidify.DefaultOptions())
	res, err := p.Run(context.Background(), "square.stl")
	require.NoError(t, err)

	assert.Equal(t, solidify.StateExported, res.State)
	assert.Equal(t, solidify.StateIdle, p.State())
	assert.Equal(t, "square-3D.stl", res.OutputPath)
	assert.Equal(t, meshio.FormatSTL, res.Format)
	assert.Len(t, res.RunID, 36)
	assert.Equal(t, 0.0, res.Span)
	assert.Equal(t, geometry.NewVector3(0, 0, -5000), res.Offset)
	assert.Equal(t, -5000.0, res.Pivot.Z)
	assert.Equal(t, 4, res.VerticesBefore)
	assert.Equal(t, 8, res.VerticesAfter)
	assert.True(t, res.Check.OK(), "%s", res.Check)
	assert.Nil(t, res.Simplify)
	assert.Equal(t, []string{"square-3D.stl", "square.stl"}, fsys.Files())

	scene, err := meshio.Load(fsys, "square-3D.stl")
	require.NoError(t, err)
	require.Len(t, scene.Objects, 1)
	out := scene.Objects[0]
	assert.Equal(t, 12, out.FaceCount())
	assert.Equal(t, 8, out.VertexCount())
	assert.True(t, out.IsClosed())

	bbox := out.BoundingBox()
	assert.Equal(t, geometry.NewVector3(0, 0, -5000), bbox.Min)
	assert.Equal(t, geometry.NewVector3(1, 1, 0), bbox.Max)

	require.NotEmpty(t, *logs)
	assert.True(t, strings.Contains((*logs)[0], "---BEGIN---"))
	assert.True(t, strings.Contains((*logs)[len(*logs)-1], "---END---"))
}

func TestPipelineOBJWithSimplify(t *testing.T) {
	captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("models/shape.obj", []byte(shapeOBJ))

	opts := solidify.DefaultOptions()
	opts.Simplify = true
	p := newPipeline(t, fsys, opts)

	res, err := p.Run(context.Background(), "models/shape.obj")
	require.NoError(t, err)
	assert.Equal(t, solidify.StateExported, res.State)
	assert.Equal(t, "models/shape-3D.stl", res.OutputPath)
	assert.Equal(t, 2.0, res.Span)
	require.NotNil(t, res.Simplify)
	assert.Equal(t, 1, res.Simplify.Selected)
	assert.True(t, fsys.Exists("models/shape-3D.stl"))

	scene, err := meshio.Load(fsys, "models/shape-3D.stl")
	require.NoError(t, err)
	min, _ := solidify.ComputeAxisExtent(scene.Objects[0], geometry.AxisZ)
	assert.InDelta(t, -4998.0, res.Pivot.Z, 1e-9)
	assert.InDelta(t, -4998.0, min, 1e-9)
}

func TestPipelineSimplifiesHoledBase(t *testing.T) {
	captureLogs(t)
	var buf bytes.Buffer
	require.NoError(t, meshio.WriteSTL(&buf, "annulus", fixture.Annulus(4, 2).Triangles()))
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("annulus.stl", buf.Bytes())

	opts := solidify.DefaultOptions()
	opts.Simplify = true
	p := newPipeline(t, fsys, opts)

	res, err := p.Run(context.Background(), "annulus.stl")
	require.NoError(t, err)
	assert.Equal(t, solidify.StateExported, res.State)

	require.NotNil(t, res.Simplify)
	stats := res.Simplify
	assert.Greater(t, stats.Selected, 1)
	assert.GreaterOrEqual(t, stats.Groups, 1)
	assert.Equal(t, 0, stats.SkippedGroups)
	assert.Less(t, stats.FacesAfter, stats.FacesBefore)
	assert.Equal(t, stats.FacesAfter, res.FacesAfter)
	assert.True(t, res.Check.OK(), "%s", res.Check)
	assert.InDelta(t, 12*5000.0, res.Check.Volume, 1e-6)
}

func TestPipelineAutoDepth(t *testing.T) {
	captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("shape.obj", []byte(shapeOBJ))

	opts := solidify.DefaultOptions()
	opts.AutoDepth = true
	res, err := newPipeline(t, fsys, opts).Run(context.Background(), "shape.obj")
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(0, 0, -1.1), res.Offset)
}

func TestPipelineRejectsUnknownExtension(t *testing.T) {
	logs := captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("shape.obj2", []byte(shapeOBJ))

	res, err := newPipeline(t, fsys, solidify.DefaultOptions()).Run(context.Background(), "shape.obj2")
	require.NoError(t, err)
	assert.Equal(t, solidify.StateRejected, res.State)
	assert.Empty(t, res.OutputPath)
	assert.Equal(t, []string{"shape.obj2"}, fsys.Files())

	found := false
	for _, line := range *logs {
		found = found || strings.Contains(line, "INVALID FILE TYPE")
	}
	assert.True(t, found)
}

func TestPipelineAbortsWithoutTarget(t *testing.T) {
	captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("empty.stl", []byte("solid empty\nendsolid empty\n"))

	res, err := newPipeline(t, fsys, solidify.DefaultOptions()).Run(context.Background(), "empty.stl")
	assert.True(t, errors.Is(err, solidify.ErrNoTargetObject))
	assert.Equal(t, solidify.StateAborted, res.State)
	assert.False(t, fsys.Exists("empty-3D.stl"))
}

func TestPipelineAbortsOnClosedInput(t *testing.T) {
	captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	require.NoError(t, meshio.SaveSTL(fsys, "tetra.stl", fixture.Tetrahedron()))

	res, err := newPipeline(t, fsys, solidify.DefaultOptions()).Run(context.Background(), "tetra.stl")
	assert.True(t, errors.Is(err, solidify.ErrNothingToExtrude))
	assert.Equal(t, solidify.StateAborted, res.State)
	assert.False(t, fsys.Exists("tetra-3D.stl"))
}

func TestPipelineAbortsOnMissingFile(t *testing.T) {
	captureLogs(t)
	res, err := newPipeline(t, meshio.NewMemoryFileSystem(), solidify.DefaultOptions()).
		Run(context.Background(), "missing.stl")
	assert.Error(t, err)
	assert.Equal(t, solidify.StateAborted, res.State)
}

func TestPipelineHonoursCancellation(t *testing.T) {
	captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("square.stl", []byte(squareSTL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newPipeline(t, fsys, solidify.DefaultOptions()).Run(ctx, "square.stl")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, solidify.StateAborted, res.State)
	assert.False(t, fsys.Exists("square-3D.stl"))
}

func TestPipelineRunsAreIndependent(t *testing.T) {
	captureLogs(t)
	fsys := meshio.NewMemoryFileSystem()
	fsys.WriteFile("square.stl", []byte(squareSTL))
	p := newPipeline(t, fsys, solidify.DefaultOptions())

	first, err := p.Run(context.Background(), "square.stl")
	require.NoError(t, err)
	second, err := p.Run(context.Background(), "square.stl")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.VerticesAfter, second.VerticesAfter)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	opts := solidify.DefaultOptions()
	opts.Offset = geometry.Vector3{}
	_, err := solidify.New(meshio.NewMemoryFileSystem(), opts)
	assert.True(t, errors.Is(err, solidify.ErrZeroOffset))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "exported", solidify.StateExported.String())
	assert.True(t, solidify.StateRejected.Terminal())
	assert.False(t, solidify.StateFlattened.Terminal())
}
