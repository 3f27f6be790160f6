package solidify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/philipparndt/gosolid/internal/logging"
	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
	"github.com/philipparndt/gosolid/pkg/meshio"
	"github.com/philipparndt/gosolid/pkg/solidcheck"
)

// State is a pipeline stage
type State int

const (
	StateIdle State = iota
	StateLoaded
	StateExtruded
	StateFlattened
	StateSimplified
	StateExported
	StateRejected
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateExtruded:
		return "extruded"
	case StateFlattened:
		return "flattened"
	case StateSimplified:
		return "simplified"
	case StateExported:
		return "exported"
	case StateRejected:
		return "rejected"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether a run ends in s
func (s State) Terminal() bool {
	return s == StateExported || s == StateRejected || s == StateAborted
}

// Result describes one pipeline run
type Result struct {
	RunID      string
	State      State
	InputPath  string
	OutputPath string
	Format     meshio.Format
	Objects    int

	ExtentMin, ExtentMax, Span float64
	Offset                     geometry.Vector3
	Pivot                      geometry.Vector3

	VerticesBefore, FacesBefore int
	VerticesAfter, FacesAfter   int

	Simplify *SimplifyStats
	Check    solidcheck.Report
	Elapsed  time.Duration
}

// Pipeline loads a surface, solidifies its first object and writes the
// scene out as binary STL. Runs are serialised.
type Pipeline struct {
	fs      meshio.FileSystem
	options Options

	mu    sync.Mutex
	state atomic.Int32
}

// New creates a pipeline reading and writing through fsys
func New(fsys meshio.FileSystem, opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Pipeline{fs: fsys, options: opts}, nil
}

// State returns the stage of the run in progress, StateIdle between runs.
// It may be called while Run is executing.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Run processes one input file. An unrecognised extension ends in
// StateRejected with a nil error and no output. Other failures end in
// StateAborted and are returned.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run := &runner{
		pipeline: p,
		result:   &Result{RunID: uuid.NewString(), State: StateIdle, InputPath: path},
		start:    time.Now(),
	}
	defer p.state.Store(int32(StateIdle))

	run.logf("---BEGIN--- %s", run.start.Format(time.RFC3339))
	err := run.execute(ctx, path)
	run.result.Elapsed = time.Since(run.start)
	run.logf("---END--- %s (%s)", run.result.Elapsed, run.result.State)
	return run.result, err
}

type runner struct {
	pipeline *Pipeline
	result   *Result
	start    time.Time
}

func (r *runner) logf(format string, args ...interface{}) {
	logging.Logf("[%s] "+format, append([]interface{}{r.result.RunID[:8]}, args...)...)
}

func (r *runner) transition(s State) {
	r.result.State = s
	r.pipeline.state.Store(int32(s))
	r.logf("  -state: %s", s)
}

func (r *runner) abort(err error) error {
	r.transition(StateAborted)
	r.logf("**ABORTED: %v", err)
	return err
}

func (r *runner) execute(ctx context.Context, path string) error {
	opts := r.pipeline.options
	res := r.result

	r.logf("  -opening file: %s", path)
	format, err := meshio.DetectFormat(path)
	if err != nil {
		r.transition(StateRejected)
		r.logf("**INVALID FILE TYPE: %v", err)
		return nil
	}
	res.Format = format
	res.OutputPath = meshio.OutputPath(path)

	scene, err := meshio.Load(r.pipeline.fs, path)
	if err != nil {
		return r.abort(fmt.Errorf("failed to import %s: %w", path, err))
	}
	res.Objects = len(scene.Objects)
	r.transition(StateLoaded)
	r.logf("  -%s imported successfully (%d object(s))", format, res.Objects)

	target, ok := scene.Target()
	if !ok {
		return r.abort(ErrNoTargetObject)
	}
	r.logf("  -active object set: %q", target.Name)

	session := NewEditSession(target)
	defer func() {
		if session.Mode() != ModeObject {
			session.Release()
			r.logf("  -%s mode enabled", session.Mode())
		}
	}()
	if err := session.Enter(); err != nil {
		return r.abort(err)
	}
	r.logf("  -%s mode enabled", session.Mode())

	m, err := session.Mesh()
	if err != nil {
		return r.abort(err)
	}
	res.VerticesBefore, res.FacesBefore = m.VertexCount(), m.FaceCount()

	all := mesh.SelectAll(m)
	r.logf("  -ALL vertices selected (%d)", len(all.Verts))

	res.ExtentMin, res.ExtentMax = ComputeAxisExtent(m, opts.Axis)
	res.Span = Span(res.ExtentMin, res.ExtentMax)
	res.Offset = opts.OffsetFor(res.Span)
	r.logf("  -%s Dimension = %g (baseheight=%g)", opts.Axis, res.Span, res.Offset.Length())

	if err := ctx.Err(); err != nil {
		return r.abort(err)
	}

	created, err := Extrude(m, all, res.Offset)
	if err != nil {
		return r.abort(fmt.Errorf("failed to extrude: %w", err))
	}
	r.transition(StateExtruded)
	r.logf("  -base extruded (%d new vertices, %d cap faces)", len(created.Verts), len(created.Faces))

	res.Pivot = Flatten(m, created, opts.Axis)
	r.transition(StateFlattened)
	r.logf("  -base flattened at %s = %g", opts.Axis, res.Pivot.Component(opts.Axis))

	if opts.Simplify {
		stats, err := SimplifyDownwardFaces(m, opts.SimplifyOptions)
		if err != nil {
			return r.abort(fmt.Errorf("failed to simplify: %w", err))
		}
		res.Simplify = &stats
		r.transition(StateSimplified)
		r.logf("  -mesh dissolved: %d downward faces, %d merged groups, faces %d -> %d",
			stats.Selected, stats.Groups, stats.FacesBefore, stats.FacesAfter)
	}

	res.VerticesAfter, res.FacesAfter = m.VertexCount(), m.FaceCount()
	res.Check = solidcheck.Check(m)
	if !res.Check.OK() {
		r.logf("  -warning: result is not a closed solid (%s)", res.Check)
	}

	session.Release()
	r.logf("  -%s mode enabled", session.Mode())

	if err := ctx.Err(); err != nil {
		return r.abort(err)
	}

	if err := meshio.SaveSTL(r.pipeline.fs, res.OutputPath, scene.Objects...); err != nil {
		return r.abort(fmt.Errorf("failed to export: %w", err))
	}
	r.transition(StateExported)
	r.logf("  -STL export complete: %s", res.OutputPath)
	return nil
}

// Rejected reports whether err came from an unsupported input format
func Rejected(err error) bool {
	return errors.Is(err, ErrUnrecognizedFormat)
}
