package solidify

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

const (
	// DefaultNormalThreshold is the minimum dot product with -Z for a
	// face to count as facing down
	DefaultNormalThreshold = 0.5

	// DefaultAngleLimitDegrees is the dissolve tolerance
	DefaultAngleLimitDegrees = 1.7
)

// Down is the direction downward-facing faces point to
var Down = geometry.NewVector3(0, 0, -1)

// SimplifyOptions tunes SimplifyDownwardFaces
type SimplifyOptions struct {
	NormalThreshold float64
	AngleLimit      float64 // radians
}

// DefaultSimplifyOptions returns threshold 0.5 and a 1.7° angle limit
func DefaultSimplifyOptions() SimplifyOptions {
	return SimplifyOptions{
		NormalThreshold: DefaultNormalThreshold,
		AngleLimit:      DefaultAngleLimitDegrees * math.Pi / 180,
	}
}

// SimplifyStats reports what a dissolve pass did
type SimplifyStats struct {
	Selected      int // downward faces found
	Groups        int // polygons written by merging
	FacesBefore   int
	FacesAfter    int
	VertsRemoved  int
	SkippedGroups int // groups left as they were
}

// IsDownward reports whether a face normal points down by more than
// threshold
func IsDownward(normal geometry.Vector3, threshold float64) bool {
	return normal.Dot(Down) > threshold
}

// SimplifyDownwardFaces runs a limited dissolve over the downward-facing
// faces. Neighbouring selected faces whose normals differ by less than the
// angle limit are merged into one polygon, and outline vertices used only
// by the merged faces are dropped where the outline runs straight.
// Geometry that is not downward-facing keeps its vertices and faces.
func SimplifyDownwardFaces(m *mesh.Mesh, opts SimplifyOptions) (SimplifyStats, error) {
	stats := SimplifyStats{FacesBefore: m.FaceCount(), FacesAfter: m.FaceCount()}

	sel := mesh.SelectFaces(m, "downward", func(_ mesh.FaceID, f mesh.Face) bool {
		return IsDownward(f.Normal, opts.NormalThreshold)
	})
	stats.Selected = len(sel.Faces)
	if len(sel.Faces) < 2 {
		return stats, nil
	}

	groups := coplanarGroups(m, sel, opts.AngleLimit)
	vertexFaces := m.VertexFaces()
	removed := make(map[mesh.FaceID]bool)

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		regions := [][]mesh.FaceID{group}
		if _, ok := outline(m, group); !ok {
			regions = diskRegions(m, group)
		}

		merged := 0
		for _, region := range regions {
			if len(region) < 2 {
				continue
			}
			loop, ok := outline(m, region)
			if !ok {
				continue
			}
			members := make(map[mesh.FaceID]bool, len(region))
			for _, f := range region {
				members[f] = true
			}
			verts := dissolveStraightVerts(m, loop, vertexFaces, members, opts.AngleLimit)
			if _, err := m.AddFace(verts...); err != nil {
				return stats, fmt.Errorf("failed to merge %d faces: %w", len(region), err)
			}
			for _, f := range region {
				removed[f] = true
			}
			merged++
		}
		if merged == 0 {
			stats.SkippedGroups++
		}
		stats.Groups += merged
	}

	if len(removed) == 0 {
		return stats, nil
	}

	kept := m.Faces[:0]
	for i, f := range m.Faces {
		if !removed[mesh.FaceID(i)] {
			kept = append(kept, f)
		}
	}
	m.Faces = kept
	stats.VertsRemoved = m.Compact()
	stats.FacesAfter = m.FaceCount()
	return stats, nil
}

// coplanarGroups partitions the selected faces into groups connected
// through manifold edges whose dihedral angle is below limit
func coplanarGroups(m *mesh.Mesh, sel mesh.Selection, limit float64) [][]mesh.FaceID {
	parent := make(map[mesh.FaceID]mesh.FaceID, len(sel.Faces))
	for _, f := range sel.Faces {
		parent[f] = f
	}
	var find func(f mesh.FaceID) mesh.FaceID
	find = func(f mesh.FaceID) mesh.FaceID {
		if parent[f] != f {
			parent[f] = find(parent[f])
		}
		return parent[f]
	}

	selected := sel.FaceSet()
	for _, faces := range m.EdgeMap(nil) {
		if len(faces) != 2 {
			continue
		}
		a, b := faces[0], faces[1]
		if _, ok := selected[a]; !ok {
			continue
		}
		if _, ok := selected[b]; !ok {
			continue
		}
		if m.Faces[a].Normal.Angle(m.Faces[b].Normal) >= limit {
			continue
		}
		ra, rb := find(a), find(b)
		if ra != rb {
			if ra < rb {
				parent[rb] = ra
			} else {
				parent[ra] = rb
			}
		}
	}

	byRoot := make(map[mesh.FaceID][]mesh.FaceID)
	for _, f := range sel.Faces {
		r := find(f)
		byRoot[r] = append(byRoot[r], f)
	}
	groups := make([][]mesh.FaceID, 0, len(byRoot))
	for _, g := range byRoot {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// outline returns the boundary of faces when it is one loop without
// repeated vertices
func outline(m *mesh.Mesh, faces []mesh.FaceID) ([]mesh.VertexID, bool) {
	loops := mesh.BoundaryLoops(m.BoundaryEdges(faces))
	if len(loops) != 1 || !simpleLoop(loops[0]) {
		return nil, false
	}
	return loops[0], true
}

// diskRegions splits a group whose outline has several loops, such as a
// cap with holes, into regions that each have a single outline. Regions
// grow greedily from the lowest face id across shared edges.
func diskRegions(m *mesh.Mesh, group []mesh.FaceID) [][]mesh.FaceID {
	adjacent := make(map[mesh.FaceID][]mesh.FaceID, len(group))
	for _, faces := range m.EdgeMap(group) {
		if len(faces) == 2 {
			adjacent[faces[0]] = append(adjacent[faces[0]], faces[1])
			adjacent[faces[1]] = append(adjacent[faces[1]], faces[0])
		}
	}
	for f := range adjacent {
		sort.Slice(adjacent[f], func(i, j int) bool { return adjacent[f][i] < adjacent[f][j] })
	}

	seeds := append([]mesh.FaceID(nil), group...)
	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })

	assigned := make(map[mesh.FaceID]bool, len(group))
	var regions [][]mesh.FaceID
	for _, seed := range seeds {
		if assigned[seed] {
			continue
		}
		r := newDiskRegion()
		r.add(m, seed)
		assigned[seed] = true
		for grown := true; grown; {
			grown = false
			for i := 0; i < len(r.faces); i++ {
				for _, g := range adjacent[r.faces[i]] {
					if assigned[g] || !r.tryAdd(m, g) {
						continue
					}
					assigned[g] = true
					grown = true
				}
			}
		}
		regions = append(regions, r.faces)
	}
	return regions
}

// diskRegion is a set of faces forming a topological disk
type diskRegion struct {
	faces []mesh.FaceID
	edges map[mesh.Edge]int
	verts map[mesh.VertexID]int
}

func newDiskRegion() *diskRegion {
	return &diskRegion{
		edges: make(map[mesh.Edge]int),
		verts: make(map[mesh.VertexID]int),
	}
}

func (r *diskRegion) add(m *mesh.Mesh, f mesh.FaceID) {
	r.faces = append(r.faces, f)
	for _, h := range m.HalfEdges(f) {
		r.edges[h.Edge()]++
		r.verts[h.From]++
	}
}

// tryAdd adds f when the union stays a disk: f must meet the region along
// one contiguous run of its edges and touch it nowhere else
func (r *diskRegion) tryAdd(m *mesh.Mesh, f mesh.FaceID) bool {
	verts := m.Faces[f].Verts
	n := len(verts)
	shared := make([]bool, n)
	count := 0
	for i, v := range verts {
		switch r.edges[mesh.NewEdge(v, verts[(i+1)%n])] {
		case 0:
		case 1:
			shared[i] = true
			count++
		default:
			return false
		}
	}
	if count == 0 || count == n {
		return false
	}

	runs := 0
	for i := range shared {
		if shared[i] && !shared[(i+n-1)%n] {
			runs++
		}
	}
	if runs != 1 {
		return false
	}

	for i, v := range verts {
		onRun := shared[i] || shared[(i+n-1)%n]
		if !onRun && r.verts[v] > 0 {
			return false
		}
	}
	r.add(m, f)
	return true
}

// dissolveStraightVerts drops outline vertices that only the merged faces
// use and where the outline turns by less than limit
func dissolveStraightVerts(m *mesh.Mesh, loop []mesh.VertexID, vertexFaces map[mesh.VertexID][]mesh.FaceID, members map[mesh.FaceID]bool, limit float64) []mesh.VertexID {
	private := func(v mesh.VertexID) bool {
		for _, f := range vertexFaces[v] {
			if !members[f] {
				return false
			}
		}
		return true
	}

	out := append([]mesh.VertexID(nil), loop...)
	for changed := true; changed && len(out) > 3; {
		changed = false
		for i := 0; i < len(out) && len(out) > 3; i++ {
			prev := m.Vertices[out[(i+len(out)-1)%len(out)]]
			cur := m.Vertices[out[i]]
			next := m.Vertices[out[(i+1)%len(out)]]
			if !private(out[i]) || cur.Sub(prev).Angle(next.Sub(cur)) >= limit {
				continue
			}
			out = append(out[:i], out[i+1:]...)
			changed = true
			i--
		}
	}
	return out
}

func simpleLoop(loop []mesh.VertexID) bool {
	if len(loop) < 3 {
		return false
	}
	seen := make(map[mesh.VertexID]struct{}, len(loop))
	for _, v := range loop {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}
