package solidify

import (
	"fmt"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// Extrude turns the selected surface into a solid. Every boundary vertex
// of the selected faces gets a copy translated by offset, every boundary
// edge gets a side quad, and the translated loops are capped. The
// original faces stay in place.
//
// The selection must cover every vertex of the mesh. The returned
// selection holds the new vertices and cap faces.
func Extrude(m *mesh.Mesh, sel mesh.Selection, offset geometry.Vector3) (mesh.Selection, error) {
	if offset.IsZero() {
		return mesh.Selection{}, ErrZeroOffset
	}
	if !sel.Covers(m) {
		return mesh.Selection{}, ErrPartialSelection
	}

	if len(sel.Faces) == 0 {
		return mesh.Selection{}, ErrNothingToExtrude
	}
	boundary := m.BoundaryEdges(sel.Faces)
	if len(boundary) == 0 {
		return mesh.Selection{}, ErrNothingToExtrude
	}

	created := mesh.Selection{Name: "extruded"}
	copies := make(map[mesh.VertexID]mesh.VertexID)
	copyOf := func(v mesh.VertexID) mesh.VertexID {
		if c, ok := copies[v]; ok {
			return c
		}
		c := m.AddVertex(m.Vertices[v].Add(offset))
		copies[v] = c
		created.Verts = append(created.Verts, c)
		return c
	}

	// side walls: for a boundary edge a→b the wall runs b, a, a', b'
	for _, h := range boundary {
		a, b := h.From, h.To
		if _, err := m.AddFace(b, a, copyOf(a), copyOf(b)); err != nil {
			return mesh.Selection{}, fmt.Errorf("failed to add side face: %w", err)
		}
	}

	caps, err := capLoops(m, mesh.BoundaryLoops(boundary), copies, offset)
	if err != nil {
		return mesh.Selection{}, err
	}
	created.Faces = caps

	// a surface wound against the extrusion direction yields an inside-out
	// shell; flip the whole mesh so normals point outward
	if m.SignedVolume() < 0 {
		m.Flip()
	}
	return created, nil
}

// capLoops closes the translated boundary loops. Loops nested an odd
// number of times inside others are holes of their innermost container.
func capLoops(m *mesh.Mesh, loops [][]mesh.VertexID, copies map[mesh.VertexID]mesh.VertexID, offset geometry.Vector3) ([]mesh.FaceID, error) {
	project := geometry.PlanarProjection(offset)
	rings := make([][]geometry.Point2, len(loops))
	for i, loop := range loops {
		for _, v := range loop {
			rings[i] = append(rings[i], project(m.Vertices[v]))
		}
	}

	// parent[i] is the smallest loop containing loop i, -1 for none
	parent := make([]int, len(loops))
	depth := make([]int, len(loops))
	for i := range loops {
		parent[i] = -1
		if len(rings[i]) < 3 {
			continue
		}
		probe := probePoint(rings[i])
		for j := range loops {
			if i == j || len(rings[j]) < 3 || !geometry.ContainsPoint2D(rings[j], probe) {
				continue
			}
			depth[i]++
			if parent[i] < 0 || absArea(rings[j]) < absArea(rings[parent[i]]) {
				parent[i] = j
			}
		}
	}

	holes := make(map[int][]int)
	for i := range loops {
		if depth[i]%2 == 1 && parent[i] >= 0 {
			holes[parent[i]] = append(holes[parent[i]], i)
		}
	}

	var caps []mesh.FaceID
	for i, loop := range loops {
		if depth[i]%2 == 1 || len(loop) < 3 {
			continue
		}
		// caps run against the boundary so the shell is consistently wound
		outer := reversedCopies(loop, copies)
		if len(holes[i]) == 0 {
			id, err := m.AddFace(outer...)
			if err != nil {
				return nil, fmt.Errorf("failed to cap boundary loop: %w", err)
			}
			caps = append(caps, id)
			continue
		}

		ids := append([]mesh.VertexID(nil), outer...)
		outerPts := positions(m, outer)
		var holePts [][]geometry.Vector3
		for _, h := range holes[i] {
			inner := reversedCopies(loops[h], copies)
			ids = append(ids, inner...)
			holePts = append(holePts, positions(m, inner))
		}
		normal := geometry.NewellNormal(outerPts)
		for _, t := range geometry.TriangulateWithHoles(outerPts, holePts, normal) {
			id, err := m.AddFace(ids[t[0]], ids[t[1]], ids[t[2]])
			if err != nil {
				return nil, fmt.Errorf("failed to cap boundary loop: %w", err)
			}
			caps = append(caps, id)
		}
	}
	return caps, nil
}

func reversedCopies(loop []mesh.VertexID, copies map[mesh.VertexID]mesh.VertexID) []mesh.VertexID {
	out := make([]mesh.VertexID, len(loop))
	for i, v := range loop {
		out[len(loop)-1-i] = copies[v]
	}
	return out
}

func positions(m *mesh.Mesh, ids []mesh.VertexID) []geometry.Vector3 {
	points := make([]geometry.Vector3, len(ids))
	for i, v := range ids {
		points[i] = m.Vertices[v]
	}
	return points
}

// probePoint returns a point just inside the ring next to its first edge
func probePoint(ring []geometry.Point2) geometry.Point2 {
	a, b := ring[0], ring[1]
	mid := geometry.Point2{U: (a.U + b.U) / 2, V: (a.V + b.V) / 2}
	du, dv := b.U-a.U, b.V-a.V
	// left normal points inward for counter-clockwise rings
	nu, nv := -dv, du
	if geometry.SignedArea2D(ring) < 0 {
		nu, nv = dv, -du
	}
	const step = 1e-6
	return geometry.Point2{U: mid.U + nu*step, V: mid.V + nv*step}
}

func absArea(ring []geometry.Point2) float64 {
	a := geometry.SignedArea2D(ring)
	if a < 0 {
		return -a
	}
	return a
}
