// Package fixture builds small reference surfaces used by tests and by the
// mkfixture tool.
package fixture

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// Square returns a size×size quad at height z, wound counter-clockwise
// when seen from +Z
func Square(size, z float64) *mesh.Mesh {
	m := mesh.New("square")
	a := m.AddVertex(geometry.NewVector3(0, 0, z))
	b := m.AddVertex(geometry.NewVector3(size, 0, z))
	c := m.AddVertex(geometry.NewVector3(size, size, z))
	d := m.AddVertex(geometry.NewVector3(0, size, z))
	mustFace(m, a, b, c, d)
	return m
}

// Grid returns an n×n grid of triangulated cells over [0,size]² with
// heights from height. A nil height gives a flat grid at z = 0.
func Grid(n int, size float64, height func(x, y float64) float64) *mesh.Mesh {
	if height == nil {
		height = func(float64, float64) float64 { return 0 }
	}
	m := mesh.New(fmt.Sprintf("grid%d", n))
	step := size / float64(n)
	id := func(i, j int) mesh.VertexID { return mesh.VertexID(j*(n+1) + i) }

	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			x, y := float64(i)*step, float64(j)*step
			m.AddVertex(geometry.NewVector3(x, y, height(x, y)))
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			mustFace(m, id(i, j), id(i+1, j), id(i+1, j+1))
			mustFace(m, id(i, j), id(i+1, j+1), id(i, j+1))
		}
	}
	return m
}

// Annulus returns a square ring: an outer square of side outer with a
// centered square hole of side inner, split into four trapezoids
func Annulus(outer, inner float64) *mesh.Mesh {
	m := mesh.New("annulus")
	lo, hi := (outer-inner)/2, (outer+inner)/2

	o := []mesh.VertexID{
		m.AddVertex(geometry.NewVector3(0, 0, 0)),
		m.AddVertex(geometry.NewVector3(outer, 0, 0)),
		m.AddVertex(geometry.NewVector3(outer, outer, 0)),
		m.AddVertex(geometry.NewVector3(0, outer, 0)),
	}
	i := []mesh.VertexID{
		m.AddVertex(geometry.NewVector3(lo, lo, 0)),
		m.AddVertex(geometry.NewVector3(hi, lo, 0)),
		m.AddVertex(geometry.NewVector3(hi, hi, 0)),
		m.AddVertex(geometry.NewVector3(lo, hi, 0)),
	}
	for k := 0; k < 4; k++ {
		next := (k + 1) % 4
		mustFace(m, o[k], o[next], i[next], i[k])
	}
	return m
}

// Tetrahedron returns a closed, outward-wound tetrahedron
func Tetrahedron() *mesh.Mesh {
	m := mesh.New("tetrahedron")
	a := m.AddVertex(geometry.NewVector3(0, 0, 0))
	b := m.AddVertex(geometry.NewVector3(1, 0, 0))
	c := m.AddVertex(geometry.NewVector3(0, 1, 0))
	d := m.AddVertex(geometry.NewVector3(0, 0, 1))
	mustFace(m, a, c, b)
	mustFace(m, a, b, d)
	mustFace(m, b, c, d)
	mustFace(m, c, a, d)
	return m
}

func mustFace(m *mesh.Mesh, verts ...mesh.VertexID) {
	_, err := m.AddFace(verts...)
	essentials.Must(errors.Wrapf(err, "fixture %s", m.Name))
}
