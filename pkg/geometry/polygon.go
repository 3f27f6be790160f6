package geometry

import (
	"math"
	"sort"
)

// Point2 is a point on a projection plane
type Point2 struct {
	U, V float64
}

// NewellNormal returns the unit normal of a polygon using Newell's method.
// It tolerates concave and slightly non-planar polygons. Degenerate
// polygons yield the zero vector.
func NewellNormal(points []Vector3) Vector3 {
	var n Vector3
	for i, p := range points {
		q := points[(i+1)%len(points)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n.Normalize()
}

// PlanarProjection returns a projection onto the coordinate plane most
// perpendicular to normal. Polygons wound counter-clockwise around normal
// come out with positive signed area.
func PlanarProjection(normal Vector3) func(Vector3) Point2 {
	axis := dominantAxis(normal)
	flip := normal.Component(axis) < 0
	return func(p Vector3) Point2 {
		var pt Point2
		switch axis {
		case AxisX:
			pt = Point2{U: p.Y, V: p.Z}
		case AxisY:
			pt = Point2{U: p.Z, V: p.X}
		default:
			pt = Point2{U: p.X, V: p.Y}
		}
		if flip {
			pt.U = -pt.U
		}
		return pt
	}
}

// SignedArea2D returns the signed area of a ring, positive when
// counter-clockwise
func SignedArea2D(ring []Point2) float64 {
	area := 0.0
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		area += p.U*q.V - q.U*p.V
	}
	return area / 2
}

// ContainsPoint2D reports whether p lies inside ring (even-odd rule)
func ContainsPoint2D(ring []Point2, p Point2) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.V > p.V) != (b.V > p.V) {
			u := (b.U-a.U)*(p.V-a.V)/(b.V-a.V) + a.U
			if p.U < u {
				inside = !inside
			}
		}
	}
	return inside
}

// TriangulatePolygon splits a simple polygon into triangles by ear
// clipping. The returned index triples refer to points and keep the
// winding of the input ring. normal selects the projection plane.
func TriangulatePolygon(points []Vector3, normal Vector3) [][3]int {
	return TriangulateWithHoles(points, nil, normal)
}

// TriangulateWithHoles triangulates an outer ring with holes. Indices
// address the concatenation of outer followed by every hole in order.
// Triangles keep the winding of the outer ring whatever the hole winding.
func TriangulateWithHoles(outer []Vector3, holes [][]Vector3, normal Vector3) [][3]int {
	if len(outer) < 3 {
		return nil
	}
	if normal.IsZero() {
		normal = NewellNormal(outer)
	}
	project := PlanarProjection(normal)

	var pts []Point2
	for _, p := range outer {
		pts = append(pts, project(p))
	}
	ring := make([]int, len(outer))
	for i := range ring {
		ring[i] = i
	}
	reversed := SignedArea2D(pts) < 0
	if reversed {
		reverseInts(ring)
	}

	var holeRings [][]int
	for _, hole := range holes {
		if len(hole) < 3 {
			continue
		}
		start := len(pts)
		idx := make([]int, len(hole))
		hp := make([]Point2, len(hole))
		for i, p := range hole {
			hp[i] = project(p)
			idx[i] = start + i
		}
		pts = append(pts, hp...)
		// holes run clockwise against a counter-clockwise outer ring
		if SignedArea2D(hp) > 0 {
			reverseInts(idx)
		}
		holeRings = append(holeRings, idx)
	}

	ring = bridgeHoles(pts, ring, holeRings)
	tris := earClip(pts, ring)
	if reversed {
		for i := range tris {
			tris[i][1], tris[i][2] = tris[i][2], tris[i][1]
		}
	}
	return tris
}

// bridgeHoles splices every hole into the outer ring through a mutually
// visible vertex pair, rightmost hole first.
func bridgeHoles(pts []Point2, ring []int, holes [][]int) []int {
	sort.SliceStable(holes, func(i, j int) bool {
		return pts[rightmost(pts, holes[i])].U > pts[rightmost(pts, holes[j])].U
	})

	for h, hole := range holes {
		mi := 0
		m := rightmost(pts, hole)
		for i, idx := range hole {
			if idx == m {
				mi = i
				break
			}
		}

		vi := findBridge(pts, ring, holes[h+1:], hole, m)

		spliced := make([]int, 0, len(ring)+len(hole)+2)
		spliced = append(spliced, ring[:vi+1]...)
		for k := 0; k <= len(hole); k++ {
			spliced = append(spliced, hole[(mi+k)%len(hole)])
		}
		spliced = append(spliced, ring[vi:]...)
		ring = spliced
	}
	return ring
}

// findBridge returns the position in ring of the closest vertex that can
// be joined to hole vertex m without crossing any edge
func findBridge(pts []Point2, ring []int, pending [][]int, hole []int, m int) int {
	mp := pts[m]
	order := make([]int, len(ring))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := pts[ring[order[a]]], pts[ring[order[b]]]
		// prefer vertices to the right of m, then the closest ones
		ra, rb := pa.U >= mp.U, pb.U >= mp.U
		if ra != rb {
			return ra
		}
		return dist2(pa, mp) < dist2(pb, mp)
	})

	rings := append([][]int{ring, hole}, pending...)
	for _, pos := range order {
		v := ring[pos]
		if visible(pts, rings, m, v) {
			return pos
		}
	}
	return order[0]
}

func visible(pts []Point2, rings [][]int, m, v int) bool {
	a, b := pts[m], pts[v]
	if a == b {
		return true
	}
	for _, r := range rings {
		for i := range r {
			p, q := r[i], r[(i+1)%len(r)]
			if p == m || p == v || q == m || q == v {
				continue
			}
			pp, qp := pts[p], pts[q]
			if pp == a || pp == b || qp == a || qp == b {
				continue
			}
			if segmentsCross(a, b, pp, qp) || onSegment(a, b, pp) {
				return false
			}
		}
	}
	return true
}

func earClip(pts []Point2, ring []int) [][3]int {
	r := append([]int(nil), ring...)
	tris := make([][3]int, 0, len(r))

	for len(r) > 3 {
		n := len(r)
		found := -1
		for pass := 0; pass < 3 && found < 0; pass++ {
			for i := 0; i < n; i++ {
				a, b, c := r[(i+n-1)%n], r[i], r[(i+1)%n]
				cr := cross2(pts[a], pts[b], pts[c])
				if pass == 0 && (cr <= 0 || !emptyEar(pts, r, a, b, c)) {
					continue
				}
				if pass == 1 && cr < 0 {
					continue
				}
				found = i
				break
			}
		}
		a, b, c := r[(found+n-1)%n], r[found], r[(found+1)%n]
		if a != b && b != c && a != c {
			tris = append(tris, [3]int{a, b, c})
		}
		r = append(r[:found], r[found+1:]...)
	}
	if len(r) == 3 && r[0] != r[1] && r[1] != r[2] && r[0] != r[2] {
		tris = append(tris, [3]int{r[0], r[1], r[2]})
	}
	return tris
}

// emptyEar reports whether no other ring vertex lies in triangle abc
func emptyEar(pts []Point2, ring []int, a, b, c int) bool {
	pa, pb, pc := pts[a], pts[b], pts[c]
	for _, idx := range ring {
		if idx == a || idx == b || idx == c {
			continue
		}
		p := pts[idx]
		if p == pa || p == pb || p == pc {
			continue
		}
		if inTriangle(p, pa, pb, pc) {
			return false
		}
	}
	return true
}

func rightmost(pts []Point2, ring []int) int {
	best := ring[0]
	for _, idx := range ring[1:] {
		if pts[idx].U > pts[best].U || (pts[idx].U == pts[best].U && pts[idx].V < pts[best].V) {
			best = idx
		}
	}
	return best
}

func cross2(a, b, c Point2) float64 {
	return (b.U-a.U)*(c.V-b.V) - (b.V-a.V)*(c.U-b.U)
}

func orient(a, b, c Point2) float64 {
	return (b.U-a.U)*(c.V-a.V) - (b.V-a.V)*(c.U-a.U)
}

func inTriangle(p, a, b, c Point2) bool {
	d1 := orient(a, b, p)
	d2 := orient(b, c, p)
	d3 := orient(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func segmentsCross(a, b, c, d Point2) bool {
	d1 := orient(c, d, a)
	d2 := orient(c, d, b)
	d3 := orient(a, b, c)
	d4 := orient(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// onSegment reports whether p lies strictly inside segment ab
func onSegment(a, b, p Point2) bool {
	if math.Abs(orient(a, b, p)) > 1e-12*(dist2(a, b)+1) {
		return false
	}
	t := ((p.U-a.U)*(b.U-a.U) + (p.V-a.V)*(b.V-a.V)) / dist2(a, b)
	return t > 0 && t < 1
}

func dist2(a, b Point2) float64 {
	du, dv := a.U-b.U, a.V-b.V
	return du*du + dv*dv
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
