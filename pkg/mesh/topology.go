package mesh

// Edge is an undirected edge with A < B
type Edge struct {
	A, B VertexID
}

// NewEdge returns the canonical edge between two vertices
func NewEdge(a, b VertexID) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// HalfEdge is an edge directed by the winding of the face it belongs to
type HalfEdge struct {
	From, To VertexID
	Face     FaceID
}

// Edge returns the undirected edge
func (h HalfEdge) Edge() Edge {
	return NewEdge(h.From, h.To)
}

// EdgeMap maps each edge to the faces using it
type EdgeMap map[Edge][]FaceID

// HalfEdges returns the directed edges of a face in winding order
func (m *Mesh) HalfEdges(id FaceID) []HalfEdge {
	verts := m.Faces[id].Verts
	edges := make([]HalfEdge, len(verts))
	for i, v := range verts {
		edges[i] = HalfEdge{From: v, To: verts[(i+1)%len(verts)], Face: id}
	}
	return edges
}

// EdgeMap builds the edge to face incidence for the given faces, or for
// every face when faces is nil
func (m *Mesh) EdgeMap(faces []FaceID) EdgeMap {
	edges := make(EdgeMap)
	for _, id := range m.faceList(faces) {
		for _, h := range m.HalfEdges(id) {
			e := h.Edge()
			edges[e] = append(edges[e], id)
		}
	}
	return edges
}

// BoundaryEdges returns the half-edges used by exactly one of the given
// faces (every face when nil), in face order
func (m *Mesh) BoundaryEdges(faces []FaceID) []HalfEdge {
	list := m.faceList(faces)
	edges := m.EdgeMap(list)

	var boundary []HalfEdge
	for _, id := range list {
		for _, h := range m.HalfEdges(id) {
			if len(edges[h.Edge()]) == 1 {
				boundary = append(boundary, h)
			}
		}
	}
	return boundary
}

// IsClosed reports whether every edge borders exactly two faces
func (m *Mesh) IsClosed() bool {
	if len(m.Faces) == 0 {
		return false
	}
	for _, faces := range m.EdgeMap(nil) {
		if len(faces) != 2 {
			return false
		}
	}
	return true
}

// VertexFaces maps each vertex to the faces that reference it
func (m *Mesh) VertexFaces() map[VertexID][]FaceID {
	incidence := make(map[VertexID][]FaceID, len(m.Vertices))
	for i, f := range m.Faces {
		for _, v := range f.Verts {
			incidence[v] = append(incidence[v], FaceID(i))
		}
	}
	return incidence
}

// BoundaryLoops chains boundary half-edges into vertex loops. Each loop
// follows the direction of its half-edges. Chains that do not close are
// returned as they are.
func BoundaryLoops(edges []HalfEdge) [][]VertexID {
	outgoing := make(map[VertexID][]int, len(edges))
	for i, h := range edges {
		outgoing[h.From] = append(outgoing[h.From], i)
	}
	used := make([]bool, len(edges))

	next := func(from VertexID) int {
		for _, i := range outgoing[from] {
			if !used[i] {
				return i
			}
		}
		return -1
	}

	var loops [][]VertexID
	for start := range edges {
		if used[start] {
			continue
		}
		origin := edges[start].From
		var loop []VertexID
		for cur := start; cur >= 0; {
			used[cur] = true
			loop = append(loop, edges[cur].From)
			if edges[cur].To == origin {
				break
			}
			cur = next(edges[cur].To)
		}
		loops = append(loops, loop)
	}
	return loops
}

func (m *Mesh) faceList(faces []FaceID) []FaceID {
	if faces != nil {
		return faces
	}
	all := make([]FaceID, len(m.Faces))
	for i := range all {
		all[i] = FaceID(i)
	}
	return all
}
