package mesh

// Scene holds every mesh object read from one file, in file order
type Scene struct {
	Objects []*Mesh
}

// Add appends an object to the scene
func (s *Scene) Add(m *Mesh) {
	s.Objects = append(s.Objects, m)
}

// Target returns the first object, the one the pipeline works on
func (s *Scene) Target() (*Mesh, bool) {
	if s == nil || len(s.Objects) == 0 {
		return nil, false
	}
	return s.Objects[0], true
}

// Counts returns the total vertex and face counts over all objects
func (s *Scene) Counts() (vertices, faces int) {
	for _, m := range s.Objects {
		vertices += m.VertexCount()
		faces += m.FaceCount()
	}
	return vertices, faces
}
