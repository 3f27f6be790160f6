package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// EdgeInfo describes one polygon edge of a mesh
type EdgeInfo struct {
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	Faces  int // number of faces sharing the edge
}

// Boundary reports whether only one face uses the edge
func (e EdgeInfo) Boundary() bool {
	return e.Faces == 1
}

// MeasurementResult contains the measurements of one mesh object
type MeasurementResult struct {
	Name          string
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64 // enclosed volume, zero unless the mesh is closed
	SurfaceArea   float64
	VertexCount   int
	FaceCount     int
	TriangleCount int

	EdgeCount        int
	BoundaryEdges    int
	NonManifoldEdges int
	Closed           bool

	MinEdgeLength    float64
	MaxEdgeLength    float64
	AvgEdgeLength    float64
	StdDevEdgeLength float64
	AllEdges         []EdgeInfo
}

// AnalyzeMesh measures a mesh. Each edge shared by several faces is
// counted once.
func AnalyzeMesh(m *mesh.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		Name:          m.Name,
		BoundingBox:   m.BoundingBox(),
		SurfaceArea:   m.SurfaceArea(),
		VertexCount:   m.VertexCount(),
		FaceCount:     m.FaceCount(),
		TriangleCount: len(m.Triangles()),
		Closed:        m.IsClosed(),
	}
	result.Dimensions = result.BoundingBox.Size()
	if result.Closed {
		result.Volume = m.SignedVolume()
	}

	edges := m.EdgeMap(nil)
	keys := make([]mesh.Edge, 0, len(edges))
	for e := range edges {
		keys = append(keys, e)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})

	lengths := make([]float64, 0, len(keys))
	result.AllEdges = make([]EdgeInfo, 0, len(keys))
	for _, e := range keys {
		start, end := m.Position(e.A), m.Position(e.B)
		info := EdgeInfo{Start: start, End: end, Length: start.Distance(end), Faces: len(edges[e])}
		result.AllEdges = append(result.AllEdges, info)
		lengths = append(lengths, info.Length)

		switch {
		case info.Faces == 1:
			result.BoundaryEdges++
		case info.Faces > 2:
			result.NonManifoldEdges++
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = floats.Min(lengths)
		result.MaxEdgeLength = floats.Max(lengths)
		result.AvgEdgeLength, result.StdDevEdgeLength = stat.PopMeanStdDev(lengths, nil)
	}
	return result
}

// AnalyzeScene measures every object of a scene in order
func AnalyzeScene(scene *mesh.Scene) []*MeasurementResult {
	results := make([]*MeasurementResult, 0, len(scene.Objects))
	for _, m := range scene.Objects {
		results = append(results, AnalyzeMesh(m))
	}
	return results
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindBoundaryEdges returns the edges used by a single face
func FindBoundaryEdges(result *MeasurementResult) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Boundary() {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}
	return edges[:count]
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
