package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50
)

// ParseSTL decodes an STL document. It detects whether the data is ASCII
// or binary; an ASCII file may hold several solids, each becoming one
// mesh. Solids without facets are skipped.
func ParseSTL(data []byte) ([]*mesh.Mesh, error) {
	if isASCII(data) {
		return parseASCII(bytes.NewReader(data))
	}
	if len(data) >= stlHeaderSize+4 {
		count := int64(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
		if need := stlHeaderSize + 4 + count*stlFacetSize; int64(len(data)) < need {
			return nil, errors.Errorf("truncated binary STL: %d triangles need %d bytes, got %d", count, need, len(data))
		}
	}
	return parseBinary(bytes.NewReader(data))
}

// isASCII checks the "solid" keyword. Some binary exporters also start
// their header with "solid", so a size that matches the binary layout
// exactly wins.
func isASCII(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("solid")) {
		return false
	}
	if len(data) >= stlHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if int64(len(data)) == stlHeaderSize+4+int64(count)*stlFacetSize {
			return false
		}
	}
	return true
}

// parseASCII parses an ASCII STL document
func parseASCII(reader io.Reader) ([]*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)

	var (
		meshes    []*mesh.Mesh
		name      string
		triangles []geometry.Triangle
		normal    geometry.Vector3
		vertices  []geometry.Vector3
		line      int
	)

	flush := func() {
		if len(triangles) > 0 {
			meshes = append(meshes, mesh.FromTriangles(name, triangles))
		}
		name, triangles = "", nil
	}

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			flush()
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: bad facet normal", line)
				}
				normal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad vertex", line)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				triangles = append(triangles, geometry.NewTriangle(normal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
			normal = geometry.Vector3{}

		case "endsolid":
			flush()
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading ASCII STL")
	}
	flush()
	return meshes, nil
}

// parseBinary parses a binary STL document
func parseBinary(reader io.Reader) ([]*mesh.Mesh, error) {
	header := make([]byte, stlHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	name := strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, errors.Wrap(err, "failed to read triangle count")
	}

	var triangles []geometry.Triangle
	for i := uint32(0); i < triangleCount; i++ {
		// normal, three vertices, attribute byte count
		var facet struct {
			Normal, V1, V2, V3 [3]float32
			Attribute          uint16
		}
		if err := binary.Read(reader, binary.LittleEndian, &facet); err != nil {
			return nil, errors.Wrapf(err, "failed to read triangle %d", i)
		}
		triangles = append(triangles, geometry.NewTriangle(
			fromFloat32(facet.Normal),
			fromFloat32(facet.V1),
			fromFloat32(facet.V2),
			fromFloat32(facet.V3),
		))
	}

	if len(triangles) == 0 {
		return nil, nil
	}
	return []*mesh.Mesh{mesh.FromTriangles(name, triangles)}, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

func fromFloat32(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}
