package meshio

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// ParseOBJ decodes a Wavefront OBJ document. Each "o" or "g" record starts
// a new object; vertex indices are global to the file as the format
// requires. Texture coordinates, normals and materials are ignored.
// Objects without faces are skipped.
func ParseOBJ(data []byte) ([]*mesh.Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		positions []geometry.Vector3
		meshes    []*mesh.Mesh
		current   *mesh.Mesh
		local     map[int]mesh.VertexID
		line      int
	)

	start := func(name string) {
		if current != nil && current.FaceCount() > 0 {
			meshes = append(meshes, current)
		}
		current = mesh.New(name)
		local = make(map[int]mesh.VertexID)
	}
	start("")

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad vertex", line)
			}
			positions = append(positions, v)

		case "o", "g":
			name := strings.Join(fields[1:], " ")
			if current.FaceCount() == 0 {
				// nothing collected yet, just rename
				current.Name = name
				continue
			}
			start(name)

		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices", line)
			}
			verts := make([]mesh.VertexID, 0, len(fields)-1)
			for _, token := range fields[1:] {
				idx, err := resolveIndex(token, len(positions))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", line)
				}
				id, ok := local[idx]
				if !ok {
					id = current.AddVertex(positions[idx])
					local[idx] = id
				}
				verts = append(verts, id)
			}
			// faces that collapse onto fewer than three vertices are dropped
			_, _ = current.AddFace(verts...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading OBJ")
	}
	start("")

	for _, m := range meshes {
		m.Compact()
	}
	return meshes, nil
}

// resolveIndex turns an OBJ face token such as "3", "3/1" or "-1//2" into
// a zero-based position index
func resolveIndex(token string, count int) (int, error) {
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		token = token[:slash]
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, errors.Wrapf(err, "bad face index %q", token)
	}
	idx := n - 1
	if n < 0 {
		idx = count + n
	}
	if n == 0 || idx < 0 || idx >= count {
		return 0, errors.Errorf("face index %d out of range (%d vertices)", n, count)
	}
	return idx, nil
}
