package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/philipparndt/gosolid/pkg/mesh"
)

// WriteOBJ encodes meshes as one OBJ document with an "o" record per mesh.
// Polygon faces are written as they are.
func WriteOBJ(w io.Writer, meshes ...*mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	base := 1
	for i, m := range meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("object%d", i+1)
		}
		fmt.Fprintf(bw, "o %s\n", name)
		for _, p := range m.Vertices {
			fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		for _, f := range m.Faces {
			bw.WriteString("f")
			for _, v := range f.Verts {
				bw.WriteString(" ")
				bw.WriteString(strconv.Itoa(base + int(v)))
			}
			bw.WriteString("\n")
		}
		base += len(m.Vertices)
	}
	return errors.Wrap(bw.Flush(), "failed to write OBJ")
}

// SaveOBJ writes every mesh into one OBJ file at path
func SaveOBJ(fsys FileSystem, path string, meshes ...*mesh.Mesh) error {
	f, err := fsys.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := WriteOBJ(f, meshes...); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
