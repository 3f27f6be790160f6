package meshio

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/philipparndt/gosolid/pkg/geometry"
	"github.com/philipparndt/gosolid/pkg/mesh"
)

// WriteSTL encodes triangles as a binary STL document. The header carries
// name, truncated to 80 bytes and padded with zeros. A name starting with
// "solid" is prefixed so readers do not mistake the file for ASCII.
func WriteSTL(w io.Writer, name string, triangles []geometry.Triangle) error {
	if strings.HasPrefix(name, "solid") {
		name = "mesh " + name
	}
	if uint64(len(triangles)) > math.MaxUint32 {
		return errors.Errorf("too many triangles for STL: %d", len(triangles))
	}

	bw := bufio.NewWriter(w)
	header := make([]byte, stlHeaderSize)
	copy(header, name)
	if _, err := bw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return errors.Wrap(err, "failed to write triangle count")
	}

	buf := make([]byte, stlFacetSize)
	for i, tri := range triangles {
		for j, v := range [4]geometry.Vector3{tri.Normal, tri.V1, tri.V2, tri.V3} {
			putFloat32(buf[j*12:], v.X)
			putFloat32(buf[j*12+4:], v.Y)
			putFloat32(buf[j*12+8:], v.Z)
		}
		// attribute byte count stays zero
		buf[48], buf[49] = 0, 0
		if _, err := bw.Write(buf); err != nil {
			return errors.Wrapf(err, "failed to write triangle %d", i)
		}
	}
	return errors.Wrap(bw.Flush(), "failed to flush STL")
}

// SaveSTL writes every mesh into one binary STL file at path
func SaveSTL(fsys FileSystem, path string, meshes ...*mesh.Mesh) error {
	var triangles []geometry.Triangle
	name := ""
	for _, m := range meshes {
		if name == "" {
			name = m.Name
		}
		triangles = append(triangles, m.Triangles()...)
	}

	f, err := fsys.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := WriteSTL(f, name, triangles); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}

func putFloat32(b []byte, v float64) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
}
