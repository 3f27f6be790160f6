package meshio

import (
	"github.com/pkg/errors"

	"github.com/philipparndt/gosolid/pkg/mesh"
)

// Load reads a mesh file, choosing the decoder from the extension. The
// returned scene lists every object in file order and may be empty when
// the file holds no faces.
func Load(fsys FileSystem, path string) (*mesh.Scene, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	var objects []*mesh.Mesh
	switch format {
	case FormatSTL:
		objects, err = ParseSTL(data)
	case FormatOBJ:
		objects, err = ParseOBJ(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s file %s", format, path)
	}

	return &mesh.Scene{Objects: objects}, nil
}
