// Package meshio reads and writes mesh files: STL (ASCII and binary) and
// Wavefront OBJ in, binary STL out.
package meshio

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies a supported mesh file format
type Format int

const (
	FormatUnknown Format = iota
	FormatSTL
	FormatOBJ
)

const (
	// OutputSuffix marks solidified output files
	OutputSuffix = "-3D"

	// OutputExt is the extension of every output file
	OutputExt = ".stl"
)

// ErrUnrecognizedFormat is returned for extensions other than .stl and .obj
var ErrUnrecognizedFormat = errors.New("unrecognized file format")

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "STL"
	case FormatOBJ:
		return "OBJ"
	}
	return "unknown"
}

// DetectFormat picks the format from the file extension, ignoring case
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL, nil
	case ".obj":
		return FormatOBJ, nil
	}
	return FormatUnknown, errors.Wrapf(ErrUnrecognizedFormat, "%q", filepath.Ext(path))
}

// OutputPath derives the output file name: name.ext becomes name-3D.stl.
// Only the trailing extension is replaced.
func OutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + OutputSuffix + OutputExt
}
