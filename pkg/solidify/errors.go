package solidify

import (
	"errors"

	"github.com/philipparndt/gosolid/pkg/meshio"
)

var (
	// ErrUnrecognizedFormat is returned when the input extension is not
	// one of the supported mesh formats
	ErrUnrecognizedFormat = meshio.ErrUnrecognizedFormat

	// ErrNoTargetObject is returned when the imported file holds no mesh
	ErrNoTargetObject = errors.New("no mesh object to process")

	// ErrModeTransition is returned when the edit session cannot be entered
	ErrModeTransition = errors.New("cannot enter edit mode")

	// ErrPartialSelection is returned when an extrusion is asked for a
	// selection that does not cover the whole mesh
	ErrPartialSelection = errors.New("selection must cover every vertex")

	// ErrNothingToExtrude is returned when the selected region has no open
	// boundary to extrude
	ErrNothingToExtrude = errors.New("selected region has no boundary edges")

	// ErrZeroOffset is returned for an extrusion offset of length zero
	ErrZeroOffset = errors.New("extrusion offset is zero")
)
