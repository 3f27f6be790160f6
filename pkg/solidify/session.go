package solidify

import (
	"fmt"

	"github.com/philipparndt/gosolid/pkg/mesh"
)

// Mode is the editing mode of a session
type Mode int

const (
	ModeObject Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "OBJECT"
}

// EditSession owns the target mesh for the duration of one run. Geometry
// operations are only allowed between Enter and Release.
type EditSession struct {
	target *mesh.Mesh
	mode   Mode
}

// NewEditSession wraps a target mesh in object mode
func NewEditSession(target *mesh.Mesh) *EditSession {
	return &EditSession{target: target, mode: ModeObject}
}

// Enter switches to edit mode. The target must satisfy the mesh
// invariants; otherwise the session stays in object mode.
func (s *EditSession) Enter() error {
	if s.target == nil {
		return fmt.Errorf("%w: no target mesh", ErrModeTransition)
	}
	if err := s.target.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrModeTransition, err)
	}
	s.mode = ModeEdit
	return nil
}

// Release returns to object mode. It is safe to call more than once.
func (s *EditSession) Release() {
	s.mode = ModeObject
}

// Mode returns the current mode
func (s *EditSession) Mode() Mode {
	return s.mode
}

// Mesh returns the target while in edit mode
func (s *EditSession) Mesh() (*mesh.Mesh, error) {
	if s.mode != ModeEdit {
		return nil, fmt.Errorf("%w: session is in %s mode", ErrModeTransition, s.mode)
	}
	return s.target, nil
}
