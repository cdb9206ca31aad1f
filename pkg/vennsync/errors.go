package vennsync

import (
	"errors"
	"fmt"
)

// ErrUnknownDiagram indicates a binding whose diagram type has no generator.
var ErrUnknownDiagram = errors.New("unknown diagram type")

// ErrNoSurface indicates an engine created without a document surface.
var ErrNoSurface = errors.New("no document surface")

// Stages of a binding update, reported by SyncError.
const (
	StageResolve = "resolve"
	StageRead    = "read"
	StageRender  = "render"
	StageReplace = "replace"
	StageMeta    = "metadata"
	StageInsert  = "insert"
)

// SyncError represents a failure to update one bound diagram.
type SyncError struct {
	Alt   string
	Stage string
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error for diagram %q (%s): %v", e.Alt, e.Stage, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError.
func NewSyncError(alt, stage string, err error) *SyncError {
	return &SyncError{
		Alt:   alt,
		Stage: stage,
		Err:   err,
	}
}

// StaleBindingError indicates an indexed binding whose diagram no longer exists.
type StaleBindingError struct {
	Alt string
}

func (e *StaleBindingError) Error() string {
	return fmt.Sprintf("diagram %q no longer exists", e.Alt)
}
