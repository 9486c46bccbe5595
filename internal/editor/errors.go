package editor

import "errors"

// Sentinel errors returned by Editor operations, matched with errors.Is.
var (
	ErrNoSuchCursor  = errors.New("editor: no such cursor")
	ErrNoSuchMarker  = errors.New("editor: no such marker")
	ErrNoSuchOverlay = errors.New("editor: no such overlay")
	ErrOutOfRange    = errors.New("editor: position out of range")
	ErrUndoExhausted = errors.New("editor: nothing to undo")
	ErrRedoExhausted = errors.New("editor: nothing to redo")
	ErrConflict      = errors.New("editor: transformer output references unmapped source bytes")
)
