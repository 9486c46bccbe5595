package docstate

import (
	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/cursor"
	"github.com/inkwell-editor/core/internal/marker"
)

// State is the complete, immutable document state eventlog.Log[State]
// checkpoints and replays. Every field is a value or a pointer to an
// already-immutable value (*buffer.Snapshot never mutates once built), so
// copying a State is always safe and cheap.
type State struct {
	Snapshot   *buffer.Snapshot
	LineEnding buffer.LineEnding
	TabWidth   int

	// GapFill is the byte reviveBuffer's transient Buffer reads back for
	// a gap (an Insert whose offset landed past the document's end).
	// Defaults to buffer.DefaultGapFill.
	GapFill byte

	// Cursors is kept sorted by head (normalizeCursors's invariant) and
	// always has at least one entry.
	Cursors []TrackedCursor

	// Markers holds every tracked overlay/conceal anchor, keyed by
	// namespace via marker.Marker.Namespace; ordinary cursors are not
	// stored here (they live in Cursors).
	Markers []marker.Marker

	ScrollTop ByteOffset
}

// NewState returns the initial state for an empty document: a single
// cursor at offset 0 and no markers.
func NewState(lineEnding buffer.LineEnding, tabWidth int) State {
	return NewStateFromText("", lineEnding, tabWidth)
}

// NewStateFromText builds the initial state from existing document text.
func NewStateFromText(text string, lineEnding buffer.LineEnding, tabWidth int) State {
	buf := buffer.NewBufferFromString(text, buffer.WithLineEnding(lineEnding), buffer.WithTabWidth(tabWidth))
	return State{
		Snapshot:   buf.Snapshot(),
		LineEnding: lineEnding,
		TabWidth:   tabWidth,
		GapFill:    buffer.DefaultGapFill,
		Cursors:    []TrackedCursor{{ID: NewCursorID(), Sel: cursor.NewCursorSelection(0)}},
	}
}

// PrimaryCursor returns the lowest-offset cursor, which normalizeCursors
// always keeps at index 0.
func (s State) PrimaryCursor() TrackedCursor {
	return s.Cursors[0]
}

// CursorByID returns the cursor with the given id, if still present (a
// merge may have absorbed it into another cursor).
func (s State) CursorByID(id CursorID) (TrackedCursor, bool) {
	for _, tc := range s.Cursors {
		if tc.ID == id {
			return tc, true
		}
	}
	return TrackedCursor{}, false
}

// Len returns the document's length in bytes.
func (s State) Len() ByteOffset {
	return s.Snapshot.Len()
}

// Text returns the document's full text. Intended for tests and small
// documents; large-document callers should read via Snapshot directly.
func (s State) Text() string {
	return s.Snapshot.Text()
}
