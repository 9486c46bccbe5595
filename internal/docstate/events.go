package docstate

import (
	"github.com/google/uuid"

	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/cursor"
	"github.com/inkwell-editor/core/internal/marker"
)

// ByteOffset is a byte position into the document.
type ByteOffset = buffer.ByteOffset

// CursorID identifies one cursor across MoveCursor/SetAnchor/RemoveCursor
// events, stable for the cursor's lifetime regardless of how normalize
// reorders the slice it lives in.
type CursorID = uuid.UUID

// NewCursorID returns a fresh, unique cursor identifier.
func NewCursorID() CursorID {
	return uuid.New()
}

// Insert inserts text at pos under the named cursor, which then advances
// to just past the inserted text, collapsed to a point.
type Insert struct {
	Pos      ByteOffset
	Text     string
	CursorID CursorID
}

// Delete removes the bytes in Range. Text carries the deleted bytes so
// the event remains self-describing for logging/diagnostics; eventlog's
// GC may later redact it once it falls below the low water mark. The
// named cursor collapses to Range.Start.
type Delete struct {
	Range    buffer.Range
	Text     string
	CursorID CursorID
}

// AddCursor inserts a new cursor/selection, merging with any existing
// cursor it overlaps (surviving head is the new cursor's head, per the
// add() contract).
type AddCursor struct {
	ID   CursorID
	Spec cursor.Selection
}

// RemoveCursor removes one cursor by id. Removing the only cursor replaces
// it with a fresh collapsed cursor at offset 0: a document always has at
// least one cursor.
type RemoveCursor struct {
	ID CursorID
}

// RemoveSecondary collapses the cursor set down to the primary cursor
// alone, discarding every other cursor.
type RemoveSecondary struct{}

// MoveCursor sets a cursor's head to New without moving its anchor,
// extending or shrinking its selection. Old is informational (the head's
// position before the move) and is not consulted by Apply.
type MoveCursor struct {
	ID       CursorID
	Old, New ByteOffset
}

// SetAnchor sets a cursor's anchor without moving its head.
type SetAnchor struct {
	ID     CursorID
	Anchor ByteOffset
}

// Scroll updates the viewport's top byte offset (must be a line start;
// callers are expected to have already resolved this via internal/viewport
// before recording the event).
type Scroll struct {
	Old, New ByteOffset
}

// Batch applies a sequence of events as one logical unit. Sub-events are
// applied in order; none of them sees a partially-applied sibling's event
// as an eventlog entry of its own (the whole batch is one entry).
type Batch struct {
	Events []any
}

// AddMarker installs a tracked anchor at Offset, under the given ID so the
// caller (internal/editor, building an Overlay or ConcealRange) can address
// it again without a round trip through State. Markers added this way ride
// along with every subsequent Insert/Delete exactly like cursors do.
type AddMarker struct {
	ID        marker.ID
	Offset    ByteOffset
	Gravity   marker.Gravity
	Namespace string
}

// RemoveMarker deletes a single marker by ID. Removing an unknown or
// already-removed ID is a no-op.
type RemoveMarker struct {
	ID marker.ID
}

// ClearMarkerNamespace removes every marker tagged with Namespace.
type ClearMarkerNamespace struct {
	Namespace string
}
