package docstate

import (
	"sort"

	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/eventlog"
	"github.com/inkwell-editor/core/internal/marker"
)

func sortMarkers(markers []marker.Marker) {
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Offset < markers[j].Offset
	})
}

// Apply turns one event into the next State. event is one of the types
// declared in events.go (or a Batch of them); any other type is ignored,
// returning state unchanged.
//
// Apply never mutates state or anything it points to. Insert and Delete
// revive a transient *buffer.Buffer from state.Snapshot.Rope to perform
// the actual edit (reusing the gap/UTF-8-boundary logic Buffer already
// implements), then discard it once the new snapshot has been read back
// out.
func Apply(state State, event eventlog.Event) State {
	switch e := event.(type) {
	case Insert:
		return applyInsert(state, e)
	case Delete:
		return applyDelete(state, e)
	case AddCursor:
		state.Cursors = addCursor(state.Cursors, e.ID, e.Spec)
		return state
	case RemoveCursor:
		state.Cursors = removeCursor(state.Cursors, e.ID)
		return state
	case RemoveSecondary:
		state.Cursors = removeSecondary(state.Cursors)
		return state
	case MoveCursor:
		state.Cursors = setHead(state.Cursors, e.ID, e.New)
		return state
	case SetAnchor:
		state.Cursors = setAnchor(state.Cursors, e.ID, e.Anchor)
		return state
	case Scroll:
		state.ScrollTop = e.New
		return state
	case AddMarker:
		state.Markers = addMarker(state.Markers, e.ID, e.Offset, e.Gravity, e.Namespace)
		return state
	case RemoveMarker:
		state.Markers = removeMarker(state.Markers, e.ID)
		return state
	case ClearMarkerNamespace:
		state.Markers = clearMarkerNamespace(state.Markers, e.Namespace)
		return state
	case Batch:
		return applyBatch(state, e)
	default:
		return state
	}
}

// addMarker inserts m into markers keeping the offset-sorted order
// marker.AdjustAll expects and Tree construction relies on.
func addMarker(markers []marker.Marker, id marker.ID, offset ByteOffset, gravity marker.Gravity, namespace string) []marker.Marker {
	out := append([]marker.Marker(nil), markers...)
	out = append(out, marker.Marker{ID: id, Offset: offset, Gravity: gravity, Namespace: namespace})
	sortMarkers(out)
	return out
}

func removeMarker(markers []marker.Marker, id marker.ID) []marker.Marker {
	out := make([]marker.Marker, 0, len(markers))
	for _, m := range markers {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func clearMarkerNamespace(markers []marker.Marker, namespace string) []marker.Marker {
	out := make([]marker.Marker, 0, len(markers))
	for _, m := range markers {
		if m.Namespace != namespace {
			out = append(out, m)
		}
	}
	return out
}

// applyInsert performs a single text insertion, collapsing the acting
// cursor to just past the inserted text and shifting every other cursor
// and marker per marker.Inserted's gravity rule.
func applyInsert(state State, e Insert) State {
	next, _ := applyInsertChecked(state, e)
	return next
}

// applyInsertChecked is applyInsert's checked form: ok is false, and state
// is returned unchanged, when e.Pos is negative or lands on a UTF-8
// continuation byte. A Pos past the current end succeeds, the buffer
// bridging the distance with a gap. applyBatch uses this to validate a
// sub-event without committing it.
func applyInsertChecked(state State, e Insert) (State, bool) {
	buf := reviveBuffer(state)
	end, err := buf.Insert(e.Pos, e.Text)
	if err != nil {
		return state, false
	}

	state.Snapshot = buf.Snapshot()
	edit := buffer.Edit{Range: buffer.Range{Start: e.Pos, End: e.Pos}, NewText: e.Text}
	state.Cursors = transformCursors(state.Cursors, edit, e.CursorID)
	state.Cursors = collapseTo(state.Cursors, e.CursorID, end)
	n := marker.Notification{Kind: marker.Inserted, Offset: e.Pos, Length: ByteOffset(len(e.Text))}
	state.Markers = marker.AdjustAll(state.Markers, n)
	return state, true
}

// applyDelete performs a single deletion, collapsing the acting cursor to
// the start of the deleted range and shifting every other cursor and
// marker per marker.Deleted's collapse-inside-range rule.
func applyDelete(state State, e Delete) State {
	next, _ := applyDeleteChecked(state, e)
	return next
}

// applyDeleteChecked is applyDelete's checked form: ok is false, and state
// is returned unchanged, when e.Range falls outside the document or either
// endpoint lands on a UTF-8 continuation byte.
func applyDeleteChecked(state State, e Delete) (State, bool) {
	buf := reviveBuffer(state)
	if err := buf.Delete(e.Range.Start, e.Range.End); err != nil {
		return state, false
	}

	state.Snapshot = buf.Snapshot()
	edit := buffer.Edit{Range: e.Range, NewText: ""}
	state.Cursors = transformCursors(state.Cursors, edit, e.CursorID)
	state.Cursors = collapseTo(state.Cursors, e.CursorID, e.Range.Start)
	n := marker.Notification{Kind: marker.Deleted, Offset: e.Range.Start, Length: e.Range.Len()}
	state.Markers = marker.AdjustAll(state.Markers, n)
	return state, true
}

// applyBatch applies every sub-event to state in order, but only once
// tryApplyBatch has confirmed every one of them would succeed: a Batch is
// all-or-nothing, so a failing sub-event must leave state completely
// untouched rather than partially edited. Multi-cursor edits must be
// pre-sorted by the caller into descending position order (Batch itself
// does not reorder them): applying a later-in-document edit first keeps
// every earlier edit's offsets valid without needing markers or cursors to
// chase a shifting document mid-batch.
func applyBatch(state State, e Batch) State {
	next, ok := tryApplyBatch(state, e)
	if !ok {
		return state
	}
	return next
}

// tryApplyBatch reports whether every sub-event in e applies successfully
// against state, returning the fully-applied result when it does. On the
// first sub-event that would fail it stops and returns the original state
// unchanged, so a caller never observes a partially-applied batch.
func tryApplyBatch(state State, e Batch) (State, bool) {
	orig := state
	for _, sub := range e.Events {
		next, ok := tryApply(state, sub)
		if !ok {
			return orig, false
		}
		state = next
	}
	return state, true
}

// tryApply is Apply's checked form: every event kind but Insert, Delete,
// and Batch always succeeds, since they only ever touch cursors, markers,
// or scroll position, none of which can be out of range.
func tryApply(state State, event any) (State, bool) {
	switch e := event.(type) {
	case Insert:
		return applyInsertChecked(state, e)
	case Delete:
		return applyDeleteChecked(state, e)
	case Batch:
		return tryApplyBatch(state, e)
	default:
		return Apply(state, event), true
	}
}

// Validate reports whether event would apply successfully against state
// without mutating state, letting a caller such as Editor.recordLocked
// decide not to log an event it would reject. Only Insert, Delete, and a
// Batch containing either can fail.
func Validate(state State, event any) bool {
	_, ok := tryApply(state, event)
	return ok
}

// reviveBuffer builds a transient, live Buffer from state's rope
// snapshot. Discard it once its resulting Snapshot has been extracted;
// it is never stored back into State.
func reviveBuffer(state State) *buffer.Buffer {
	gapFill := state.GapFill
	if gapFill == 0 {
		gapFill = buffer.DefaultGapFill
	}
	return buffer.NewBufferFromRope(state.Snapshot.Rope(), state.LineEnding, state.TabWidth, buffer.WithGapFill(gapFill))
}
