package docstate

import (
	"sort"

	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/cursor"
)

// TrackedCursor pairs a stable CursorID with its current selection. Plain
// cursor.CursorSet has no notion of a stable identity across normalize's
// sort/merge passes (callers address it by index); docstate needs exactly
// that identity to satisfy cursors[id].set_head(new)-style events, so it
// keeps its own ID-tagged slice and re-implements the sort/merge pass
// cursor.CursorSet.normalize does, carrying the ID along through merges.
type TrackedCursor struct {
	ID  CursorID
	Sel cursor.Selection
}

// addCursor inserts spec under a fresh ID (or id, if provided), merging
// with any cursor it overlaps. The merged cursor keeps the newly added
// cursor's head as its surviving head (and its ID), per the add() policy:
// a cursor that merges into an existing selection is still "the" cursor
// the caller just added.
func addCursor(cursors []TrackedCursor, id CursorID, spec cursor.Selection) []TrackedCursor {
	out := append(append([]TrackedCursor(nil), cursors...), TrackedCursor{ID: id, Sel: spec})
	return normalizeCursors(out, id)
}

// removeCursor deletes the cursor with the given id. If it was the only
// cursor, a single collapsed cursor at offset 0 takes its place: a
// document always has at least one cursor.
func removeCursor(cursors []TrackedCursor, id CursorID) []TrackedCursor {
	out := make([]TrackedCursor, 0, len(cursors))
	for _, tc := range cursors {
		if tc.ID != id {
			out = append(out, tc)
		}
	}
	if len(out) == 0 {
		return []TrackedCursor{{ID: NewCursorID(), Sel: cursor.NewCursorSelection(0)}}
	}
	return out
}

// removeSecondary collapses to the primary cursor only (lowest Start()).
func removeSecondary(cursors []TrackedCursor) []TrackedCursor {
	if len(cursors) <= 1 {
		return cursors
	}
	primary := primaryOf(cursors)
	return []TrackedCursor{primary}
}

// primaryOf returns the cursor with the lowest Start(), ties broken by
// whichever appears first — the same ordering normalizeCursors produces,
// so callers may rely on cursors[0] already being primary after a
// normalize pass.
func primaryOf(cursors []TrackedCursor) TrackedCursor {
	best := cursors[0]
	for _, tc := range cursors[1:] {
		if tc.Sel.Start() < best.Sel.Start() {
			best = tc
		}
	}
	return best
}

// setHead updates the cursor with id's head, leaving its anchor (and
// every other cursor) untouched, then renormalizes.
func setHead(cursors []TrackedCursor, id CursorID, newHead ByteOffset) []TrackedCursor {
	out := mapCursor(cursors, id, func(sel cursor.Selection) cursor.Selection {
		return cursor.Selection{Anchor: sel.Anchor, Head: newHead, StickyCol: cursor.NoStickyCol}
	})
	return normalizeCursors(out, id)
}

// setAnchor updates the cursor with id's anchor, leaving its head
// untouched, then renormalizes.
func setAnchor(cursors []TrackedCursor, id CursorID, newAnchor ByteOffset) []TrackedCursor {
	out := mapCursor(cursors, id, func(sel cursor.Selection) cursor.Selection {
		return cursor.Selection{Anchor: newAnchor, Head: sel.Head, StickyCol: cursor.NoStickyCol}
	})
	return normalizeCursors(out, id)
}

// collapseTo moves the cursor with id to a collapsed point at offset,
// discarding any existing selection.
func collapseTo(cursors []TrackedCursor, id CursorID, offset ByteOffset) []TrackedCursor {
	out := mapCursor(cursors, id, func(cursor.Selection) cursor.Selection {
		return cursor.NewCursorSelection(offset)
	})
	return normalizeCursors(out, id)
}

// transformCursors runs edit through cursor.TransformSelection for every
// tracked cursor, then renormalizes with actingID preferred as the
// surviving cursor in any merge. This is the same per-offset transform
// internal/cursor's own TransformCursorSet applies to a plain CursorSet,
// generalized to the ID-tagged slice docstate keeps.
func transformCursors(cursors []TrackedCursor, edit buffer.Edit, actingID CursorID) []TrackedCursor {
	out := make([]TrackedCursor, len(cursors))
	for i, tc := range cursors {
		out[i] = TrackedCursor{ID: tc.ID, Sel: cursor.TransformSelection(tc.Sel, edit)}
	}
	return normalizeCursors(out, actingID)
}

func mapCursor(cursors []TrackedCursor, id CursorID, f func(cursor.Selection) cursor.Selection) []TrackedCursor {
	out := make([]TrackedCursor, len(cursors))
	for i, tc := range cursors {
		if tc.ID == id {
			tc.Sel = f(tc.Sel)
		}
		out[i] = tc
	}
	return out
}

// normalizeCursors sorts by head and merges cursors whose selections
// overlap or whose heads are identical, mirroring
// cursor.CursorSet.normalize's sort/merge pass but carrying IDs along. If
// preferID names a surviving cursor in a merge, that cursor's ID and head
// win the merge instead of the default union-of-ranges Selection.Merge.
func normalizeCursors(cursors []TrackedCursor, preferID CursorID) []TrackedCursor {
	if len(cursors) <= 1 {
		return cursors
	}

	out := append([]TrackedCursor(nil), cursors...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sel.Head < out[j].Sel.Head
	})

	merged := out[:1]
	for _, tc := range out[1:] {
		last := &merged[len(merged)-1]
		if tc.Sel.Touches(last.Sel) || tc.Sel.Head == last.Sel.Head {
			merged[len(merged)-1] = mergePreferring(*last, tc, preferID)
		} else {
			merged = append(merged, tc)
		}
	}
	return merged
}

// mergePreferring merges a and b's selections, keeping whichever one's ID
// matches preferID as the surviving ID and head (falling back to a's
// union-of-ranges result if neither matches, e.g. two pre-existing
// cursors merging as a side effect of a third cursor's move).
func mergePreferring(a, b TrackedCursor, preferID CursorID) TrackedCursor {
	union := a.Sel.Merge(b.Sel)
	switch preferID {
	case a.ID:
		return TrackedCursor{ID: a.ID, Sel: cursor.Selection{Anchor: union.Anchor, Head: a.Sel.Head, StickyCol: cursor.NoStickyCol}}
	case b.ID:
		return TrackedCursor{ID: b.ID, Sel: cursor.Selection{Anchor: union.Anchor, Head: b.Sel.Head, StickyCol: cursor.NoStickyCol}}
	default:
		return TrackedCursor{ID: a.ID, Sel: union}
	}
}
