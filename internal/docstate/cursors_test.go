package docstate

import (
	"testing"

	"github.com/inkwell-editor/core/internal/cursor"
)

func TestAddCursorMergeKeepsNewHead(t *testing.T) {
	existing := NewCursorID()
	cursors := []TrackedCursor{{ID: existing, Sel: cursor.NewSelection(5, 15)}}

	newID := NewCursorID()
	out := addCursor(cursors, newID, cursor.NewSelection(10, 20))

	if len(out) != 1 {
		t.Fatalf("expected merge to leave one cursor, got %d", len(out))
	}
	if out[0].ID != newID {
		t.Fatalf("expected surviving cursor to be the newly added one, got id %v", out[0].ID)
	}
	if out[0].Sel.Head != 20 {
		t.Fatalf("expected surviving head to be the new cursor's head 20, got %d", out[0].Sel.Head)
	}
}

func TestAddCursorNoOverlapKeepsBoth(t *testing.T) {
	existing := NewCursorID()
	cursors := []TrackedCursor{{ID: existing, Sel: cursor.NewCursorSelection(5)}}

	newID := NewCursorID()
	out := addCursor(cursors, newID, cursor.NewCursorSelection(50))

	if len(out) != 2 {
		t.Fatalf("expected two distinct cursors, got %d", len(out))
	}
	if out[0].Sel.Head != 5 || out[1].Sel.Head != 50 {
		t.Fatalf("expected cursors sorted by head, got %+v", out)
	}
}

func TestRemoveCursorLeavesOthers(t *testing.T) {
	a, b := NewCursorID(), NewCursorID()
	cursors := []TrackedCursor{
		{ID: a, Sel: cursor.NewCursorSelection(1)},
		{ID: b, Sel: cursor.NewCursorSelection(2)},
	}
	out := removeCursor(cursors, a)
	if len(out) != 1 || out[0].ID != b {
		t.Fatalf("expected only b to survive, got %+v", out)
	}
}

func TestRemoveCursorLastRestoresSingleCursor(t *testing.T) {
	only := NewCursorID()
	out := removeCursor([]TrackedCursor{{ID: only, Sel: cursor.NewCursorSelection(7)}}, only)
	if len(out) != 1 {
		t.Fatalf("expected a replacement cursor, got %d", len(out))
	}
	if !out[0].Sel.IsEmpty() || out[0].Sel.Head != 0 {
		t.Fatalf("expected the replacement cursor collapsed at 0, got %+v", out[0].Sel)
	}
}

func TestRemoveSecondaryKeepsLowestStart(t *testing.T) {
	a, b, c := NewCursorID(), NewCursorID(), NewCursorID()
	cursors := []TrackedCursor{
		{ID: a, Sel: cursor.NewCursorSelection(30)},
		{ID: b, Sel: cursor.NewCursorSelection(5)},
		{ID: c, Sel: cursor.NewCursorSelection(15)},
	}
	out := removeSecondary(cursors)
	if len(out) != 1 || out[0].ID != b {
		t.Fatalf("expected only the lowest-start cursor b to survive, got %+v", out)
	}
}

func TestSetHeadExtendsSelectionAndRenormalizes(t *testing.T) {
	id := NewCursorID()
	cursors := []TrackedCursor{{ID: id, Sel: cursor.NewCursorSelection(10)}}
	out := setHead(cursors, id, 40)
	if out[0].Sel.Anchor != 10 || out[0].Sel.Head != 40 {
		t.Fatalf("expected anchor held at 10, head moved to 40, got %+v", out[0].Sel)
	}
}

func TestSetAnchorLeavesHeadInPlace(t *testing.T) {
	id := NewCursorID()
	cursors := []TrackedCursor{{ID: id, Sel: cursor.NewSelection(10, 20)}}
	out := setAnchor(cursors, id, 3)
	if out[0].Sel.Anchor != 3 || out[0].Sel.Head != 20 {
		t.Fatalf("expected anchor 3, head 20, got %+v", out[0].Sel)
	}
}

func TestCollapseToDiscardsSelection(t *testing.T) {
	id := NewCursorID()
	cursors := []TrackedCursor{{ID: id, Sel: cursor.NewSelection(10, 20)}}
	out := collapseTo(cursors, id, 25)
	if !out[0].Sel.IsEmpty() || out[0].Sel.Head != 25 {
		t.Fatalf("expected a collapsed cursor at 25, got %+v", out[0].Sel)
	}
}

func TestNormalizeCursorsMergesOverlapping(t *testing.T) {
	a, b := NewCursorID(), NewCursorID()
	cursors := []TrackedCursor{
		{ID: a, Sel: cursor.NewSelection(0, 10)},
		{ID: b, Sel: cursor.NewSelection(5, 15)},
	}
	out := normalizeCursors(cursors, a)
	if len(out) != 1 {
		t.Fatalf("expected overlapping selections to merge, got %+v", out)
	}
	if out[0].ID != a || out[0].Sel.Head != 10 {
		t.Fatalf("expected preferred cursor a's head 10 to survive, got %+v", out[0])
	}
}
