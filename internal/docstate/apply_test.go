package docstate

import (
	"sort"
	"testing"

	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/cursor"
	"github.com/inkwell-editor/core/internal/marker"
)

func newTestState(text string) (State, CursorID) {
	s := NewStateFromText(text, buffer.LineEndingLF, 4)
	return s, s.PrimaryCursor().ID
}

func TestApplyInsertUpdatesTextAndCollapsesCursor(t *testing.T) {
	s, id := newTestState("hello world")
	s = Apply(s, Insert{Pos: 5, Text: ",", CursorID: id})

	if got := s.Text(); got != "hello, world" {
		t.Fatalf("unexpected text %q", got)
	}
	cur, ok := s.CursorByID(id)
	if !ok {
		t.Fatal("cursor missing after insert")
	}
	if !cur.Sel.IsEmpty() || cur.Sel.Head != 6 {
		t.Fatalf("expected cursor collapsed at 6, got %+v", cur.Sel)
	}
}

func TestApplyInsertShiftsOtherCursors(t *testing.T) {
	s, id := newTestState("hello world")
	second := NewCursorID()
	s.Cursors = append(s.Cursors, TrackedCursor{ID: second, Sel: cursor.NewCursorSelection(8)})

	s = Apply(s, Insert{Pos: 5, Text: "!!", CursorID: id})

	cur, _ := s.CursorByID(second)
	if cur.Sel.Head != 10 {
		t.Fatalf("expected trailing cursor shifted to 10, got %d", cur.Sel.Head)
	}
}

func TestApplyDeleteUpdatesTextAndCollapsesCursor(t *testing.T) {
	s, id := newTestState("hello, world")
	s = Apply(s, Delete{Range: buffer.Range{Start: 5, End: 7}, Text: ", ", CursorID: id})

	if got := s.Text(); got != "helloworld" {
		t.Fatalf("unexpected text %q", got)
	}
	cur, _ := s.CursorByID(id)
	if cur.Sel.Head != 5 {
		t.Fatalf("expected cursor collapsed at 5, got %d", cur.Sel.Head)
	}
}

func TestApplyDeleteCollapsesMarkerInsideRange(t *testing.T) {
	s, id := newTestState("hello world")
	s.Markers = []marker.Marker{{ID: marker.ID{}, Offset: 8, Gravity: marker.GravityLeft, Namespace: "overlay"}}

	s = Apply(s, Delete{Range: buffer.Range{Start: 3, End: 9}, Text: "lo wor", CursorID: id})

	if len(s.Markers) != 1 || s.Markers[0].Offset != 3 {
		t.Fatalf("expected marker collapsed to deletion start 3, got %+v", s.Markers)
	}
}

func TestApplyAddCursorRemoveCursorScroll(t *testing.T) {
	s, primary := newTestState("hello world")

	newID := NewCursorID()
	s = Apply(s, AddCursor{ID: newID, Spec: cursor.NewCursorSelection(6)})
	if len(s.Cursors) != 2 {
		t.Fatalf("expected two cursors after add, got %d", len(s.Cursors))
	}

	s = Apply(s, RemoveCursor{ID: newID})
	if len(s.Cursors) != 1 || s.Cursors[0].ID != primary {
		t.Fatalf("expected only the primary cursor left, got %+v", s.Cursors)
	}

	s = Apply(s, Scroll{Old: 0, New: 120})
	if s.ScrollTop != 120 {
		t.Fatalf("expected scroll top 120, got %d", s.ScrollTop)
	}
}

func TestApplyMoveCursorAndSetAnchor(t *testing.T) {
	s, id := newTestState("hello world")
	s = Apply(s, MoveCursor{ID: id, Old: 0, New: 5})
	cur, _ := s.CursorByID(id)
	if cur.Sel.Head != 5 || cur.Sel.Anchor != 0 {
		t.Fatalf("expected selection 0->5, got %+v", cur.Sel)
	}

	s = Apply(s, SetAnchor{ID: id, Anchor: 2})
	cur, _ = s.CursorByID(id)
	if cur.Sel.Anchor != 2 || cur.Sel.Head != 5 {
		t.Fatalf("expected selection 2->5, got %+v", cur.Sel)
	}
}

func TestApplyBatchMultiCursorDescendingOrder(t *testing.T) {
	s, _ := newTestState("aaa bbb ccc")

	a := NewCursorID()
	b := NewCursorID()
	s.Cursors = []TrackedCursor{
		{ID: a, Sel: cursor.NewCursorSelection(4)},
		{ID: b, Sel: cursor.NewCursorSelection(8)},
	}

	edits := []struct {
		id  CursorID
		pos ByteOffset
	}{{a, 4}, {b, 8}}
	sort.Slice(edits, func(i, j int) bool { return edits[i].pos > edits[j].pos })

	var batch Batch
	for _, e := range edits {
		batch.Events = append(batch.Events, Insert{Pos: e.pos, Text: "X", CursorID: e.id})
	}
	s = Apply(s, batch)

	if got := s.Text(); got != "aaa Xbbb Xccc" {
		t.Fatalf("unexpected text after batch insert %q", got)
	}
}

func TestApplyAddMarkerTracksInsertsAndDeletes(t *testing.T) {
	s, _ := newTestState("hello world")

	id := marker.ID(NewCursorID())
	s = Apply(s, AddMarker{ID: id, Offset: 6, Gravity: marker.GravityLeft, Namespace: "overlay"})
	if len(s.Markers) != 1 || s.Markers[0].Offset != 6 {
		t.Fatalf("expected one marker at 6, got %+v", s.Markers)
	}

	s = Apply(s, Insert{Pos: 0, Text: "say ", CursorID: NewCursorID()})
	if s.Markers[0].Offset != 10 {
		t.Fatalf("expected marker shifted to 10 after leading insert, got %d", s.Markers[0].Offset)
	}

	s = Apply(s, Delete{Range: buffer.Range{Start: 0, End: 4}, Text: "say ", CursorID: NewCursorID()})
	if s.Markers[0].Offset != 6 {
		t.Fatalf("expected marker shifted back to 6 after leading delete, got %d", s.Markers[0].Offset)
	}
}

func TestApplyRemoveMarker(t *testing.T) {
	s, _ := newTestState("hello world")

	keep := marker.ID(NewCursorID())
	gone := marker.ID(NewCursorID())
	s = Apply(s, AddMarker{ID: keep, Offset: 1, Namespace: "a"})
	s = Apply(s, AddMarker{ID: gone, Offset: 2, Namespace: "a"})

	s = Apply(s, RemoveMarker{ID: gone})
	if len(s.Markers) != 1 || s.Markers[0].ID != keep {
		t.Fatalf("expected only %v left, got %+v", keep, s.Markers)
	}

	s = Apply(s, RemoveMarker{ID: gone})
	if len(s.Markers) != 1 {
		t.Fatalf("removing an already-removed marker should be a no-op, got %+v", s.Markers)
	}
}

func TestApplyClearMarkerNamespace(t *testing.T) {
	s, _ := newTestState("hello world")

	s = Apply(s, AddMarker{ID: marker.ID(NewCursorID()), Offset: 1, Namespace: "diagnostics"})
	s = Apply(s, AddMarker{ID: marker.ID(NewCursorID()), Offset: 3, Namespace: "markdown"})
	s = Apply(s, AddMarker{ID: marker.ID(NewCursorID()), Offset: 5, Namespace: "diagnostics"})

	s = Apply(s, ClearMarkerNamespace{Namespace: "diagnostics"})

	if len(s.Markers) != 1 || s.Markers[0].Namespace != "markdown" {
		t.Fatalf("expected only the markdown marker left, got %+v", s.Markers)
	}
}

func TestApplyUnknownEventIsNoOp(t *testing.T) {
	s, _ := newTestState("unchanged")
	out := Apply(s, struct{ Foo int }{Foo: 1})
	if out.Text() != s.Text() {
		t.Fatalf("expected state unchanged for unrecognized event")
	}
}

func TestApplyBatchAppliesAllOnSuccess(t *testing.T) {
	s, id := newTestState("hello world")

	s = Apply(s, Batch{Events: []any{
		Insert{Pos: 11, Text: "!", CursorID: id},
		Insert{Pos: 0, Text: ">> ", CursorID: id},
	}})

	if got := s.Text(); got != ">> hello world!" {
		t.Fatalf("unexpected text %q", got)
	}
}

// TestApplyBatchRejectsPartiallyOnFailure exercises the all-or-nothing
// contract: a Batch whose later sub-event targets an out-of-range offset
// must leave state exactly as it was before the batch, not with the
// earlier, otherwise-valid sub-events already applied.
func TestApplyBatchRejectsPartiallyOnFailure(t *testing.T) {
	s, id := newTestState("hello world")
	before := s.Text()

	out := Apply(s, Batch{Events: []any{
		Insert{Pos: 0, Text: ">> ", CursorID: id},
		Delete{Range: buffer.Range{Start: 0, End: 9999}, CursorID: id},
	}})

	if out.Text() != before {
		t.Fatalf("expected batch rejected wholesale, got text %q", out.Text())
	}
	if len(out.Cursors) != len(s.Cursors) {
		t.Fatalf("expected cursors untouched by a rejected batch, got %+v", out.Cursors)
	}
}

func TestValidateReportsBatchFailureWithoutMutating(t *testing.T) {
	s, id := newTestState("hello world")

	if !Validate(s, Insert{Pos: 5, Text: "x", CursorID: id}) {
		t.Fatal("expected an in-range insert to validate")
	}
	if Validate(s, Delete{Range: buffer.Range{Start: 0, End: 9999}, CursorID: id}) {
		t.Fatal("expected an out-of-range delete to fail validation")
	}
	if Validate(s, Batch{Events: []any{
		Insert{Pos: 0, Text: "a", CursorID: id},
		Delete{Range: buffer.Range{Start: 0, End: 9999}, CursorID: id},
	}}) {
		t.Fatal("expected a batch with a failing sub-event to fail validation")
	}
	if s.Text() != "hello world" {
		t.Fatalf("Validate must never mutate its argument, got %q", s.Text())
	}
}
