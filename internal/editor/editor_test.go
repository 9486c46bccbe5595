package editor

import (
	"errors"
	"testing"

	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/cursor"
	"github.com/inkwell-editor/core/internal/docstate"
	"github.com/inkwell-editor/core/internal/viewpipeline"
)

func newTestEditor(content string) *Editor {
	cfg := DefaultConfig()
	cfg.Content = content
	return New(cfg)
}

func TestTypingAndUndo(t *testing.T) {
	e := newTestEditor("hello")
	primary := e.state.PrimaryCursor()

	// Start with the cursor at the end of "hello".
	e.Record(docstate.MoveCursor{ID: primary.ID, New: 5})
	e.Record(docstate.Insert{Pos: 5, Text: " world", CursorID: primary.ID})
	if got := e.Text(); got != "hello world" {
		t.Fatalf("text = %q, want %q", got, "hello world")
	}
	if got := e.PrimaryCursor(); got != 11 {
		t.Fatalf("cursor = %d, want 11", got)
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := e.Text(); got != "hello" {
		t.Fatalf("after undo, text = %q, want %q", got, "hello")
	}
	if got := e.PrimaryCursor(); got != 5 {
		t.Fatalf("after undo, cursor = %d, want 5", got)
	}

	if _, err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := e.Text(); got != "hello world" {
		t.Fatalf("after redo, text = %q, want %q", got, "hello world")
	}
	if got := e.PrimaryCursor(); got != 11 {
		t.Fatalf("after redo, cursor = %d, want 11", got)
	}
}

func TestMultiCursorBatchInsert(t *testing.T) {
	e := newTestEditor("abc\nabc\nabc")

	e.Record(docstate.AddCursor{ID: docstate.NewCursorID(), Spec: selAt(4)})
	e.Record(docstate.AddCursor{ID: docstate.NewCursorID(), Spec: selAt(8)})

	var events []any
	for _, tc := range e.state.Cursors {
		events = append(events, docstate.Insert{Pos: tc.Sel.Cursor(), Text: "X", CursorID: tc.ID})
	}
	// Descending position order so each earlier edit's offsets stay valid.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	e.Record(docstate.Batch{Events: events})

	want := "Xabc\nXabc\nXabc"
	if got := e.Text(); got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestBatchWithFailingSubEventIsRejectedWholesale(t *testing.T) {
	e := newTestEditor("hello world")
	primary := e.state.PrimaryCursor()
	before := e.Text()
	logLenBefore := e.log.Len()

	id := e.Record(docstate.Batch{Events: []any{
		docstate.Insert{Pos: 0, Text: ">> ", CursorID: primary.ID},
		docstate.Delete{Range: buffer.Range{Start: 0, End: 9999}, CursorID: primary.ID},
	}})

	if id != 0 {
		t.Fatalf("Record = %d, want 0 for a rejected event", id)
	}
	if got := e.Text(); got != before {
		t.Fatalf("text = %q, want unchanged %q", got, before)
	}
	if got := e.log.Len(); got != logLenBefore {
		t.Fatalf("log length = %d, want unchanged %d; a rejected batch must not be recorded", got, logLenBefore)
	}
}

func TestInsertPastEndUsesConfiguredGapFill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content = "ab"
	cfg.GapFill = '-'
	e := New(cfg)

	primary := e.state.PrimaryCursor()
	e.Record(docstate.Insert{Pos: 5, Text: "X", CursorID: primary.ID})

	want := "ab---X"
	if got := e.Text(); got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestOutOfRangeErrors(t *testing.T) {
	e := newTestEditor("hello")

	if _, err := e.Slice(0, 999); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Slice out of range: err = %v, want ErrOutOfRange", err)
	}
	if _, err := e.ByteToLineCol(999); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ByteToLineCol out of range: err = %v, want ErrOutOfRange", err)
	}
	if _, err := e.LineColToByte(99, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("LineColToByte out of range: err = %v, want ErrOutOfRange", err)
	}
}

func TestUndoRedoExhausted(t *testing.T) {
	e := newTestEditor("hello")

	if _, err := e.Undo(); !errors.Is(err, ErrUndoExhausted) {
		t.Errorf("Undo on empty log: err = %v, want ErrUndoExhausted", err)
	}
	if _, err := e.Redo(); !errors.Is(err, ErrRedoExhausted) {
		t.Errorf("Redo on empty log: err = %v, want ErrRedoExhausted", err)
	}
}

func TestConcealWithCursorReveal(t *testing.T) {
	e := newTestEditor("**bold**")

	e.AddConceal("markdown", 0, 2, "", true)
	e.AddConceal("markdown", 6, 8, "", true)

	// Cursor past the namespace's reveal envelope [0,8): both delimiters
	// stay concealed.
	primary := e.state.PrimaryCursor()
	e.Record(docstate.MoveCursor{ID: primary.ID, New: 10})
	stream := e.BuildView()
	if got := renderedText(stream); got != "bold" {
		t.Errorf("outside cursor: rendered = %q, want %q", got, "bold")
	}

	// Cursor inside the envelope, though outside either delimiter's own
	// bytes: both delimiters reveal together.
	e.Record(docstate.MoveCursor{ID: primary.ID, New: 3})
	stream = e.BuildView()
	if got := renderedText(stream); got != "**bold**" {
		t.Errorf("inside cursor: rendered = %q, want %q", got, "**bold**")
	}
}

func TestAddOverlayUsesTrackedMarkers(t *testing.T) {
	e := newTestEditor("hello world")

	handle, err := e.AddOverlay("diagnostics", 0, 5, viewpipeline.DefaultStyle(), OverlayOptions{})
	if err != nil {
		t.Fatalf("AddOverlay: %v", err)
	}
	if handle == (viewpipeline.Handle{}) {
		t.Fatal("expected a non-zero handle")
	}

	primary := e.state.PrimaryCursor()
	e.Record(docstate.Insert{Pos: 0, Text: "oh ", CursorID: primary.ID})

	// The overlay's markers should have shifted with the insertion.
	tree := e.markerTree()
	overlays := e.overlays.Overlays(tree)
	if len(overlays) != 1 {
		t.Fatalf("expected 1 resolved overlay, got %d", len(overlays))
	}
	if overlays[0].Start != 3 || overlays[0].End != 8 {
		t.Errorf("overlay span = [%d,%d), want [3,8)", overlays[0].Start, overlays[0].End)
	}
}

func TestClearNamespaceRemovesOverlaysAndConceals(t *testing.T) {
	e := newTestEditor("hello world")

	e.AddOverlay("ns", 0, 5, viewpipeline.DefaultStyle(), OverlayOptions{})
	e.AddConceal("ns", 6, 11, "", false)

	e.ClearNamespace("ns")

	tree := e.markerTree()
	if got := len(e.overlays.Overlays(tree)); got != 0 {
		t.Errorf("overlays after clear = %d, want 0", got)
	}
	if got := len(e.overlays.Conceals(tree)); got != 0 {
		t.Errorf("conceals after clear = %d, want 0", got)
	}
}

func TestSnapshotAndRebuildMatchesDirectReplay(t *testing.T) {
	e := newTestEditor("")
	primary := e.state.PrimaryCursor()

	for i := 0; i < 50; i++ {
		primary = e.state.PrimaryCursor()
		e.Record(docstate.Insert{Pos: primary.Sel.Cursor(), Text: "x", CursorID: primary.ID})
	}
	want := e.Text()

	e.rebuildLocked()
	if got := e.Text(); got != want {
		t.Errorf("rebuild mismatch: got %q, want %q", got, want)
	}
}

func selAt(offset ByteOffset) cursor.Selection {
	return cursor.NewCursorSelection(offset)
}

func renderedText(s viewpipeline.Stream) string {
	var out []byte
	for _, tok := range s.Tokens {
		if tok.Kind == viewpipeline.KindNewline || tok.Kind == viewpipeline.KindBreak {
			continue
		}
		out = append(out, tok.Text...)
	}
	return string(out)
}
