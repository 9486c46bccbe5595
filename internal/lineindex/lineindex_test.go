package lineindex

import (
	"testing"

	"github.com/inkwell-editor/core/internal/buffer"
)

func toPoint(buf *buffer.Buffer) func(ByteOffset) Point {
	return func(offset ByteOffset) Point {
		p := buf.OffsetToPoint(offset)
		return Point{Line: p.Line, Column: p.Column}
	}
}

func TestLineOfAndStartEnd(t *testing.T) {
	buf := buffer.NewBufferFromString("aaa\nbb\ncccc")
	ix := New(buf, toPoint(buf))

	if got := ix.LineCount(); got != 3 {
		t.Fatalf("LineCount() = %d, want 3", got)
	}
	if got := ix.LineOf(0); got != 0 {
		t.Errorf("LineOf(0) = %d, want 0", got)
	}
	if got := ix.LineOf(5); got != 1 {
		t.Errorf("LineOf(5) = %d, want 1", got)
	}
	if got := ix.LineOf(8); got != 2 {
		t.Errorf("LineOf(8) = %d, want 2", got)
	}

	if got := ix.StartOf(1); got != 4 {
		t.Errorf("StartOf(1) = %d, want 4", got)
	}
	if got := ix.EndOf(1); got != 6 {
		t.Errorf("EndOf(1) = %d, want 6", got)
	}
	if got := ix.EndOf(2); got != 11 {
		t.Errorf("EndOf(2) = %d, want 11 (buffer length)", got)
	}
}

func TestFrontierTracksLength(t *testing.T) {
	buf := buffer.NewBufferFromString("hello")
	ix := New(buf, toPoint(buf))

	if got, want := ix.Frontier(), buf.Len(); got != want {
		t.Errorf("Frontier() = %d, want %d", got, want)
	}

	buf.Insert(5, " world")
	if got, want := ix.Frontier(), buf.Len(); got != want {
		t.Errorf("Frontier() after insert = %d, want %d", got, want)
	}
}

func TestIncrementalUpdateAfterInsertAndDelete(t *testing.T) {
	buf := buffer.NewBufferFromString("one\ntwo\nthree")
	ix := New(buf, toPoint(buf))

	buf.Insert(3, "\nONE-AND-A-HALF")
	if got := ix.LineCount(); got != 4 {
		t.Fatalf("LineCount() after insert = %d, want 4", got)
	}
	if got := ix.LineOf(buf.Len() - 1); got != 3 {
		t.Errorf("LineOf(end) = %d, want 3", got)
	}

	buf.Delete(0, buf.LineEndOffset(0)+1)
	if got := ix.LineCount(); got != 3 {
		t.Errorf("LineCount() after delete = %d, want 3", got)
	}
}
