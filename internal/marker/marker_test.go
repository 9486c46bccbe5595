package marker

import (
	"testing"

	"github.com/inkwell-editor/core/internal/buffer"
)

func TestCreateAndPositionOf(t *testing.T) {
	tr := New()
	id := tr.Create(10, GravityLeft, "")

	pos, ok := tr.PositionOf(id)
	if !ok {
		t.Fatal("expected marker to be found")
	}
	if pos != 10 {
		t.Errorf("PositionOf() = %d, want 10", pos)
	}
}

func TestRemove(t *testing.T) {
	tr := New()
	id := tr.Create(5, GravityLeft, "")
	tr.Remove(id)

	if _, ok := tr.PositionOf(id); ok {
		t.Error("expected marker to be gone after Remove")
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
}

func TestAdjustInsertBeforeShiftsMarker(t *testing.T) {
	tr := New()
	id := tr.Create(10, GravityLeft, "")

	tr.Adjust(Notification{Kind: Inserted, Offset: 5, Length: 3})

	pos, _ := tr.PositionOf(id)
	if pos != 13 {
		t.Errorf("PositionOf() = %d, want 13", pos)
	}
}

func TestAdjustInsertAtOffsetGravity(t *testing.T) {
	tr := New()
	left := tr.Create(10, GravityLeft, "")
	right := tr.Create(10, GravityRight, "")

	tr.Adjust(Notification{Kind: Inserted, Offset: 10, Length: 4})

	if pos, _ := tr.PositionOf(left); pos != 10 {
		t.Errorf("left-gravity marker should stay put, got %d", pos)
	}
	if pos, _ := tr.PositionOf(right); pos != 14 {
		t.Errorf("right-gravity marker should move to 14, got %d", pos)
	}
}

func TestAdjustInsertAfterLeavesMarker(t *testing.T) {
	tr := New()
	id := tr.Create(10, GravityLeft, "")

	tr.Adjust(Notification{Kind: Inserted, Offset: 20, Length: 5})

	if pos, _ := tr.PositionOf(id); pos != 10 {
		t.Errorf("PositionOf() = %d, want 10 (unaffected)", pos)
	}
}

func TestAdjustDeleteCollapsesMarkersInsideRange(t *testing.T) {
	tr := New()
	inside := tr.Create(12, GravityLeft, "")
	after := tr.Create(30, GravityLeft, "")

	tr.Adjust(Notification{Kind: Deleted, Offset: 10, Length: 10}) // deletes [10,20)

	if pos, _ := tr.PositionOf(inside); pos != 10 {
		t.Errorf("marker inside deleted range should collapse to 10, got %d", pos)
	}
	if pos, _ := tr.PositionOf(after); pos != 20 {
		t.Errorf("marker after deleted range should shift to 20, got %d", pos)
	}
}

func TestClearNamespaceLeavesOthersIntact(t *testing.T) {
	tr := New()
	overlayStart := tr.Create(0, GravityLeft, "overlay:foo")
	overlayEnd := tr.Create(5, GravityRight, "overlay:foo")
	cursorMark := tr.Create(3, GravityLeft, "")

	tr.ClearNamespace("overlay:foo")

	if _, ok := tr.PositionOf(overlayStart); ok {
		t.Error("overlay start marker should have been cleared")
	}
	if _, ok := tr.PositionOf(overlayEnd); ok {
		t.Error("overlay end marker should have been cleared")
	}
	if pos, ok := tr.PositionOf(cursorMark); !ok || pos != 3 {
		t.Errorf("cursor marker should survive ClearNamespace, got pos=%d ok=%v", pos, ok)
	}
}

func TestAdjustForEditDerivesReplaceAsDeleteThenInsert(t *testing.T) {
	tr := New()
	after := tr.Create(20, GravityLeft, "")

	// Replace 10 bytes at [5,15) with 3 bytes: net delta -7.
	edit := buffer.NewEdit(buffer.Range{Start: 5, End: 15}, "abc")
	tr.AdjustForEdit(edit)

	if pos, _ := tr.PositionOf(after); pos != 13 {
		t.Errorf("PositionOf() = %d, want 13", pos)
	}
}

func TestAllReturnsSortedByOffset(t *testing.T) {
	tr := New()
	tr.Create(30, GravityLeft, "")
	tr.Create(10, GravityLeft, "")
	tr.Create(20, GravityLeft, "")

	all := tr.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d markers, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Offset < all[i-1].Offset {
			t.Errorf("All() not sorted: %d before %d", all[i-1].Offset, all[i].Offset)
		}
	}
}
