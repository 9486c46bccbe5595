package viewport

import "testing"

func TestEnsureVisibleScrollsToThirdFromTop(t *testing.T) {
	v := NewViewport(80, 24)
	v.SetMaxLine(100)

	moved := v.EnsureVisible(50, 0)
	if !moved {
		t.Fatal("expected scroll for a line outside the viewport")
	}
	// height/3 = 8, so line 50 should land at top+8.
	if got, want := v.TopLine(), uint32(42); got != want {
		t.Errorf("expected top line %d, got %d", want, got)
	}
	if !v.IsLineVisible(50) {
		t.Error("line 50 should be visible after scroll")
	}
}

func TestEnsureVisibleNoOpWhenAlreadyInside(t *testing.T) {
	v := NewViewport(80, 24)
	v.SetMaxLine(100)
	v.ScrollTo(10)

	moved := v.EnsureVisible(15, 0)
	if moved {
		t.Error("line already within [top, top+height) should not trigger a scroll")
	}
	if v.TopLine() != 10 {
		t.Errorf("top line should be unchanged, got %d", v.TopLine())
	}
}

func TestEnsureVisibleHorizontal(t *testing.T) {
	v := NewViewport(30, 24)

	moved := v.EnsureVisible(0, 100)
	if !moved {
		t.Fatal("expected horizontal scroll for an out-of-view column")
	}
	// width*2/3 = 20, so scroll_col = max(0, 100-20) = 80.
	if got, want := v.LeftColumn(), 80; got != want {
		t.Errorf("expected left column %d, got %d", want, got)
	}
}

func TestEnsureVisibleMultiCentersFittingRange(t *testing.T) {
	v := NewViewport(80, 24)
	v.SetMaxLine(1000)

	moved := v.EnsureVisibleMulti(100, 110, 105, 0)
	if !moved {
		t.Fatal("expected scroll to center the bounding range")
	}
	// range midpoint 105, height/2 = 12, so top = 93.
	if got, want := v.TopLine(), uint32(93); got != want {
		t.Errorf("expected centered top line %d, got %d", want, got)
	}
}

func TestEnsureVisibleMultiFallsBackWhenRangeExceedsHeight(t *testing.T) {
	v := NewViewport(80, 10)
	v.SetMaxLine(1000)

	moved := v.EnsureVisibleMulti(0, 500, 500, 0)
	if !moved {
		t.Fatal("expected fallback to primary-only policy")
	}
	if !v.IsLineVisible(500) {
		t.Error("primary cursor's line should be visible after fallback scroll")
	}
}

func TestScrollPercent(t *testing.T) {
	v := NewViewport(80, 24)
	v.SetMaxLine(100)

	if percent := v.ScrollPercent(); percent != 0.0 {
		t.Errorf("expected 0%% at top, got %f", percent)
	}

	v.ScrollToBottom()
	if percent := v.ScrollPercent(); percent < 0.99 {
		t.Errorf("expected ~100%% at bottom, got %f", percent)
	}

	v.ScrollTo(38) // roughly 50% of (100 - 24)
	if percent := v.ScrollPercent(); percent < 0.45 || percent > 0.55 {
		t.Errorf("expected ~50%% in middle, got %f", percent)
	}
}

func TestScrollToPercent(t *testing.T) {
	v := NewViewport(80, 24)
	v.SetMaxLine(100)

	v.ScrollToPercent(0.5)
	if percent := v.ScrollPercent(); percent < 0.45 || percent > 0.55 {
		t.Errorf("expected ~50%%, got %f", percent)
	}

	v.ScrollToPercent(0.0)
	if v.TopLine() != 0 {
		t.Errorf("expected top line 0 at 0%%, got %d", v.TopLine())
	}

	v.ScrollToPercent(1.0)
	if v.BottomLine() != 99 {
		t.Errorf("expected bottom line 99 at 100%%, got %d", v.BottomLine())
	}
}

func TestScrollPercentClamp(t *testing.T) {
	v := NewViewport(80, 24)
	v.SetMaxLine(100)

	v.ScrollToPercent(-0.5)
	if v.TopLine() != 0 {
		t.Error("negative percent should scroll to top")
	}

	v.ScrollToPercent(2.0)
	if v.BottomLine() != 99 {
		t.Error("> 1.0 percent should scroll to bottom")
	}
}
