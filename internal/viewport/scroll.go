package viewport

// EnsureVisible applies the smart-scroll policy to bring a single cursor
// into view: if its line falls outside [top_line, top_line+height), the
// viewport scrolls so the line lands at height/3 from the top (not
// centered, so context above the cursor stays visible when reading
// top-down). Horizontally, if the column falls outside [scroll_col,
// scroll_col+width), scroll_col becomes max(0, col - width*2/3).
// Returns true if either axis moved.
func (v *Viewport) EnsureVisible(line uint32, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	moved := false

	if line < v.topLine || line >= v.topLine+uint32(v.height) {
		v.topLine = v.clampTop(thirdFromTop(line, v.height))
		moved = true
	}

	if col < v.leftColumn || col >= v.leftColumn+v.width {
		target := col - (v.width * 2 / 3)
		if target < 0 {
			target = 0
		}
		v.leftColumn = target
		moved = true
	}

	return moved
}

// thirdFromTop returns the top line that places line at height/3 from
// the viewport's top, clamped to 0.
func thirdFromTop(line uint32, height int) uint32 {
	offset := uint32(height / 3)
	if line < offset {
		return 0
	}
	return line - offset
}

// EnsureVisibleMulti applies the smart-scroll policy for a multi-cursor
// selection: if the bounding line range [minLine, maxLine] of every
// cursor fits within height, the viewport centers that bounding range;
// otherwise it defers to EnsureVisible's primary-only policy, called with
// the primary cursor's own line.
func (v *Viewport) EnsureVisibleMulti(minLine, maxLine uint32, primaryLine uint32, primaryCol int) bool {
	v.mu.RLock()
	height := uint32(v.height)
	fits := maxLine-minLine+1 <= height
	v.mu.RUnlock()

	if !fits {
		return v.EnsureVisible(primaryLine, primaryCol)
	}

	v.mu.Lock()
	rangeSize := maxLine - minLine + 1
	newTop := v.clampTop(centerOn(minLine+rangeSize/2, v.height))
	moved := newTop != v.topLine
	v.topLine = newTop

	if primaryCol < v.leftColumn || primaryCol >= v.leftColumn+v.width {
		target := primaryCol - (v.width * 2 / 3)
		if target < 0 {
			target = 0
		}
		if target != v.leftColumn {
			moved = true
		}
		v.leftColumn = target
	}
	v.mu.Unlock()

	return moved
}

// centerOn returns the top line that places line in the middle of a
// viewport of the given height, clamped to 0.
func centerOn(line uint32, height int) uint32 {
	half := uint32(height / 2)
	if line < half {
		return 0
	}
	return line - half
}

// ScrollPercent returns how far through the document the viewport has
// scrolled (0.0 to 1.0).
func (v *Viewport) ScrollPercent() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.maxLine == 0 || v.maxLine <= uint32(v.height) {
		return 0.0
	}

	maxScroll := v.maxLine - uint32(v.height)
	return float64(v.topLine) / float64(maxScroll)
}

// ScrollToPercent scrolls to a percentage of the document.
func (v *Viewport) ScrollToPercent(percent float64) {
	v.mu.RLock()
	maxLine := v.maxLine
	height := v.height
	v.mu.RUnlock()

	if maxLine == 0 {
		return
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}

	var maxScroll uint32
	if maxLine > uint32(height) {
		maxScroll = maxLine - uint32(height)
	}

	v.ScrollTo(uint32(float64(maxScroll) * percent))
}
