// Package viewport tracks the visible portion of a document and the
// smart-scroll policy that keeps a moved cursor on screen.
package viewport

import (
	"sync"

	"github.com/inkwell-editor/core/internal/lineindex"
)

// Viewport represents the visible portion of the buffer.
type Viewport struct {
	mu sync.RWMutex

	// Position in buffer (first visible line)
	topLine    uint32
	leftColumn int

	// Size in screen cells
	width  int
	height int

	// Scroll margins (keep cursor this far from edges)
	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int

	// Buffer size limit, 0 if unknown
	maxLine uint32
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1 to prevent underflow.
func NewViewport(width, height int) *Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	margins := DefaultMargins()
	return &Viewport{
		topLine:      0,
		leftColumn:   0,
		width:        width,
		height:       height,
		marginTop:    margins.Top,
		marginBottom: margins.Bottom,
		marginLeft:   margins.Left,
		marginRight:  margins.Right,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// TopByte returns the byte offset of the first visible line, via ix.
// Always a line start, per the viewport's documented invariant.
func (v *Viewport) TopByte(ix *lineindex.Index) lineindex.ByteOffset {
	v.mu.RLock()
	top := v.topLine
	v.mu.RUnlock()
	return ix.StartOf(top)
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

func (v *Viewport) bottomLine() uint32 {
	if v.height < 1 {
		return v.topLine
	}
	bottom := v.topLine + uint32(v.height) - 1
	if v.maxLine > 0 && bottom > v.maxLine-1 {
		bottom = v.maxLine - 1
	}
	return bottom
}

// LeftColumn returns the first visible column.
func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// RightColumn returns the last visible column (exclusive).
func (v *Viewport) RightColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn + v.width
}

// Resize updates the viewport size.
// Width and height are clamped to a minimum of 1 to prevent underflow.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	v.width = width
	v.height = height
}

// SetMaxLine sets the maximum line number in the buffer.
func (v *Viewport) SetMaxLine(maxLine uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.maxLine = maxLine

	if v.maxLine > 0 && v.topLine >= v.maxLine {
		v.topLine = v.maxLine - 1
	}
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(top, bottom, left, right int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marginTop = top
	v.marginBottom = bottom
	v.marginLeft = left
	v.marginRight = right
}

// Margins returns the current scroll margins.
func (v *Viewport) Margins() (top, bottom, left, right int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.marginTop, v.marginBottom, v.marginLeft, v.marginRight
}

// VisibleLineRange returns the range of visible buffer lines.
func (v *Viewport) VisibleLineRange() (start, end uint32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLine()
}

// IsLineVisible returns true if the line is within the viewport's margin-
// adjusted inner band (the region ensure_visible treats as "already
// visible", per §4.8's margin note: margins participate in the
// outside-viewport test rather than being a separate policy).
func (v *Viewport) IsLineVisible(line uint32) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lineInsideMargins(line)
}

func (v *Viewport) lineInsideMargins(line uint32) bool {
	margins := v.effectiveMargins()
	top := v.topLine + uint32(margins.Top)
	bottomMargin := uint32(margins.Bottom)
	bottom := v.bottomLine()
	if bottom < bottomMargin {
		bottom = 0
	} else {
		bottom -= bottomMargin
	}
	return line >= top && line <= bottom && line >= v.topLine && line <= v.bottomLine()
}

// IsColumnVisible returns true if the column is within the viewport.
func (v *Viewport) IsColumnVisible(col int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return col >= v.leftColumn && col < v.leftColumn+v.width
}

// LineToScreenRow converts a buffer line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line uint32) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if line < v.topLine || line > v.bottomLine() {
		return -1
	}
	return int(line - v.topLine)
}

// ScreenRowToLine converts a screen row to a buffer line.
func (v *Viewport) ScreenRowToLine(row int) uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if row < 0 {
		return v.topLine
	}
	line := v.topLine + uint32(row)
	if v.maxLine > 0 && line >= v.maxLine {
		line = v.maxLine - 1
	}
	return line
}

// BufferToScreen converts buffer coordinates to screen coordinates.
// Returns (-1, -1) if the position is not visible.
func (v *Viewport) BufferToScreen(line uint32, col int) (screenRow, screenCol int) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if line < v.topLine || line > v.bottomLine() {
		return -1, -1
	}
	if col < v.leftColumn || col >= v.leftColumn+v.width {
		return -1, -1
	}

	return int(line - v.topLine), col - v.leftColumn
}

// ScreenToBuffer converts screen coordinates to buffer coordinates.
func (v *Viewport) ScreenToBuffer(screenRow, screenCol int) (line uint32, col int) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	line = v.topLine + uint32(screenRow)
	col = v.leftColumn + screenCol
	return
}

// ScrollTo scrolls so line is the first visible line.
func (v *Viewport) ScrollTo(line uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(line)
}

// ScrollBy scrolls vertically by a delta number of lines.
func (v *Viewport) ScrollBy(deltaLines int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	newTop := int64(v.topLine) + int64(deltaLines)
	if newTop < 0 {
		newTop = 0
	}
	v.topLine = v.clampTop(uint32(newTop))
}

// ScrollHorizontalBy scrolls horizontally by a delta number of columns.
func (v *Viewport) ScrollHorizontalBy(deltaCols int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	newLeft := v.leftColumn + deltaCols
	if newLeft < 0 {
		newLeft = 0
	}
	v.leftColumn = newLeft
}

func (v *Viewport) clampTop(line uint32) uint32 {
	if v.maxLine > 0 && line >= v.maxLine {
		if v.maxLine > 0 {
			return v.maxLine - 1
		}
		return 0
	}
	return line
}

// PageUp scrolls up by one page (viewport height minus overlap).
func (v *Viewport) PageUp() {
	v.mu.RLock()
	pageSize := v.height - 2
	if pageSize < 1 {
		pageSize = 1
	}
	v.mu.RUnlock()
	v.ScrollBy(-pageSize)
}

// PageDown scrolls down by one page (viewport height minus overlap).
func (v *Viewport) PageDown() {
	v.mu.RLock()
	pageSize := v.height - 2
	if pageSize < 1 {
		pageSize = 1
	}
	v.mu.RUnlock()
	v.ScrollBy(pageSize)
}

// HalfPageUp scrolls up by half a page.
func (v *Viewport) HalfPageUp() {
	v.mu.RLock()
	halfPage := v.height / 2
	if halfPage < 1 {
		halfPage = 1
	}
	v.mu.RUnlock()
	v.ScrollBy(-halfPage)
}

// HalfPageDown scrolls down by half a page.
func (v *Viewport) HalfPageDown() {
	v.mu.RLock()
	halfPage := v.height / 2
	if halfPage < 1 {
		halfPage = 1
	}
	v.mu.RUnlock()
	v.ScrollBy(halfPage)
}

// ScrollToTop scrolls to the top of the buffer.
func (v *Viewport) ScrollToTop() {
	v.ScrollTo(0)
}

// ScrollToBottom scrolls to the bottom of the buffer.
func (v *Viewport) ScrollToBottom() {
	v.mu.RLock()
	maxLine := v.maxLine
	height := v.height
	v.mu.RUnlock()

	if maxLine == 0 {
		v.ScrollTo(0)
		return
	}

	var target uint32
	if maxLine > uint32(height) {
		target = maxLine - uint32(height)
	}
	v.ScrollTo(target)
}

// EnsureCursorVisible scrolls the viewport by the minimum amount needed to
// bring (line, col) out of its margin or off-screen zone and back into the
// comfortable center, per CursorZones. A cursor already centered is a no-op.
func (v *Viewport) EnsureCursorVisible(line uint32, col int) {
	vZone, hZone := v.CursorZones(line, col)
	if vZone == ZoneCenter && hZone == ZoneCenter {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	margins := v.clampMargins(MarginConfig{
		Top:    v.marginTop,
		Bottom: v.marginBottom,
		Left:   v.marginLeft,
		Right:  v.marginRight,
	})

	switch vZone {
	case ZoneAbove, ZoneTopMargin:
		if line < uint32(margins.Top) {
			v.topLine = v.clampTop(0)
		} else {
			v.topLine = v.clampTop(line - uint32(margins.Top))
		}
	case ZoneBelow, ZoneBottomMargin:
		bottomTarget := line + uint32(margins.Bottom)
		if bottomTarget+1 > uint32(v.height) {
			v.topLine = v.clampTop(bottomTarget + 1 - uint32(v.height))
		}
	}

	switch hZone {
	case ZoneLeft, ZoneLeftMargin:
		newLeft := col - margins.Left
		if newLeft < 0 {
			newLeft = 0
		}
		v.leftColumn = newLeft
	case ZoneRight, ZoneRightMargin:
		newLeft := col + margins.Right - v.width + 1
		if newLeft < 0 {
			newLeft = 0
		}
		v.leftColumn = newLeft
	}
}

// Clone creates a copy of the viewport state.
func (v *Viewport) Clone() *Viewport {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return &Viewport{
		topLine:      v.topLine,
		leftColumn:   v.leftColumn,
		width:        v.width,
		height:       v.height,
		marginTop:    v.marginTop,
		marginBottom: v.marginBottom,
		marginLeft:   v.marginLeft,
		marginRight:  v.marginRight,
		maxLine:      v.maxLine,
	}
}
