package cursor

import (
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/inkwell-editor/core/internal/buffer"
)

// lineSource is the minimal buffer surface vertical and word motion need.
// Both *buffer.Buffer and *buffer.Snapshot satisfy it.
type lineSource interface {
	LineCount() uint32
	LineStartOffset(line uint32) ByteOffset
	LineEndOffset(line uint32) ByteOffset
	LineLen(line uint32) int
	OffsetToPoint(offset ByteOffset) Point
	TextRange(start, end ByteOffset) string
	Len() ByteOffset
}

var (
	_ lineSource = (*buffer.Buffer)(nil)
	_ lineSource = (*buffer.Snapshot)(nil)
)

// MoveVertical moves the selection's head up or down by lineDelta lines,
// targeting the selection's sticky column (caching it on first use) rather
// than the head's current column, per the sticky-column vertical motion
// policy: the column is preserved across a chain of vertical moves and only
// reset by a horizontal motion or an edit. If the target line is shorter
// than the sticky column, the cursor lands at end-of-line without updating
// the sticky column. The anchor is dropped (collapses to a cursor at the
// new head).
func MoveVertical(src lineSource, sel Selection, lineDelta int) Selection {
	col := effectiveStickyCol(src, sel)
	newHead := verticalTarget(src, sel.Head, lineDelta, col)
	return Selection{Anchor: newHead, Head: newHead, StickyCol: col}
}

// ExtendVertical is MoveVertical but extends the selection rather than
// collapsing it: the anchor is preserved and only the head moves.
func ExtendVertical(src lineSource, sel Selection, lineDelta int) Selection {
	col := effectiveStickyCol(src, sel)
	newHead := verticalTarget(src, sel.Head, lineDelta, col)
	return Selection{Anchor: sel.Anchor, Head: newHead, StickyCol: col}
}

// effectiveStickyCol returns the sticky column to target: the selection's
// cached column if a vertical-motion chain is already in progress, or the
// head's current column otherwise (the column a vertical chain starts from).
func effectiveStickyCol(src lineSource, sel Selection) int32 {
	if sel.StickyCol != NoStickyCol {
		return sel.StickyCol
	}
	return int32(src.OffsetToPoint(sel.Head).Column)
}

// verticalTarget computes the byte offset lineDelta lines away from offset,
// landing at byte column targetCol (clamped to the target line's length).
func verticalTarget(src lineSource, offset ByteOffset, lineDelta int, targetCol int32) ByteOffset {
	point := src.OffsetToPoint(offset)
	lineCount := int64(src.LineCount())

	newLine := int64(point.Line) + int64(lineDelta)
	if newLine < 0 {
		newLine = 0
	}
	if newLine >= lineCount {
		newLine = lineCount - 1
	}

	lineLen := int64(src.LineLen(uint32(newLine)))
	col := int64(targetCol)
	if col > lineLen {
		col = lineLen
	}
	if col < 0 {
		col = 0
	}

	return src.LineStartOffset(uint32(newLine)) + ByteOffset(col)
}

// runeClass classifies a grapheme cluster into one of the three categories
// word motion distinguishes boundaries between: whitespace, word, and
// punctuation. A cluster is classified by its first rune.
type runeClass int

const (
	classWhitespace runeClass = iota
	classWord
	classPunct
)

func classifyCluster(cluster string) runeClass {
	r := []rune(cluster)[0]
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return classPunct
	default:
		return classWord
	}
}

// graphemeClusters splits text into its grapheme clusters via uniseg,
// pairing each with its byte length so callers can walk in either direction.
func graphemeClusters(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	clusters := make([]string, 0, len(text))
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	return clusters
}

// WordForward returns the byte offset of the start of the next word
// (or punctuation run) after offset, skipping any whitespace in between.
// Segmentation walks grapheme clusters (via uniseg) so a multi-rune cluster
// is never split; classification into the whitespace/word/punctuation
// classes then determines where the word boundary actually falls.
func WordForward(src lineSource, offset ByteOffset) ByteOffset {
	clusters := graphemeClusters(src.TextRange(offset, src.Len()))
	if len(clusters) == 0 {
		return offset
	}

	startClass := classifyCluster(clusters[0])
	var pos ByteOffset
	i := 0
	for i < len(clusters) && classifyCluster(clusters[i]) == startClass {
		pos += ByteOffset(len(clusters[i]))
		i++
	}
	// Skip any whitespace run reached after the starting class: the
	// boundary lands on the next non-whitespace cluster, not the gap.
	for i < len(clusters) && classifyCluster(clusters[i]) == classWhitespace {
		pos += ByteOffset(len(clusters[i]))
		i++
	}

	return offset + pos
}

// WordBackward returns the byte offset of the start of the word (or
// punctuation run) at or before offset, the mirror image of WordForward.
func WordBackward(src lineSource, offset ByteOffset) ByteOffset {
	if offset <= 0 {
		return 0
	}
	clusters := graphemeClusters(src.TextRange(0, offset))
	if len(clusters) == 0 {
		return 0
	}

	i := len(clusters) - 1
	for i >= 0 && classifyCluster(clusters[i]) == classWhitespace {
		i--
	}
	if i < 0 {
		return 0
	}
	cls := classifyCluster(clusters[i])
	for i > 0 && classifyCluster(clusters[i-1]) == cls {
		i--
	}

	var byteOffset ByteOffset
	for j := 0; j < i; j++ {
		byteOffset += ByteOffset(len(clusters[j]))
	}
	return byteOffset
}

// WordEnd returns the byte offset just past the end of the word (or
// punctuation run) containing or following offset.
func WordEnd(src lineSource, offset ByteOffset) ByteOffset {
	clusters := graphemeClusters(src.TextRange(offset, src.Len()))
	if len(clusters) == 0 {
		return offset
	}

	var pos ByteOffset
	started := false
	var prevClass runeClass

	for _, c := range clusters {
		cls := classifyCluster(c)
		if cls == classWhitespace {
			if started {
				return offset + pos
			}
			pos += ByteOffset(len(c))
			continue
		}
		if started && cls != prevClass {
			return offset + pos
		}
		started = true
		prevClass = cls
		pos += ByteOffset(len(c))
	}

	return offset + pos
}
