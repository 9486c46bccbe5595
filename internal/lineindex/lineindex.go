package lineindex

// ByteOffset is a byte position into the source text.
type ByteOffset = int64

// Point is a 0-indexed line/column position, column measured in bytes.
type Point struct {
	Line   uint32
	Column uint32
}

// pointSource is the minimal rope-backed surface Index delegates line
// and offset lookups to. Both *buffer.Buffer and *buffer.Snapshot satisfy
// it. Offset-to-point conversion is supplied separately via New's toPoint
// argument, since Buffer.OffsetToPoint returns buffer.Point rather than
// this package's own Point type.
type pointSource interface {
	Len() ByteOffset
	LineCount() uint32
	LineStartOffset(line uint32) ByteOffset
	LineEndOffset(line uint32) ByteOffset
}

// Index is a line-offset lookup façade over a rope-backed source.
type Index struct {
	src        pointSource
	offsetToPt func(ByteOffset) Point
}

// New wraps src, using toPoint to convert a byte offset to a line/column
// (typically buffer.Buffer.OffsetToPoint or buffer.Snapshot.OffsetToPoint,
// adapted to lineindex.Point by the caller).
func New(src pointSource, toPoint func(ByteOffset) Point) *Index {
	return &Index{src: src, offsetToPt: toPoint}
}

// LineOf returns the line number containing byte offset.
func (ix *Index) LineOf(offset ByteOffset) uint32 {
	return ix.offsetToPt(offset).Line
}

// StartOf returns the byte offset of the start of line.
func (ix *Index) StartOf(line uint32) ByteOffset {
	return ix.src.LineStartOffset(line)
}

// EndOf returns the byte offset of the end of line (before its newline,
// or the source's length for the last line).
func (ix *Index) EndOf(line uint32) ByteOffset {
	return ix.src.LineEndOffset(line)
}

// LineCount returns the number of lines in the source.
func (ix *Index) LineCount() uint32 {
	return ix.src.LineCount()
}

// Frontier reports how far the index has scanned newlines. This
// implementation always maintains newline counts eagerly, so it always
// equals the source's current length.
func (ix *Index) Frontier() ByteOffset {
	return ix.src.Len()
}
