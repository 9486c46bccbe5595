// Package editor is the single façade external callers (an action layer,
// plugins, tests) drive: one Editor type composing the event-sourced
// document state, cursor tracking, marker-backed overlays/conceals, the
// view pipeline, and the scroll viewport behind one lock, mirroring how
// this codebase's engine layer has always serialized buffer+cursor+history
// access under a single mutex.
package editor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/inkwell-editor/core/internal/buffer"
	"github.com/inkwell-editor/core/internal/docstate"
	"github.com/inkwell-editor/core/internal/editorlog"
	"github.com/inkwell-editor/core/internal/eventlog"
	"github.com/inkwell-editor/core/internal/lineindex"
	"github.com/inkwell-editor/core/internal/marker"
	"github.com/inkwell-editor/core/internal/notify"
	"github.com/inkwell-editor/core/internal/viewpipeline"
	"github.com/inkwell-editor/core/internal/viewport"
)

// ByteOffset is a byte position into the document.
type ByteOffset = buffer.ByteOffset

// Point is a 0-indexed line/column position.
type Point = lineindex.Point

// CursorID identifies a cursor across its lifetime.
type CursorID = docstate.CursorID

// EventID identifies a recorded event for undo/redo bookkeeping.
type EventID = eventlog.EventID

// Config configures a new Editor.
type Config struct {
	Content    string
	LineEnding buffer.LineEnding
	TabWidth   int
	// GapFill is the byte a gap (an Insert past the document's current
	// end) reads back as. Zero means buffer.DefaultGapFill.
	GapFill         byte
	ViewportWidth   int
	ViewportHeight  int
	CheckpointEvery int
	Logger          *editorlog.Logger
}

// DefaultConfig returns a Config for an 80x24 viewport, 4-wide tabs, LF
// line endings, a checkpoint every 1000 events, and a stderr logger.
func DefaultConfig() Config {
	return Config{
		LineEnding:      buffer.LineEndingLF,
		TabWidth:        4,
		ViewportWidth:   80,
		ViewportHeight:  24,
		CheckpointEvery: 1000,
		Logger:          editorlog.New(editorlog.DefaultConfig()),
	}
}

// Editor is the engine facade: one sync.RWMutex-guarded type holding the
// current document State, its undo/redo event log, the live marker tree
// and overlay/conceal manager resolved against it, a scroll viewport, and
// a notification hub, realizing §5's "single main loop" as "hold the
// write lock for the duration of one apply."
type Editor struct {
	mu sync.RWMutex

	log   *eventlog.Log[docstate.State]
	state docstate.State

	overlays  *viewpipeline.Manager
	transform viewpipeline.Transformer
	viewport  *viewport.Viewport
	hub       *notify.Hub
	logger    *editorlog.Logger
}

// New constructs an Editor from cfg.
func New(cfg Config) *Editor {
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = 4
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = 80
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = 24
	}
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 1000
	}
	logger := cfg.Logger
	if logger == nil {
		logger = editorlog.Null()
	}

	initial := docstate.NewStateFromText(cfg.Content, cfg.LineEnding, cfg.TabWidth)
	if cfg.GapFill != 0 {
		initial.GapFill = cfg.GapFill
	}
	log := eventlog.New(docstate.Apply, cfg.CheckpointEvery)
	log.SetLogger(logger.Raw())
	// Checkpoint the loaded document at id 0 so every rebuild replays from
	// it (with its text and cursor ids) rather than from an empty state.
	log.Checkpoint(initial)

	vp := viewport.NewViewport(cfg.ViewportWidth, cfg.ViewportHeight)
	vp.SetMaxLine(maxLineOf(initial.Snapshot))

	return &Editor{
		log:      log,
		state:    initial,
		overlays: viewpipeline.NewManager(),
		viewport: vp,
		hub:      notify.NewHub(),
		logger:   logger.WithComponent("editor"),
	}
}

func maxLineOf(snap *buffer.Snapshot) uint32 {
	if snap.LineCount() == 0 {
		return 0
	}
	return snap.LineCount() - 1
}

// lineIndex builds a lineindex.Index over the current snapshot. Cheap: the
// index is a thin facade with no cache of its own to rebuild.
func (e *Editor) lineIndex() *lineindex.Index {
	snap := e.state.Snapshot
	return lineindex.New(snap, func(o lineindex.ByteOffset) lineindex.Point {
		p := snap.OffsetToPoint(o)
		return lineindex.Point{Line: p.Line, Column: p.Column}
	})
}

// markerTree resolves the current state's marker snapshot into a live
// Tree for Overlays/Conceals lookups.
func (e *Editor) markerTree() *marker.Tree {
	return marker.NewTreeFromSlice(e.state.Markers)
}

// Record appends event to the log, applies it to produce the next State,
// notifies subscribers, and returns the event's id — or EventID(0) without
// recording anything if event would fail to apply. Write-locked: the whole
// apply is atomic, per §5's suspension-point guarantee.
func (e *Editor) Record(event any) EventID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recordLocked(event)
}

// recordLocked rejects an event that would fail to apply (an out-of-range
// Insert/Delete, or a Batch containing one) before it ever reaches the
// log: §5's Batch contract is all-or-nothing, and a rejected event must
// leave no trace for undo/redo or session replay to trip over. It returns
// EventID(0), the same id the log uses for "before the first event", when
// event is rejected.
func (e *Editor) recordLocked(event any) EventID {
	if !docstate.Validate(e.state, event) {
		e.logger.Warn("rejected event: would fail to apply")
		return 0
	}

	id := e.log.Record(event)
	e.state = docstate.Apply(e.state, event)
	e.viewport.SetMaxLine(maxLineOf(e.state.Snapshot))
	e.followPrimaryCursorLocked()
	if e.log.ShouldCheckpoint() {
		e.log.Checkpoint(e.state)
	}
	e.hub.Notify(notify.KindBufferEdit, event)
	return id
}

// followPrimaryCursorLocked scrolls the viewport, if needed, to keep the
// primary cursor inside its comfortable margin zone after an edit or
// cursor move.
func (e *Editor) followPrimaryCursorLocked() {
	if len(e.state.Cursors) == 0 {
		return
	}
	p := e.state.Snapshot.OffsetToPoint(e.state.PrimaryCursor().Sel.Cursor())
	e.viewport.EnsureCursorVisible(p.Line, int(p.Column))
}

// Undo moves the log cursor back by one event (or group), rebuilding
// State from the nearest checkpoint. Returns ErrUndoExhausted if there is
// nothing to undo.
func (e *Editor) Undo() (EventID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.log.Undo()
	if !ok {
		e.logger.Debug("undo: nothing to undo")
		return 0, ErrUndoExhausted
	}
	e.rebuildLocked()
	e.hub.Notify(notify.KindBufferEdit, id)
	return id, nil
}

// Redo moves the log cursor forward by one event (or group), rebuilding
// State. Returns ErrRedoExhausted if there is nothing to redo.
func (e *Editor) Redo() (EventID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.log.Redo()
	if !ok {
		e.logger.Debug("redo: nothing to redo")
		return 0, ErrRedoExhausted
	}
	e.rebuildLocked()
	e.hub.Notify(notify.KindBufferEdit, id)
	return id, nil
}

func (e *Editor) rebuildLocked() {
	initial := docstate.NewState(e.state.LineEnding, e.state.TabWidth)
	to := e.log.Current()
	e.state = e.log.RebuildState(initial, 0, to)
	e.viewport.SetMaxLine(maxLineOf(e.state.Snapshot))
	e.followPrimaryCursorLocked()
}

// CursorPosition returns the current byte offset of the cursor named id.
func (e *Editor) CursorPosition(id CursorID) (ByteOffset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tc, ok := e.state.CursorByID(id)
	if !ok {
		return 0, ErrNoSuchCursor
	}
	return tc.Sel.Cursor(), nil
}

// ByteToLineCol converts a byte offset to a 0-indexed line/column.
func (e *Editor) ByteToLineCol(b ByteOffset) (Point, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if b < 0 || b > e.state.Len() {
		return Point{}, ErrOutOfRange
	}
	p := e.state.Snapshot.OffsetToPoint(b)
	return Point{Line: p.Line, Column: p.Column}, nil
}

// LineColToByte converts a 0-indexed line/column back to a byte offset.
func (e *Editor) LineColToByte(line, col uint32) (ByteOffset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if line >= e.state.Snapshot.LineCount() {
		return 0, ErrOutOfRange
	}
	return e.state.Snapshot.PointToOffset(buffer.Point{Line: line, Column: col}), nil
}

// Slice returns the bytes in [start, end) of the document.
func (e *Editor) Slice(start, end ByteOffset) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if start < 0 || end < start || end > e.state.Len() {
		return "", ErrOutOfRange
	}
	return e.state.Snapshot.TextRange(start, end), nil
}

// AddOverlay installs a styled span covering [start, end) under namespace,
// creating the tracked markers that back it and returning a handle for a
// later RemoveOverlay or ClearNamespace.
func (e *Editor) AddOverlay(namespace string, start, end ByteOffset, style viewpipeline.Style, opts OverlayOptions) (viewpipeline.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if start < 0 || end < start || end > e.state.Len() {
		return viewpipeline.Handle{}, ErrOutOfRange
	}
	startID, endID := e.addSpanMarkers(start, end)
	return e.overlays.AddOverlay(viewpipeline.Overlay{
		Namespace:       namespace,
		Start:           startID,
		End:             endID,
		Style:           style,
		Z:               opts.Z,
		ExtendToLineEnd: opts.ExtendToLineEnd,
		PreserveEmpty:   opts.PreserveEmpty,
	}), nil
}

// OverlayOptions carries the optional fields of AddOverlay.
type OverlayOptions struct {
	Z               int
	ExtendToLineEnd bool
	PreserveEmpty   bool
}

// AddConceal installs a conceal range over [start, end) under namespace.
// If replacement is non-empty, concealed tokens render as replacement
// instead of disappearing; if cursorReveal is true, a cursor inside the
// range suppresses concealment for that range (§4.9, S5).
func (e *Editor) AddConceal(namespace string, start, end ByteOffset, replacement string, cursorReveal bool) (viewpipeline.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if start < 0 || end < start || end > e.state.Len() {
		return viewpipeline.Handle{}, ErrOutOfRange
	}
	startID, endID := e.addSpanMarkers(start, end)
	return e.overlays.AddConceal(viewpipeline.ConcealRange{
		Namespace:      namespace,
		Start:          startID,
		End:            endID,
		Replacement:    replacement,
		HasReplacement: replacement != "",
		CursorReveal:   cursorReveal,
	}), nil
}

// addSpanMarkers records the two markers bounding an overlay/conceal span
// as one Batch event, so a replay of the log recreates them at the right
// offsets without the caller needing to pre-resolve gravity itself: the
// start marker leans right (stays ahead of text inserted exactly at it)
// and the end marker leans left, so typing inside the span grows it and
// typing at either boundary does not.
func (e *Editor) addSpanMarkers(start, end ByteOffset) (marker.ID, marker.ID) {
	startID, endID := uuid.New(), uuid.New()
	e.recordLocked(docstate.Batch{Events: []any{
		docstate.AddMarker{ID: startID, Offset: start, Gravity: marker.GravityRight},
		docstate.AddMarker{ID: endID, Offset: end, Gravity: marker.GravityLeft},
	}})
	return startID, endID
}

// ClearNamespace atomically removes every overlay and conceal range
// tagged with namespace, plus every document marker tagged with it. The
// span markers AddOverlay and AddConceal create carry no namespace, so
// they are not removed here and stay in the document state.
func (e *Editor) ClearNamespace(namespace string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.overlays.ClearNamespace(namespace)
	e.recordLocked(docstate.ClearMarkerNamespace{Namespace: namespace})
}

// ReplaceNamespaceConceals atomically swaps namespace's conceal ranges for
// a fresh set, creating new marker pairs for the replacements without ever
// leaving namespace's conceal set observably empty to a concurrent render.
func (e *Editor) ReplaceNamespaceConceals(namespace string, ranges []ConcealSpec) ([]viewpipeline.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fresh := make([]viewpipeline.ConcealRange, len(ranges))
	for i, r := range ranges {
		if r.Start < 0 || r.End < r.Start || r.End > e.state.Len() {
			return nil, ErrOutOfRange
		}
		startID, endID := e.addSpanMarkers(r.Start, r.End)
		fresh[i] = viewpipeline.ConcealRange{
			Start:          startID,
			End:            endID,
			Replacement:    r.Replacement,
			HasReplacement: r.Replacement != "",
			CursorReveal:   r.CursorReveal,
		}
	}
	return e.overlays.ReplaceNamespaceConceals(namespace, fresh), nil
}

// ConcealSpec describes one replacement conceal range for
// ReplaceNamespaceConceals.
type ConcealSpec struct {
	Start, End   ByteOffset
	Replacement  string
	CursorReveal bool
}

// SubmitViewTransform installs transform as the active view-pipeline
// transformer, replacing whatever was submitted before (§4.9).
func (e *Editor) SubmitViewTransform(transform viewpipeline.Transformer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transform = transform
}

// BuildView renders the current viewport into a token Stream, running the
// active transformer and every live overlay/conceal against this
// revision's document and marker snapshot.
func (e *Editor) BuildView() viewpipeline.Stream {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ix := e.lineIndex()
	topByte := e.viewport.TopByte(ix)
	bottomLine := e.viewport.BottomLine()
	endByte := ix.EndOf(bottomLine)

	cursors := make([]ByteOffset, len(e.state.Cursors))
	for i, tc := range e.state.Cursors {
		cursors[i] = tc.Sel.Cursor()
	}
	var primary ByteOffset
	var secondary []ByteOffset
	if len(cursors) > 0 {
		primary, secondary = cursors[0], cursors[1:]
	}

	return viewpipeline.Build(viewpipeline.BuildParams{
		Snapshot:         e.state.Snapshot,
		Markers:          e.markerTree(),
		Overlays:         e.overlays,
		TopByte:          topByte,
		EndByte:          endByte,
		PrimaryCursor:    primary,
		SecondaryCursors: secondary,
		Transform:        e.transform,
		ComposeWidth:     e.viewport.Width(),
	})
}

// ViewportReport is the renderer-facing summary §6 calls "viewport
// report": enough for a renderer to locate itself in the document.
type ViewportReport struct {
	TopByte          ByteOffset
	TopLine          uint32
	VisibleLineCount int
	ColumnOffset     int
}

// ViewportReport returns the current viewport's report.
func (e *Editor) ViewportReport() ViewportReport {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ix := e.lineIndex()
	start, end := e.viewport.VisibleLineRange()
	return ViewportReport{
		TopByte:          e.viewport.TopByte(ix),
		TopLine:          e.viewport.TopLine(),
		VisibleLineCount: int(end - start),
		ColumnOffset:     e.viewport.LeftColumn(),
	}
}

// Viewport exposes the underlying viewport for scroll/resize operations
// that don't belong on Editor's own namespaced API (PageDown, Resize,
// etc.) — callers must not retain it across a Record/Undo/Redo without
// re-acquiring, since SetMaxLine and the cursor-follow scroll are refreshed
// by those calls.
func (e *Editor) Viewport() *viewport.Viewport {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewport
}

// Subscribe registers handler for notifications of kind, returning a
// handle for a later Unsubscribe. Dispatch is synchronous, in registration
// order (§5).
func (e *Editor) Subscribe(kind notify.Kind, handler notify.Handler) notify.Handle {
	return e.hub.Subscribe(kind, handler)
}

// Unsubscribe removes a previously registered handler.
func (e *Editor) Unsubscribe(handle notify.Handle) {
	e.hub.Unsubscribe(handle)
}

// Text returns the document's full text. Intended for small documents and
// tests; large-document callers should prefer Slice.
func (e *Editor) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Text()
}

// Len returns the document's length in bytes.
func (e *Editor) Len() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Len()
}

// PrimaryCursor returns the primary cursor's current byte offset.
func (e *Editor) PrimaryCursor() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.PrimaryCursor().Sel.Cursor()
}

// InsertAtCursor is a convenience helper recording an Insert at the
// primary cursor's head and returning its event id.
func (e *Editor) InsertAtCursor(text string) EventID {
	e.mu.Lock()
	defer e.mu.Unlock()
	primary := e.state.PrimaryCursor()
	return e.recordLocked(docstate.Insert{Pos: primary.Sel.Cursor(), Text: text, CursorID: primary.ID})
}

