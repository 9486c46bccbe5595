package marker

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/inkwell-editor/core/internal/buffer"
)

// ByteOffset is a byte position into the tracked buffer.
type ByteOffset = int64

// ID uniquely identifies a marker within a Tree.
type ID = uuid.UUID

// Gravity determines how a marker behaves when an edit's insertion point
// falls exactly at the marker's offset.
type Gravity uint8

const (
	// GravityLeft keeps the marker at its current offset when text is
	// inserted exactly there (the marker stays "behind" new text).
	GravityLeft Gravity = iota
	// GravityRight moves the marker to the end of text inserted exactly
	// at its offset (the marker stays "ahead of" new text).
	GravityRight
)

// Marker is a single tracked position.
type Marker struct {
	ID        ID
	Offset    ByteOffset
	Gravity   Gravity
	Namespace string
}

// Notification describes a buffer mutation markers must adjust to.
// Kind mirrors the Inserted/Deleted notifications Buffer issues.
type Notification struct {
	Kind   NotificationKind
	Offset ByteOffset // insertion point, or start of the deleted range
	Length ByteOffset // bytes inserted, or bytes deleted
}

// NotificationKind distinguishes insert from delete notifications.
type NotificationKind uint8

const (
	Inserted NotificationKind = iota
	Deleted
)

// FromEdit derives the marker Notification(s) implied by a buffer.Edit:
// a deletion of the replaced range followed by an insertion of the new
// text, in the order they must be applied to keep offsets consistent.
func FromEdit(edit buffer.Edit) []Notification {
	var notifications []Notification
	if edit.Range.Len() > 0 {
		notifications = append(notifications, Notification{
			Kind:   Deleted,
			Offset: edit.Range.Start,
			Length: edit.Range.Len(),
		})
	}
	if len(edit.NewText) > 0 {
		notifications = append(notifications, Notification{
			Kind:   Inserted,
			Offset: edit.Range.Start,
			Length: ByteOffset(len(edit.NewText)),
		})
	}
	return notifications
}

// Tree is a sorted-by-offset collection of markers with O(log M) lookup
// and batch adjustment on edit notifications. Each method takes the Tree's
// own lock; a sequence of calls is not atomic unless the caller
// synchronizes it (Editor does this for the whole document).
type Tree struct {
	mu      sync.RWMutex
	markers []*Marker      // sorted by Offset, ties broken by insertion order
	byID    map[ID]*Marker // O(1) marker lookup by ID
}

// New returns an empty marker tree.
func New() *Tree {
	return &Tree{byID: make(map[ID]*Marker)}
}

// NewTreeFromSlice builds a live Tree from a snapshot of markers (as kept
// in docstate.State), for resolving Overlay/ConcealRange spans against a
// particular revision without requiring the caller to maintain a Tree of
// its own across every apply. The slice is assumed already sorted by
// offset, docstate's own invariant for State.Markers.
func NewTreeFromSlice(markers []Marker) *Tree {
	t := &Tree{
		markers: make([]*Marker, len(markers)),
		byID:    make(map[ID]*Marker, len(markers)),
	}
	for i, m := range markers {
		cp := m
		t.markers[i] = &cp
		t.byID[cp.ID] = &cp
	}
	return t
}

// Create inserts a new marker at offset with the given gravity and
// namespace, returning its ID. O(log M) to find the insertion point, O(M)
// to shift the backing slice — acceptable since markers are created far
// less often than buffers are edited.
func (t *Tree) Create(offset ByteOffset, gravity Gravity, namespace string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := &Marker{ID: uuid.New(), Offset: offset, Gravity: gravity, Namespace: namespace}
	idx := sort.Search(len(t.markers), func(i int) bool {
		return t.markers[i].Offset > offset
	})
	t.markers = append(t.markers, nil)
	copy(t.markers[idx+1:], t.markers[idx:])
	t.markers[idx] = m
	t.byID[m.ID] = m
	return m.ID
}

// PositionOf returns the marker's current offset. O(1): the marker's own
// Offset field is kept current by Adjust, so no search is needed.
func (t *Tree) PositionOf(id ID) (ByteOffset, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.byID[id]
	if !ok {
		return 0, false
	}
	return m.Offset, true
}

// Remove deletes a marker by ID. O(log M) to find it, O(M) to shift.
func (t *Tree) Remove(id ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(id)
}

func (t *Tree) remove(id ID) {
	m, ok := t.byID[id]
	if !ok {
		return
	}
	delete(t.byID, id)

	idx := sort.Search(len(t.markers), func(i int) bool {
		return t.markers[i].Offset >= m.Offset
	})
	for idx < len(t.markers) && t.markers[idx] != m {
		idx++
	}
	if idx == len(t.markers) {
		return
	}
	t.markers = append(t.markers[:idx], t.markers[idx+1:]...)
}

// ClearNamespace removes every marker tagged with namespace, leaving
// markers owned by other namespaces (including bare cursors, which use
// the empty namespace) untouched.
func (t *Tree) ClearNamespace(namespace string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.markers[:0]
	for _, m := range t.markers {
		if m.Namespace == namespace {
			delete(t.byID, m.ID)
			continue
		}
		kept = append(kept, m)
	}
	t.markers = kept
}

// Adjust applies a single edit notification to every marker in the tree.
// On Inserted{at, length}: markers with Offset > at shift by +length; a
// marker with Offset == at shifts too iff its gravity is GravityRight.
// On Deleted{range}: markers inside the range collapse to range.Start;
// markers beyond shift by -length. Every call visits all M markers and
// then re-sorts the slice.
func (t *Tree) Adjust(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range t.markers {
		*m = adjustOne(*m, n)
	}
	t.resort()
}

// adjustOne returns m's position after notification n, per the same
// gravity rule Adjust documents.
func adjustOne(m Marker, n Notification) Marker {
	switch n.Kind {
	case Inserted:
		if m.Offset > n.Offset {
			m.Offset += n.Length
		} else if m.Offset == n.Offset && m.Gravity == GravityRight {
			m.Offset += n.Length
		}
	case Deleted:
		end := n.Offset + n.Length
		switch {
		case m.Offset <= n.Offset:
			// unaffected
		case m.Offset < end:
			m.Offset = n.Offset
		default:
			m.Offset -= n.Length
		}
	}
	return m
}

// AdjustAll is the pure, value-slice counterpart to (*Tree).Adjust: it
// returns a new, sorted slice with every marker adjusted for n, without
// requiring a Tree. Used by callers (docstate) that keep markers as part
// of an immutable, replayable state value rather than a live Tree.
func AdjustAll(markers []Marker, n Notification) []Marker {
	out := make([]Marker, len(markers))
	for i, m := range markers {
		out[i] = adjustOne(m, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}

// resort restores sorted order after Adjust: gravity/deletion collapse
// can make two markers compare equal or briefly swap relative order when
// several edits are applied without an intervening Adjust call.
func (t *Tree) resort() {
	sort.SliceStable(t.markers, func(i, j int) bool {
		return t.markers[i].Offset < t.markers[j].Offset
	})
}

// AdjustForEdit is a convenience wrapper deriving and applying the
// notification(s) implied by a single buffer.Edit.
func (t *Tree) AdjustForEdit(edit buffer.Edit) {
	for _, n := range FromEdit(edit) {
		t.Adjust(n)
	}
}

// Len returns the number of markers currently tracked.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.markers)
}

// All returns a snapshot slice of every marker, sorted by offset.
func (t *Tree) All() []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Marker, len(t.markers))
	for i, m := range t.markers {
		out[i] = *m
	}
	return out
}
