package viewpipeline

import (
	"sync"

	"github.com/google/uuid"

	"github.com/inkwell-editor/core/internal/marker"
)

// Handle identifies an Overlay or ConcealRange returned to an external
// caller (§6 add_overlay/add_conceal). Backed by uuid so handles stay
// globally unique across editors and namespaces without a shared counter.
type Handle = uuid.UUID

// Overlay is a styled span between two tracked markers, participating in
// the pipeline as a post-concealment styling pass keyed by z: within a
// span, the highest-z overlay covering it wins.
type Overlay struct {
	Handle          Handle
	Namespace       string
	Start, End      marker.ID
	Style           Style
	Z               int
	ExtendToLineEnd bool
	PreserveEmpty   bool
}

// ConcealRange hides or replaces the tokens between two tracked markers.
// CursorReveal, when true, suppresses concealment for any range a cursor
// currently sits inside.
type ConcealRange struct {
	Handle         Handle
	Namespace      string
	Start, End     marker.ID
	Replacement    string
	HasReplacement bool
	CursorReveal   bool
	PreserveEmpty  bool
}

// Manager owns the live overlays and conceal ranges for one editor,
// resolving their marker endpoints into byte ranges against a supplied
// marker.Tree. Namespaced ownership (§4.4) lets clear_namespace remove
// exactly what a caller introduced.
type Manager struct {
	mu       sync.RWMutex
	overlays map[Handle]Overlay
	conceals map[Handle]ConcealRange
}

// NewManager returns an empty overlay/conceal manager.
func NewManager() *Manager {
	return &Manager{
		overlays: make(map[Handle]Overlay),
		conceals: make(map[Handle]ConcealRange),
	}
}

// AddOverlay registers an overlay and returns its handle.
func (m *Manager) AddOverlay(o Overlay) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.Handle = uuid.New()
	m.overlays[o.Handle] = o
	return o.Handle
}

// RemoveOverlay deletes a single overlay by handle.
func (m *Manager) RemoveOverlay(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overlays, h)
}

// AddConceal registers a conceal range and returns its handle.
func (m *Manager) AddConceal(c ConcealRange) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Handle = uuid.New()
	m.conceals[c.Handle] = c
	return c.Handle
}

// RemoveConceal deletes a single conceal range by handle.
func (m *Manager) RemoveConceal(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conceals, h)
}

// ClearNamespace removes every overlay and conceal range tagged with
// namespace. Use ReplaceNamespaceConceals instead when the caller intends
// to immediately re-add ranges, so rendering never observes the
// transient empty state in between (§4.9 atomic-swap semantics).
func (m *Manager) ClearNamespace(namespace string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearNamespaceLocked(namespace)
}

func (m *Manager) clearNamespaceLocked(namespace string) {
	for h, o := range m.overlays {
		if o.Namespace == namespace {
			delete(m.overlays, h)
		}
	}
	for h, c := range m.conceals {
		if c.Namespace == namespace {
			delete(m.conceals, h)
		}
	}
}

// ReplaceNamespaceConceals atomically clears namespace's existing conceal
// ranges and installs the replacements under one lock, so a concurrent
// render pass never observes namespace with zero ranges.
func (m *Manager) ReplaceNamespaceConceals(namespace string, ranges []ConcealRange) []Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	for h, c := range m.conceals {
		if c.Namespace == namespace {
			delete(m.conceals, h)
		}
	}
	handles := make([]Handle, len(ranges))
	for i, c := range ranges {
		c.Namespace = namespace
		c.Handle = uuid.New()
		m.conceals[c.Handle] = c
		handles[i] = c.Handle
	}
	return handles
}

// resolvedOverlay is an Overlay with its markers resolved to byte offsets
// for the current buffer revision.
type resolvedOverlay struct {
	Overlay
	Start, End ByteOffset
}

type resolvedConceal struct {
	ConcealRange
	Start, End ByteOffset
}

// Overlays resolves every live overlay's markers against tree, dropping
// any whose markers have collapsed to (or been created as) zero length
// unless PreserveEmpty is set (§3 Overlay lifecycle).
func (m *Manager) Overlays(tree *marker.Tree) []resolvedOverlay {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]resolvedOverlay, 0, len(m.overlays))
	for _, o := range m.overlays {
		start, ok1 := tree.PositionOf(o.Start)
		end, ok2 := tree.PositionOf(o.End)
		if !ok1 || !ok2 {
			continue
		}
		if start == end && !o.PreserveEmpty {
			continue
		}
		out = append(out, resolvedOverlay{Overlay: o, Start: start, End: end})
	}
	return out
}

// Conceals resolves every live conceal range's markers against tree,
// with the same empty-collapse drop rule as Overlays.
func (m *Manager) Conceals(tree *marker.Tree) []resolvedConceal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]resolvedConceal, 0, len(m.conceals))
	for _, c := range m.conceals {
		start, ok1 := tree.PositionOf(c.Start)
		end, ok2 := tree.PositionOf(c.End)
		if !ok1 || !ok2 {
			continue
		}
		if start == end && !c.PreserveEmpty {
			continue
		}
		out = append(out, resolvedConceal{ConcealRange: c, Start: start, End: end})
	}
	return out
}
