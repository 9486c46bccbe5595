// Package notify is the synchronous, registration-ordered pub/sub this
// core uses to fan notifications out to MarkerTree, the view pipeline,
// and external observers during apply — trimmed from a general-purpose
// topic-matched async bus down to a fixed set of notification kinds, each
// delivered synchronously, in subscription order.
package notify

import "sync"

// Kind tags the category of notification a Hub carries.
type Kind uint8

const (
	KindBufferEdit Kind = iota
	KindCursorMoved
	KindOverlayChanged
	KindConcealChanged
	KindScrolled
)

// Handler receives a notification payload. The concrete type of payload
// is kind-specific (e.g. a marker.Notification for KindBufferEdit); a
// Handler is expected to type-assert.
type Handler func(payload any)

// Handle identifies a subscription for later Unsubscribe.
type Handle uint64

// Hub dispatches notifications to handlers synchronously, in the order
// they subscribed. One Hub instance typically lives on an Editor and is
// shared across every kind it carries.
type Hub struct {
	mu     sync.Mutex
	nextID Handle
	subs   map[Kind][]subscription
}

type subscription struct {
	handle  Handle
	handler Handler
}

// NewHub returns an empty notification hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[Kind][]subscription)}
}

// Subscribe registers handler for kind and returns a handle to later
// Unsubscribe it. Handlers for the same kind run in the order they were
// subscribed.
func (h *Hub) Subscribe(kind Kind, handler Handler) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs[kind] = append(h.subs[kind], subscription{handle: id, handler: handler})
	return id
}

// Unsubscribe removes a previously registered handler. Unsubscribing an
// unknown or already-removed handle is a no-op.
func (h *Hub) Unsubscribe(handle Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for kind, subs := range h.subs {
		for i, s := range subs {
			if s.handle == handle {
				h.subs[kind] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Notify dispatches payload to every handler subscribed to kind,
// synchronously, in registration order. Notify must not be called while
// holding a lock a handler might need to reacquire through Subscribe or
// Unsubscribe — handlers run outside Hub's own lock to allow exactly that.
func (h *Hub) Notify(kind Kind, payload any) {
	h.mu.Lock()
	subs := append([]subscription(nil), h.subs[kind]...)
	h.mu.Unlock()

	for _, s := range subs {
		s.handler(payload)
	}
}
