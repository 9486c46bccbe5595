// Package docstate implements the single event-to-state-change pathway:
// a State value plus an Apply function that turns one Event into the
// next State.
//
// State is a plain, immutable-by-convention value (a rope snapshot, a
// sorted cursor list, a marker list, a scroll position) rather than a
// live, mutex-guarded object: Apply never mutates its input, always
// returning a new State built from it. This mirrors the rope's own
// insert-returns-a-new-rope idiom one layer up, and is what lets
// internal/eventlog replay and checkpoint document states as ordinary
// values.
//
// A *buffer.Buffer is revived transiently from State's rope snapshot
// whenever Apply needs to perform an actual edit (so the gap/UTF-8-
// boundary/line-ending logic buffer.Buffer already implements is reused
// rather than duplicated), then discarded once its resulting snapshot has
// been pulled back out.
package docstate
