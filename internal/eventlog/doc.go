// Package eventlog implements the append-only, undo/redo-capable event
// log that drives document state changes.
//
// A Log is generic over the state type it replays events into (docstate
// supplies its own State and Apply function): Record appends an event
// with a monotonically increasing id, truncating any redo tail first if
// the caller had undone back into the middle of the log. Undo/Redo move
// a current-position cursor over the log without discarding anything.
// Checkpoint stores a full state snapshot keyed by the event id it was
// taken at, so RebuildState never has to replay from the very beginning:
// it finds the nearest snapshot at or before the target id and replays
// only the events after it.
//
// This merges two patterns the corpus keeps separate — a plain undo/redo
// stack and a snapshot-accelerated revision tracker — into the single
// shape a monotonic, branchable event log needs.
package eventlog
