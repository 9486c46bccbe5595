package eventlog

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventID is a monotonically increasing identifier assigned to each
// recorded event. Zero means "before the first event" (the initial
// state); ids are never reused, even for entries a redo-tail truncation
// discards.
type EventID int64

// Event is a single, application-defined document mutation. eventlog
// treats it as opaque; only the caller's Apply function interprets it.
type Event any

// LogEntry is one recorded event plus its bookkeeping metadata.
type LogEntry struct {
	ID        EventID
	Event     Event
	Timestamp time.Time
	GroupID   EventID // id of the group's first entry; zero if ungrouped

	redacted bool // true once GC has stripped this entry's payload
}

// Log is an append-only, undo/redo-capable sequence of events replayed
// into a caller-defined state type S via an Apply function supplied at
// construction. It is safe for concurrent use.
type Log[S any] struct {
	mu sync.Mutex

	apply func(S, Event) S

	entries []LogEntry
	current int // len(entries[:current]) have been "applied"
	nextID  EventID

	snapshots       map[EventID]S
	checkpointEvery int
	sinceCheckpoint int

	groupDepth  int
	groupLeader EventID

	recorder *SessionRecorder
	logger   zerolog.Logger
}

// New returns an empty log. checkpointEvery is the recommended interval
// (in recorded events) between automatic checkpoints, per ShouldCheckpoint;
// it defaults to 1000 if <= 0.
func New[S any](apply func(S, Event) S, checkpointEvery int) *Log[S] {
	if checkpointEvery <= 0 {
		checkpointEvery = 1000
	}
	return &Log[S]{
		apply:           apply,
		snapshots:       make(map[EventID]S),
		checkpointEvery: checkpointEvery,
		logger:          zerolog.Nop(),
	}
}

// SetLogger installs a logger for GC and checkpoint diagnostics.
func (l *Log[S]) SetLogger(logger zerolog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = logger
}

// SetRecorder attaches a SessionRecorder that Record will append every new
// entry to, for crash/restart replay. Pass nil to disable.
func (l *Log[S]) SetRecorder(r *SessionRecorder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recorder = r
}

// Record appends event at the current position, truncating any redo tail
// first (a new branch discards the old future), and returns its id.
func (l *Log[S]) Record(event Event) EventID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recordLocked(event)
}

func (l *Log[S]) recordLocked(event Event) EventID {
	if l.current < len(l.entries) {
		l.entries = l.entries[:l.current]
	}

	l.nextID++
	entry := LogEntry{ID: l.nextID, Event: event, Timestamp: time.Now()}
	if l.groupDepth > 0 {
		entry.GroupID = l.groupLeader
	}

	l.entries = append(l.entries, entry)
	l.current++
	l.sinceCheckpoint++

	if l.recorder != nil {
		if err := l.recorder.Append(entry); err != nil {
			l.logger.Warn().Err(err).Int64("event_id", int64(entry.ID)).Msg("session recorder append failed")
		}
	}

	return entry.ID
}

// BeginGroup marks the start of a run of events that a single Undo should
// revert together. Nested calls extend the same group rather than opening
// a new one. Returns the id the first grouped event will receive.
func (l *Log[S]) BeginGroup() EventID {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.groupDepth == 0 {
		l.groupLeader = l.nextID + 1
	}
	l.groupDepth++
	return l.groupLeader
}

// EndGroup closes one level of grouping opened by BeginGroup.
func (l *Log[S]) EndGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.groupDepth > 0 {
		l.groupDepth--
	}
}

// Undo moves the current position back by one event (or one whole group,
// if the undone event belongs to one), returning the id of the event that
// was undone. Returns (0, false) if there is nothing to undo.
func (l *Log[S]) Undo() (EventID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == 0 {
		return 0, false
	}

	undone := l.entries[l.current-1]
	l.current--
	if undone.GroupID != 0 {
		for l.current > 0 && l.entries[l.current-1].GroupID == undone.GroupID {
			l.current--
		}
	}
	return undone.ID, true
}

// Redo moves the current position forward by one event (or one whole
// group), returning the id of the event that was redone. Returns
// (0, false) if there is nothing to redo.
func (l *Log[S]) Redo() (EventID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current >= len(l.entries) {
		return 0, false
	}

	redone := l.entries[l.current]
	l.current++
	if redone.GroupID != 0 {
		for l.current < len(l.entries) && l.entries[l.current].GroupID == redone.GroupID {
			l.current++
		}
	}
	return redone.ID, true
}

// CanUndo reports whether Undo would succeed.
func (l *Log[S]) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current > 0
}

// CanRedo reports whether Redo would succeed.
func (l *Log[S]) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current < len(l.entries)
}

// Current returns the id of the most recently applied event, or 0 if the
// log is at its initial state.
func (l *Log[S]) Current() EventID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentLocked()
}

func (l *Log[S]) currentLocked() EventID {
	if l.current == 0 {
		return 0
	}
	return l.entries[l.current-1].ID
}

// Checkpoint stores a full state snapshot keyed by the current event id,
// so a future RebuildState up to or past this point need not replay from
// the very beginning.
func (l *Log[S]) Checkpoint(state S) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.currentLocked()
	l.snapshots[id] = state
	l.sinceCheckpoint = 0
	l.logger.Debug().Int64("event_id", int64(id)).Msg("checkpoint stored")
}

// ShouldCheckpoint reports whether checkpointEvery events have been
// recorded since the last Checkpoint call. Callers are expected to poll
// this after Record and checkpoint accordingly; the log never checkpoints
// on its own since only the caller can produce a state snapshot.
func (l *Log[S]) ShouldCheckpoint() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sinceCheckpoint >= l.checkpointEvery
}

// RebuildState replays the log to produce the state at event id to. It
// starts from the newest snapshot at an id in [from, to] (or from initial
// if none qualifies) and applies every subsequent event up to and
// including to. from should be the oldest event id GC has not yet
// stripped the payload of, so a snapshot older than what remains safely
// replayable is never selected.
func (l *Log[S]) RebuildState(initial S, from, to EventID) S {
	l.mu.Lock()
	entries := l.entries
	snapshots := l.snapshots
	l.mu.Unlock()

	state := initial
	bestID := EventID(-1)
	for id, snap := range snapshots {
		if id >= from && id <= to && id > bestID {
			bestID = id
			state = snap
		}
	}
	if bestID < 0 {
		bestID = 0
	}

	startIdx := sort.Search(len(entries), func(i int) bool {
		return entries[i].ID > bestID
	})
	for i := startIdx; i < len(entries) && entries[i].ID <= to; i++ {
		state = l.apply(state, entries[i].Event)
	}
	return state
}

// GC discards payload from entries older than lowWaterMark by replacing
// each with redact's result, which should return a copy carrying enough
// of the event to keep replay semantics intact (e.g. a byte range) but
// without the bytes that made it expensive to retain (e.g. captured
// deleted text). lowWaterMark is normally the oldest rope version any
// live iterator still references. Returns the number of entries redacted.
func (l *Log[S]) GC(lowWaterMark EventID, redact func(Event) Event) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for i := range l.entries {
		if l.entries[i].ID >= lowWaterMark {
			break
		}
		if l.entries[i].redacted {
			continue
		}
		l.entries[i].Event = redact(l.entries[i].Event)
		l.entries[i].redacted = true
		n++
	}
	if n > 0 {
		l.logger.Debug().Int("count", n).Int64("low_water_mark", int64(lowWaterMark)).Msg("gc discarded captured event bytes")
	}
	return n
}

// Len returns the total number of entries in the log, applied or not.
func (l *Log[S]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear discards every entry and snapshot, resetting the log to its
// initial state. Event ids continue monotonically from where they left
// off rather than resetting to zero.
func (l *Log[S]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.current = 0
	l.snapshots = make(map[EventID]S)
	l.sinceCheckpoint = 0
	l.groupDepth = 0
}
