package eventlog

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SessionRecorder appends one JSON-lines record per Log.Record call, so a
// session can be replayed from its initial state after a crash or restart.
// Records are assembled with sjson (set-by-path against a growing JSON
// string) rather than a full struct marshal, since Event is a
// caller-defined value with no shape eventlog can declare a struct tag
// for; toJSON is the caller's hook for encoding one Event as a raw JSON
// value (typically a small "kind" discriminator plus its fields).
type SessionRecorder struct {
	mu     sync.Mutex
	w      io.Writer
	toJSON func(Event) (string, error)
}

// NewSessionRecorder wraps w (typically an append-mode file) as a session
// recorder using toJSON to encode each Event.
func NewSessionRecorder(w io.Writer, toJSON func(Event) (string, error)) *SessionRecorder {
	return &SessionRecorder{w: w, toJSON: toJSON}
}

// Append writes one JSON-lines record for entry.
func (r *SessionRecorder) Append(entry LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	eventJSON, err := r.toJSON(entry.Event)
	if err != nil {
		return fmt.Errorf("eventlog: encode event %d: %w", entry.ID, err)
	}

	line, err := sjson.Set("{}", "id", int64(entry.ID))
	if err != nil {
		return err
	}
	line, err = sjson.Set(line, "group_id", int64(entry.GroupID))
	if err != nil {
		return err
	}
	line, err = sjson.Set(line, "timestamp", entry.Timestamp.UnixNano())
	if err != nil {
		return err
	}
	line, err = sjson.SetRaw(line, "event", eventJSON)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(r.w, line)
	return err
}

// ReplaySession reads JSON-lines records written by Append, decodes each
// one's event field via fromJSON (given the raw "kind" discriminator and
// the full raw event JSON), and hands the reconstructed LogEntry to
// record in file order. Used to restore a Log after a crash or restart by
// calling Log.Record for every replayed entry (or lower-level state
// reconstruction, if the caller wants to skip re-recording).
func ReplaySession(r io.Reader, fromJSON func(kind, raw string) (Event, error), record func(LogEntry)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		parsed := gjson.Parse(line)
		eventRaw := parsed.Get("event")
		kind := eventRaw.Get("kind").String()

		event, err := fromJSON(kind, eventRaw.Raw)
		if err != nil {
			return fmt.Errorf("eventlog: decode event %d: %w", parsed.Get("id").Int(), err)
		}

		record(LogEntry{
			ID:        EventID(parsed.Get("id").Int()),
			GroupID:   EventID(parsed.Get("group_id").Int()),
			Timestamp: time.Unix(0, parsed.Get("timestamp").Int()),
			Event:     event,
		})
	}
	return scanner.Err()
}
