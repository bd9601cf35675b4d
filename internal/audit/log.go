// Package audit provides the vault's bounded operation log. The log is
// advisory and diagnostic only — it is never a source of truth for
// credential state. Secret values must NEVER be recorded here, only
// operation metadata.
package audit

import (
	"encoding/json"
	"time"
)

// Capacity is the maximum number of retained entries. Appending beyond it
// evicts the oldest entry.
const Capacity = 1000

// Entry is one recorded operation.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Service   string    `json:"service,omitempty"`
}

// Log is a fixed-capacity ring buffer of entries. The zero value is ready
// to use. Append is O(1) amortized; storage never exceeds Capacity entries,
// even transiently.
type Log struct {
	entries []Entry
	head    int // index of the oldest entry once the buffer has wrapped
	size    int
}

// Record appends an entry timestamped now, evicting the oldest entry if
// the log is at capacity.
func (l *Log) Record(operation, service string) {
	l.append(Entry{Timestamp: time.Now().UTC(), Operation: operation, Service: service})
}

func (l *Log) append(e Entry) {
	if l.size < Capacity {
		l.entries = append(l.entries, e)
		l.size++
		return
	}
	l.entries[l.head] = e
	l.head = (l.head + 1) % Capacity
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	return l.size
}

// Entries returns the retained entries in chronological order,
// oldest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, l.entries[(l.head+i)%len(l.entries)])
	}
	return out
}

// MarshalJSON serializes the log as a chronologically ordered array.
func (l Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Entries())
}

// UnmarshalJSON restores a log from an entry array, keeping only the most
// recent Capacity entries.
func (l *Log) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if len(entries) > Capacity {
		entries = entries[len(entries)-Capacity:]
	}
	l.entries = entries
	l.head = 0
	l.size = len(entries)
	return nil
}
