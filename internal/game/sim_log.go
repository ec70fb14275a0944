package game

import (
	"fmt"
	"strings"
	"time"
)

// Event is one recorded scope event.
type Event struct {
	At       time.Duration // scene clock
	Category string        // state, shot, reload, target, config
	Key      string        // specific event name within the category
	Value    string        // human-readable detail
	NumVal   float64       // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[T=01090ms] state    reload_start    sign=-1
func (e Event) String() string {
	return fmt.Sprintf("[T=%05dms] %-8s %-15s %s",
		e.At.Milliseconds(), e.Category, e.Key, e.Value)
}

// EventSink receives every event the scene records.
type EventSink interface {
	Record(e Event)
}

// EventLog collects structured events for headless runs and tests.
// Unlike RecentLog (UI ring-buffer), EventLog is unbounded and machine-readable.
type EventLog struct {
	entries []Event
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Record appends an event.
func (el *EventLog) Record(e Event) {
	el.entries = append(el.entries, e)
}

// Entries returns all recorded events.
func (el *EventLog) Entries() []Event {
	return el.entries
}

// Filter returns events matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterRange returns events within [from, to] inclusive.
func (el *EventLog) FilterRange(from, to time.Duration) []Event {
	var out []Event
	for _, e := range el.entries {
		if e.At >= from && e.At <= to {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events match category and key.
func (el *EventLog) Count(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent event matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (Event, bool) {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return Event{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one event matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
