// Package alert delivers drowsiness alerts to external sinks: sound
// playback and user-supplied hook executables.
package alert

import "encoding/json"

// Event types delivered to hooks.
const (
	EventRaise = "raise"
	EventClear = "clear"
)

// Event describes one alert edge. It is marshalled to JSON and written
// to a hook's stdin.
type Event struct {
	// Type is "raise" when the alert becomes active, "clear" when the
	// driver recovers.
	Type string `json:"type"`
	// EAR is the frame score that produced the edge; absent on clears
	// caused by detector dropout.
	EAR float64 `json:"ear"`
	// LowFrames is the consecutive low-EAR frame count at the edge.
	LowFrames int `json:"low_frames"`
	// AlertSeq numbers the alerts within the session, starting at 1.
	AlertSeq int `json:"alert_seq"`
	// Timestamp is the edge time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Manifest describes a hook's metadata, read from its hook.json.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Events lists the event types the hook wants; empty means all.
	Events []string        `json:"events,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is what a hook writes to stdout after handling an event.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether the hook subscribed to the given event type.
func (h *Hook) Wants(eventType string) bool {
	if len(h.Manifest.Events) == 0 {
		return true
	}
	for _, e := range h.Manifest.Events {
		if e == eventType {
			return true
		}
	}
	return false
}
