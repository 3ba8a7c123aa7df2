// Package drowsy implements the temporal drowsiness decision logic.
//
// The monitor consumes one EAR sample per frame tick and maintains a
// run of consecutive low-EAR frames. Requiring a sustained run before
// raising the alert debounces ordinary blinks; a single open-eye frame
// or a frame without a face clears the run.
package drowsy

import (
	"errors"
	"sync"

	"github.com/ayusman/nidra/internal/ear"
)

// State is the monitor's decision for the current frame.
type State string

const (
	// StateAwake means no sustained eye closure has been observed.
	StateAwake State = "awake"
	// StateDrowsy means eye closure has persisted past the configured
	// number of consecutive frames.
	StateDrowsy State = "drowsy"
)

// ErrInvalidFrameCount is returned when the consecutive frame threshold
// is not a positive integer.
var ErrInvalidFrameCount = errors.New("consecutive frame threshold must be at least 1")

// Status is the monitor's per-tick output, consumed by the presentation
// layer to render the alert and the running counter.
type Status struct {
	State     State `json:"state"`
	LowFrames int   `json:"low_frames"`
}

// AlertActive reports whether the drowsiness alert is raised.
func (s Status) AlertActive() bool {
	return s.State == StateDrowsy
}

// Monitor tracks eye closure across frames for one detection session.
//
// Observe must not be called concurrently for the same Monitor; the
// internal mutex exists so a presentation layer on another goroutine
// can safely read Status while the frame loop drives transitions.
type Monitor struct {
	threshold    float64
	consecFrames int

	mu        sync.Mutex
	state     State
	lowFrames int
}

// NewMonitor creates a Monitor in the awake state.
// threshold is the EAR value below which an eye counts as closing;
// consecFrames is the run length required to raise the alert.
func NewMonitor(threshold float64, consecFrames int) (*Monitor, error) {
	if consecFrames < 1 {
		return nil, ErrInvalidFrameCount
	}

	return &Monitor{
		threshold:    threshold,
		consecFrames: consecFrames,
		state:        StateAwake,
	}, nil
}

// Observe consumes one frame's sample and returns the updated status.
// It never fails; samples the estimator could not produce arrive as
// absent and clear the run (a missing face is not evidence of
// wakefulness, but holding a stale alert through detector dropout
// would be a false alarm).
func (m *Monitor) Observe(s ear.Sample) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !s.Present {
		m.lowFrames = 0
		m.state = StateAwake
		return m.statusLocked()
	}

	if s.Value >= m.threshold {
		// Immediate recovery: one open-eye frame cancels the run.
		m.lowFrames = 0
		m.state = StateAwake
		return m.statusLocked()
	}

	m.lowFrames++
	if m.lowFrames >= m.consecFrames {
		m.state = StateDrowsy
	}

	return m.statusLocked()
}

// Status returns the current state without consuming a sample.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// Reset returns the monitor to its initial state. Used on session
// restart; mid-session the state only changes through Observe.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lowFrames = 0
	m.state = StateAwake
}

// Threshold returns the configured EAR threshold.
func (m *Monitor) Threshold() float64 {
	return m.threshold
}

// ConsecFrames returns the configured consecutive frame threshold.
func (m *Monitor) ConsecFrames() int {
	return m.consecFrames
}

func (m *Monitor) statusLocked() Status {
	return Status{State: m.state, LowFrames: m.lowFrames}
}
