package posture

import (
	"time"
)

// DefaultAlertDelay is how long slouching must last before alerting
const DefaultAlertDelay = 3 * time.Second

// DebounceState turns per frame labels into a sustained slouch alert.  It is
// slow to trigger and instant to clear, a single frame that is not Slouching
// resets it to the zero value.
type DebounceState struct {
	// BadPostureOngoing is set from the first Slouching frame of a run
	BadPostureOngoing bool
	// BadPostureStart is the time of the first Slouching frame of the run,
	// zero when no run is ongoing
	BadPostureStart time.Time
	// AlertActive is set once the run has lasted longer than the delay
	AlertActive bool
}

// Update feeds the label of the frame observed at now into the state machine
// and returns if the alert is active.  The alert needs now - start to be
// strictly greater than delay.
func (s *DebounceState) Update(label Label, now time.Time, delay time.Duration) bool {

	if label != Slouching {
		s.Reset()
		return false
	}

	if !s.BadPostureOngoing {
		s.BadPostureOngoing = true
		s.BadPostureStart = now
		return s.AlertActive
	}

	if now.Sub(s.BadPostureStart) > delay {
		s.AlertActive = true
	}

	return s.AlertActive
}

// Ongoing returns how long the current slouching run has lasted at now, or
// zero if there is none
func (s *DebounceState) Ongoing(now time.Time) time.Duration {

	if !s.BadPostureOngoing {
		return 0
	}

	d := now.Sub(s.BadPostureStart)

	if d < 0 {
		return 0
	}

	return d
}

// Reset clears the state
func (s *DebounceState) Reset() {
	*s = DebounceState{}
}
