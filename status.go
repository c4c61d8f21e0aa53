package posture

import (
	"time"
)

// Status is the outcome of processing one frame, handed to the renderer
type Status struct {
	// FrameNum counts processed frames from 1
	FrameNum int
	// Label is the posture classification of the frame
	Label Label
	// Alert is the debounced slouch alert
	Alert bool
	// SlouchingFor is how long the current slouching run has lasted
	SlouchingFor time.Duration
	// Pose is the estimated pose or nil if nobody was detected
	Pose *Pose
	// FPS is the measured processing rate
	FPS float64
}

// StatusText returns the posture line shown on the overlay
func (s Status) StatusText() string {
	return "POSTURE: " + s.Label.String()
}
