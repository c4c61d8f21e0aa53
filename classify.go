package posture

import (
	"math"
)

// Label is the posture classification of a single frame
type Label int

const (
	// Unknown means no person was found in the frame
	Unknown Label = iota
	// Good means the ear sits over the shoulder
	Good
	// Slouching means the ear is too far forward of the shoulder
	Slouching
	// NotFullyVisible means the ear or shoulder could not be seen reliably
	NotFullyVisible
)

// String returns the text displayed for the label
func (l Label) String() string {
	switch l {
	case Good:
		return "Good"
	case Slouching:
		return "Slouching"
	case NotFullyVisible:
		return "Not fully visible"
	default:
		return "Unknown"
	}
}

const (
	// DefaultVisibilityThreshold is the keypoint confidence a landmark must
	// exceed to be used
	DefaultVisibilityThreshold = 0.5
	// DefaultSlouchThreshold is the horizontal ear to shoulder offset, in
	// normalised frame widths, above which posture counts as slouching.  It
	// depends on camera angle and distance.
	DefaultSlouchThreshold = 0.15
)

// Thresholds holds the classifier parameters
type Thresholds struct {
	// Visibility is the minimum (exclusive) confidence for a landmark
	Visibility float64
	// Slouch is the maximum (inclusive) ear to shoulder offset for good
	// posture
	Slouch float64
}

// DefaultThresholds returns the classifier defaults of
// - Visibility: 0.5
// - Slouch: 0.15
func DefaultThresholds() Thresholds {
	return Thresholds{
		Visibility: DefaultVisibilityThreshold,
		Slouch:     DefaultSlouchThreshold,
	}
}

// Classify labels posture from the left shoulder and left ear landmarks
func Classify(leftShoulder, leftEar Landmark, visibilityThreshold,
	slouchThreshold float64) Label {

	if leftShoulder.Visibility <= visibilityThreshold ||
		leftEar.Visibility <= visibilityThreshold {
		return NotFullyVisible
	}

	if math.Abs(leftEar.X-leftShoulder.X) > slouchThreshold {
		return Slouching
	}

	return Good
}

// ClassifyPose labels the posture of an estimated pose.  A nil pose means
// nobody was detected and is labelled Unknown.
func ClassifyPose(p *Pose, t Thresholds) Label {

	if p == nil {
		return Unknown
	}

	return Classify(p.Landmarks[LeftShoulder], p.Landmarks[LeftEar],
		t.Visibility, t.Slouch)
}
