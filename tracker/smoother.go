// Package tracker smooths pose landmarks over consecutive frames with a
// constant velocity Kalman filter per keypoint.
package tracker

import (
	"math"

	"github.com/swdee/go-posture"
)

// SmootherParams configures the landmark smoother
type SmootherParams struct {
	// Filter are the Kalman filter noise weights
	Filter KalmanFilterParams
	// MinVisibility is the keypoint score a landmark needs to be tracked,
	// weaker landmarks are passed through unfiltered
	MinVisibility float64
	// MaxJump is the largest distance, normalised to the frame, a landmark
	// can move in one frame before its track is restarted
	MaxJump float64
}

// DefaultSmootherParams returns the default smoother configuration
func DefaultSmootherParams() SmootherParams {
	return SmootherParams{
		Filter:        DefaultKalmanFilterParams(),
		MinVisibility: posture.DefaultVisibilityThreshold,
		MaxJump:       0.25,
	}
}

// pointTrack is the filter state of one keypoint
type pointTrack struct {
	mean   StateMean
	cov    *StateCov
	active bool
}

// Smoother filters the landmark positions of the primary person frame to
// frame.  Visibility scores are never altered so the classifier still sees
// the raw model confidence.
type Smoother struct {
	params SmootherParams
	kf     *KalmanFilter
	tracks [posture.KeyPointCount]pointTrack
}

// NewSmoother returns a Smoother with no tracked landmarks
func NewSmoother(p SmootherParams) *Smoother {

	s := &Smoother{
		params: p,
		kf:     NewKalmanFilter(p.Filter),
	}

	for i := range s.tracks {
		s.tracks[i].mean = make(StateMean, 4)
		s.tracks[i].cov = NewStateCov()
	}

	return s
}

// Update feeds the pose of the current frame to the filters and returns a
// smoothed copy.  A nil pose means nobody is in view, the tracks are reset
// and nil is returned.
func (s *Smoother) Update(p *posture.Pose) *posture.Pose {

	if p == nil {
		s.Reset()
		return nil
	}

	out := *p

	for i := range s.tracks {
		lm := p.Landmarks[i]
		tr := &s.tracks[i]

		if lm.Visibility <= s.params.MinVisibility {
			tr.active = false
			continue
		}

		m := Measurement{lm.X, lm.Y}

		if !tr.active {
			s.kf.Initiate(tr.mean, tr.cov, m)
			tr.active = true
			continue
		}

		s.kf.Predict(tr.mean, tr.cov)

		if math.Hypot(m[0]-tr.mean[0], m[1]-tr.mean[1]) > s.params.MaxJump {
			s.kf.Initiate(tr.mean, tr.cov, m)
			continue
		}

		if err := s.kf.Update(tr.mean, tr.cov, m); err != nil {
			s.kf.Initiate(tr.mean, tr.cov, m)
			continue
		}

		out.Landmarks[i].X = tr.mean[0]
		out.Landmarks[i].Y = tr.mean[1]
	}

	return &out
}

// Reset drops all tracks
func (s *Smoother) Reset() {
	for i := range s.tracks {
		s.tracks[i].active = false
	}
}

// Tracking returns the number of landmarks currently tracked
func (s *Smoother) Tracking() int {

	n := 0

	for _, tr := range s.tracks {
		if tr.active {
			n++
		}
	}

	return n
}
