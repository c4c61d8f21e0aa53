package tracker

import (
	"testing"

	"github.com/swdee/go-posture"
)

// uniformPose returns a pose with every landmark at x, y with visibility vis
func uniformPose(x, y, vis float64) *posture.Pose {

	p := &posture.Pose{Score: 0.9}

	for i := range p.Landmarks {
		p.Landmarks[i] = posture.Landmark{X: x, Y: y, Visibility: vis}
	}

	return p
}

func TestSmootherStationary(t *testing.T) {

	s := NewSmoother(DefaultSmootherParams())

	for i := 0; i < 10; i++ {
		out := s.Update(uniformPose(0.4, 0.6, 0.9))

		if out == nil {
			t.Fatalf("frame %d: nil pose", i)
		}

		lm := out.Landmark(posture.LeftEar)

		if diff := lm.X - 0.4; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("frame %d: x = %f, want 0.4", i, lm.X)
		}

		if lm.Visibility != 0.9 {
			t.Errorf("frame %d: visibility changed to %f", i, lm.Visibility)
		}
	}

	if n := s.Tracking(); n != posture.KeyPointCount {
		t.Errorf("tracking %d landmarks, want %d", n, posture.KeyPointCount)
	}
}

func TestSmootherDampsStep(t *testing.T) {

	s := NewSmoother(DefaultSmootherParams())

	for i := 0; i < 5; i++ {
		s.Update(uniformPose(0.5, 0.5, 0.9))
	}

	in := uniformPose(0.6, 0.5, 0.9)
	out := s.Update(in)

	x := out.Landmark(posture.LeftShoulder).X

	if x <= 0.5 || x >= 0.6 {
		t.Errorf("smoothed x = %f, want between 0.5 and 0.6", x)
	}

	// the input is not modified
	if in.Landmark(posture.LeftShoulder).X != 0.6 {
		t.Error("Update modified its input")
	}
}

func TestSmootherJumpRestarts(t *testing.T) {

	s := NewSmoother(DefaultSmootherParams())

	for i := 0; i < 5; i++ {
		s.Update(uniformPose(0.2, 0.5, 0.9))
	}

	out := s.Update(uniformPose(0.8, 0.5, 0.9))

	if x := out.Landmark(posture.Nose).X; x != 0.8 {
		t.Errorf("x after jump = %f, want 0.8", x)
	}
}

func TestSmootherLowVisibility(t *testing.T) {

	s := NewSmoother(DefaultSmootherParams())

	s.Update(uniformPose(0.5, 0.5, 0.9))

	p := uniformPose(0.55, 0.5, 0.9)
	p.Landmarks[posture.LeftEar] = posture.Landmark{X: 0.1, Y: 0.1, Visibility: 0.3}

	out := s.Update(p)

	if got := out.Landmark(posture.LeftEar); got != p.Landmarks[posture.LeftEar] {
		t.Errorf("low visibility landmark = %+v, want unfiltered %+v", got,
			p.Landmarks[posture.LeftEar])
	}

	if n := s.Tracking(); n != posture.KeyPointCount-1 {
		t.Errorf("tracking %d landmarks, want %d", n, posture.KeyPointCount-1)
	}
}

func TestSmootherNilResets(t *testing.T) {

	s := NewSmoother(DefaultSmootherParams())
	s.Update(uniformPose(0.5, 0.5, 0.9))

	if out := s.Update(nil); out != nil {
		t.Errorf("Update(nil) = %+v, want nil", out)
	}

	if n := s.Tracking(); n != 0 {
		t.Errorf("tracking %d landmarks after reset, want 0", n)
	}

	// a new person starts from their own position
	out := s.Update(uniformPose(0.3, 0.3, 0.9))

	if x := out.Landmark(posture.Nose).X; x != 0.3 {
		t.Errorf("x after reset = %f, want 0.3", x)
	}
}
