package posture

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// at returns the simulated time seconds after epoch
func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

type frame struct {
	label Label
	t     float64
	alert bool
}

func runFrames(t *testing.T, frames []frame, delay time.Duration) {
	t.Helper()

	var s DebounceState

	for i, f := range frames {
		got := s.Update(f.label, at(f.t), delay)

		if got != f.alert {
			t.Errorf("frame %d (%s @ %.3fs): alert got %v, want %v",
				i, f.label, f.t, got, f.alert)
		}

		if got != s.AlertActive {
			t.Errorf("frame %d: returned %v but AlertActive is %v", i, got,
				s.AlertActive)
		}
	}
}

func TestDebounceSequence(t *testing.T) {

	// one frame a second with strict greater than semantics, the alert is
	// raised on the first frame after the 3 second mark
	runFrames(t, []frame{
		{Slouching, 0, false},
		{Slouching, 1, false},
		{Slouching, 2, false},
		{Slouching, 3, false},
		{Slouching, 4, true},
		{Slouching, 5, true},
	}, DefaultAlertDelay)
}

func TestDebounceThresholdBoundary(t *testing.T) {

	tests := []struct {
		name  string
		last  time.Time
		alert bool
	}{
		{"exactly at delay", epoch.Add(3 * time.Second), false},
		{"one nanosecond past delay", epoch.Add(3*time.Second + time.Nanosecond), true},
		{"well before delay", epoch.Add(1500 * time.Millisecond), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s DebounceState

			// repeated frames up to the boundary
			for ts := epoch; ts.Before(tc.last); ts = ts.Add(100 * time.Millisecond) {
				if s.Update(Slouching, ts, DefaultAlertDelay) {
					t.Fatalf("alert raised early at %v", ts.Sub(epoch))
				}
			}

			if got := s.Update(Slouching, tc.last, DefaultAlertDelay); got != tc.alert {
				t.Errorf("alert got %v, want %v", got, tc.alert)
			}
		})
	}
}

func TestDebounceInterruption(t *testing.T) {

	runFrames(t, []frame{
		{Slouching, 0, false},
		{Slouching, 1, false},
		{Slouching, 2, false},
		{Slouching, 3.2, true},
		{Good, 3.5, false},
		{Slouching, 4, false},
		{Slouching, 6, false},
		{Slouching, 7, false},
		{Slouching, 7.1, true},
	}, DefaultAlertDelay)
}

func TestDebounceResetLabels(t *testing.T) {

	for _, label := range []Label{Good, NotFullyVisible, Unknown} {
		t.Run(label.String(), func(t *testing.T) {
			var s DebounceState

			s.Update(Slouching, at(0), DefaultAlertDelay)

			if !s.Update(Slouching, at(10), DefaultAlertDelay) {
				t.Fatal("expected alert after 10 seconds")
			}

			if s.Update(label, at(10.1), DefaultAlertDelay) {
				t.Errorf("alert still active after %s", label)
			}

			if s != (DebounceState{}) {
				t.Errorf("state not reset: %+v", s)
			}
		})
	}
}

func TestDebounceStartRecorded(t *testing.T) {

	var s DebounceState

	s.Update(Good, at(0), DefaultAlertDelay)

	if s.BadPostureOngoing {
		t.Fatal("ongoing after Good frame")
	}

	s.Update(Slouching, at(2), DefaultAlertDelay)
	s.Update(Slouching, at(3), DefaultAlertDelay)

	if !s.BadPostureOngoing || !s.BadPostureStart.Equal(at(2)) {
		t.Errorf("start not kept from first frame: %+v", s)
	}

	if d := s.Ongoing(at(4.5)); d != 2500*time.Millisecond {
		t.Errorf("Ongoing: got %v, want 2.5s", d)
	}

	s.Update(Unknown, at(5), DefaultAlertDelay)

	if d := s.Ongoing(at(6)); d != 0 {
		t.Errorf("Ongoing after reset: got %v, want 0", d)
	}
}
