package posture

import (
	"testing"
)

func TestKeyPointByName(t *testing.T) {

	tests := []struct {
		name string
		want KeyPoint
		ok   bool
	}{
		{"LEFT_SHOULDER", LeftShoulder, true},
		{"LEFT_EAR", LeftEar, true},
		{"left ear", LeftEar, true},
		{" right-ankle ", RightAnkle, true},
		{"NOSE", Nose, true},
		{"TAIL", 0, false},
	}

	for _, tc := range tests {
		got, ok := KeyPointByName(tc.name)

		if ok != tc.ok || got != tc.want {
			t.Errorf("KeyPointByName(%q): got %v %v, want %v %v", tc.name,
				got, ok, tc.want, tc.ok)
		}
	}
}

func TestKeyPointNamesRoundTrip(t *testing.T) {

	for k := KeyPoint(0); int(k) < KeyPointCount; k++ {
		got, ok := KeyPointByName(k.String())

		if !ok || got != k {
			t.Errorf("keypoint %d name %s resolved to %d", k, k, got)
		}
	}

	if KeyPoint(-1).String() != "UNKNOWN" || KeyPoint(KeyPointCount).String() != "UNKNOWN" {
		t.Error("out of range keypoints should be UNKNOWN")
	}
}

func TestPoseLandmarkByName(t *testing.T) {

	p := &Pose{}
	p.Landmarks[LeftShoulder] = Landmark{X: 0.3, Y: 0.6, Visibility: 0.9}

	lm, ok := p.LandmarkByName("LEFT_SHOULDER")

	if !ok || lm != p.Landmarks[LeftShoulder] {
		t.Errorf("LandmarkByName: got %+v %v", lm, ok)
	}

	if _, ok := p.LandmarkByName("WING"); ok {
		t.Error("LandmarkByName resolved an unknown name")
	}

	if lm := p.Landmark(KeyPoint(99)); lm != (Landmark{}) {
		t.Errorf("Landmark out of range: got %+v", lm)
	}
}
