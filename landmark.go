package posture

import (
	"strings"
)

/* COCO keypoints produced by the YOLOv8-pose model
0: Nose
1: Left Eye
2: Right Eye
3: Left Ear
4: Right Ear
5: Left Shoulder
6: Right Shoulder
7: Left Elbow
8: Right Elbow
9: Left Wrist
10: Right Wrist
11: Left Hip
12: Right Hip
13: Left Knee
14: Right Knee
15: Left Ankle
16: Right Ankle
*/

// KeyPoint is the index of a named body landmark in a Pose
type KeyPoint int

const (
	Nose KeyPoint = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
)

// KeyPointCount is the number of landmarks in a Pose
const KeyPointCount = 17

var keyPointNames = [KeyPointCount]string{
	"NOSE",
	"LEFT_EYE",
	"RIGHT_EYE",
	"LEFT_EAR",
	"RIGHT_EAR",
	"LEFT_SHOULDER",
	"RIGHT_SHOULDER",
	"LEFT_ELBOW",
	"RIGHT_ELBOW",
	"LEFT_WRIST",
	"RIGHT_WRIST",
	"LEFT_HIP",
	"RIGHT_HIP",
	"LEFT_KNEE",
	"RIGHT_KNEE",
	"LEFT_ANKLE",
	"RIGHT_ANKLE",
}

// String returns the canonical name of the keypoint, eg: LEFT_SHOULDER
func (k KeyPoint) String() string {
	if k < 0 || int(k) >= KeyPointCount {
		return "UNKNOWN"
	}

	return keyPointNames[k]
}

// KeyPointByName resolves a canonical keypoint name to its index.  Matching
// is case insensitive and accepts spaces or dashes in place of underscores.
func KeyPointByName(name string) (KeyPoint, bool) {

	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)

	for i, n := range keyPointNames {
		if n == name {
			return KeyPoint(i), true
		}
	}

	return 0, false
}

// Landmark is a single body keypoint
type Landmark struct {
	// X is the horizontal position normalised to the frame width [0,1]
	X float64
	// Y is the vertical position normalised to the frame height [0,1]
	Y float64
	// Visibility is the detection confidence of the keypoint [0,1]
	Visibility float64
}

// Rect is a bounding box in normalised frame coordinates
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Pose is the set of landmarks estimated for one person in a frame
type Pose struct {
	// Landmarks are indexed by KeyPoint
	Landmarks [KeyPointCount]Landmark
	// Score is the person detection confidence
	Score float64
	// Box is the person bounding box
	Box Rect
}

// Landmark returns the landmark for the given keypoint
func (p *Pose) Landmark(k KeyPoint) Landmark {
	if k < 0 || int(k) >= KeyPointCount {
		return Landmark{}
	}

	return p.Landmarks[k]
}

// LandmarkByName returns the landmark for the named keypoint
func (p *Pose) LandmarkByName(name string) (Landmark, bool) {

	k, ok := KeyPointByName(name)

	if !ok {
		return Landmark{}, false
	}

	return p.Landmarks[k], true
}
