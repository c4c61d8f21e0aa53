package render

import (
	"image"
	"testing"
	"time"

	"github.com/swdee/go-posture"
	"gocv.io/x/gocv"
	"golang.org/x/image/font/gofont/goregular"
)

// blankFrame returns a black 640x480 BGR frame
func blankFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640,
		gocv.MatTypeCV8UC3)
}

// regionMean returns the mean B, G, R of a region of img
func regionMean(img gocv.Mat, r image.Rectangle) (b, g, red float64) {
	roi := img.Region(r)
	defer roi.Close()

	s := roi.Mean()
	return s.Val1, s.Val2, s.Val3
}

var (
	statusRegion    = image.Rect(10, 10, 250, 35)
	alertRegion     = image.Rect(50, 75, 350, 105)
	countdownRegion = image.Rect(10, 45, 300, 65)
)

func TestOverlayStatusOnly(t *testing.T) {

	img := blankFrame()
	defer img.Close()

	ov := NewOverlay(DefaultOverlayParams())
	ov.Draw(&img, posture.Status{FrameNum: 1, Label: posture.Good})

	b, g, r := regionMean(img, statusRegion)

	if g == 0 || b != 0 || r != 0 {
		t.Errorf("status region mean b=%f g=%f r=%f, want green text", b, g, r)
	}

	if b, g, r := regionMean(img, alertRegion); b != 0 || g != 0 || r != 0 {
		t.Errorf("alert drawn without alert, mean b=%f g=%f r=%f", b, g, r)
	}
}

func TestOverlayAlert(t *testing.T) {

	img := blankFrame()
	defer img.Close()

	ov := NewOverlay(DefaultOverlayParams())
	ov.Draw(&img, posture.Status{
		FrameNum:     10,
		Label:        posture.Slouching,
		Alert:        true,
		SlouchingFor: 4 * time.Second,
	})

	b, g, r := regionMean(img, alertRegion)

	if r == 0 || g != 0 || b != 0 {
		t.Errorf("alert region mean b=%f g=%f r=%f, want red text", b, g, r)
	}

	// no countdown once the alert is active
	if b, g, r := regionMean(img, countdownRegion); b != 0 || g != 0 || r != 0 {
		t.Errorf("countdown drawn during alert, mean b=%f g=%f r=%f", b, g, r)
	}
}

func TestOverlayCountdown(t *testing.T) {

	img := blankFrame()
	defer img.Close()

	ov := NewOverlay(DefaultOverlayParams())
	ov.Draw(&img, posture.Status{
		Label:        posture.Slouching,
		SlouchingFor: time.Second,
	})

	if _, _, r := regionMean(img, countdownRegion); r == 0 {
		t.Error("countdown not drawn while slouching")
	}

	if _, _, r := regionMean(img, alertRegion); r != 0 {
		t.Error("alert drawn before the delay")
	}
}

func TestOverlayEmptyFrame(t *testing.T) {

	img := gocv.NewMat()
	defer img.Close()

	// must not panic
	NewOverlay(DefaultOverlayParams()).Draw(&img, posture.Status{Label: posture.Good})
}

func TestPoseKeyPoints(t *testing.T) {

	img := blankFrame()
	defer img.Close()

	pose := &posture.Pose{}
	pose.Landmarks[posture.LeftEar] = posture.Landmark{X: 0.5, Y: 0.25, Visibility: 0.9}
	pose.Landmarks[posture.LeftShoulder] = posture.Landmark{X: 0.5, Y: 0.5, Visibility: 0.9}
	// hidden, must not be drawn
	pose.Landmarks[posture.RightAnkle] = posture.Landmark{X: 0.1, Y: 0.9, Visibility: 0.1}

	PoseKeyPoints(&img, pose, 0.5, 2)

	// joint at the shoulder (320, 240)
	if v := img.GetVecbAt(240, 320); v[0] == 0 && v[1] == 0 && v[2] == 0 {
		t.Error("shoulder joint not drawn")
	}

	// midpoint of the ear to shoulder line (320, 180)
	if v := img.GetVecbAt(180, 320); v[0] == 0 && v[1] == 0 && v[2] == 0 {
		t.Error("ear to shoulder line not drawn")
	}

	if v := img.GetVecbAt(432, 64); v[0] != 0 || v[1] != 0 || v[2] != 0 {
		t.Error("hidden ankle drawn")
	}
}

func TestTTFPutText(t *testing.T) {

	ttf, err := ParseTTF(goregular.TTF, 24)

	if err != nil {
		t.Fatalf("ParseTTF: %v", err)
	}

	defer ttf.Close()

	img := blankFrame()
	defer img.Close()

	if err := ttf.PutText(&img, "POSTURE: Good", image.Pt(10, 30), Green); err != nil {
		t.Fatalf("PutText: %v", err)
	}

	if _, g, _ := regionMean(img, statusRegion); g == 0 {
		t.Error("TTF text not drawn")
	}
}

func TestLoadTTFMissing(t *testing.T) {

	if _, err := LoadTTF("testdata/missing.ttf", 20); err == nil {
		t.Error("expected error for missing font file")
	}

	if _, err := ParseTTF([]byte("not a font"), 20); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestHeadless(t *testing.T) {

	img := blankFrame()
	defer img.Close()

	h := NewHeadless(nil)
	h.Draw(&img, posture.Status{Label: posture.Good})
	h.Show(img)

	if h.Shown != 1 {
		t.Errorf("shown %d frames, want 1", h.Shown)
	}

	if k := h.PollKey(); k != -1 {
		t.Errorf("PollKey = %d, want -1", k)
	}

	if b, g, r := regionMean(img, statusRegion); b != 0 || g != 0 || r != 0 {
		t.Error("headless renderer without overlay drew on the frame")
	}
}

func TestPersonBox(t *testing.T) {

	img := blankFrame()
	defer img.Close()

	st := posture.Status{
		Label: posture.Good,
		Pose: &posture.Pose{
			Score: 0.87,
			Box:   posture.Rect{Left: 0.25, Top: 0.25, Right: 0.75, Bottom: 0.75},
		},
	}

	PersonBox(&img, st, DefaultFont(), 2)

	// left edge of the box at x=160, halfway down
	if v := img.GetVecbAt(240, 160); v[1] != 255 || v[2] != 0 {
		t.Errorf("box edge pixel = %v, want green", v)
	}

	// inside of the box is untouched
	if v := img.GetVecbAt(240, 320); v[0] != 0 || v[1] != 0 || v[2] != 0 {
		t.Errorf("box interior pixel = %v, want black", v)
	}

	if c := labelColor(posture.Slouching, true); c != Red {
		t.Errorf("alert box color = %v, want red", c)
	}
}
