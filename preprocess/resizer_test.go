package preprocess

import (
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

var (
	black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

func TestLetterBoxResize(t *testing.T) {

	tests := []struct {
		srcWidth      int
		srcHeight     int
		resizeWidth   int
		resizeHeight  int
		expectedXPad  int
		expectedYPad  int
		expectedScale float32
	}{
		{1280, 720, 640, 640, 0, 140, 0.50},
		{640, 480, 640, 640, 0, 80, 1.0},
		{800, 1000, 640, 640, 64, 0, 0.64},
		{800, 800, 640, 640, 0, 0, 0.8},
	}

	for _, tc := range tests {
		img := gocv.NewMatWithSize(tc.srcHeight, tc.srcWidth, gocv.MatTypeCV8UC3)
		resizedImg := gocv.NewMat()
		resizer := NewResizer(tc.resizeWidth, tc.resizeHeight)

		resizer.LetterBoxResize(img, &resizedImg, black)

		if resizer.XPad() != tc.expectedXPad || resizer.YPad() != tc.expectedYPad {
			t.Errorf("src (%d, %d): padding expected XPad=%d, YPad=%d, got XPad=%d, YPad=%d",
				tc.srcWidth, tc.srcHeight, tc.expectedXPad, tc.expectedYPad,
				resizer.XPad(), resizer.YPad())
		}

		if resizer.ScaleFactor() != tc.expectedScale {
			t.Errorf("src (%d, %d): scale factor expected %f, got %f",
				tc.srcWidth, tc.srcHeight, tc.expectedScale, resizer.ScaleFactor())
		}

		if resizedImg.Cols() != tc.resizeWidth || resizedImg.Rows() != tc.resizeHeight {
			t.Errorf("src (%d, %d): output size %dx%d, expected %dx%d",
				tc.srcWidth, tc.srcHeight, resizedImg.Cols(), resizedImg.Rows(),
				tc.resizeWidth, tc.resizeHeight)
		}

		img.Close()
		resizedImg.Close()
		resizer.Close()
	}
}

func TestLetterboxTracksSourceSize(t *testing.T) {

	resizer := NewResizer(640, 640)
	defer resizer.Close()

	dest := gocv.NewMat()
	defer dest.Close()

	first := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	defer first.Close()

	resizer.Letterbox(first, &dest)

	if resizer.SrcWidth() != 1280 || resizer.YPad() != 140 {
		t.Fatalf("first frame: src width %d, y pad %d", resizer.SrcWidth(), resizer.YPad())
	}

	// camera switched resolution
	second := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer second.Close()

	resizer.Letterbox(second, &dest)

	if resizer.SrcWidth() != 640 || resizer.YPad() != 80 || resizer.ScaleFactor() != 1 {
		t.Errorf("second frame: src width %d, y pad %d, scale %f",
			resizer.SrcWidth(), resizer.YPad(), resizer.ScaleFactor())
	}
}
