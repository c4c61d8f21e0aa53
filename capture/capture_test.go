package capture

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestNewFileMissing(t *testing.T) {

	if _, err := NewFile("testdata/does-not-exist.mp4", false); err == nil {
		t.Error("expected error opening missing video file")
	}
}

func TestErrEmptyFrameWrapped(t *testing.T) {

	err := fmt.Errorf("camera 0: %w", ErrEmptyFrame)

	if !errors.Is(err, ErrEmptyFrame) {
		t.Error("wrapped ErrEmptyFrame not matched by errors.Is")
	}
}

func TestMirror(t *testing.T) {

	img := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV8UC1)
	defer img.Close()

	for col := 0; col < 3; col++ {
		img.SetUCharAt(0, col, uint8(col+1))
		img.SetUCharAt(1, col, uint8(col+10))
	}

	mirror(&img)

	want := [2][3]uint8{{3, 2, 1}, {12, 11, 10}}

	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			if got := img.GetUCharAt(row, col); got != want[row][col] {
				t.Errorf("pixel (%d,%d) = %d, want %d", row, col, got, want[row][col])
			}
		}
	}
}

func TestFilePosition(t *testing.T) {

	f := &File{fps: 25}

	if p := f.Position(); p != 0 {
		t.Errorf("position before first frame = %v, want 0", p)
	}

	f.frames = 1

	if p := f.Position(); p != 0 {
		t.Errorf("position of first frame = %v, want 0", p)
	}

	f.frames = 51

	if p := f.Position(); p != 2*time.Second {
		t.Errorf("position of frame 51 = %v, want 2s", p)
	}
}
