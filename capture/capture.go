// Package capture reads frames from a webcam or a video file.
package capture

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when the source produced no image for this read.
// It is transient, the caller should try again on the next pass.
var ErrEmptyFrame = errors.New("empty frame")

// CameraParams configures a webcam
type CameraParams struct {
	// Device is the camera index, 0 is the default camera
	Device int
	// Width and Height request a capture resolution, zero keeps the camera
	// default
	Width  int
	Height int
	// Mirror flips frames horizontally so the preview behaves like a mirror
	Mirror bool
}

// DefaultCameraParams returns the default camera with mirrored frames
func DefaultCameraParams() CameraParams {
	return CameraParams{
		Device: 0,
		Mirror: true,
	}
}

// Camera reads frames from a webcam
type Camera struct {
	params CameraParams
	cap    *gocv.VideoCapture
}

// NewCamera opens the camera device
func NewCamera(p CameraParams) (*Camera, error) {

	vc, err := gocv.OpenVideoCapture(p.Device)

	if err != nil {
		return nil, fmt.Errorf("error opening camera device %d: %w", p.Device, err)
	}

	if p.Width > 0 && p.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(p.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(p.Height))
	}

	return &Camera{
		params: p,
		cap:    vc,
	}, nil
}

// Read grabs the next frame into dst.  A failed or empty grab returns
// ErrEmptyFrame.
func (c *Camera) Read(dst *gocv.Mat) error {

	if ok := c.cap.Read(dst); !ok || dst.Empty() {
		return ErrEmptyFrame
	}

	if c.params.Mirror {
		mirror(dst)
	}

	return nil
}

// Size returns the frame size the camera delivers
func (c *Camera) Size() (int, int) {
	return int(c.cap.Get(gocv.VideoCaptureFrameWidth)),
		int(c.cap.Get(gocv.VideoCaptureFrameHeight))
}

// Close releases the camera
func (c *Camera) Close() error {
	return c.cap.Close()
}

// File reads frames from a video file
type File struct {
	cap    *gocv.VideoCapture
	mirror bool
	frames int
	fps    float64
}

// NewFile opens the video file at path, mirror flips each frame horizontally
func NewFile(path string, mirror bool) (*File, error) {

	vc, err := gocv.VideoCaptureFile(path)

	if err != nil {
		return nil, fmt.Errorf("error opening video file %s: %w", path, err)
	}

	fps := vc.Get(gocv.VideoCaptureFPS)

	if fps <= 0 {
		// containers without a frame rate are treated as 30 FPS
		fps = 30
	}

	return &File{
		cap:    vc,
		mirror: mirror,
		fps:    fps,
	}, nil
}

// Read decodes the next frame into dst.  io.EOF is returned after the last
// frame and ErrEmptyFrame for a frame that failed to decode.
func (f *File) Read(dst *gocv.Mat) error {

	if ok := f.cap.Read(dst); !ok {
		return io.EOF
	}

	if dst.Empty() {
		return ErrEmptyFrame
	}

	f.frames++

	if f.mirror {
		mirror(dst)
	}

	return nil
}

// FPS returns the frame rate of the video
func (f *File) FPS() float64 {
	return f.fps
}

// Position returns the video time of the last frame read, derived from the
// frame count so it advances at video speed however fast frames are
// processed
func (f *File) Position() time.Duration {
	if f.frames == 0 {
		return 0
	}
	return time.Duration(float64(f.frames-1) / f.fps * float64(time.Second))
}

// Close releases the file
func (f *File) Close() error {
	return f.cap.Close()
}

// mirror flips img around the vertical axis in place
func mirror(img *gocv.Mat) {
	gocv.Flip(*img, img, 1)
}
