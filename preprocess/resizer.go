// Package preprocess prepares camera frames for the pose model
package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// PadColor is the letterbox padding used by the YOLOv8 models
var PadColor = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// Resizer letterboxes frames to the model input size whilst keeping the
// aspect ratio of the frame
type Resizer struct {
	// srcWidth and srcHeight are the frame dimensions
	srcWidth  int
	srcHeight int
	// destWidth and destHeight are the model input dimensions
	destWidth  int
	destHeight int
	// tempMat holds the scaled frame before padding
	tempMat gocv.Mat
	// rgbMat holds the frame converted from BGR
	rgbMat gocv.Mat
	// letterbox parameters
	xPad  int
	yPad  int
	scale float32
	// scaled frame dimensions
	resizeW int
	resizeH int
}

// NewResizer returns a Resizer for the model input size.  The source size is
// taken from the first frame passed to Letterbox.
func NewResizer(destWidth, destHeight int) *Resizer {
	return &Resizer{
		destWidth:  destWidth,
		destHeight: destHeight,
		tempMat:    gocv.NewMat(),
		rgbMat:     gocv.NewMat(),
	}
}

// Close frees the Mats used during resizing
func (r *Resizer) Close() error {
	r.rgbMat.Close()
	return r.tempMat.Close()
}

// SetSource sets the source frame size and recalculates the scaling
func (r *Resizer) SetSource(srcWidth, srcHeight int) {

	r.srcWidth = srcWidth
	r.srcHeight = srcHeight

	r.resizeW = r.destWidth
	r.resizeH = r.destHeight

	scaleW := float32(r.destWidth) / float32(r.srcWidth)
	scaleH := float32(r.destHeight) / float32(r.srcHeight)
	r.scale = scaleH

	if scaleW < scaleH {
		r.scale = scaleW
		r.resizeH = int(float32(r.srcHeight) * r.scale)
	} else {
		r.resizeW = int(float32(r.srcWidth) * r.scale)
	}

	r.yPad = (r.destHeight - r.resizeH) / 2
	r.xPad = (r.destWidth - r.resizeW) / 2
}

// Letterbox converts the BGR frame to RGB and resizes it into dest with
// padding so it matches the model input size
func (r *Resizer) Letterbox(src gocv.Mat, dest *gocv.Mat) {

	if src.Cols() != r.srcWidth || src.Rows() != r.srcHeight {
		r.SetSource(src.Cols(), src.Rows())
	}

	gocv.CvtColor(src, &r.rgbMat, gocv.ColorBGRToRGB)
	r.LetterBoxResize(r.rgbMat, dest, PadColor)
}

// LetterBoxResize resizes src into dest without changing its color space
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, c color.RGBA) {

	if src.Cols() != r.srcWidth || src.Rows() != r.srcHeight {
		r.SetSource(src.Cols(), src.Rows())
	}

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	gocv.CopyMakeBorder(r.tempMat, dest, r.yPad, r.destHeight-r.resizeH-r.yPad,
		r.xPad, r.destWidth-r.resizeW-r.xPad, gocv.BorderConstant, c)
}

// ScaleFactor returns the scale from source to model input
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// XPad returns the horizontal letterbox padding
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the vertical letterbox padding
func (r *Resizer) YPad() int {
	return r.yPad
}

// SrcWidth returns the width of the source frame
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source frame
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}

// DestWidth returns the model input width
func (r *Resizer) DestWidth() int {
	return r.destWidth
}

// DestHeight returns the model input height
func (r *Resizer) DestHeight() int {
	return r.destHeight
}
