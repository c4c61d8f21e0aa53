package render

import (
	"image"

	"github.com/swdee/go-posture"
	"gocv.io/x/gocv"
)

var (
	// skeleton defines the pose skeleton points to draw lines between.  The
	// numbers are 1-based and paired, so (16,14) means draw line from left
	// ankle to left knee.
	skeleton = [38]int{16, 14, 14, 12, 17, 15, 15, 13, 12, 13, 6, 12, 7, 13, 6, 7, 6, 8,
		7, 9, 8, 10, 9, 11, 2, 3, 1, 2, 1, 3, 2, 4, 3, 5, 4, 6, 5, 7}
)

// toPixel converts a normalised landmark to a pixel position on img
func toPixel(img *gocv.Mat, lm posture.Landmark) image.Point {
	return image.Pt(int(lm.X*float64(img.Cols())), int(lm.Y*float64(img.Rows())))
}

// PoseKeyPoints renders the skeleton of the pose.  Limbs and joints with a
// landmark at or below minVisibility are not drawn.  The left ear to left
// shoulder line the posture is measured on is drawn highlighted.
func PoseKeyPoints(img *gocv.Mat, pose *posture.Pose, minVisibility float64,
	lineThickness int) {

	if pose == nil {
		return
	}

	visible := func(k int) bool {
		return pose.Landmarks[k].Visibility > minVisibility
	}

	// draw skeleton lines
	for j := 0; j < len(skeleton)/2; j++ {
		a := skeleton[2*j] - 1
		b := skeleton[2*j+1] - 1

		if !visible(a) || !visible(b) {
			continue
		}

		gocv.Line(img, toPixel(img, pose.Landmarks[a]), toPixel(img, pose.Landmarks[b]),
			limbColors[j], lineThickness)
	}

	ear := int(posture.LeftEar)
	shoulder := int(posture.LeftShoulder)

	if visible(ear) && visible(shoulder) {
		gocv.Line(img, toPixel(img, pose.Landmarks[ear]),
			toPixel(img, pose.Landmarks[shoulder]), postureLimbColor, lineThickness+1)
	}

	// draw circles at skeleton joints
	for j := 0; j < posture.KeyPointCount; j++ {
		if !visible(j) {
			continue
		}

		gocv.Circle(img, toPixel(img, pose.Landmarks[j]), 3, keyPointColors[j], -1)
	}
}
