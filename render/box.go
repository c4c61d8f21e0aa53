package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-posture"
	"gocv.io/x/gocv"
)

// label padding around the box text
const (
	boxLeftPad   = 4
	boxRightPad  = 4
	boxTopPad    = 4
	boxBottomPad = 6
)

// labelColor returns the box color for a posture label
func labelColor(l posture.Label, alert bool) color.RGBA {

	switch {
	case alert:
		return Red
	case l == posture.Good:
		return Green
	case l == posture.Slouching:
		return Yellow
	default:
		return White
	}
}

// PersonBox renders the bounding box around the person with a label holding
// the posture and detection score
func PersonBox(img *gocv.Mat, st posture.Status, font Font, lineThickness int) {

	if st.Pose == nil {
		return
	}

	w := float64(img.Cols())
	h := float64(img.Rows())

	rect := image.Rect(int(st.Pose.Box.Left*w), int(st.Pose.Box.Top*h),
		int(st.Pose.Box.Right*w), int(st.Pose.Box.Bottom*h))

	if rect.Empty() {
		return
	}

	useClr := labelColor(st.Label, st.Alert)
	gocv.Rectangle(img, rect, useClr, lineThickness)

	// create text for label
	text := fmt.Sprintf("%s %.2f", st.Label, st.Pose.Score)
	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	// keep the label inside the frame when the box touches the top
	top := rect.Min.Y

	if top < textSize.Y+boxTopPad+boxBottomPad {
		top = textSize.Y + boxTopPad + boxBottomPad
	}

	labelPosition := image.Pt(rect.Min.X+boxLeftPad-(lineThickness/2), top-boxBottomPad)

	// box the text gets written on
	bRect := image.Rect(rect.Min.X-(lineThickness/2),
		top-textSize.Y-boxTopPad-boxBottomPad,
		rect.Min.X+textSize.X+boxLeftPad+boxRightPad, top)

	gocv.Rectangle(img, bRect, useClr, -1)

	gocv.PutTextWithParams(img, text, labelPosition, font.Face, font.Scale,
		Black, font.Thickness, font.LineType, false)
}
