// Package render draws the posture status, alert and skeleton onto frames
// and shows them in a window.
package render

import (
	"fmt"
	"image"
	"time"

	"github.com/swdee/go-posture"
	"gocv.io/x/gocv"
)

var (
	// statusPos is the baseline of the posture status line
	statusPos = image.Pt(10, 30)
	// alertPos is the baseline of the alert text
	alertPos = image.Pt(50, 100)
	// countdownPos is the baseline of the slouch countdown
	countdownPos = image.Pt(10, 60)
)

// AlertText is shown while the slouch alert is active
const AlertText = "SIT UP STRAIGHT!"

// OverlayParams configures what is drawn onto each frame
type OverlayParams struct {
	// StatusFont is used for the POSTURE line
	StatusFont Font
	// AlertFont is used for the alert text
	AlertFont Font
	// InfoFont is used for the FPS and countdown lines
	InfoFont Font
	// Skeleton enables drawing of the pose keypoints
	Skeleton bool
	// Box enables drawing of the person bounding box and score
	Box bool
	// MinVisibility is the landmark visibility needed to draw a joint
	MinVisibility float64
	// LineThickness of the skeleton limbs
	LineThickness int
	// ShowFPS draws the processing rate in the bottom left corner
	ShowFPS bool
	// AlertDelay enables the countdown line shown while slouching before the
	// alert is raised, zero disables it
	AlertDelay time.Duration
}

// DefaultOverlayParams returns the default overlay
func DefaultOverlayParams() OverlayParams {
	return OverlayParams{
		StatusFont:    StatusFont(),
		AlertFont:     AlertFont(),
		InfoFont:      DefaultFont(),
		Skeleton:      true,
		MinVisibility: posture.DefaultVisibilityThreshold,
		LineThickness: 2,
		ShowFPS:       true,
		AlertDelay:    posture.DefaultAlertDelay,
	}
}

// Overlay draws a posture.Status onto a frame
type Overlay struct {
	params OverlayParams
	ttf    *TTFFont
}

// NewOverlay returns an overlay with the given parameters
func NewOverlay(p OverlayParams) *Overlay {
	return &Overlay{params: p}
}

// SetTTF renders the status and alert text with a TrueType font instead of
// the Hershey fonts
func (o *Overlay) SetTTF(t *TTFFont) {
	o.ttf = t
}

// Draw renders the status onto img
func (o *Overlay) Draw(img *gocv.Mat, st posture.Status) {

	if img == nil || img.Empty() {
		return
	}

	if o.params.Box && st.Pose != nil {
		PersonBox(img, st, o.params.InfoFont, o.params.LineThickness)
	}

	if o.params.Skeleton && st.Pose != nil {
		PoseKeyPoints(img, st.Pose, o.params.MinVisibility, o.params.LineThickness)
	}

	o.putText(img, st.StatusText(), statusPos, o.params.StatusFont)

	if st.Alert {
		o.putText(img, AlertText, alertPos, o.params.AlertFont)

	} else if o.params.AlertDelay > 0 && st.Label == posture.Slouching {
		remain := o.params.AlertDelay - st.SlouchingFor

		if remain < 0 {
			remain = 0
		}

		info := o.params.InfoFont
		info.Color = Yellow
		info.PutText(img, fmt.Sprintf("Slouching, alert in %.1fs", remain.Seconds()),
			countdownPos)
	}

	if o.params.ShowFPS && st.FPS > 0 {
		o.params.InfoFont.PutText(img,
			fmt.Sprintf("Frame %d  %.1f FPS", st.FrameNum, st.FPS),
			image.Pt(10, img.Rows()-10))
	}
}

// putText writes with the TTF font when one is set, falling back to the
// Hershey font
func (o *Overlay) putText(img *gocv.Mat, text string, pt image.Point, f Font) {

	if o.ttf != nil {
		if err := o.ttf.PutText(img, text, pt, f.Color); err == nil {
			return
		}
	}

	f.PutText(img, text, pt)
}
