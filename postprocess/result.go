// Package postprocess decodes YOLOv8-pose model outputs into person
// detections with 17 COCO keypoints, and converts the chosen detection into
// a posture.Pose.
package postprocess

import (
	"github.com/swdee/go-posture"
)

// LetterBox describes the letterbox resize applied to the frame before
// inference, satisfied by preprocess.Resizer
type LetterBox interface {
	XPad() int
	YPad() int
	ScaleFactor() float32
	SrcWidth() int
	SrcHeight() int
}

// BoxRect is a bounding box in frame pixels
type BoxRect struct {
	Left   float32
	Top    float32
	Right  float32
	Bottom float32
}

// Area returns the area of the box
func (b BoxRect) Area() float32 {

	w := b.Right - b.Left
	h := b.Bottom - b.Top

	if w <= 0 || h <= 0 {
		return 0
	}

	return w * h
}

// KeyPoint is a single keypoint in frame pixels
type KeyPoint struct {
	X     float32
	Y     float32
	Score float32
}

// Person is one detected person
type Person struct {
	Box         BoxRect
	Probability float32
	KeyPoints   []KeyPoint
}

// SelectPrimary picks the person the posture is measured for.  Detection
// confidence is weighted 0.7 and relative box area 0.3 so a confident person
// close to the camera wins over background people.
func SelectPrimary(people []Person) *Person {

	if len(people) == 0 {
		return nil
	}

	if len(people) == 1 {
		return &people[0]
	}

	maxArea := float32(0)

	for _, p := range people {
		if a := p.Box.Area(); a > maxArea {
			maxArea = a
		}
	}

	bestScore := float32(-1)
	var best *Person

	for i := range people {
		area := float32(0)

		if maxArea > 0 {
			area = people[i].Box.Area() / maxArea
		}

		score := people[i].Probability*0.7 + area*0.3

		if score > bestScore {
			bestScore = score
			best = &people[i]
		}
	}

	return best
}

// ToPose converts a detection in frame pixels to a pose normalised to the
// frame size.  Keypoints beyond the COCO 17 are ignored.
func ToPose(p *Person, frameWidth, frameHeight int) *posture.Pose {

	if p == nil || frameWidth <= 0 || frameHeight <= 0 {
		return nil
	}

	w := float64(frameWidth)
	h := float64(frameHeight)

	pose := &posture.Pose{
		Score: float64(p.Probability),
		Box: posture.Rect{
			Left:   float64(p.Box.Left) / w,
			Top:    float64(p.Box.Top) / h,
			Right:  float64(p.Box.Right) / w,
			Bottom: float64(p.Box.Bottom) / h,
		},
	}

	for i, kp := range p.KeyPoints {
		if i >= posture.KeyPointCount {
			break
		}

		pose.Landmarks[i] = posture.Landmark{
			X:          float64(kp.X) / w,
			Y:          float64(kp.Y) / h,
			Visibility: float64(kp.Score),
		}
	}

	return pose
}

// unletterbox maps a point in model input pixels back to frame pixels,
// clamped to the frame
func unletterbox(x, y float32, lb LetterBox) (float32, float32) {

	scale := lb.ScaleFactor()

	fx := (x - float32(lb.XPad())) / scale
	fy := (y - float32(lb.YPad())) / scale

	return clamp(fx, 0, float32(lb.SrcWidth())), clamp(fy, 0, float32(lb.SrcHeight()))
}
