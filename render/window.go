package render

import (
	"github.com/swdee/go-posture"
	"gocv.io/x/gocv"
)

// WindowTitle is the title of the preview window
const WindowTitle = "Posture Notifier"

// waitKeyDelay is how long in milliseconds PollKey waits for a key press
const waitKeyDelay = 5

// Window shows annotated frames in a HighGUI window
type Window struct {
	win     *gocv.Window
	overlay *Overlay
}

// NewWindow opens a window with the given title
func NewWindow(title string, overlay *Overlay) *Window {
	return &Window{
		win:     gocv.NewWindow(title),
		overlay: overlay,
	}
}

// Draw renders the status onto img
func (w *Window) Draw(img *gocv.Mat, st posture.Status) {
	w.overlay.Draw(img, st)
}

// Show displays img in the window
func (w *Window) Show(img gocv.Mat) {
	w.win.IMShow(img)
}

// PollKey returns the key pressed since the last call or -1 if none.  It
// also lets HighGUI process its window events.
func (w *Window) PollKey() int {
	return w.win.WaitKey(waitKeyDelay)
}

// Close closes the window
func (w *Window) Close() error {
	return w.win.Close()
}

// Headless renders frames without a display, used for replaying video files
// and on devices without a screen.  Keys are never reported so only the end
// of the source or context cancellation stops the monitor.
type Headless struct {
	overlay *Overlay
	// Shown counts frames passed to Show
	Shown int
}

// NewHeadless returns a Headless renderer, a nil overlay skips drawing
func NewHeadless(overlay *Overlay) *Headless {
	return &Headless{overlay: overlay}
}

// Draw renders the status onto img when an overlay is set
func (h *Headless) Draw(img *gocv.Mat, st posture.Status) {
	if h.overlay != nil {
		h.overlay.Draw(img, st)
	}
}

// Show counts the frame
func (h *Headless) Show(img gocv.Mat) {
	h.Shown++
}

// PollKey always returns -1
func (h *Headless) PollKey() int {
	return -1
}

// Close does nothing
func (h *Headless) Close() error {
	return nil
}
