// Package monitor runs the posture loop: read a frame, estimate the pose,
// classify it, debounce the slouch alert and render the result.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swdee/go-posture"
	"github.com/swdee/go-posture/capture"
	"github.com/swdee/go-posture/internal/log"
	"gocv.io/x/gocv"
	"golang.org/x/time/rate"
)

// FrameSource produces frames.  Read returns capture.ErrEmptyFrame for a
// transient empty frame and io.EOF when a finite source is exhausted.
type FrameSource interface {
	Read(dst *gocv.Mat) error
	Close() error
}

// Estimator finds the pose of the primary person in a frame, a nil pose
// means nobody was detected
type Estimator interface {
	Estimate(img gocv.Mat) (*posture.Pose, error)
}

// Renderer draws the status onto the frame, displays it and reports key
// presses, -1 meaning no key
type Renderer interface {
	Draw(img *gocv.Mat, st posture.Status)
	Show(img gocv.Mat)
	PollKey() int
	Close() error
}

// Smoother filters the pose between frames, a nil pose resets it
type Smoother interface {
	Update(p *posture.Pose) *posture.Pose
}

// Clock returns the time a frame is observed at
type Clock func() time.Time

// Summary describes a finished run
type Summary struct {
	// Session identifies the run in the logs
	Session string
	// Frames is the number of frames processed, empty frames excluded
	Frames int
	// EmptyFrames is the number of empty frames skipped
	EmptyFrames int
	// Labels counts frames per posture label
	Labels map[posture.Label]int
	// Alerts is the number of times the slouch alert was raised
	Alerts int
	// SlouchingTime is the total duration of all slouching runs
	SlouchingTime time.Duration
}

// Monitor is the posture monitoring loop.  The debounce state is owned by
// the monitor and only touched from Run.
type Monitor struct {
	params   Params
	src      FrameSource
	est      Estimator
	rend     Renderer
	smoother Smoother
	clock    Clock
	onStatus func(posture.Status)
	state    posture.DebounceState
}

// Option customises a Monitor
type Option func(*Monitor)

// WithSmoother filters poses before they are classified
func WithSmoother(s Smoother) Option {
	return func(m *Monitor) {
		m.smoother = s
	}
}

// WithClock sets the clock frames are timestamped with, the default is the
// wall clock
func WithClock(c Clock) Option {
	return func(m *Monitor) {
		m.clock = c
	}
}

// WithStatusHook calls fn with the status of every processed frame
func WithStatusHook(fn func(posture.Status)) Option {
	return func(m *Monitor) {
		m.onStatus = fn
	}
}

// New returns a Monitor reading from src.  The collaborators stay owned by
// the caller who closes them after Run returns.
func New(p Params, src FrameSource, est Estimator, rend Renderer,
	opts ...Option) (*Monitor, error) {

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monitor params: %w", err)
	}

	if src == nil || est == nil || rend == nil {
		return nil, errors.New("frame source, estimator and renderer are required")
	}

	m := &Monitor{
		params: p,
		src:    src,
		est:    est,
		rend:   rend,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Run processes frames until the quit key is pressed, ctx is cancelled or the
// source reports io.EOF, all of which return a nil error.  Any other source
// error stops the loop and is returned.
func (m *Monitor) Run(ctx context.Context) (Summary, error) {

	sum := Summary{
		Session: uuid.NewString(),
		Labels:  make(map[posture.Label]int),
	}

	lg := log.With(log.Fields{"session": sum.Session})
	lg.WithFields(logrus.Fields{
		"slouch": m.params.Thresholds.Slouch,
		"delay":  m.params.AlertDelay,
	}).Info("posture monitor started")

	m.state.Reset()

	img := gocv.NewMat()
	defer img.Close()

	emptyLimiter := rate.NewLimiter(rate.Every(m.params.EmptyFrameLogInterval), 1)
	skipped := 0

	prevLabel := posture.Unknown
	lastOngoing := time.Duration(0)

	// used for calculating FPS
	frameCount := 0
	fpsStart := time.Now()
	fps := float64(0)

	finish := func(reason string) Summary {
		sum.SlouchingTime += lastOngoing
		lg.WithFields(logrus.Fields{
			"frames":   sum.Frames,
			"alerts":   sum.Alerts,
			"slouched": sum.SlouchingTime,
			"reason":   reason,
		}).Info("posture monitor stopped")
		return sum
	}

	for {
		select {
		case <-ctx.Done():
			return finish("cancelled"), nil
		default:
		}

		err := m.src.Read(&img)

		switch {
		case errors.Is(err, io.EOF):
			return finish("end of video"), nil

		case errors.Is(err, capture.ErrEmptyFrame):
			sum.EmptyFrames++
			skipped++

			if emptyLimiter.Allow() {
				lg.WithField("skipped", skipped).Warn("Ignoring empty camera frame.")
				skipped = 0
			}

			continue

		case err != nil:
			finish("source error")
			return sum, fmt.Errorf("error reading frame: %w", err)
		}

		now := m.clock()
		sum.Frames++

		pose, err := m.est.Estimate(img)

		if err != nil {
			lg.WithError(err).WithField("frame", sum.Frames).Warn("pose estimation failed")
			pose = nil
		}

		if m.smoother != nil {
			pose = m.smoother.Update(pose)
		}

		label := posture.ClassifyPose(pose, m.params.Thresholds)
		wasAlert := m.state.AlertActive
		alert := m.state.Update(label, now, m.params.AlertDelay)
		ongoing := m.state.Ongoing(now)

		sum.Labels[label]++

		if label == posture.Slouching {
			lastOngoing = ongoing
		} else {
			sum.SlouchingTime += lastOngoing
			lastOngoing = 0
		}

		if label != prevLabel {
			lg.WithFields(logrus.Fields{
				"frame": sum.Frames,
				"from":  prevLabel.String(),
				"to":    label.String(),
			}).Info("posture changed")
			prevLabel = label
		}

		if alert && !wasAlert {
			sum.Alerts++
			lg.WithFields(logrus.Fields{
				"frame":     sum.Frames,
				"slouching": ongoing,
			}).Warn("slouch alert raised")

		} else if !alert && wasAlert {
			lg.WithField("frame", sum.Frames).Info("slouch alert cleared")
		}

		// calculate FPS
		frameCount++
		elapsed := time.Since(fpsStart).Seconds()

		if elapsed >= 1.0 {
			fps = float64(frameCount) / elapsed
			frameCount = 0
			fpsStart = time.Now()
		}

		st := posture.Status{
			FrameNum:     sum.Frames,
			Label:        label,
			Alert:        alert,
			SlouchingFor: ongoing,
			Pose:         pose,
			FPS:          fps,
		}

		if m.onStatus != nil {
			m.onStatus(st)
		}

		m.rend.Draw(&img, st)
		m.rend.Show(img)

		if key := m.rend.PollKey(); key >= 0 && key&0xff == m.params.QuitKey {
			return finish("quit key"), nil
		}
	}
}

// State returns the current debounce state
func (m *Monitor) State() posture.DebounceState {
	return m.state
}
