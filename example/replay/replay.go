/*
Replay runs the posture monitor headless over a recorded video file.  Frames
are timestamped with their position in the video so the alert delay is
measured in video time however fast the file is processed.  The label and
alert timeline is printed as it changes followed by a summary.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/swdee/go-posture"
	"github.com/swdee/go-posture/capture"
	"github.com/swdee/go-posture/internal/log"
	"github.com/swdee/go-posture/monitor"
	"github.com/swdee/go-posture/pose"
	"github.com/swdee/go-posture/postprocess"
	"github.com/swdee/go-posture/render"
	"github.com/swdee/go-posture/rknn"
	"github.com/swdee/go-posture/tracker"
)

// timeline prints a line each time the label or alert changes
type timeline struct {
	file      *capture.File
	lastLabel posture.Label
	lastAlert bool
	started   bool
}

func (t *timeline) observe(st posture.Status) {

	if t.started && st.Label == t.lastLabel && st.Alert == t.lastAlert {
		return
	}

	alert := ""

	if st.Alert {
		alert = "  ALERT"
	}

	fmt.Printf("%10s  frame %6d  %-18s%s\n", fmtPos(t.file.Position()), st.FrameNum,
		st.Label, alert)

	t.started = true
	t.lastLabel = st.Label
	t.lastAlert = st.Alert
}

// fmtPos formats a video position as mm:ss.mmm
func fmtPos(d time.Duration) string {
	m := d / time.Minute
	s := d % time.Minute
	return fmt.Sprintf("%02d:%06.3f", m, s.Seconds())
}

func main() {

	// read in cli flags
	vidFile := flag.String("v", "../data/posture.mp4", "Video file to replay")
	modelFile := flag.String("m", "../data/yolov8n-pose-640-640-rk3588.rknn",
		"YOLOv8-pose model file, .rknn for the NPU or .onnx for the CPU")
	backend := flag.String("t", "rknn", "Inference backend, rknn|onnx")
	slouch := flag.Float64("slouch", posture.DefaultSlouchThreshold,
		"Horizontal ear to shoulder offset above which posture is slouching")
	delay := flag.Duration("delay", posture.DefaultAlertDelay,
		"How long slouching must continue before the alert")
	mirror := flag.Bool("mirror", false, "Mirror frames horizontally")
	smooth := flag.Bool("smooth", true, "Smooth landmarks between frames with a Kalman filter")
	logLevel := flag.String("log-level", "warn", "Log level, debug|info|warn|error")

	flag.Parse()

	if err := log.Init(log.Config{Level: *logLevel}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	params := monitor.DefaultParams()
	params.Thresholds.Slouch = *slouch
	params.AlertDelay = *delay

	var est interface {
		monitor.Estimator
		Close() error
	}

	switch *backend {
	case "rknn":
		e, err := pose.NewRKNN(*modelFile, rknn.NPUCoreAuto, postprocess.YOLOv8PoseCOCOParams())

		if err != nil {
			log.Fatal(log.Fields{"model": *modelFile}, err.Error())
		}

		est = e

	case "onnx":
		e, err := pose.NewONNX(*modelFile, pose.DefaultONNXParams())

		if err != nil {
			log.Fatal(log.Fields{"model": *modelFile}, err.Error())
		}

		est = e

	default:
		log.Fatal(log.Fields{"backend": *backend}, "unknown backend, expected rknn or onnx")
	}

	defer est.Close()

	video, err := capture.NewFile(*vidFile, *mirror)

	if err != nil {
		log.Fatal(log.Fields{"video": *vidFile}, err.Error())
	}

	defer video.Close()

	// video time as the clock
	start := time.Now()
	clock := func() time.Time {
		return start.Add(video.Position())
	}

	tl := &timeline{file: video}

	opts := []monitor.Option{
		monitor.WithClock(clock),
		monitor.WithStatusHook(tl.observe),
	}

	if *smooth {
		opts = append(opts, monitor.WithSmoother(tracker.NewSmoother(tracker.DefaultSmootherParams())))
	}

	mon, err := monitor.New(params, video, est, render.NewHeadless(nil), opts...)

	if err != nil {
		log.Fatal(nil, err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Replaying %s at %.1f FPS\n\n", *vidFile, video.FPS())

	processStart := time.Now()
	sum, err := mon.Run(ctx)

	if err != nil {
		log.Error(log.Fields{"session": sum.Session}, err.Error())
		os.Exit(1)
	}

	fmt.Printf("\nSession: %s\n", sum.Session)
	fmt.Printf("Frames processed: %d (empty %d) in %s\n", sum.Frames, sum.EmptyFrames,
		time.Since(processStart).Round(time.Millisecond))
	fmt.Printf("Alerts raised: %d\n", sum.Alerts)
	fmt.Printf("Time slouching: %s\n", sum.SlouchingTime.Round(time.Millisecond))

	labels := make([]posture.Label, 0, len(sum.Labels))

	for l := range sum.Labels {
		labels = append(labels, l)
	}

	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	for _, l := range labels {
		pct := 100 * float64(sum.Labels[l]) / float64(sum.Frames)
		fmt.Printf("  %-18s %6d frames %5.1f%%\n", l, sum.Labels[l], pct)
	}
}
