/*
Posture notifier watches the webcam, classifies the posture of the person in
front of it from the ear to shoulder offset and shows a SIT UP STRAIGHT!
alert once slouching has lasted longer than the delay.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
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

// estimator is a pose backend that holds resources
type estimator interface {
	monitor.Estimator
	Close() error
}

func main() {

	// read in cli flags
	device := flag.Int("d", 0, "Camera device index")
	modelFile := flag.String("m", "../data/yolov8n-pose-640-640-rk3588.rknn",
		"YOLOv8-pose model file, .rknn for the NPU or .onnx for the CPU")
	backend := flag.String("t", "rknn", "Inference backend, rknn|onnx")
	platform := flag.String("p", "rk3588", "Rockchip CPU Model number to pin the program to the fast cores, empty to skip")
	slouch := flag.Float64("slouch", posture.DefaultSlouchThreshold,
		"Horizontal ear to shoulder offset, as a fraction of the frame width, above which posture is slouching")
	delay := flag.Duration("delay", posture.DefaultAlertDelay,
		"How long slouching must continue before the alert is shown")
	mirror := flag.Bool("mirror", true, "Mirror camera frames horizontally")
	smooth := flag.Bool("smooth", true, "Smooth landmarks between frames with a Kalman filter")
	box := flag.Bool("box", false, "Draw the bounding box of the person")
	fontFile := flag.String("font", "", "Optional TTF font file for the overlay text")
	logLevel := flag.String("log-level", "info", "Log level, debug|info|warn|error")
	logFile := flag.String("log-file", "", "Optional rotating log file")
	query := flag.Bool("q", false, "Print the RKNN model tensor layout and exit")

	flag.Parse()

	if err := log.Init(log.Config{Level: *logLevel, File: *logFile}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	params := monitor.DefaultParams()
	params.Thresholds.Slouch = *slouch
	params.AlertDelay = *delay

	if err := params.Validate(); err != nil {
		log.Fatal(nil, err.Error())
	}

	if *platform != "" && *backend == "rknn" {
		if err := rknn.SetCPUAffinityByPlatform(*platform, rknn.FastCores); err != nil {
			log.Warn(log.Fields{"platform": *platform}, "Failed to set CPU Affinity: "+err.Error())
		}
	}

	est, err := newEstimator(*backend, *modelFile, *query)

	if err != nil {
		log.Fatal(log.Fields{"model": *modelFile, "backend": *backend}, err.Error())
	}

	defer est.Close()

	if *query {
		return
	}

	cp := capture.DefaultCameraParams()
	cp.Device = *device
	cp.Mirror = *mirror

	cam, err := capture.NewCamera(cp)

	if err != nil {
		log.Fatal(log.Fields{"device": *device}, err.Error())
	}

	defer cam.Close()

	op := render.DefaultOverlayParams()
	op.AlertDelay = params.AlertDelay
	op.Box = *box
	overlay := render.NewOverlay(op)

	if *fontFile != "" {
		ttf, err := render.LoadTTF(*fontFile, 22)

		if err != nil {
			log.Fatal(log.Fields{"font": *fontFile}, err.Error())
		}

		defer ttf.Close()
		overlay.SetTTF(ttf)
	}

	win := render.NewWindow(render.WindowTitle, overlay)
	defer win.Close()

	var opts []monitor.Option

	if *smooth {
		opts = append(opts, monitor.WithSmoother(tracker.NewSmoother(tracker.DefaultSmootherParams())))
	}

	mon, err := monitor.New(params, cam, est, win, opts...)

	if err != nil {
		log.Fatal(nil, err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting Posture Notifier. Press 'q' to quit.")

	sum, err := mon.Run(ctx)

	if err != nil {
		log.Error(log.Fields{"session": sum.Session}, err.Error())
		os.Exit(1)
	}

	fmt.Printf("Frames: %d, alerts: %d, slouching for %s\n", sum.Frames, sum.Alerts,
		sum.SlouchingTime.Round(time.Second))
}

// newEstimator loads the model on the chosen backend, query prints the RKNN
// model layout to stdout
func newEstimator(backend, modelFile string, query bool) (estimator, error) {

	switch strings.ToLower(backend) {
	case "rknn":
		e, err := pose.NewRKNN(modelFile, rknn.NPUCoreAuto, postprocess.YOLOv8PoseCOCOParams())

		if err != nil {
			return nil, err
		}

		if query {
			if err := e.Query(os.Stdout); err != nil {
				e.Close()
				return nil, err
			}
		}

		return e, nil

	case "onnx":
		if query {
			return nil, errors.New("model query is only supported by the rknn backend")
		}

		e, err := pose.NewONNX(modelFile, pose.DefaultONNXParams())

		if err != nil {
			return nil, err
		}

		return e, nil

	default:
		return nil, fmt.Errorf("unknown backend %q, expected rknn or onnx", backend)
	}
}
