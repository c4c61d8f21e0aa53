package pose

import (
	"fmt"
	"image"

	"github.com/swdee/go-posture"
	"github.com/swdee/go-posture/postprocess"
	"github.com/swdee/go-posture/preprocess"
	"gocv.io/x/gocv"
)

// ONNXParams configures the OpenCV DNN backend
type ONNXParams struct {
	// InputWidth and InputHeight are the model input size
	InputWidth  int
	InputHeight int
	// Post are the decoder parameters
	Post postprocess.YOLOv8PoseParams
}

// DefaultONNXParams returns the parameters of a 640x640 COCO pose model
func DefaultONNXParams() ONNXParams {
	return ONNXParams{
		InputWidth:  640,
		InputHeight: 640,
		Post:        postprocess.YOLOv8PoseCOCOParams(),
	}
}

// ONNX runs an ONNX exported YOLOv8-pose model with OpenCV DNN on the CPU
type ONNX struct {
	net     gocv.Net
	resizer *preprocess.Resizer
	post    *postprocess.YOLOv8Pose
	input   gocv.Mat
	size    image.Point
}

// NewONNX loads the .onnx model file
func NewONNX(modelFile string, p ONNXParams) (*ONNX, error) {

	if err := checkModel(modelFile); err != nil {
		return nil, err
	}

	net := gocv.ReadNetFromONNX(modelFile)

	if net.Empty() {
		return nil, fmt.Errorf("failed to load ONNX model from %s", modelFile)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &ONNX{
		net:     net,
		resizer: preprocess.NewResizer(p.InputWidth, p.InputHeight),
		post:    postprocess.NewYOLOv8Pose(p.Post),
		input:   gocv.NewMat(),
		size:    image.Pt(p.InputWidth, p.InputHeight),
	}, nil
}

// Estimate returns the pose of the primary person in the BGR frame img, or
// nil when nobody is detected
func (e *ONNX) Estimate(img gocv.Mat) (*posture.Pose, error) {

	if img.Empty() {
		return nil, nil
	}

	// letterboxed frame is already RGB so no channel swap for the blob
	e.resizer.Letterbox(img, &e.input)

	blob := gocv.BlobFromImage(e.input, 1.0/255.0, e.size, gocv.NewScalar(0, 0, 0, 0),
		false, false)
	defer blob.Close()

	e.net.SetInput(blob, "")

	output := e.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()

	if err != nil {
		return nil, fmt.Errorf("error reading model output: %w", err)
	}

	people, err := e.post.DetectONNX(data, output.Size(), e.resizer)

	if err != nil {
		return nil, err
	}

	return postprocess.ToPose(postprocess.SelectPrimary(people), img.Cols(),
		img.Rows()), nil
}

// Close releases the network and Mats
func (e *ONNX) Close() error {
	e.input.Close()
	e.resizer.Close()
	return e.net.Close()
}
