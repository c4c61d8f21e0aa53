package pose

import (
	"fmt"
	"io"

	"github.com/swdee/go-posture"
	"github.com/swdee/go-posture/postprocess"
	"github.com/swdee/go-posture/preprocess"
	"github.com/swdee/go-posture/rknn"
	"gocv.io/x/gocv"
)

// RKNN runs a YOLOv8-pose model compiled for the Rockchip NPU
type RKNN struct {
	rt      *rknn.Runtime
	resizer *preprocess.Resizer
	post    *postprocess.YOLOv8Pose
	input   gocv.Mat
	inputH  int
}

// NewRKNN loads the .rknn model onto the given NPU cores
func NewRKNN(modelFile string, core rknn.CoreMask,
	p postprocess.YOLOv8PoseParams) (*RKNN, error) {

	if err := checkModel(modelFile); err != nil {
		return nil, err
	}

	rt, err := rknn.NewRuntime(modelFile, core)

	if err != nil {
		return nil, fmt.Errorf("error initializing RKNN runtime: %w", err)
	}

	if n := len(rt.OutputAttrs()); n < 2 {
		rt.Close()
		return nil, fmt.Errorf("model has %d outputs, not a YOLOv8-pose model", n)
	}

	w, h := rt.InputSize()

	return &RKNN{
		rt:      rt,
		resizer: preprocess.NewResizer(w, h),
		post:    postprocess.NewYOLOv8Pose(p),
		input:   gocv.NewMat(),
		inputH:  h,
	}, nil
}

// Estimate returns the pose of the primary person in the BGR frame img, or
// nil when nobody is detected
func (e *RKNN) Estimate(img gocv.Mat) (*posture.Pose, error) {

	if img.Empty() {
		return nil, nil
	}

	e.resizer.Letterbox(img, &e.input)

	outs, err := e.rt.Inference(e.input)

	if err != nil {
		return nil, fmt.Errorf("error running inference: %w", err)
	}

	defer outs.Free()

	rk, err := rknnOutputs(outs.Attrs(), outs.Output, e.inputH)

	if err != nil {
		return nil, err
	}

	people := e.post.DetectRKNN(rk, e.resizer)

	return postprocess.ToPose(postprocess.SelectPrimary(people), img.Cols(),
		img.Rows()), nil
}

// rknnOutputs arranges the box tensors of each stride and the trailing
// keypoint tensor for the post processor
func rknnOutputs(attrs []rknn.TensorAttr, outs []rknn.Output,
	inputHeight int) (postprocess.RKNNOutputs, error) {

	res := postprocess.RKNNOutputs{InputHeight: inputHeight}

	if len(outs) < 2 || len(attrs) != len(outs) {
		return res, fmt.Errorf("expected box and keypoint outputs, got %d", len(outs))
	}

	last := len(outs) - 1

	for i := 0; i < last; i++ {
		attr := attrs[i]

		if outs[i].BufInt == nil || attr.NDims < 4 {
			return res, fmt.Errorf("output %d is not a quantized NCHW box tensor", i)
		}

		res.Strides = append(res.Strides, postprocess.QuantTensor{
			Buf:   outs[i].BufInt,
			ZP:    attr.ZP,
			Scale: attr.Scale,
			GridH: int(attr.Dims[2]),
			GridW: int(attr.Dims[3]),
		})
	}

	if outs[last].BufFloat == nil {
		return res, fmt.Errorf("keypoint output %d is not a float tensor", last)
	}

	res.KeyPoints = outs[last].BufFloat

	return res, nil
}

// Query writes the SDK version and tensor layout of the model to w
func (e *RKNN) Query(w io.Writer) error {
	return e.rt.Query(w)
}

// Close releases the NPU runtime and Mats
func (e *RKNN) Close() error {
	e.input.Close()
	e.resizer.Close()
	return e.rt.Close()
}
