package pose

import (
	"errors"
	"testing"

	"github.com/swdee/go-posture/rknn"
)

func TestCheckModel(t *testing.T) {

	err := checkModel("testdata/missing.onnx")

	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("missing model error = %v, want ErrModelNotFound", err)
	}

	if err := checkModel(t.TempDir()); err == nil {
		t.Error("expected error for directory model path")
	}
}

func TestNewONNXMissingModel(t *testing.T) {

	_, err := NewONNX("testdata/missing.onnx", DefaultONNXParams())

	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("NewONNX error = %v, want ErrModelNotFound", err)
	}
}

// nchw returns the attributes of a [1, c, h, w] tensor
func nchw(idx uint32, c, h, w uint32, zp int32, scale float32) rknn.TensorAttr {

	attr := rknn.TensorAttr{Index: idx, NDims: 4, ZP: zp, Scale: scale}
	attr.Dims[0] = 1
	attr.Dims[1] = c
	attr.Dims[2] = h
	attr.Dims[3] = w

	return attr
}

func TestRKNNOutputs(t *testing.T) {

	attrs := []rknn.TensorAttr{
		nchw(0, 65, 80, 80, -128, 0.1),
		nchw(1, 65, 40, 40, -100, 0.2),
		nchw(2, 65, 20, 20, -90, 0.3),
		nchw(3, 17, 3, 8400, 0, 0),
	}

	outs := []rknn.Output{
		{Index: 0, BufInt: make([]int8, 65*80*80)},
		{Index: 1, BufInt: make([]int8, 65*40*40)},
		{Index: 2, BufInt: make([]int8, 65*20*20)},
		{Index: 3, BufFloat: make([]float32, 17*3*8400)},
	}

	res, err := rknnOutputs(attrs, outs, 640)

	if err != nil {
		t.Fatalf("rknnOutputs: %v", err)
	}

	if len(res.Strides) != 3 {
		t.Fatalf("got %d strides, want 3", len(res.Strides))
	}

	if s := res.Strides[1]; s.GridH != 40 || s.GridW != 40 || s.ZP != -100 || s.Scale != 0.2 {
		t.Errorf("stride 1 = %+v", s)
	}

	if len(res.KeyPoints) != 17*3*8400 || res.InputHeight != 640 {
		t.Errorf("keypoints %d, input height %d", len(res.KeyPoints), res.InputHeight)
	}

	// keypoint tensor must be float
	outs[3] = rknn.Output{Index: 3, BufInt: make([]int8, 10)}

	if _, err := rknnOutputs(attrs, outs, 640); err == nil {
		t.Error("expected error for quantized keypoint tensor")
	}

	if _, err := rknnOutputs(attrs[:1], outs[:1], 640); err == nil {
		t.Error("expected error for single output")
	}
}
