package rknn

/*
#include "rknn_api.h"
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"

	"gocv.io/x/gocv"
)

// Output is a single model output tensor.  Quantized int8 tensors are left
// as int8 in BufInt for the post processor to dequantize, fp16 tensors are
// converted to float32 in BufFloat.
type Output struct {
	// Index is the output tensor index
	Index uint32
	// BufInt points into C memory when the tensor is int8
	BufInt []int8
	// BufFloat holds the converted values when the tensor is fp16 or fp32
	BufFloat []float32
	// Size is the number of bytes of the C buffer
	Size uint32
}

// Outputs are the results of one inference.  Free must be called once post
// processing is done to release the C buffers.
type Outputs struct {
	Output   []Output
	cOutputs []C.rknn_output
	freed    bool
	sync.Mutex
	rt *Runtime
}

// Inference runs the model on the given RGB image which must already be
// resized to the model input size
func (r *Runtime) Inference(img gocv.Mat) (*Outputs, error) {

	if !img.IsContinuous() {
		img = img.Clone()
		defer img.Close()
	}

	data, err := img.DataPtrUint8()

	if err != nil {
		return nil, fmt.Errorf("error getting data pointer to Mat: %w", err)
	}

	var input C.rknn_input
	input.index = 0
	input.buf = unsafe.Pointer(&data[0])
	input.size = C.uint32_t(img.Cols() * img.Rows() * img.Channels())
	input.pass_through = 0
	input._type = C.rknn_tensor_type(TensorUint8)
	input.fmt = C.rknn_tensor_format(TensorNHWC)

	if ret := C.rknn_inputs_set(r.ctx, 1, &input); ret != C.RKNN_SUCC {
		return nil, callError("rknn_inputs_set", ret)
	}

	if ret := C.rknn_run(r.ctx, nil); ret < 0 {
		return nil, callError("rknn_run", ret)
	}

	return r.outputs()
}

// outputs wraps C.rknn_outputs_get
func (r *Runtime) outputs() (*Outputs, error) {

	n := r.ioNum.NumberOutput

	outs := &Outputs{
		Output:   make([]Output, n),
		cOutputs: make([]C.rknn_output, n),
		rt:       r,
	}

	for idx := range outs.cOutputs {
		outs.cOutputs[idx].index = C.uint32_t(idx)
		// keep int8, the box tensors are dequantized during post processing
		outs.cOutputs[idx].want_float = 0
	}

	ret := C.rknn_outputs_get(r.ctx, C.uint32_t(n),
		(*C.rknn_output)(unsafe.Pointer(&outs.cOutputs[0])), nil)

	if ret < 0 {
		return nil, callError("rknn_outputs_get", ret)
	}

	for i, cOut := range outs.cOutputs {
		out := Output{
			Index: uint32(cOut.index),
			Size:  uint32(cOut.size),
		}

		switch r.outputAttrs[i].Type {
		case TensorFloat16:
			// the yolov8-pose keypoint tensor is fp16
			buf := unsafe.Slice((*uint16)(cOut.buf), cOut.size/2)
			out.BufFloat = float16ToFloat32(buf)

		case TensorFloat32:
			out.BufFloat = unsafe.Slice((*float32)(cOut.buf), cOut.size/4)

		default:
			out.BufInt = unsafe.Slice((*int8)(cOut.buf), cOut.size)
		}

		outs.Output[i] = out
	}

	return outs, nil
}

// Free releases the C output buffers, it is safe to call more than once
func (o *Outputs) Free() error {
	o.Lock()
	defer o.Unlock()

	if o.freed {
		return nil
	}

	o.freed = true

	ret := C.rknn_outputs_release(o.rt.ctx, C.uint32_t(len(o.cOutputs)),
		(*C.rknn_output)(unsafe.Pointer(&o.cOutputs[0])))

	if ret != C.RKNN_SUCC {
		return callError("rknn_outputs_release", ret)
	}

	return nil
}

// Attrs returns the output tensor attributes of the model that produced
// the outputs
func (o *Outputs) Attrs() []TensorAttr {
	return o.rt.outputAttrs
}
