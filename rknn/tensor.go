package rknn

/*
#include "rknn_api.h"
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"
)

// TensorFormat wraps C.rknn_tensor_format
type TensorFormat int

const (
	TensorNCHW      TensorFormat = C.RKNN_TENSOR_NCHW
	TensorNHWC      TensorFormat = C.RKNN_TENSOR_NHWC
	TensorNC1HWC2   TensorFormat = C.RKNN_TENSOR_NC1HWC2
	TensorUndefined TensorFormat = C.RKNN_TENSOR_UNDEFINED
)

// TensorType wraps C.rknn_tensor_type
type TensorType int

const (
	TensorFloat32 TensorType = C.RKNN_TENSOR_FLOAT32
	TensorFloat16 TensorType = C.RKNN_TENSOR_FLOAT16
	TensorInt8    TensorType = C.RKNN_TENSOR_INT8
	TensorUint8   TensorType = C.RKNN_TENSOR_UINT8
)

// maxDims is the maximum number of dimensions of a tensor
const maxDims = C.RKNN_MAX_DIMS

// TensorAttr holds the parts of C.rknn_tensor_attr used for post processing
type TensorAttr struct {
	Index uint32
	NDims uint32
	Dims  [maxDims]uint32
	Name  string
	Size  uint32
	Fmt   TensorFormat
	Type  TensorType
	// ZP is the quantization zero point
	ZP int32
	// Scale is the quantization scale
	Scale float32
}

// IONumber is the number of model input and output tensors
type IONumber struct {
	NumberInput  uint32
	NumberOutput uint32
}

// QueryModelIONumber queries the number of input and output tensors
func (r *Runtime) QueryModelIONumber() (IONumber, error) {

	var cIONum C.rknn_input_output_num

	ret := C.rknn_query(r.ctx, C.RKNN_QUERY_IN_OUT_NUM, unsafe.Pointer(&cIONum),
		C.uint(C.sizeof_rknn_input_output_num))

	if ret != C.RKNN_SUCC {
		return IONumber{}, callError("rknn_query RKNN_QUERY_IN_OUT_NUM", ret)
	}

	return IONumber{
		NumberInput:  uint32(cIONum.n_input),
		NumberOutput: uint32(cIONum.n_output),
	}, nil
}

// queryTensors fetches the attributes of n input or output tensors
func (r *Runtime) queryTensors(cmd C.rknn_query_cmd, n uint32) ([]TensorAttr, error) {

	attrs := make([]TensorAttr, n)

	for i := uint32(0); i < n; i++ {
		var cAttr C.rknn_tensor_attr
		cAttr.index = C.uint32_t(i)

		ret := C.rknn_query(r.ctx, cmd, unsafe.Pointer(&cAttr), C.uint(unsafe.Sizeof(cAttr)))

		if ret != C.RKNN_SUCC {
			return nil, callError(fmt.Sprintf("rknn_query tensor %d", i), ret)
		}

		attrs[i] = convertTensorAttr(&cAttr)
	}

	return attrs, nil
}

// convertTensorAttr converts a C.rknn_tensor_attr to a Go TensorAttr
func convertTensorAttr(cAttr *C.rknn_tensor_attr) TensorAttr {

	name := C.GoStringN(&cAttr.name[0], C.RKNN_MAX_NAME_LEN)

	// trim at the first null byte
	if i := strings.IndexByte(name, 0); i != -1 {
		name = name[:i]
	}

	return TensorAttr{
		Index: uint32(cAttr.index),
		NDims: uint32(cAttr.n_dims),
		Dims:  *(*[maxDims]uint32)(unsafe.Pointer(&cAttr.dims)),
		Name:  name,
		Size:  uint32(cAttr.size),
		Fmt:   TensorFormat(cAttr.fmt),
		Type:  TensorType(cAttr._type),
		ZP:    int32(cAttr.zp),
		Scale: float32(cAttr.scale),
	}
}

// String returns the TensorAttr formatted for display
func (a TensorAttr) String() string {
	return fmt.Sprintf("index=%d, name=%s, n_dims=%d, dims=[%d, %d, %d, %d], "+
		"size=%d, fmt=%s, type=%s, zp=%d, scale=%f",
		a.Index, a.Name, a.NDims, a.Dims[0], a.Dims[1], a.Dims[2], a.Dims[3],
		a.Size, a.Fmt, a.Type, a.ZP, a.Scale)
}

// String returns a readable description of the TensorType
func (t TensorType) String() string {
	switch t {
	case TensorFloat32:
		return "FP32"
	case TensorFloat16:
		return "FP16"
	case TensorInt8:
		return "INT8"
	case TensorUint8:
		return "UINT8"
	default:
		return fmt.Sprintf("TYPE(%d)", int(t))
	}
}

// String returns a readable description of the TensorFormat
func (t TensorFormat) String() string {
	switch t {
	case TensorNCHW:
		return "NCHW"
	case TensorNHWC:
		return "NHWC"
	case TensorNC1HWC2:
		return "NC1HWC2"
	default:
		return "UNDEFINED"
	}
}
