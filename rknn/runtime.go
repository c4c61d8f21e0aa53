// Package rknn provides the Rockchip NPU runtime used to run the YOLOv8-pose
// model.  It is a thin Cgo binding over the RKNN Toolkit2 C API (librknnrt)
// covering what single image pose inference needs: loading a model, querying
// its tensors, running it and fetching the outputs.
package rknn

/*
#cgo LDFLAGS: -lrknnrt
#include "rknn_api.h"
#include <stdlib.h>
*/
import "C"
import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

// ErrModelFile is returned when the model file can not be used
var ErrModelFile = errors.New("rknn model file")

// CoreMask wraps C.rknn_core_mask and selects the NPU cores the model runs on
type CoreMask int

const (
	NPUCoreAuto    CoreMask = C.RKNN_NPU_CORE_AUTO
	NPUCore0       CoreMask = C.RKNN_NPU_CORE_0
	NPUCore1       CoreMask = C.RKNN_NPU_CORE_1
	NPUCore2       CoreMask = C.RKNN_NPU_CORE_2
	NPUCore01      CoreMask = C.RKNN_NPU_CORE_0_1
	NPUCore012     CoreMask = C.RKNN_NPU_CORE_0_1_2
	NPUSkipSetCore CoreMask = 9999
)

// ErrorCode is a return code of the C API
type ErrorCode int

const (
	Success              ErrorCode = C.RKNN_SUCC
	ErrFail              ErrorCode = C.RKNN_ERR_FAIL
	ErrTimeout           ErrorCode = C.RKNN_ERR_TIMEOUT
	ErrDeviceUnavailable ErrorCode = C.RKNN_ERR_DEVICE_UNAVAILABLE
	ErrMallocFail        ErrorCode = C.RKNN_ERR_MALLOC_FAIL
	ErrParamInvalid      ErrorCode = C.RKNN_ERR_PARAM_INVALID
	ErrModelInvalid      ErrorCode = C.RKNN_ERR_MODEL_INVALID
	ErrCtxInvalid        ErrorCode = C.RKNN_ERR_CTX_INVALID
	ErrInputInvalid      ErrorCode = C.RKNN_ERR_INPUT_INVALID
	ErrOutputInvalid     ErrorCode = C.RKNN_ERR_OUTPUT_INVALID
	ErrDeviceMismatch    ErrorCode = C.RKNN_ERR_DEVICE_UNMATCH
	ErrPlatformMismatch  ErrorCode = C.RKNN_ERR_TARGET_PLATFORM_UNMATCH
)

// String returns a readable description of the error code
func (e ErrorCode) String() string {
	switch e {
	case Success:
		return "execution successful"
	case ErrFail:
		return "execution failed"
	case ErrTimeout:
		return "execution timed out"
	case ErrDeviceUnavailable:
		return "device is unavailable"
	case ErrMallocFail:
		return "C memory allocation failed"
	case ErrParamInvalid:
		return "parameter is invalid"
	case ErrModelInvalid:
		return "model file is invalid"
	case ErrCtxInvalid:
		return "context is invalid"
	case ErrInputInvalid:
		return "input is invalid"
	case ErrOutputInvalid:
		return "output is invalid"
	case ErrDeviceMismatch:
		return "device mismatch, please update rknn sdk and npu driver/firmware"
	case ErrPlatformMismatch:
		return "the RKNN model target platform is not compatible with the current platform"
	default:
		return fmt.Sprintf("unknown error code %d", int(e))
	}
}

// callError formats a failed C call
func callError(call string, ret C.int) error {
	return fmt.Errorf("C.%s failed with code %d, error: %s", call, int(ret),
		ErrorCode(ret).String())
}

// Runtime is a loaded RKNN model
type Runtime struct {
	// ctx is the C runtime context
	ctx C.rknn_context
	// ioNum caches the number of model input and output tensors
	ioNum IONumber
	// inputAttrs caches the input tensor attributes
	inputAttrs []TensorAttr
	// outputAttrs caches the output tensor attributes
	outputAttrs []TensorAttr
}

// NewRuntime loads the compiled .rknn model file onto the NPU cores given
func NewRuntime(modelFile string, core CoreMask) (*Runtime, error) {

	r := &Runtime{}

	if err := r.init(modelFile); err != nil {
		return nil, err
	}

	// setting the core mask is only supported on RK3588 class chips
	if core != NPUSkipSetCore {
		if ret := C.rknn_set_core_mask(r.ctx, C.rknn_core_mask(core)); ret != C.RKNN_SUCC {
			r.Close()
			return nil, callError("rknn_set_core_mask", ret)
		}
	}

	var err error

	if r.ioNum, err = r.QueryModelIONumber(); err != nil {
		r.Close()
		return nil, err
	}

	if r.inputAttrs, err = r.queryTensors(C.RKNN_QUERY_INPUT_ATTR, r.ioNum.NumberInput); err != nil {
		r.Close()
		return nil, err
	}

	if r.outputAttrs, err = r.queryTensors(C.RKNN_QUERY_OUTPUT_ATTR, r.ioNum.NumberOutput); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// init wraps C.rknn_init
func (r *Runtime) init(modelFile string) error {

	// check file in Go first for a readable error
	info, err := os.Stat(modelFile)

	if err != nil {
		return fmt.Errorf("%w does not exist at %s: %w", ErrModelFile, modelFile, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w %s is a directory", ErrModelFile, modelFile)
	}

	cModelFile := C.CString(modelFile)
	defer C.free(unsafe.Pointer(cModelFile))

	ret := C.rknn_init(&r.ctx, unsafe.Pointer(cModelFile), 0, 0, nil)

	if ret != C.RKNN_SUCC {
		return callError("rknn_init", ret)
	}

	return nil
}

// Close unloads the model and releases the C context
func (r *Runtime) Close() error {

	if ret := C.rknn_destroy(r.ctx); ret != C.RKNN_SUCC {
		return callError("rknn_destroy", ret)
	}

	return nil
}

// SDKVersion holds the RKNN API and driver versions
type SDKVersion struct {
	DriverVersion string
	APIVersion    string
}

// SDKVersion queries the RKNN API and driver versions
func (r *Runtime) SDKVersion() (SDKVersion, error) {

	var cSdkVer C.rknn_sdk_version

	ret := C.rknn_query(r.ctx, C.RKNN_QUERY_SDK_VERSION,
		unsafe.Pointer(&cSdkVer), C.uint(C.sizeof_rknn_sdk_version))

	if ret != C.RKNN_SUCC {
		return SDKVersion{}, callError("rknn_query", ret)
	}

	return SDKVersion{
		DriverVersion: C.GoString(&(cSdkVer.drv_version[0])),
		APIVersion:    C.GoString(&(cSdkVer.api_version[0])),
	}, nil
}

// InputAttrs returns the model input tensor attributes
func (r *Runtime) InputAttrs() []TensorAttr {
	return r.inputAttrs
}

// OutputAttrs returns the model output tensor attributes
func (r *Runtime) OutputAttrs() []TensorAttr {
	return r.outputAttrs
}

// InputSize returns the width and height of the model input image
func (r *Runtime) InputSize() (width, height int) {

	attr := r.inputAttrs[0]

	if attr.Fmt == TensorNHWC {
		return int(attr.Dims[2]), int(attr.Dims[1])
	}

	// NCHW
	return int(attr.Dims[3]), int(attr.Dims[2])
}
