// Package pose estimates the body keypoints of the primary person in a frame
// with a YOLOv8-pose model, either on a Rockchip NPU or with OpenCV DNN on
// the CPU.
package pose

import (
	"errors"
	"fmt"
	"os"
)

// ErrModelNotFound is returned when the model file does not exist
var ErrModelNotFound = errors.New("model file not found")

// checkModel verifies the model file exists and is not a directory
func checkModel(modelFile string) error {

	info, err := os.Stat(modelFile)

	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrModelNotFound, modelFile)
	}

	if err != nil {
		return fmt.Errorf("error reading model file %s: %w", modelFile, err)
	}

	if info.IsDir() {
		return fmt.Errorf("model path %s is a directory", modelFile)
	}

	return nil
}
