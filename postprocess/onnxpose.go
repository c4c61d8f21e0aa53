package postprocess

import (
	"fmt"
)

// DetectONNX decodes the float output of an ONNX exported YOLOv8-pose model
// as produced by OpenCV DNN.  dims is the output shape [1, 5+3*K, anchors]
// where each anchor holds cx, cy, w, h, person score followed by x, y, score
// for K keypoints, all positions in model input pixels.
func (y *YOLOv8Pose) DetectONNX(data []float32, dims []int, lb LetterBox) ([]Person, error) {

	if len(dims) != 3 || dims[0] != 1 {
		return nil, fmt.Errorf("unexpected YOLOv8-pose output shape %v", dims)
	}

	channels := dims[1]
	anchors := dims[2]
	want := 4 + y.Params.ObjectClassNum + 3*y.Params.KeyPointsNumber

	if channels != want {
		return nil, fmt.Errorf("output has %d channels, expected %d for %d keypoints",
			channels, want, y.Params.KeyPointsNumber)
	}

	if len(data) < channels*anchors {
		return nil, fmt.Errorf("output data length %d smaller than shape %v",
			len(data), dims)
	}

	cands := &candidates{}

	for i := 0; i < anchors; i++ {

		// best class score, pose models normally have the single person class
		score := float32(0)

		for c := 0; c < y.Params.ObjectClassNum; c++ {
			if s := data[(4+c)*anchors+i]; s > score {
				score = s
			}
		}

		if score < y.Params.BoxThreshold {
			continue
		}

		cx := data[0*anchors+i]
		cy := data[1*anchors+i]
		w := data[2*anchors+i]
		h := data[3*anchors+i]

		cands.add(cx-w/2, cy-h/2, w, h, i, score)
	}

	kpBase := 4 + y.Params.ObjectClassNum

	return y.collate(cands, lb, func(kpIdx, j int) KeyPoint {
		return KeyPoint{
			X:     data[(kpBase+j*3+0)*anchors+kpIdx],
			Y:     data[(kpBase+j*3+1)*anchors+kpIdx],
			Score: data[(kpBase+j*3+2)*anchors+kpIdx],
		}
	}), nil
}
