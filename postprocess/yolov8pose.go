package postprocess

// YOLOv8Pose decodes YOLOv8-pose outputs
type YOLOv8Pose struct {
	// Params are the Model configuration parameters
	Params YOLOv8PoseParams
}

// YOLOv8PoseParams defines the parameters used during post processing
type YOLOv8PoseParams struct {
	// BoxThreshold is the minimum probability score required for a bounding box
	// region to be considered for processing
	BoxThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// bounding boxes for both to be kept
	NMSThreshold float32
	// ObjectClassNum is the number of different object classes the Model has
	// been trained with
	ObjectClassNum int
	// MaxObjectNumber is the maximum number of people returned
	MaxObjectNumber int
	// KeyPointsNumber is the number of COCO keypoints the pose model is
	// trained on
	KeyPointsNumber int
}

// YOLOv8PoseCOCOParams returns the parameters for a Model trained on the
// COCO keypoints dataset featuring:
// - Object Classes: 1
// - Box Threshold: 0.5
// - NMS Threshold: 0.4
// - Maximum Object Number: 64
// - KeyPoints Number: 17
func YOLOv8PoseCOCOParams() YOLOv8PoseParams {
	return YOLOv8PoseParams{
		BoxThreshold:    0.5,
		NMSThreshold:    0.4,
		ObjectClassNum:  1,
		MaxObjectNumber: 64,
		KeyPointsNumber: 17,
	}
}

// NewYOLOv8Pose returns a YOLOv8-pose post processor
func NewYOLOv8Pose(p YOLOv8PoseParams) *YOLOv8Pose {
	return &YOLOv8Pose{
		Params: p,
	}
}

// QuantTensor is one int8 box/class output of the RKNN model for a stride.
// The layout is [64 DFL channels + classes][GridH][GridW].
type QuantTensor struct {
	Buf   []int8
	ZP    int32
	Scale float32
	GridH int
	GridW int
}

// RKNNOutputs are the outputs of the NPU compiled YOLOv8-pose model
type RKNNOutputs struct {
	// Strides are the box outputs, stride 8, 16 and 32
	Strides []QuantTensor
	// KeyPoints is the [keypoints][x, y, score][anchors] tensor with
	// positions in model input pixels
	KeyPoints []float32
	// InputHeight is the model input height in pixels
	InputHeight int
}

// dflLen is the number of bins per box side of the Distribution Focal Loss
const dflLen = 16

// DetectRKNN decodes the NPU model outputs into people in frame pixels
func (y *YOLOv8Pose) DetectRKNN(out RKNNOutputs, lb LetterBox) []Person {

	cands := &candidates{}
	index := 0

	for _, st := range out.Strides {
		stride := out.InputHeight / st.GridH
		y.processStride(st, stride, index, cands)
		index += st.GridH * st.GridW
	}

	// index now holds the total anchor count
	return y.collate(cands, lb, func(kpIdx, j int) KeyPoint {
		return KeyPoint{
			X:     out.KeyPoints[j*3*index+0*index+kpIdx],
			Y:     out.KeyPoints[j*3*index+1*index+kpIdx],
			Score: out.KeyPoints[j*3*index+2*index+kpIdx],
		}
	})
}

// processStride finds the anchors of one stride above the box threshold
func (y *YOLOv8Pose) processStride(st QuantTensor, stride int, index int,
	cands *candidates) {

	inputLocLen := 4 * dflLen
	gridLen := st.GridH * st.GridW

	thresI8 := qntF32ToAffine(unsigmoid(y.Params.BoxThreshold), st.ZP, st.Scale)

	loc := make([]float32, inputLocLen)

	for h := 0; h < st.GridH; h++ {
		for w := 0; w < st.GridW; w++ {
			for a := 0; a < y.Params.ObjectClassNum; a++ {

				offset := (inputLocLen+a)*gridLen + h*st.GridW + w

				if st.Buf[offset] < thresI8 {
					continue
				}

				conf := sigmoid(deqntAffineToF32(st.Buf[offset], st.ZP, st.Scale))

				for i := 0; i < inputLocLen; i++ {
					loc[i] = deqntAffineToF32(st.Buf[i*gridLen+h*st.GridW+w], st.ZP, st.Scale)
				}

				for i := 0; i < 4; i++ {
					softmax(loc[i*dflLen:(i+1)*dflLen], dflLen)
				}

				// expected distance of each box side from the anchor centre
				var dist [4]float32

				for side := 0; side < 4; side++ {
					for bin := 0; bin < dflLen; bin++ {
						dist[side] += loc[side*dflLen+bin] * float32(bin)
					}
				}

				x1 := (float32(w) + 0.5 - dist[0]) * float32(stride)
				y1 := (float32(h) + 0.5 - dist[1]) * float32(stride)
				x2 := (float32(w) + 0.5 + dist[2]) * float32(stride)
				y2 := (float32(h) + 0.5 + dist[3]) * float32(stride)

				cands.add(x1, y1, x2-x1, y2-y1, index+h*st.GridW+w, conf)
			}
		}
	}
}

// collate runs NMS over the candidates and builds the people in frame pixels
// using keyPoint to read keypoint j of the anchor kpIdx
func (y *YOLOv8Pose) collate(cands *candidates, lb LetterBox,
	keyPoint func(kpIdx, j int) KeyPoint) []Person {

	keep, probs := cands.survivors(y.Params.NMSThreshold, y.Params.MaxObjectNumber)

	people := make([]Person, 0, len(keep))

	for i, n := range keep {
		bx := cands.boxes[n*candidateStride+0]
		by := cands.boxes[n*candidateStride+1]
		bw := cands.boxes[n*candidateStride+2]
		bh := cands.boxes[n*candidateStride+3]
		kpIdx := int(cands.boxes[n*candidateStride+4])

		left, top := unletterbox(bx, by, lb)
		right, bottom := unletterbox(bx+bw, by+bh, lb)

		kps := make([]KeyPoint, y.Params.KeyPointsNumber)

		for j := range kps {
			kp := keyPoint(kpIdx, j)
			kp.X, kp.Y = unletterbox(kp.X, kp.Y, lb)
			kps[j] = kp
		}

		people = append(people, Person{
			Box: BoxRect{
				Left:   left,
				Top:    top,
				Right:  right,
				Bottom: bottom,
			},
			Probability: probs[i],
			KeyPoints:   kps,
		})
	}

	return people
}
