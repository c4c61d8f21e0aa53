package postprocess

import (
	"math"
)

// deqntAffineToF32 converts a quantized int8 value back to a float32 using
// the provided zero point and scale
func deqntAffineToF32(qnt int8, zp int32, scale float32) float32 {
	return (float32(qnt) - float32(zp)) * scale
}

// qntF32ToAffine converts a float32 value to an int8 using quantization
// parameters: zero point and scale
func qntF32ToAffine(f32 float32, zp int32, scale float32) int8 {

	dstVal := (f32 / scale) + float32(zp)

	return int8(clip(dstVal, -128, 127))
}

// clip restricts val to the range min and max and converts the result to int
func clip(val, min, max float32) int {

	if val <= min {
		return int(min)
	}

	if val >= max {
		return int(max)
	}

	return int(val)
}

// clamp restricts val to the range min and max
func clamp(val float32, min, max float32) float32 {

	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}

// unsigmoid is the inverse of sigmoid, used to turn a probability threshold
// into a raw logit threshold
func unsigmoid(y float32) float32 {
	return float32(-1.0 * math.Log((1.0/float64(y))-1.0))
}

// softmax normalises the first n values of input in place
func softmax(input []float32, n int) {

	maxVal := input[0]

	for i := 1; i < n; i++ {
		if input[i] > maxVal {
			maxVal = input[i]
		}
	}

	sum := float32(0)

	for i := 0; i < n; i++ {
		input[i] = float32(math.Exp(float64(input[i] - maxVal)))
		sum += input[i]
	}

	for i := 0; i < n; i++ {
		input[i] /= sum
	}
}

// quickSortIndiceInverse sorts input into descending order and applies the
// same reordering to indices
func quickSortIndiceInverse(input []float32, left int, right int, indices []int) int {

	var key float32
	var keyIndex int

	low := left
	high := right

	if left < right {
		keyIndex = indices[left]
		key = input[left]

		for low < high {
			for low < high && input[high] <= key {
				high--
			}

			input[low] = input[high]
			indices[low] = indices[high]

			for low < high && input[low] >= key {
				low++
			}

			input[high] = input[low]
			indices[high] = indices[low]
		}

		input[low] = key
		indices[low] = keyIndex

		quickSortIndiceInverse(input, left, low-1, indices)
		quickSortIndiceInverse(input, low+1, right, indices)
	}

	return low
}

// nms runs Non-Maximum Suppression over boxes stored as consecutive
// x, y, w, h values every stride floats in locations.  order must be sorted
// by descending probability, suppressed entries are set to -1.
func nms(validCount int, locations []float32, stride int, order []int,
	threshold float32) {

	for i := 0; i < validCount; i++ {

		if order[i] == -1 {
			continue
		}

		n := order[i]

		for j := i + 1; j < validCount; j++ {
			m := order[j]

			if m == -1 {
				continue
			}

			xmin0 := locations[n*stride+0]
			ymin0 := locations[n*stride+1]
			xmax0 := xmin0 + locations[n*stride+2]
			ymax0 := ymin0 + locations[n*stride+3]

			xmin1 := locations[m*stride+0]
			ymin1 := locations[m*stride+1]
			xmax1 := xmin1 + locations[m*stride+2]
			ymax1 := ymin1 + locations[m*stride+3]

			iou := calculateOverlap(xmin0, ymin0, xmax0, ymax0, xmin1, ymin1, xmax1, ymax1)

			if iou > threshold {
				order[j] = -1
			}
		}
	}
}

// calculateOverlap works out the Intersection over Union (IoU) of two boxes
func calculateOverlap(xmin0, ymin0, xmax0, ymax0, xmin1, ymin1,
	xmax1, ymax1 float32) float32 {

	w := math.Max(0.0, math.Min(float64(xmax0), float64(xmax1))-math.Max(float64(xmin0), float64(xmin1))+1.0)
	h := math.Max(0.0, math.Min(float64(ymax0), float64(ymax1))-math.Max(float64(ymin0), float64(ymin1))+1.0)
	intersection := w * h

	// areas with 1.0 added for inclusive pixel calculation
	area0 := (xmax0 - xmin0 + 1) * (ymax0 - ymin0 + 1)
	area1 := (xmax1 - xmin1 + 1) * (ymax1 - ymin1 + 1)

	union := area0 + area1 - float32(intersection)

	if union <= 0 {
		return 0.0
	}

	return float32(intersection) / union
}

// candidates collects the per anchor boxes, probabilities and keypoint
// indexes found while decoding, before NMS
type candidates struct {
	// boxes holds x, y, w, h, keypoint index for each candidate
	boxes []float32
	probs []float32
}

const candidateStride = 5

func (c *candidates) add(x, y, w, h float32, kpIdx int, prob float32) {
	c.boxes = append(c.boxes, x, y, w, h, float32(kpIdx))
	c.probs = append(c.probs, prob)
}

func (c *candidates) count() int {
	return len(c.probs)
}

// survivors sorts the candidates by probability, runs NMS and returns the
// indexes of the kept candidates with their probabilities, best first
func (c *candidates) survivors(nmsThreshold float32, max int) ([]int, []float32) {

	n := c.count()

	if n == 0 {
		return nil, nil
	}

	order := make([]int, n)

	for i := range order {
		order[i] = i
	}

	probs := make([]float32, n)
	copy(probs, c.probs)

	quickSortIndiceInverse(probs, 0, n-1, order)
	nms(n, c.boxes, candidateStride, order, nmsThreshold)

	keep := make([]int, 0)
	keepProbs := make([]float32, 0)

	for i := 0; i < n; i++ {
		if order[i] == -1 {
			continue
		}

		if max > 0 && len(keep) >= max {
			break
		}

		keep = append(keep, order[i])
		keepProbs = append(keepProbs, probs[i])
	}

	return keep, keepProbs
}
