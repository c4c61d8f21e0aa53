package rknn

import "github.com/x448/float16"

var f16LookupTable [65536]float32

func init() {
	// precompute all fp16 values, the keypoint tensor is converted every frame
	for i := range f16LookupTable {
		f16LookupTable[i] = float16.Frombits(uint16(i)).Float32()
	}
}

// float16ToFloat32 converts a buffer of fp16 bit patterns to float32
func float16ToFloat32(buf []uint16) []float32 {

	out := make([]float32, len(buf))

	for i, v := range buf {
		out[i] = f16LookupTable[v]
	}

	return out
}
