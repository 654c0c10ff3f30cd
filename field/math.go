package field

import "math"

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func floorInt(x float32) int {
	return int(math.Floor(float64(x)))
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
