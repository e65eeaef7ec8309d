// Package transform implements the reversible delta and predictor math MG1
// and MG2 share: triangle reordering and index deltas (spec.md §4.6.4-§4.6.5,
// used by both back-ends), vertex sorting and quantized deltas, the grid-index
// delta stream, the smooth-normal predictor and its basis frame, the
// spherical normal codec, and UV/attribute map deltas (MG2 only, spec.md
// §4.6.3, §4.6.6-§4.6.11).
package transform

import "math"

func sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func scale3(a [3]float32, s float32) [3]float32 {
	return [3]float32{a[0] * s, a[1] * s, a[2] * s}
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm3(a [3]float32) float32 {
	return float32(math.Sqrt(float64(dot3(a, a))))
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
