// Package pcm converts between S16LE integer samples and the float32
// domain the resampler, Hilbert transform and codec bindings operate in.
// ToFloat32 scales by 1/32768 with no rounding. The two float-to-S16
// conversions are intentionally asymmetric: FromFloat32Round rounds with
// floor(0.5+v) the way the RX output stage does, while
// FromFloat32Trunc truncates the way the TX output and LPCNet feature
// stages do — matching xsjk-Aethernet's Int32ToFloat64/Float64ToInt32
// pair (pkg/modem/convert.go), generalized to int16 and given the two
// distinct rounding rules rade_decoder.cpp and rade_encoder.cpp use.
package pcm

import "math"

// ToFloat32 converts S16 samples to the [-1, 1) float32 domain.
func ToFloat32(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v) / 32768.0
	}
	return out
}

// FromFloat32Round converts a float32 signal back to S16, scaling by
// scale, clamping to the S16 range, and rounding with floor(0.5+v), so
// halves round upward (1000.5 -> 1001, -1000.5 -> -1000) — the
// convention rade_decoder.cpp's output stage uses.
func FromFloat32Round(in []float32, scale float32) []int16 {
	out := make([]int16, len(in))
	for i, v := range in {
		out[i] = clampRound(v * scale)
	}
	return out
}

// FromFloat32Trunc converts a float32 signal back to S16, scaling by
// scale, clamping to the S16 range, and truncating toward zero — the
// convention rade_encoder.cpp's output and LPCNet feature stages use.
func FromFloat32Trunc(in []float32, scale float32) []int16 {
	out := make([]int16, len(in))
	for i, v := range in {
		out[i] = clampTrunc(v * scale)
	}
	return out
}

func clampRound(v float32) int16 {
	if v > 32767 {
		v = 32767
	}
	if v < -32767 {
		v = -32767
	}
	return int16(math.Floor(0.5 + float64(v)))
}

func clampTrunc(v float32) int16 {
	if v > 32767 {
		v = 32767
	}
	if v < -32767 {
		v = -32767
	}
	return int16(v)
}

// RMS returns the root-mean-square level of a float32 signal, used for
// the input/output level meters both pipelines publish.
func RMS(in []float32) float32 {
	if len(in) == 0 {
		return 0
	}
	var sum float64
	for _, v := range in {
		sum += float64(v) * float64(v)
	}
	return float32(math.Sqrt(sum / float64(len(in))))
}
