// Package hilbert implements the streaming Hilbert transform the RX
// pipeline uses to turn a real 8 kHz baseband signal into the complex
// IQ pair rade_rx expects, ported from rade_decoder.cpp's
// init_hilbert_coeffs/hilbert_process.
package hilbert

import "math"

// NTaps is the FIR length of the Hamming-windowed ideal Hilbert filter.
const NTaps = 127

// Delay is the group delay (in samples) the real branch must be shifted
// by to stay time-aligned with the filtered imaginary branch.
const Delay = (NTaps - 1) / 2

// Sample is one complex output of the transform.
type Sample struct {
	Real float32
	Imag float32
}

// Coeffs returns the ntaps-long Hamming-windowed ideal Hilbert FIR
// coefficients. Taps at even offsets from the filter's center are zero
// by construction.
func Coeffs(ntaps int) []float32 {
	coeffs := make([]float32, ntaps)
	center := (ntaps - 1) / 2
	for i := 0; i < ntaps; i++ {
		n := i - center
		if n == 0 || n%2 == 0 {
			coeffs[i] = 0
			continue
		}
		h := 2.0 / (math.Pi * float64(n))
		w := 0.54 - 0.46*math.Cos(2.0*math.Pi*float64(i)/float64(ntaps-1))
		coeffs[i] = float32(h * w)
	}
	return coeffs
}

// Transform carries the ring-buffer state of a streaming Hilbert
// transform across calls to Process.
type Transform struct {
	coeffs []float32
	hist   []float32
	pos    int
	delay  []float32
	dpos   int
}

// New returns a Transform ready to process an 8 kHz real signal.
func New() *Transform {
	return &Transform{
		coeffs: Coeffs(NTaps),
		hist:   make([]float32, NTaps),
		delay:  make([]float32, NTaps),
	}
}

// Process fills out with one complex sample per input sample: out[i].Real
// is in[i] delayed by Delay samples, out[i].Imag is the FIR-filtered
// Hilbert transform of in, time-aligned with the delayed real part.
func (t *Transform) Process(in []float32, out []Sample) {
	ntaps := len(t.coeffs)
	for i, sample := range in {
		t.hist[t.pos] = sample

		var imag float32
		for k := 0; k < ntaps; k++ {
			idx := t.pos - k
			if idx < 0 {
				idx += ntaps
			}
			imag += t.coeffs[k] * t.hist[idx]
		}

		t.delay[t.dpos] = sample
		readPos := t.dpos - Delay
		if readPos < 0 {
			readPos += ntaps
		}

		out[i] = Sample{Real: t.delay[readPos], Imag: imag}

		t.pos = (t.pos + 1) % ntaps
		t.dpos = (t.dpos + 1) % ntaps
	}
}
