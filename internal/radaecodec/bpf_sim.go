//go:build radaesim

package radaecodec

import "math"

// BPF is the radaesim stand-in for the RADE collaborator's own
// rade_bpf: a windowed-sinc FIR bandpass filter applied to the TX
// modulator's complex output when the operator enables it
// (bpf_enabled_ in rade_encoder.h). It is not bit-exact with
// rade_bpf_process — there is no public header to ground the real
// filter's coefficients against — so it is scoped to simulation builds
// only; the real (!radaesim) build calls rade_bpf_init/rade_bpf_process
// instead, see bpf_cgo.go.
type BPF struct {
	coeffs []float32
	hist   []complex64
	pos    int
}

// NewBPF designs an ntap-tap bandpass filter centered at centerHz with
// total bandwidth bandwidthHz, for a signal sampled at sampleRate,
// applied independently to nIQ-wide complex buffers.
func NewBPF(ntap int, sampleRate, centerHz, bandwidthHz float64, nIQ int) *BPF {
	lowHz := centerHz - bandwidthHz/2
	highHz := centerHz + bandwidthHz/2

	coeffs := make([]float32, ntap)
	center := float64(ntap-1) / 2
	for i := 0; i < ntap; i++ {
		n := float64(i) - center
		coeffs[i] = float32(sinc(2*highHz/sampleRate, n) - sinc(2*lowHz/sampleRate, n))
		w := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(ntap-1))
		coeffs[i] *= float32(w)
	}

	return &BPF{
		coeffs: coeffs,
		hist:   make([]complex64, ntap),
	}
}

func sinc(f, n float64) float64 {
	if n == 0 {
		return f
	}
	return f * math.Sin(math.Pi*f*n) / (math.Pi * f * n)
}

// Process filters in sample by sample, preserving ring state across
// calls so chunking does not affect the result.
func (b *BPF) Process(in []complex64) []complex64 {
	out := make([]complex64, len(in))
	ntap := len(b.coeffs)
	for i, v := range in {
		b.hist[b.pos] = v

		var acc complex64
		for k := 0; k < ntap; k++ {
			idx := b.pos - k
			if idx < 0 {
				idx += ntap
			}
			acc += complex(b.coeffs[k], 0) * b.hist[idx]
		}
		out[i] = acc

		b.pos = (b.pos + 1) % ntap
	}
	return out
}
