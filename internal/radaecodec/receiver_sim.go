//go:build radaesim

package radaecodec

import "math"

// Receiver is the radaesim stand-in for the real RADE demodulator: it
// acquires "sync" after a short settle time on any signal carrying
// energy, reports a plausible SNR/frequency-offset pair, and passes
// the input IQ magnitude through as a feature stream shaped like the
// real decoder's output so downstream FARGAN-warmup and resample logic
// can be exercised without the proprietary model.
type Receiver struct {
	open      bool
	framesIn  int
	synced    bool
	callCount int
}

// OpenReceiver returns a ready-to-use simulated receiver.
func OpenReceiver() (*Receiver, error) {
	return &Receiver{open: true}, nil
}

func (r *Receiver) Close() { r.open = false }

// NinMax mirrors the real codec's largest per-call input request.
func (r *Receiver) NinMax() int { return 320 }

// Nin mirrors the real codec's steady-state per-call input request.
func (r *Receiver) Nin() int { return 160 }

func (r *Receiver) NFeaturesOut() int { return NFeaturesInOut }

func (r *Receiver) NEooBits() int { return 224 }

// Process synthesizes one feature frame of plausible magnitude from the
// mean energy of iq, and declares sync after a short settle period.
func (r *Receiver) Process(iq []complex64, features []float32, eooBits []float32) (int, bool) {
	if !r.open || len(iq) == 0 {
		return 0, false
	}
	r.callCount++

	var energy float64
	for _, v := range iq {
		re, im := float64(real(v)), float64(imag(v))
		energy += re*re + im*im
	}
	energy /= float64(len(iq))
	level := float32(math.Sqrt(energy))

	r.synced = r.callCount > 3 && level > 1e-4

	n := NFeaturesPerFrame
	if n > len(features) {
		n = len(features)
	}
	for i := 0; i < n; i++ {
		features[i] = level * float32(math.Sin(float64(i)))
	}
	return n, false
}

func (r *Receiver) Synced() bool { return r.synced }

func (r *Receiver) SNRdB() float32 {
	if !r.synced {
		return 0
	}
	return 12.0
}

func (r *Receiver) FreqOffsetHz() float32 { return 0 }
