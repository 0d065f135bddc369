//go:build radaesim

package radaecodec

import "math"

// Transmitter is the radaesim stand-in for the real RADE modulator: it
// maps each feature frame onto a fixed-length tone burst so the TX
// pipeline's resample/mic-gain/pre-roll logic can be exercised without
// the proprietary model.
type Transmitter struct {
	open    bool
	eooBits []float32
	phase   float64
}

func OpenTransmitter() (*Transmitter, error) {
	return &Transmitter{open: true}, nil
}

func (t *Transmitter) Close() { t.open = false }

func (t *Transmitter) NFeaturesIn() int { return NFeaturesPerFrame }

func (t *Transmitter) NTxOut() int { return 320 }

func (t *Transmitter) NTxEooOut() int { return 640 }

func (t *Transmitter) NEooBits() int { return 224 }

func (t *Transmitter) Process(features []float32, iqOut []complex64) int {
	if !t.open {
		return 0
	}
	var level float32
	for _, f := range features {
		level += f * f
	}
	if len(features) > 0 {
		level /= float32(len(features))
	}
	n := t.NTxOut()
	if n > len(iqOut) {
		n = len(iqOut)
	}
	for i := 0; i < n; i++ {
		t.phase += 0.1
		re := float32(math.Cos(t.phase)) * level
		im := float32(math.Sin(t.phase)) * level
		iqOut[i] = complex(re, im)
	}
	return n
}

func (t *Transmitter) EOO(iqOut []complex64) int {
	n := t.NTxEooOut()
	if n > len(iqOut) {
		n = len(iqOut)
	}
	for i := 0; i < n; i++ {
		var carried float32
		if i < len(t.eooBits) {
			carried = t.eooBits[i]
		}
		t.phase += 0.1
		iqOut[i] = complex(float32(math.Cos(t.phase))*0.1, carried*0.1)
	}
	return n
}

func (t *Transmitter) SetEOOBits(bits []float32) {
	t.eooBits = append(t.eooBits[:0], bits...)
}
