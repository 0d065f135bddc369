package spectrum

import (
	"math"
	"testing"
)

func TestHannWindowEndpointsNearZero(t *testing.T) {
	w := HannWindow()
	if w[0] > 1e-6 || w[Size-1] > 1e-6 {
		t.Errorf("expected Hann window to taper to zero at the edges, got %f, %f", w[0], w[Size-1])
	}
	mid := w[Size/2]
	if mid < 0.99 {
		t.Errorf("expected Hann window to peak near 1 at center, got %f", mid)
	}
}

func TestProbeDetectsDominantTone(t *testing.T) {
	p := NewProbe()
	sampleRate := 8000.0
	toneHz := 1000.0
	binHz := sampleRate / Size

	in := make([]float32, Size)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * toneHz * float64(i) / sampleRate))
	}
	p.Update(in)

	out := make([]float32, Bins)
	p.Read(out)

	peakBin := 0
	for i, v := range out {
		if v > out[peakBin] {
			peakBin = i
		}
	}
	wantBin := int(toneHz / binHz)
	if diff := peakBin - wantBin; diff < -1 || diff > 1 {
		t.Errorf("peak at bin %d, expected near %d", peakBin, wantBin)
	}
}

func TestProbeIgnoresShortInput(t *testing.T) {
	p := NewProbe()
	p.Update(make([]float32, Size-1))
	out := make([]float32, Bins)
	n := p.Read(out)
	if n != Bins {
		t.Fatalf("expected %d bins, got %d", Bins, n)
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("bin %d: expected untouched zero value, got %f", i, v)
		}
	}
}
