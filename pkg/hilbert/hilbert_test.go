package hilbert

import "testing"

func TestCoeffsZeroAtEvenOffsets(t *testing.T) {
	coeffs := Coeffs(NTaps)
	center := (NTaps - 1) / 2
	for i, c := range coeffs {
		n := i - center
		if n == 0 || n%2 == 0 {
			if c != 0 {
				t.Errorf("tap %d (offset %d): expected zero, got %f", i, n, c)
			}
		}
	}
}

func TestCoeffsAntisymmetric(t *testing.T) {
	coeffs := Coeffs(NTaps)
	center := (NTaps - 1) / 2
	for i := 1; i <= center; i++ {
		a := coeffs[center+i]
		b := coeffs[center-i]
		if math32Abs(a+b) > 1e-6 {
			t.Errorf("taps at +/-%d not antisymmetric: %f vs %f", i, a, b)
		}
	}
}

func math32Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestProcessDelaysRealBranch(t *testing.T) {
	tr := New()
	in := make([]float32, NTaps+Delay+10)
	in[0] = 1.0

	out := make([]Sample, len(in))
	tr.Process(in, out)

	if out[Delay].Real != 1.0 {
		t.Errorf("expected impulse to appear at delayed index %d, got value %f", Delay, out[Delay].Real)
	}
	for i, s := range out {
		if i != Delay && s.Real != 0 {
			t.Errorf("unexpected non-zero real sample at %d: %f", i, s.Real)
		}
	}
}

func TestProcessIsChunkInvariant(t *testing.T) {
	in := make([]float32, 300)
	for i := range in {
		in[i] = float32(i%11) - 5
	}

	whole := New()
	outWhole := make([]Sample, len(in))
	whole.Process(in, outWhole)

	chunked := New()
	outChunked := make([]Sample, len(in))
	chunkSize := 23
	for start := 0; start < len(in); start += chunkSize {
		end := start + chunkSize
		if end > len(in) {
			end = len(in)
		}
		chunked.Process(in[start:end], outChunked[start:end])
	}

	for i := range in {
		if outWhole[i] != outChunked[i] {
			t.Errorf("sample %d diverged: whole=%v chunked=%v", i, outWhole[i], outChunked[i])
		}
	}
}
