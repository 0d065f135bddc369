// Package resample implements the linear-interpolation sample-rate
// converters both pipelines use to move audio between the soundcard's
// native rate and the codec's fixed internal rates. Both functions are
// ported line for line from rade_decoder.cpp/rade_encoder.cpp's
// resample_linear_stream and resample_batch.
package resample

// Stream is a chunk-invariant streaming linear resampler: feeding it the
// same signal split into different chunk boundaries produces the same
// output, because frac and prev carry the fractional read position and
// trailing sample across calls.
type Stream struct {
	RateIn  int
	RateOut int

	frac float64
	prev float32
}

// NewStream returns a Stream ready to resample from rateIn to rateOut.
func NewStream(rateIn, rateOut int) *Stream {
	return &Stream{RateIn: rateIn, RateOut: rateOut}
}

// Process resamples in into out, returning the number of samples
// written. out must be large enough for the expected output length;
// excess capacity is simply not filled.
func (s *Stream) Process(in, out []float32) int {
	nIn := len(in)

	if s.RateIn == s.RateOut {
		n := nIn
		if n > len(out) {
			n = len(out)
		}
		copy(out[:n], in[:n])
		if nIn > 0 {
			s.prev = in[nIn-1]
		}
		return n
	}

	step := float64(s.RateIn) / float64(s.RateOut)
	nOut := 0

	for nOut < len(out) {
		idx := int(s.frac)
		if idx >= nIn {
			break
		}

		f := float32(s.frac - float64(idx))
		var s0 float32
		if idx == 0 {
			s0 = s.prev
		} else {
			s0 = in[idx-1]
		}
		s1 := in[idx]
		out[nOut] = s0 + f*(s1-s0)
		nOut++

		s.frac += step
	}

	if nIn > 0 {
		s.prev = in[nIn-1]
	}
	s.frac -= float64(nIn)

	return nOut
}

// Batch resamples a complete, fixed-length signal from rateIn to
// rateOut in one pass, with no state carried between calls. It is used
// for whole-file conversion (loading a WAV at a foreign sample rate)
// where streaming invariance is unnecessary.
func Batch(in []float32, rateIn, rateOut int) []float32 {
	if rateIn == rateOut {
		return in
	}

	nIn := len(in)
	if nIn < 2 {
		return nil
	}

	nOut := int(float64(nIn) * float64(rateOut) / float64(rateIn))
	out := make([]float32, nOut)

	step := float64(rateIn) / float64(rateOut)
	for i := 0; i < nOut; i++ {
		pos := float64(i) * step
		idx := int(pos)
		frac := float32(pos - float64(idx))
		if idx+1 >= nIn {
			idx = nIn - 2
			frac = 1.0
		}
		out[i] = in[idx] + frac*(in[idx+1]-in[idx])
	}
	return out
}
