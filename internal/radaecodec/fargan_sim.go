//go:build radaesim

package radaecodec

// FarganContSamples mirrors the real backend's continuation buffer
// length purely so callers can size warmup buffers identically across
// both backends.
const FarganContSamples = 320

// FarganState is the radaesim stand-in for the FARGAN vocoder: Synthesize
// returns a constant frame of 0.01 times the feature vector's mean
// magnitude, whether or not Continue has been called since the last
// Reset, which is enough for the pipeline's warmup-gating and resample
// logic to be exercised.
type FarganState struct {
	ready bool
}

func NewFarganState() *FarganState { return &FarganState{} }

func (f *FarganState) Reset() { f.ready = false }

func (f *FarganState) Continue(packedFeatures []float32) { f.ready = true }

func (f *FarganState) Synthesize(features []float32) [LPCNetFrameSize]float32 {
	var level float32
	for _, v := range features {
		if v < 0 {
			v = -v
		}
		level += v
	}
	if len(features) > 0 {
		level /= float32(len(features))
	}

	var out [LPCNetFrameSize]float32
	for i := range out {
		out[i] = level * 0.01
	}
	return out
}
