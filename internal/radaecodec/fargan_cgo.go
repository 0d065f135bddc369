//go:build !radaesim

package radaecodec

/*
#cgo LDFLAGS: -lfargan -lm
#include "fargan.h"
*/
import "C"
import "unsafe"

// FarganContSamples is the length of the (silent) continuation PCM
// buffer fargan_cont expects alongside its packed warmup features.
const FarganContSamples = 320

// FarganState wraps one FARGANState neural vocoder instance.
type FarganState struct {
	state C.FARGANState
}

// NewFarganState returns an initialized FARGANState.
func NewFarganState() *FarganState {
	f := &FarganState{}
	C.fargan_init(&f.state)
	return f
}

// Reset reinitializes the vocoder's internal state; the RX pipeline
// calls it when sync is lost.
func (f *FarganState) Reset() {
	C.fargan_init(&f.state)
}

// Continue primes the vocoder with packed warmup features (5 frames'
// worth, at the codec's NB_FEATURES stride) before steady-state
// Synthesize calls are valid.
func (f *FarganState) Continue(packedFeatures []float32) {
	var zeros [FarganContSamples]C.float
	C.fargan_cont(&f.state, &zeros[0], (*C.float)(unsafe.Pointer(&packedFeatures[0])))
}

// Synthesize produces one 10 ms (LPCNetFrameSize-sample) speech frame
// from a feature vector.
func (f *FarganState) Synthesize(features []float32) [LPCNetFrameSize]float32 {
	var out [LPCNetFrameSize]C.float
	C.fargan_synthesize(&f.state, &out[0], (*C.float)(unsafe.Pointer(&features[0])))
	var result [LPCNetFrameSize]float32
	for i, v := range out {
		result[i] = float32(v)
	}
	return result
}
