//go:build !radaesim

package radaecodec

/*
#cgo LDFLAGS: -llpcnet -lm
#include "lpcnet.h"
#include "cpu_support.h"
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// LPCNetEncoder wraps an lpcnet_encoder_create handle. arch is the CPU
// architecture index opus_select_arch picks once at construction and
// that every lpcnet_compute_single_frame_features call must repeat.
type LPCNetEncoder struct {
	handle *C.LPCNetEncState
	arch   C.int
}

// NewLPCNetEncoder opens an LPCNet feature encoder.
func NewLPCNetEncoder() (*LPCNetEncoder, error) {
	h := C.lpcnet_encoder_create()
	if h == nil {
		return nil, fmt.Errorf("radaecodec: lpcnet_encoder_create failed")
	}
	return &LPCNetEncoder{handle: h, arch: C.opus_select_arch()}, nil
}

// Close releases the underlying LPCNet handle. Close is idempotent.
func (e *LPCNetEncoder) Close() {
	if e.handle != nil {
		C.lpcnet_encoder_destroy(e.handle)
		e.handle = nil
	}
}

// ComputeFrameFeatures extracts the NFeaturesPerFrame-wide feature
// vector for one LPCNetFrameSize-sample 16 kHz PCM frame.
func (e *LPCNetEncoder) ComputeFrameFeatures(pcm []int16, out []float32) {
	if e.handle == nil {
		return
	}
	C.lpcnet_compute_single_frame_features(e.handle,
		(*C.short)(unsafe.Pointer(&pcm[0])),
		(*C.float)(unsafe.Pointer(&out[0])),
		e.arch)
}
