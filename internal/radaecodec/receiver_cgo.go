//go:build !radaesim

package radaecodec

/*
#cgo LDFLAGS: -lrade -lfargan -llpcnet -lm
#include <stdlib.h>
#include "rade_api.h"
#include "rade_dsp.h"
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// Receiver wraps a RADE rade_rx handle.
type Receiver struct {
	handle *C.struct_rade
}

// OpenReceiver opens a RADE receiver with default (non-verbose) logging.
func OpenReceiver() (*Receiver, error) {
	C.rade_initialize()
	h := C.rade_open(nil, C.RADE_VERBOSE_0)
	if h == nil {
		return nil, fmt.Errorf("radaecodec: rade_open failed")
	}
	return &Receiver{handle: h}, nil
}

// Close releases the underlying RADE handle. Close is idempotent.
func (r *Receiver) Close() {
	if r.handle != nil {
		C.rade_close(r.handle)
		r.handle = nil
	}
}

// NinMax returns the largest nin value rade_rx will ever request.
func (r *Receiver) NinMax() int {
	return int(C.rade_nin_max(r.handle))
}

// Nin returns the number of complex IQ samples rade_rx wants for its
// next call.
func (r *Receiver) Nin() int {
	return int(C.rade_nin(r.handle))
}

// NFeaturesOut is the FARGAN/LPCNet feature vector width rade_rx
// produces per call (NB_TOTAL_FEATURES * frames-per-call).
func (r *Receiver) NFeaturesOut() int {
	return int(C.rade_n_features_in_out(r.handle))
}

// NEooBits is the size of the End-of-Over float buffer rade_rx fills.
func (r *Receiver) NEooBits() int {
	return int(C.rade_n_eoo_bits(r.handle))
}

// Process feeds Nin() complex samples from iq and returns the decoded
// feature count, writing features into the caller-provided buffer and
// any EOO payload into eooBits. hasEOO reports whether this call
// surfaced a complete End-of-Over frame.
func (r *Receiver) Process(iq []complex64, features []float32, eooBits []float32) (int, bool) {
	if r.handle == nil {
		return 0, false
	}
	rade := make([]C.RADE_COMP, len(iq))
	for i, v := range iq {
		rade[i].real = C.float(real(v))
		rade[i].imag = C.float(imag(v))
	}

	var hasEOO C.int
	n := C.rade_rx(r.handle,
		(*C.float)(unsafe.Pointer(&features[0])),
		&hasEOO,
		(*C.float)(unsafe.Pointer(&eooBits[0])),
		&rade[0])

	return int(n), hasEOO != 0
}

// Synced reports whether the demodulator currently believes it is
// frame-synchronized with the transmitter.
func (r *Receiver) Synced() bool {
	return C.rade_sync(r.handle) != 0
}

// SNRdB returns the demodulator's current SNR estimate in dB.
func (r *Receiver) SNRdB() float32 {
	return float32(C.rade_snrdB_3k_est(r.handle))
}

// FreqOffsetHz returns the demodulator's current carrier frequency
// offset estimate in Hz.
func (r *Receiver) FreqOffsetHz() float32 {
	return float32(C.rade_freq_offset(r.handle))
}
