//go:build !radaesim

package radaecodec

/*
#cgo LDFLAGS: -lrade -lm
#include <stdlib.h>
#include "rade_api.h"
#include "rade_bpf.h"
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// BPF wraps a rade_bpf handle: the RADE collaborator's own TX output
// bandpass filter, applied to the modulator's complex baseband in
// place.
type BPF struct {
	handle C.rade_bpf
	nIQ    int
}

// NewBPF opens an ntap-tap bandpass filter centered at centerHz with
// total bandwidth bandwidthHz, for a signal sampled at sampleRate,
// applied independently to nIQ-wide complex buffers.
func NewBPF(ntap int, sampleRate, centerHz, bandwidthHz float64, nIQ int) *BPF {
	b := &BPF{nIQ: nIQ}
	C.rade_bpf_init(&b.handle, C.int(ntap), C.float(sampleRate), C.float(centerHz), C.float(bandwidthHz), C.int(nIQ))
	return b
}

// Process filters in in place and returns it, per rade_bpf_process's
// in-place-safe contract.
func (b *BPF) Process(in []complex64) []complex64 {
	if len(in) != b.nIQ {
		panic(fmt.Sprintf("radaecodec: BPF.Process: got %d IQ samples, want %d", len(in), b.nIQ))
	}
	rade := make([]C.RADE_COMP, len(in))
	for i, v := range in {
		rade[i].real = C.float(real(v))
		rade[i].imag = C.float(imag(v))
	}
	C.rade_bpf_process(&b.handle,
		(*C.RADE_COMP)(unsafe.Pointer(&rade[0])),
		(*C.RADE_COMP)(unsafe.Pointer(&rade[0])),
		C.int(b.nIQ))
	for i := range in {
		in[i] = complex(float32(rade[i].real), float32(rade[i].imag))
	}
	return in
}
