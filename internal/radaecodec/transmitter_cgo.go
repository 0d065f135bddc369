//go:build !radaesim

package radaecodec

/*
#cgo LDFLAGS: -lrade -llpcnet -lm
#include "rade_api.h"
#include "rade_dsp.h"
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// Transmitter wraps a RADE rade_tx handle.
type Transmitter struct {
	handle *C.struct_rade
}

// OpenTransmitter opens a RADE transmitter with default logging.
func OpenTransmitter() (*Transmitter, error) {
	C.rade_initialize()
	h := C.rade_open(nil, C.RADE_VERBOSE_0)
	if h == nil {
		return nil, fmt.Errorf("radaecodec: rade_open failed")
	}
	return &Transmitter{handle: h}, nil
}

// Close releases the underlying RADE handle. Close is idempotent.
func (t *Transmitter) Close() {
	if t.handle != nil {
		C.rade_close(t.handle)
		t.handle = nil
	}
}

// NFeaturesIn is the feature vector width rade_tx expects per call.
func (t *Transmitter) NFeaturesIn() int {
	return int(C.rade_n_features_in_out(t.handle))
}

// NTxOut is the number of complex modem samples rade_tx produces per call.
func (t *Transmitter) NTxOut() int {
	return int(C.rade_n_tx_out(t.handle))
}

// NTxEooOut is the number of complex modem samples rade_tx_eoo produces.
func (t *Transmitter) NTxEooOut() int {
	return int(C.rade_n_tx_eoo_out(t.handle))
}

// NEooBits is the size of the End-of-Over bit buffer SetEOOBits expects.
func (t *Transmitter) NEooBits() int {
	return int(C.rade_n_eoo_bits(t.handle))
}

// Process modulates one feature frame into NTxOut() complex samples.
func (t *Transmitter) Process(features []float32, iqOut []complex64) int {
	if t.handle == nil {
		return 0
	}
	rade := make([]C.RADE_COMP, len(iqOut))
	n := C.rade_tx(t.handle, &rade[0], (*C.float)(unsafe.Pointer(&features[0])))
	for i := 0; i < int(n) && i < len(iqOut); i++ {
		iqOut[i] = complex(float32(rade[i].real), float32(rade[i].imag))
	}
	return int(n)
}

// EOO emits the End-of-Over modem frame set via SetEOOBits.
func (t *Transmitter) EOO(iqOut []complex64) int {
	if t.handle == nil {
		return 0
	}
	rade := make([]C.RADE_COMP, len(iqOut))
	n := C.rade_tx_eoo(t.handle, &rade[0])
	for i := 0; i < int(n) && i < len(iqOut); i++ {
		iqOut[i] = complex(float32(rade[i].real), float32(rade[i].imag))
	}
	return int(n)
}

// SetEOOBits loads the QPSK-symbol payload (callsign, etc.) the next
// EOO call will transmit.
func (t *Transmitter) SetEOOBits(bits []float32) {
	if t.handle == nil || len(bits) == 0 {
		return
	}
	C.rade_tx_set_eoo_bits(t.handle, (*C.float)(unsafe.Pointer(&bits[0])))
}
