// Package radaecodec binds the RADE/LPCNet/FARGAN neural codec C-ABI
// (rade_open/rade_rx/rade_tx, lpcnet_encoder_*, fargan_*) the RX and TX
// pipelines drive. The binding shape — an opaque handle struct, a
// matched Open/Close pair, typed error returns and unsafe.Pointer
// buffer marshaling — is grounded on dougsko-js8d's js8dsp_cgo.go.
//
// The proprietary model weights and C sources are not available in
// every build environment, so the package ships two implementations
// selected at compile time: the real cgo binding (default) and a
// radaesim build-tag pure-Go simulation used for testing the pipelines
// end to end without the proprietary libraries present.
package radaecodec

import "errors"

// ErrNotOpen names use of a handle after Close or before a successful
// Open. No function in this package returns it: the Process and EOO
// methods of a closed handle return zero counts instead.
var ErrNotOpen = errors.New("radaecodec: not open")

// NFeaturesPerFrame is the LPCNet/FARGAN feature vector width
// (NB_TOTAL_FEATURES in the original sources).
const NFeaturesPerFrame = 36

// LPCNetFrameSize is the number of 16 kHz PCM samples LPCNet encodes
// into one feature frame.
const LPCNetFrameSize = 160

// WarmupFrames is the number of feature frames FARGAN must be primed
// with via Continue before Synthesize produces steady-state output.
const WarmupFrames = 5

// NBFeaturesCont is the feature stride FARGAN's continuation primer
// expects per warmup frame — a narrower slice of each NFeaturesPerFrame
// vector than the full feature set rade_rx produces.
const NBFeaturesCont = 20

// ModemFrameSamples is one RADE modem frame: 120 ms at the 8 kHz modem
// rate, produced/consumed alongside 12 LPCNet feature frames.
const ModemFrameSamples = 960

// RadeFS is the fixed 8 kHz modem sample rate the codec operates at.
const RadeFS = 8000

// RadeFSSpeech is the fixed 16 kHz speech sample rate FARGAN/LPCNet operate at.
const RadeFSSpeech = 16000

// NTxOut is the complex sample count rade_tx produces per modem frame.
const NTxOut = 960

// NTxEooOut is the complex sample count rade_tx_eoo produces.
const NTxEooOut = 1152

// FeaturesPerModemFrame is the number of LPCNet feature frames one
// modem frame's worth of rade_tx/rade_rx call carries.
const FeaturesPerModemFrame = 12

// NFeaturesInOut is the feature float count rade_rx/rade_tx exchange
// per modem-frame call (12 frames of NFeaturesPerFrame each).
const NFeaturesInOut = FeaturesPerModemFrame * NFeaturesPerFrame
