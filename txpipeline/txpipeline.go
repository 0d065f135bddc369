// Package txpipeline implements the RADAE transmit worker: microphone
// audio in, modulated radio audio out. It is the Go counterpart of
// rade_encoder.cpp's processing_loop, rebuilt around the blocking
// device.Device abstraction and the radaecodec bindings instead of
// direct calls into the C++ encoder object.
package txpipeline

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/peterbmarks/radae-decoder/internal/radaecodec"
	"github.com/peterbmarks/radae-decoder/internal/telemetry"
	"github.com/peterbmarks/radae-decoder/internal/wavfile"
	"github.com/peterbmarks/radae-decoder/pkg/callsign"
	"github.com/peterbmarks/radae-decoder/pkg/device"
	"github.com/peterbmarks/radae-decoder/pkg/pcm"
	"github.com/peterbmarks/radae-decoder/pkg/resample"
	"github.com/peterbmarks/radae-decoder/pkg/spectrum"
)

// CaptureFrames is the microphone capture chunk size: one 10 ms LPCNet
// frame's worth of 16 kHz samples.
const CaptureFrames = radaecodec.LPCNetFrameSize

// DefaultTxScale and DefaultMicGain mirror the source's defaults
// (§3), used when a caller constructs an EncoderCtx without overriding
// them via SetMicGain/SetTxScale.
const (
	DefaultTxScale = 16384.0
	DefaultMicGain = 1.0
)

// BPF parameters from §3: 700-2300 Hz passband, 101-tap FIR.
const (
	bpfNTap        = 101
	bpfCenterHz    = 1600.0
	bpfBandwidthHz = 1500.0
)

// EncoderCtx holds everything one TX worker goroutine needs: the audio
// streams, the opaque codec/LPCNet handles, and every piece of
// sample-domain state a single iteration of the loop touches.
type EncoderCtx struct {
	Capture    device.Device
	Playback   device.Device
	DeviceRate int

	Transmitter *radaecodec.Transmitter
	LPCNet      *radaecodec.LPCNetEncoder

	State    *telemetry.State
	Spectrum *spectrum.Probe

	log *slog.Logger

	inResample  *resample.Stream
	outResample *resample.Stream

	acc16k []float32

	features  []float32
	featCount int

	micGain    telemetry.Float32
	txScale    telemetry.Float32
	bpfEnabled bool
	bpfMu      sync.Mutex
	bpf        *radaecodec.BPF // sized for NTxOut() modem frames
	bpfEOO     *radaecodec.BPF // sized for NTxEooOut() End-of-Over frames

	recMu    sync.Mutex
	recorder *wavfile.Recorder
}

// New opens the RADE transmitter and LPCNet encoder and returns an
// EncoderCtx ready to Run against the given, already-open audio
// streams.
func New(capture, playback device.Device, deviceRate int, log *slog.Logger) (*EncoderCtx, error) {
	tx, err := radaecodec.OpenTransmitter()
	if err != nil {
		return nil, fmt.Errorf("txpipeline: open transmitter: %w", err)
	}
	lpc, err := radaecodec.NewLPCNetEncoder()
	if err != nil {
		tx.Close()
		return nil, fmt.Errorf("txpipeline: open lpcnet encoder: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	e := &EncoderCtx{
		Capture:     capture,
		Playback:    playback,
		DeviceRate:  deviceRate,
		Transmitter: tx,
		LPCNet:      lpc,
		State:       &telemetry.State{},
		Spectrum:    spectrum.NewProbe(),
		log:         log,
		inResample:  resample.NewStream(deviceRate, radaecodec.RadeFSSpeech),
		outResample: resample.NewStream(radaecodec.RadeFS, deviceRate),
		features:    make([]float32, radaecodec.NFeaturesInOut),
	}
	e.micGain.Store(DefaultMicGain)
	e.txScale.Store(DefaultTxScale)
	return e, nil
}

// SetMicGain sets the microphone gain multiplier applied inside the
// capture loop, at CaptureFrames granularity, the next time it runs.
func (e *EncoderCtx) SetMicGain(gain float32) {
	e.micGain.Store(gain)
}

// MicGain returns the currently active microphone gain multiplier.
func (e *EncoderCtx) MicGain() float32 { return e.micGain.Load() }

// SetTxScale sets the output scale factor applied to the modulated
// baseband before S16 conversion.
func (e *EncoderCtx) SetTxScale(scale float32) {
	e.txScale.Store(scale)
}

// TxScale returns the currently active output scale factor.
func (e *EncoderCtx) TxScale() float32 { return e.txScale.Load() }

// BPFEnabled reports whether the TX output bandpass filter is active.
func (e *EncoderCtx) BPFEnabled() bool {
	e.bpfMu.Lock()
	defer e.bpfMu.Unlock()
	return e.bpfEnabled
}

// SetBPFEnabled toggles the TX output bandpass filter, lazily
// constructing its coefficients on first enable. Two filter instances
// are built: modem frames (NTxOut, 960 samples) and End-of-Over frames
// (NTxEooOut, 1152 samples) are different lengths, and the real
// rade_bpf_init fixes n_iq at construction time (spec §4.6 step 2, §6.2),
// so one filter cannot serve both.
func (e *EncoderCtx) SetBPFEnabled(enabled bool) {
	e.bpfMu.Lock()
	defer e.bpfMu.Unlock()
	e.bpfEnabled = enabled
	if enabled && e.bpf == nil {
		e.bpf = radaecodec.NewBPF(bpfNTap, radaecodec.RadeFS, bpfCenterHz, bpfBandwidthHz, e.Transmitter.NTxOut())
		e.bpfEOO = radaecodec.NewBPF(bpfNTap, radaecodec.RadeFS, bpfCenterHz, bpfBandwidthHz, e.Transmitter.NTxEooOut())
	}
}

// SetCallsign encodes callsign and installs the bits in the
// transmitter's EOO bit buffer at once; the next EOO flush sends them.
func (e *EncoderCtx) SetCallsign(cs string) {
	bits := callsign.Encode(cs, e.Transmitter.NEooBits())
	e.Transmitter.SetEOOBits(bits)
}

// SetRecorder attaches or detaches (nil) a WAV sink the worker writes
// every 16 kHz mic-gain-adjusted capture frame to. Safe to call
// concurrently with Run.
func (e *EncoderCtx) SetRecorder(r *wavfile.Recorder) {
	e.recMu.Lock()
	e.recorder = r
	e.recMu.Unlock()
}

// Close releases the opaque codec and LPCNet handles. Call only after
// Run has returned.
func (e *EncoderCtx) Close() {
	e.Transmitter.Close()
	e.LPCNet.Close()
}

// Run drives the TX loop until stop is closed or the capture device
// reports it is gone. On exit it flushes an End-of-Over frame through
// the still-open output stream and drains it, per §5's cancellation
// contract.
func (e *EncoderCtx) Run(stop <-chan struct{}) {
	e.State.Running.Store(true)
	defer e.State.Running.Store(false)

	e.preroll()

	readBuf := make([]int16, CaptureFrames)

	for {
		select {
		case <-stop:
			e.flushEOO()
			return
		default:
		}

		if !e.accumulate(stop, readBuf) {
			e.flushEOO()
			return
		}

		for len(e.acc16k) >= radaecodec.LPCNetFrameSize {
			frame := e.acc16k[:radaecodec.LPCNetFrameSize]
			e.State.InputLevel.Store(pcm.RMS(frame))

			e.recMu.Lock()
			rec := e.recorder
			e.recMu.Unlock()

			pcm16 := pcm.FromFloat32Trunc(frame, 32768.0)
			if rec != nil {
				rec.Write(pcm16)
			}

			out := e.features[e.featCount*radaecodec.NFeaturesPerFrame : (e.featCount+1)*radaecodec.NFeaturesPerFrame]
			e.LPCNet.ComputeFrameFeatures(pcm16, out)
			e.featCount++

			e.acc16k = e.acc16k[radaecodec.LPCNetFrameSize:]

			if e.featCount == radaecodec.FeaturesPerModemFrame {
				e.emitModemFrame()
				e.featCount = 0
			}
		}
	}
}

func (e *EncoderCtx) preroll() {
	n := 2 * radaecodec.ModemFrameSamples * e.DeviceRate / radaecodec.RadeFS
	silence := make([]int16, n)
	if _, err := e.Playback.Write(silence); err != nil {
		e.log.Warn("tx pre-roll write failed", "error", err)
	}
}

// accumulate reads CaptureFrames mic samples, applies mic_gain at this
// granularity (per the Open Question decision recorded for §9: not
// smoothed), resamples to 16 kHz, and appends to acc16k. It returns
// false if the caller should give up — per the RX/TX asymmetric error
// policy, any capture read error here is fatal to the loop.
func (e *EncoderCtx) accumulate(stop <-chan struct{}, readBuf []int16) bool {
	select {
	case <-stop:
		return false
	default:
	}

	n, err := e.Capture.Read(readBuf)
	if err != nil && err != device.ErrOverflow {
		e.log.Warn("tx capture read error, stopping", "error", err)
		return false
	}
	if n == 0 {
		return true
	}

	f32 := pcm.ToFloat32(readBuf[:n])
	gain := e.micGain.Load()
	for i := range f32 {
		f32[i] *= gain
	}

	out := make([]float32, resampledLen(n, e.DeviceRate, radaecodec.RadeFSSpeech))
	written := e.inResample.Process(f32, out)
	e.acc16k = append(e.acc16k, out[:written]...)
	return true
}

func resampledLen(n, rateIn, rateOut int) int {
	return n*rateOut/rateIn + 4
}

func (e *EncoderCtx) emitModemFrame() {
	nOut := e.Transmitter.NTxOut()
	iq := make([]complex64, nOut)
	n := e.Transmitter.Process(e.features, iq)
	e.writeModulated(iq[:n], false)
}

func (e *EncoderCtx) flushEOO() {
	nOut := e.Transmitter.NTxEooOut()
	iq := make([]complex64, nOut)
	n := e.Transmitter.EOO(iq)
	e.writeModulated(iq[:n], true)
	e.Playback.Drain()
}

// writeModulated applies the optional BPF (the modem-frame filter
// unless eoo selects the separately-sized EOO filter), takes the real
// part for the spectrum probe and output-level meter, resamples to
// device rate, scales, clips, and writes the resulting S16 samples.
func (e *EncoderCtx) writeModulated(iq []complex64, eoo bool) {
	e.bpfMu.Lock()
	enabled := e.bpfEnabled
	bpf := e.bpf
	if eoo {
		bpf = e.bpfEOO
	}
	e.bpfMu.Unlock()
	if enabled && bpf != nil {
		iq = bpf.Process(iq)
	}

	re := make([]float32, len(iq))
	for i, v := range iq {
		re[i] = real(v)
	}

	if len(re) >= spectrum.Size {
		e.Spectrum.Update(re)
	}
	e.State.OutputLevel.Store(pcm.RMS(re))

	out := make([]float32, resampledLen(len(re), radaecodec.RadeFS, e.DeviceRate))
	written := e.outResample.Process(re, out)

	samples := pcm.FromFloat32Trunc(out[:written], e.txScale.Load())
	if _, err := e.Playback.Write(samples); err != nil {
		e.log.Warn("tx output write failed", "error", err)
	}
}
