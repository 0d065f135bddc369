// Package rxpipeline implements the RADAE receive worker: audio in,
// decoded speech out. It is the Go counterpart of rade_decoder.cpp's
// processing_loop, rebuilt around the blocking device.Device
// abstraction and the radaecodec bindings instead of direct calls into
// the C++ decoder object.
package rxpipeline

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/peterbmarks/radae-decoder/internal/radaecodec"
	"github.com/peterbmarks/radae-decoder/internal/telemetry"
	"github.com/peterbmarks/radae-decoder/internal/wavfile"
	"github.com/peterbmarks/radae-decoder/pkg/callsign"
	"github.com/peterbmarks/radae-decoder/pkg/device"
	"github.com/peterbmarks/radae-decoder/pkg/hilbert"
	"github.com/peterbmarks/radae-decoder/pkg/pcm"
	"github.com/peterbmarks/radae-decoder/pkg/resample"
	"github.com/peterbmarks/radae-decoder/pkg/spectrum"
)

// ReadFrames is the capture chunk size, tuned to keep spectrum updates
// lively rather than for throughput.
const ReadFrames = 512

// DecoderCtx holds everything one RX worker goroutine needs: the audio
// streams, the opaque codec/vocoder handles, and every piece of
// sample-domain state a single iteration of the loop touches. It is
// meant to be constructed once per "open" and driven by one goroutine
// via Run.
type DecoderCtx struct {
	Capture    device.Device
	Playback   device.Device
	DeviceRate int

	Receiver *radaecodec.Receiver
	Fargan   *radaecodec.FarganState

	State    *telemetry.State
	Spectrum *spectrum.Probe

	log *slog.Logger

	inResample  *resample.Stream
	outResample *resample.Stream
	hil         *hilbert.Transform

	acc8k []float32

	warmupBuf    []float32
	warmupCount  int
	fganReady    bool
	outputPrimed bool
	wasSynced    bool

	recMu    sync.Mutex
	recorder *wavfile.Recorder

	callsignMu sync.Mutex
	callsign   string
}

// New opens the RADE receiver and FARGAN state and returns a DecoderCtx
// ready to Run against the given, already-open audio streams.
func New(capture, playback device.Device, deviceRate int, log *slog.Logger) (*DecoderCtx, error) {
	rx, err := radaecodec.OpenReceiver()
	if err != nil {
		return nil, fmt.Errorf("rxpipeline: open receiver: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &DecoderCtx{
		Capture:    capture,
		Playback:   playback,
		DeviceRate: deviceRate,
		Receiver:   rx,
		Fargan:     radaecodec.NewFarganState(),
		State:      &telemetry.State{},
		Spectrum:   spectrum.NewProbe(),
		log:        log,
		inResample: resample.NewStream(deviceRate, radaecodec.RadeFS),
		outResample: resample.NewStream(
			radaecodec.RadeFSSpeech, deviceRate,
		),
		hil: hilbert.New(),
	}, nil
}

// SetRecorder attaches or detaches (nil) a WAV sink the worker writes
// every 8 kHz input sample it consumes to, before the Hilbert stage.
// Safe to call concurrently with Run.
func (d *DecoderCtx) SetRecorder(r *wavfile.Recorder) {
	d.recMu.Lock()
	d.recorder = r
	d.recMu.Unlock()
}

// Callsign returns the most recently accepted EOO callsign, or "" if
// none has been decoded yet.
func (d *DecoderCtx) Callsign() string {
	d.callsignMu.Lock()
	defer d.callsignMu.Unlock()
	return d.callsign
}

func (d *DecoderCtx) setCallsign(cs string) {
	d.callsignMu.Lock()
	d.callsign = cs
	d.callsignMu.Unlock()
}

// Close releases the opaque codec handle. Call only after Run has
// returned.
func (d *DecoderCtx) Close() {
	d.Receiver.Close()
}

// Run drives the RX loop until stop is closed or the capture device
// reports it is gone. It is intended to be launched with `go`; the
// caller joins by waiting for Run to return.
func (d *DecoderCtx) Run(stop <-chan struct{}) {
	d.State.Running.Store(true)
	defer d.State.Running.Store(false)

	readBuf := make([]int16, ReadFrames)
	nFrameFeatures := radaecodec.NFeaturesPerFrame
	nEooBits := d.Receiver.NEooBits()

	features := make([]float32, d.Receiver.NFeaturesOut())
	eooBits := make([]float32, nEooBits)
	iq := make([]complex64, d.Receiver.NinMax())
	hilOut := make([]hilbert.Sample, d.Receiver.NinMax())

	for {
		select {
		case <-stop:
			return
		default:
		}

		nin := d.Receiver.Nin()
		if !d.accumulate(stop, readBuf, nin) {
			return
		}

		if len(d.acc8k) >= spectrum.Size {
			d.Spectrum.Update(d.acc8k)
		}

		d.State.InputLevel.Store(pcm.RMS(d.acc8k[:nin]))

		d.recMu.Lock()
		rec := d.recorder
		d.recMu.Unlock()
		if rec != nil {
			rec.Write(pcm.FromFloat32Round(d.acc8k[:nin], 32768.0))
		}

		if cap(hilOut) < nin {
			hilOut = make([]hilbert.Sample, nin)
		}
		d.hil.Process(d.acc8k[:nin], hilOut[:nin])
		if cap(iq) < nin {
			iq = make([]complex64, nin)
		}
		for i := 0; i < nin; i++ {
			iq[i] = complex(hilOut[i].Real, hilOut[i].Imag)
		}
		d.acc8k = d.acc8k[nin:]

		nFeatures, hasEOO := d.Receiver.Process(iq[:nin], features, eooBits)

		nowSynced := d.Receiver.Synced()
		d.State.Synced.Store(nowSynced)
		// SNR and frequency-offset estimates are only meaningful once
		// the receiver has locked on; rade_decoder.cpp only refreshes
		// them under the same condition, holding the last good reading
		// while unsynced rather than overwriting it with whatever the
		// codec returns for an unlocked signal.
		if nowSynced {
			d.State.SNRdB.Store(d.Receiver.SNRdB())
			d.State.FreqOffset.Store(d.Receiver.FreqOffsetHz())
		}

		if d.wasSynced && !nowSynced {
			d.log.Info("rx sync lost, resetting fargan")
			d.Fargan.Reset()
			d.warmupBuf = nil
			d.warmupCount = 0
			d.fganReady = false
			d.outputPrimed = false
		}
		d.wasSynced = nowSynced

		if nFeatures > 0 {
			for f := 0; f+nFrameFeatures <= nFeatures; f += nFrameFeatures {
				frame := features[f : f+nFrameFeatures]
				if !d.fganReady {
					d.warmup(frame)
				} else {
					d.synthesize(frame)
				}
			}
		} else {
			d.State.OutputLevel.Store(d.State.OutputLevel.Load() * 0.9)
		}

		if hasEOO {
			if cs, ok := callsign.Decode(eooBits, nEooBits/2); ok {
				d.setCallsign(cs)
			}
		}
	}
}

// accumulate reads capture audio in ReadFrames chunks, resampling to
// the modem rate and appending to acc8k, until at least nin samples
// are available or stop fires. It returns false if the caller should
// give up (device gone).
func (d *DecoderCtx) accumulate(stop <-chan struct{}, readBuf []int16, nin int) bool {
	for len(d.acc8k) < nin {
		select {
		case <-stop:
			return false
		default:
		}

		n, err := d.Capture.Read(readBuf)
		if err != nil && err != device.ErrOverflow {
			if err == device.ErrClosed || err == device.ErrNotOpen {
				return false
			}
			d.log.Warn("rx capture read error, continuing", "error", err)
			continue
		}
		if n == 0 {
			continue
		}

		f32 := pcm.ToFloat32(readBuf[:n])
		out := make([]float32, resampledLen(n, d.DeviceRate, radaecodec.RadeFS))
		written := d.inResample.Process(f32, out)
		d.acc8k = append(d.acc8k, out[:written]...)
	}
	return true
}

// resampledLen returns a generously-sized output capacity for
// resampling n samples from rateIn to rateOut, with headroom for
// rounding so Stream.Process never runs out of room mid-block.
func resampledLen(n, rateIn, rateOut int) int {
	return n*rateOut/rateIn + 4
}

func (d *DecoderCtx) warmup(frame []float32) {
	d.warmupBuf = append(d.warmupBuf, frame...)
	d.warmupCount++
	if d.warmupCount < radaecodec.WarmupFrames {
		return
	}

	packed := make([]float32, 0, radaecodec.WarmupFrames*radaecodec.NBFeaturesCont)
	for i := 0; i < radaecodec.WarmupFrames; i++ {
		start := i * radaecodec.NFeaturesPerFrame
		packed = append(packed, d.warmupBuf[start:start+radaecodec.NBFeaturesCont]...)
	}
	d.Fargan.Continue(packed)
	d.fganReady = true
	d.log.Info("fargan warm-up complete")

	if !d.outputPrimed {
		silence := make([]int16, 2*radaecodec.FeaturesPerModemFrame*radaecodec.LPCNetFrameSize*d.DeviceRate/radaecodec.RadeFSSpeech)
		if _, err := d.Playback.Write(silence); err != nil {
			d.log.Warn("rx output pre-fill write failed", "error", err)
		}
		d.outputPrimed = true
	}
}

func (d *DecoderCtx) synthesize(frame []float32) {
	pcm16k := d.Fargan.Synthesize(frame)

	d.State.OutputLevel.Store(pcm.RMS(pcm16k[:]))

	out := make([]float32, resampledLen(len(pcm16k), radaecodec.RadeFSSpeech, d.DeviceRate))
	written := d.outResample.Process(pcm16k[:], out)

	samples := pcm.FromFloat32Round(out[:written], 32768.0)

	if _, err := d.Playback.Write(samples); err != nil {
		d.log.Warn("rx output write failed", "error", err)
	}
}
