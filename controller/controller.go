// Package controller implements the Idle -> Opened -> Running -> Opened
// -> Closed state machine that owns one RX or TX pipeline worker: it
// constructs the pipeline's opaque codec/audio resources at Open, spawns
// and joins the worker goroutine at Start/Stop, and exposes the
// telemetry and control knobs a UI or CLI front-end polls and writes.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/peterbmarks/radae-decoder/internal/config"
	"github.com/peterbmarks/radae-decoder/internal/metrics"
	"github.com/peterbmarks/radae-decoder/internal/telemetry"
	"github.com/peterbmarks/radae-decoder/internal/wavfile"
	"github.com/peterbmarks/radae-decoder/pkg/device"
	"github.com/peterbmarks/radae-decoder/rxpipeline"
	"github.com/peterbmarks/radae-decoder/txpipeline"
)

// Mode selects which pipeline a Controller drives.
type Mode int

const (
	ModeRX Mode = iota
	ModeTX
)

// state is the controller's own position in the Idle -> Opened ->
// Running -> Opened -> Closed machine, distinct from the pipeline's
// telemetry.State.Running atomic (which only exists once Opened).
type state int

const (
	stateIdle state = iota
	stateOpened
	stateRunning
	stateClosed
)

// ErrAlreadyRunning and ErrNotOpen are the sentinel "programmer error"
// cases §7 assigns to the controller to validate.
var (
	ErrAlreadyRunning = errors.New("controller: already running")
	ErrNotOpen        = errors.New("controller: not open")
	ErrWrongMode      = errors.New("controller: operation not valid in this mode")
)

// Controller owns exactly one pipeline worker at a time: an
// rxpipeline.DecoderCtx in ModeRX, a txpipeline.EncoderCtx in ModeTX.
type Controller struct {
	mode    Mode
	cfg     config.Config
	metrics *metrics.Metrics
	log     *slog.Logger

	mu       sync.Mutex
	st       state
	rx       *rxpipeline.DecoderCtx
	tx       *txpipeline.EncoderCtx
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	recorder *wavfile.Recorder
}

// New returns an idle Controller for the given mode and starting
// configuration.
func New(mode Mode, cfg config.Config, m *metrics.Metrics, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{mode: mode, cfg: cfg, metrics: m, log: log}
}

// Mode reports which pipeline this controller drives.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Open constructs the audio streams and opaque codec handles for the
// pipeline, applying the controller's current config (mic gain, TX
// scale, BPF enable, callsign) to a freshly-opened TX pipeline.
// capture/playback must already be open for their respective
// directions; Open does not call device.Device.Open itself, since
// device selection and enumeration are a thin collaborator's job.
func (c *Controller) Open(capture, playback device.Device, deviceRate int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st != stateIdle && c.st != stateClosed {
		return fmt.Errorf("controller: open: %w", ErrAlreadyRunning)
	}

	switch c.mode {
	case ModeRX:
		rx, err := rxpipeline.New(capture, playback, deviceRate, c.log)
		if err != nil {
			return fmt.Errorf("controller: open rx: %w", err)
		}
		c.rx = rx
	case ModeTX:
		tx, err := txpipeline.New(capture, playback, deviceRate, c.log)
		if err != nil {
			return fmt.Errorf("controller: open tx: %w", err)
		}
		tx.SetMicGain(float32(c.cfg.MicGain))
		tx.SetTxScale(float32(c.cfg.TxScale))
		tx.SetBPFEnabled(c.cfg.BPFEnabled)
		if c.cfg.Callsign != "" {
			tx.SetCallsign(c.cfg.Callsign)
		}
		c.tx = tx
	}

	c.st = stateOpened
	return nil
}

// Start spawns the worker goroutine. The pipeline must be Opened.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st != stateOpened {
		return fmt.Errorf("controller: start: %w", ErrNotOpen)
	}

	c.stop = make(chan struct{})
	c.stopOnce = sync.Once{}
	stopCh := c.stop
	done := make(chan struct{})
	c.done = done

	switch c.mode {
	case ModeRX:
		rx := c.rx
		go func() { rx.Run(stopCh); close(done) }()
	case ModeTX:
		tx := c.tx
		go func() { tx.Run(stopCh); close(done) }()
	}

	c.st = stateRunning
	return nil
}

// Stop signals the worker to exit, unblocks any pending capture read
// without tearing down the stream, joins the worker, and zeroes the
// input/output level atomics. The pipeline returns to Opened and may
// be Start-ed again.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.st != stateRunning {
		c.mu.Unlock()
		return fmt.Errorf("controller: stop: %w", ErrNotOpen)
	}
	done := c.done
	stop := c.stop
	capture := c.captureDevice()
	st := c.telemetryState()
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(stop) })
	if interrupter, ok := capture.(device.Interrupter); ok {
		interrupter.InterruptRead()
	}
	<-done

	st.InputLevel.Store(0)
	st.OutputLevel.Store(0)

	c.mu.Lock()
	c.st = stateOpened
	c.mu.Unlock()
	return nil
}

// Close stops the pipeline if still running, destroys the opaque
// codec/audio handles, and transitions to Closed. No telemetry is
// updated after Close returns.
func (c *Controller) Close() error {
	c.mu.Lock()
	running := c.st == stateRunning
	c.mu.Unlock()

	if running {
		if err := c.Stop(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st == stateIdle || c.st == stateClosed {
		c.st = stateClosed
		return nil
	}

	switch c.mode {
	case ModeRX:
		if c.rx != nil {
			c.rx.Close()
			c.rx = nil
		}
	case ModeTX:
		if c.tx != nil {
			c.tx.Close()
			c.tx = nil
		}
	}
	c.st = stateClosed
	return nil
}

// State returns a point-in-time telemetry snapshot. Valid once Opened;
// returns a zero Snapshot before that.
func (c *Controller) State() telemetry.Snapshot {
	c.mu.Lock()
	st := c.telemetryState()
	c.mu.Unlock()
	if st == nil {
		return telemetry.Snapshot{}
	}
	return st.Snapshot()
}

// PushMetrics mirrors the current telemetry snapshot (and, in ModeTX,
// the mic gain/TX scale/BPF knobs) into the Prometheus gauges. The
// controller thread calls this on its own poll cadence, never the
// worker — keeping Prometheus's internal locking off the hot path.
func (c *Controller) PushMetrics() {
	if c.metrics == nil {
		return
	}
	direction := "rx"
	if c.mode == ModeTX {
		direction = "tx"
	}

	snap := c.State()
	b := func(v bool) float64 {
		if v {
			return 1
		}
		return 0
	}
	c.metrics.Running.WithLabelValues(direction).Set(b(snap.Running))
	c.metrics.Synced.WithLabelValues(direction).Set(b(snap.Synced))
	c.metrics.SNRdB.WithLabelValues(direction).Set(float64(snap.SNRdB))
	c.metrics.FreqOffset.WithLabelValues(direction).Set(float64(snap.FreqOffset))
	c.metrics.InputLevel.WithLabelValues(direction).Set(float64(snap.InputLevel))
	c.metrics.OutputLevel.WithLabelValues(direction).Set(float64(snap.OutputLevel))

	if c.mode == ModeTX {
		c.mu.Lock()
		tx := c.tx
		c.mu.Unlock()
		if tx != nil {
			c.metrics.MicGain.Set(float64(tx.MicGain()))
			c.metrics.TxScale.Set(float64(tx.TxScale()))
			c.metrics.BPFEnabled.Set(b(tx.BPFEnabled()))
		}
	}
}

// SetMicGain updates the TX microphone gain. In ModeRX it changes
// nothing and returns ErrWrongMode.
func (c *Controller) SetMicGain(gain float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeTX {
		return ErrWrongMode
	}
	c.cfg.MicGain = gain
	if c.tx != nil {
		c.tx.SetMicGain(float32(gain))
	}
	return nil
}

// SetTxScale updates the TX output scale. In ModeRX it changes nothing
// and returns ErrWrongMode.
func (c *Controller) SetTxScale(scale float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeTX {
		return ErrWrongMode
	}
	c.cfg.TxScale = scale
	if c.tx != nil {
		c.tx.SetTxScale(float32(scale))
	}
	return nil
}

// SetBPFEnabled toggles the TX output bandpass filter. In ModeRX it
// changes nothing and returns ErrWrongMode.
func (c *Controller) SetBPFEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeTX {
		return ErrWrongMode
	}
	c.cfg.BPFEnabled = enabled
	if c.tx != nil {
		c.tx.SetBPFEnabled(enabled)
	}
	return nil
}

// SetCallsign updates the TX EOO callsign, installing it immediately if
// the pipeline is open or caching it in config for the next Open. In
// ModeRX, where the callsign is read from EOO rather than set, it
// changes nothing and returns ErrWrongMode.
func (c *Controller) SetCallsign(cs string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeTX {
		return ErrWrongMode
	}
	c.cfg.Callsign = cs
	if c.tx != nil {
		c.tx.SetCallsign(cs)
	}
	return nil
}

// Callsign returns the most recently decoded EOO callsign. It is only
// meaningful in ModeRX.
func (c *Controller) Callsign() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeRX || c.rx == nil {
		return ""
	}
	return c.rx.Callsign()
}

// AttachRecorder opens a WAV sink at path and hands it to the pipeline
// worker under mutex; RX pipelines typically record at 8 kHz (the
// modem rate), TX pipelines at 16 kHz (the mic rate).
func (c *Controller) AttachRecorder(path string, sampleRate, channels int) error {
	rec := &wavfile.Recorder{}
	if err := rec.Open(path, sampleRate, channels); err != nil {
		return fmt.Errorf("controller: attach recorder: %w", err)
	}

	c.mu.Lock()
	c.recorder = rec
	switch c.mode {
	case ModeRX:
		if c.rx != nil {
			c.rx.SetRecorder(rec)
		}
	case ModeTX:
		if c.tx != nil {
			c.tx.SetRecorder(rec)
		}
	}
	c.mu.Unlock()
	return nil
}

// DetachRecorder nulls the worker's recorder pointer before closing the
// file handle, per §5's shared-resource policy for the recorder.
func (c *Controller) DetachRecorder() error {
	c.mu.Lock()
	rec := c.recorder
	c.recorder = nil
	switch c.mode {
	case ModeRX:
		if c.rx != nil {
			c.rx.SetRecorder(nil)
		}
	case ModeTX:
		if c.tx != nil {
			c.tx.SetRecorder(nil)
		}
	}
	c.mu.Unlock()

	if rec == nil {
		return nil
	}
	return rec.Close()
}

// captureDevice returns the currently-open pipeline's capture device,
// or nil. Caller must hold c.mu.
func (c *Controller) captureDevice() device.Device {
	switch c.mode {
	case ModeRX:
		if c.rx != nil {
			return c.rx.Capture
		}
	case ModeTX:
		if c.tx != nil {
			return c.tx.Capture
		}
	}
	return nil
}

// telemetryState returns the currently-open pipeline's telemetry
// state, or nil. Caller must hold c.mu.
func (c *Controller) telemetryState() *telemetry.State {
	switch c.mode {
	case ModeRX:
		if c.rx != nil {
			return c.rx.State
		}
	case ModeTX:
		if c.tx != nil {
			return c.tx.State
		}
	}
	return nil
}
