//go:build radaesim

package txpipeline

import (
	"math"
	"testing"
	"time"

	"github.com/peterbmarks/radae-decoder/pkg/device"
)

func newTestPipeline(t *testing.T) (*EncoderCtx, *device.Loopback, *device.Loopback) {
	t.Helper()

	capture := &device.Loopback{SampleRate: 1_000_000}
	playback := &device.Loopback{SampleRate: 1_000_000}

	if err := capture.Open("mic", device.Capture, 1, 16000, CaptureFrames); err != nil {
		t.Fatalf("open capture: %v", err)
	}
	if err := playback.Open("radio", device.Playback, 1, 8000, CaptureFrames); err != nil {
		t.Fatalf("open playback: %v", err)
	}

	ctx, err := New(capture, playback, 16000, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ctx, capture, playback
}

// feedTone writes a continuous 1 kHz sine at 16 kHz into capture until
// stop fires, simulating a live microphone.
func feedTone(capture *device.Loopback, stop <-chan struct{}) {
	buf := make([]int16, CaptureFrames)
	var phase float64
	const freq = 1000.0
	const rate = 16000.0
	for {
		select {
		case <-stop:
			return
		default:
		}
		for i := range buf {
			buf[i] = int16(32767 * 0.9999 * math.Sin(phase))
			phase += 2 * math.Pi * freq / rate
		}
		capture.Write(buf)
	}
}

func TestRunProducesOutputFromTone(t *testing.T) {
	ctx, capture, _ := newTestPipeline(t)

	feederStop := make(chan struct{})
	go feedTone(capture, feederStop)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		ctx.Run(stop)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	if !ctx.State.Running.Load() {
		t.Fatalf("expected Running to be true while worker is active")
	}

	level := ctx.State.InputLevel.Load()
	if level < 0.5 || level > 0.9 {
		t.Errorf("expected input level near 0.707 for a full-scale sine, got %v", level)
	}

	close(stop)
	close(feederStop)
	capture.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after stop was closed")
	}

	if ctx.State.Running.Load() {
		t.Errorf("expected Running to be false after Run returns")
	}

	ctx.Close()
}

// TestRunWithBPFEnabledFlushesEOOWithoutPanic exercises the path the
// boolean-only TestSetBPFEnabledConstructsFilter never did: a full
// Run -> stop -> flushEOO cycle with the BPF on, which must filter both
// the modem frames and the differently-sized EOO frame flushEOO emits on
// exit (320 and 640 samples under the radaesim backend these tests run
// against; 960 and 1152 with the real codec).
func TestRunWithBPFEnabledFlushesEOOWithoutPanic(t *testing.T) {
	ctx, capture, _ := newTestPipeline(t)
	ctx.SetBPFEnabled(true)

	feederStop := make(chan struct{})
	go feedTone(capture, feederStop)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		ctx.Run(stop)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	close(stop)
	close(feederStop)
	capture.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after stop was closed")
	}

	ctx.Close()
}

func TestMicGainAndTxScaleDefaults(t *testing.T) {
	ctx, _, _ := newTestPipeline(t)
	if g := ctx.MicGain(); g != DefaultMicGain {
		t.Errorf("expected default mic gain %v, got %v", DefaultMicGain, g)
	}
	if s := ctx.TxScale(); s != DefaultTxScale {
		t.Errorf("expected default tx scale %v, got %v", DefaultTxScale, s)
	}
	ctx.SetMicGain(2.0)
	if g := ctx.MicGain(); g != 2.0 {
		t.Errorf("expected mic gain 2.0 after SetMicGain, got %v", g)
	}
	ctx.Close()
}

func TestSetBPFEnabledConstructsFilter(t *testing.T) {
	ctx, _, _ := newTestPipeline(t)
	if ctx.BPFEnabled() {
		t.Fatalf("expected BPF disabled by default")
	}
	ctx.SetBPFEnabled(true)
	if !ctx.BPFEnabled() {
		t.Errorf("expected BPF enabled after SetBPFEnabled(true)")
	}
	ctx.Close()
}
