package device

import (
	"testing"
)

func TestLoopbackEchoesWrittenSamples(t *testing.T) {
	var dev Device = &Loopback{}
	if err := dev.Open("", Playback, 1, 8000, 64); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := dev.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer dev.Close()

	want := make([]int16, 64)
	for i := range want {
		want[i] = int16(i*7 - 100)
	}
	if n, err := dev.Write(want); err != nil || n != len(want) {
		t.Fatalf("Write: n=%d err=%v", n, err)
	}

	got := make([]int16, len(want))
	n, err := dev.Read(got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(want) {
		t.Fatalf("Read: got %d frames, want %d", n, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLoopbackInjectOverflow(t *testing.T) {
	dev := &Loopback{InjectOverflow: true}
	if err := dev.Open("", Capture, 1, 8000, 32); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	buf := make([]int16, 32)
	dev.Write(buf)
	if _, err := dev.Read(buf); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	dev.Write(buf)
	if _, err := dev.Read(buf); err != nil {
		t.Fatalf("expected overflow flag to clear after one report, got %v", err)
	}
}

func TestLoopbackReadAfterCloseReturnsErrClosed(t *testing.T) {
	dev := &Loopback{}
	if err := dev.Open("", Capture, 1, 8000, 16); err != nil {
		t.Fatalf("Open: %v", err)
	}
	buf := make([]int16, 16)
	dev.Write(buf)
	dev.Close()

	got := make([]int16, 32)
	n, err := dev.Read(got)
	if err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v (n=%d)", err, n)
	}
	if n != 16 {
		t.Fatalf("expected 16 buffered frames before closure, got %d", n)
	}
}
