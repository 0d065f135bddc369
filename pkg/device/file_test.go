package device

import (
	"path/filepath"
	"testing"

	"github.com/peterbmarks/radae-decoder/internal/wavfile"
)

func writeTestWAV(t *testing.T, sampleRate int, samples []int16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.wav")
	var rec wavfile.Recorder
	if err := rec.Open(path, sampleRate, 1); err != nil {
		t.Fatalf("Open recorder: %v", err)
	}
	rec.Write(samples)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close recorder: %v", err)
	}
	return path
}

func TestFileSourceReplaysResampledFile(t *testing.T) {
	samples := make([]int16, 1600) // 100 ms at 16 kHz
	for i := range samples {
		samples[i] = int16(i % 1000)
	}
	path := writeTestWAV(t, 16000, samples)

	var src FileSource
	if err := src.Open(path, Capture, 1, 8000, 512); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := src.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var total int
	buf := make([]int16, 512)
	for {
		n, err := src.Read(buf)
		total += n
		if err == ErrClosed {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}

	// 100 ms of 16 kHz resampled to 8 kHz is ~800 frames.
	if total < 700 || total > 900 {
		t.Errorf("expected roughly 800 resampled frames, got %d", total)
	}

	if _, err := src.Read(buf); err != ErrClosed {
		t.Errorf("expected ErrClosed once exhausted, got %v", err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestFileSourceRejectsPlaybackDirection(t *testing.T) {
	var src FileSource
	if err := src.Open("unused.wav", Playback, 1, 8000, 512); err == nil {
		t.Errorf("expected error opening FileSource for Playback")
	}
}
