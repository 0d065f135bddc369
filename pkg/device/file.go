package device

import (
	"fmt"
	"os"
	"sync"

	"github.com/peterbmarks/radae-decoder/internal/wavfile"
	"github.com/peterbmarks/radae-decoder/pkg/pcm"
	"github.com/peterbmarks/radae-decoder/pkg/resample"
)

// FileSource is the spec §4.7 RX alternative to a live capture device:
// on Open it parses a WAV file, collapses it to mono float32, and
// batch-resamples it once (non-streaming) to the requested rate, the
// same way a real capture device would deliver audio at that rate. It
// then replays the result a buffer at a time through Read. When the
// file is exhausted, Read reports ErrClosed, the same "device gone"
// signal a disconnected real device would give — rxpipeline's
// accumulate already treats that as a graceful stop rather than an
// error to retry.
type FileSource struct {
	mu      sync.Mutex
	samples []int16
	pos     int
	open    bool
}

// Open parses the WAV file at deviceID and resamples it to sampleRate.
// FileSource only supports the Capture direction.
func (f *FileSource) Open(deviceID string, dir Direction, channels, sampleRate, framesPerBuffer int) error {
	if dir != Capture {
		return fmt.Errorf("device: FileSource only supports Capture, not Playback")
	}

	file, err := os.Open(deviceID)
	if err != nil {
		return fmt.Errorf("device: opening %s: %w", deviceID, err)
	}
	defer file.Close()

	info, mono, err := wavfile.ReadMono(file)
	if err != nil {
		return fmt.Errorf("device: reading %s: %w", deviceID, err)
	}
	resampled := resample.Batch(mono, info.SampleRate, sampleRate)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = pcm.FromFloat32Round(resampled, 32768.0)
	f.pos = 0
	f.open = true
	return nil
}

func (f *FileSource) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return ErrNotOpen
	}
	return nil
}

func (f *FileSource) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return ErrNotOpen
	}
	return nil
}

// Read copies the next samples from the decoded file into buf. Once
// the file is exhausted it returns however many samples remained,
// alongside ErrClosed.
func (f *FileSource) Read(buf []int16) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return 0, ErrNotOpen
	}
	n := copy(buf, f.samples[f.pos:])
	f.pos += n
	if n < len(buf) {
		return n, ErrClosed
	}
	return n, nil
}

func (f *FileSource) Write(buf []int16) (int, error) {
	return 0, fmt.Errorf("device: FileSource does not support Write")
}

func (f *FileSource) Drain() error {
	return nil
}

func (f *FileSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.samples = nil
	return nil
}
