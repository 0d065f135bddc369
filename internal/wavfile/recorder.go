package wavfile

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
)

// Recorder is a thread-safe WAV file writer for mono/interleaved S16
// PCM, ported from WavRecorder: Write may be called from any goroutine
// while the recorder is open; Close patches the RIFF and data chunk
// sizes left zeroed by the placeholder header written at Open.
type Recorder struct {
	mu         sync.Mutex
	file       *os.File
	dataBytes  uint32
	sampleRate int
	channels   int
}

// Open creates path, truncating any existing file, and writes a
// placeholder 44-byte WAV header to be patched at Close.
func (r *Recorder) Open(path string, sampleRate, channels int) error {
	r.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavfile: open %s: %w", path, err)
	}

	r.mu.Lock()
	r.file = f
	r.sampleRate = sampleRate
	r.channels = channels
	r.dataBytes = 0
	r.mu.Unlock()

	return r.writePlaceholderHeader()
}

func (r *Recorder) writePlaceholderHeader() error {
	const bits = 16
	blockAlign := uint16(r.channels * (bits / 8))
	byteRate := uint32(r.sampleRate) * uint32(blockAlign)

	buf := make([]byte, 0, 44)
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, 0) // patched at Close
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, fmtPCM)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(r.channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(r.sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, byteRate)
	buf = binary.LittleEndian.AppendUint16(buf, blockAlign)
	buf = binary.LittleEndian.AppendUint16(buf, bits)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, 0) // patched at Close

	_, err := r.file.Write(buf)
	return err
}

// IsOpen reports whether the recorder currently has a file open.
func (r *Recorder) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file != nil
}

// Write appends interleaved S16 samples. It is a silent no-op if the
// recorder is not open or the write fails, matching §7's policy that a
// failed recording write must never interrupt the pipeline it's
// observing.
func (r *Recorder) Write(samples []int16) {
	if len(samples) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return
	}

	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	n, err := r.file.Write(buf)
	if err != nil {
		return
	}
	r.dataBytes += uint32(n)
}

// Close patches the RIFF and data chunk sizes and closes the file. It
// is safe to call multiple times.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}

	riffSize := 36 + r.dataBytes
	var sizeBuf [4]byte

	binary.LittleEndian.PutUint32(sizeBuf[:], riffSize)
	if _, err := r.file.WriteAt(sizeBuf[:], 4); err != nil {
		r.file.Close()
		r.file = nil
		return fmt.Errorf("wavfile: patching RIFF size: %w", err)
	}

	binary.LittleEndian.PutUint32(sizeBuf[:], r.dataBytes)
	if _, err := r.file.WriteAt(sizeBuf[:], 40); err != nil {
		r.file.Close()
		r.file = nil
		return fmt.Errorf("wavfile: patching data size: %w", err)
	}

	err := r.file.Close()
	r.file = nil
	r.dataBytes = 0
	return err
}
