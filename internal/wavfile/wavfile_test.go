package wavfile

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func buildPCM16WAV(sampleRate, channels int, samples []int16) []byte {
	var buf bytes.Buffer
	dataSize := uint32(len(samples) * 2)
	blockAlign := uint16(channels * 2)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(fmtPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func TestReadMonoPCM16(t *testing.T) {
	raw := buildPCM16WAV(8000, 1, []int16{0, 16384, -16384, 32767})
	info, mono, err := ReadMono(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if info.SampleRate != 8000 || info.NumChannels != 1 || info.BitsPerSample != 16 {
		t.Errorf("unexpected info: %+v", info)
	}
	if len(mono) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(mono))
	}
	if mono[0] != 0 {
		t.Errorf("sample 0: got %f, want 0", mono[0])
	}
}

func TestReadMonoCollapsesStereo(t *testing.T) {
	// Frames (32767, -32767) and (16384, -16384): mono average should be ~0.
	raw := buildPCM16WAV(8000, 2, []int16{32767, -32767, 16384, -16384})
	info, mono, err := ReadMono(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if info.NumChannels != 2 {
		t.Fatalf("expected 2 channels, got %d", info.NumChannels)
	}
	if len(mono) != 2 {
		t.Fatalf("expected 2 mono frames, got %d", len(mono))
	}
	for i, v := range mono {
		if v < -0.01 || v > 0.01 {
			t.Errorf("frame %d: expected near-zero average, got %f", i, v)
		}
	}
}

func TestReadMonoRejectsNonRIFF(t *testing.T) {
	if _, _, err := ReadMono(bytes.NewReader([]byte("not a wav file"))); err == nil {
		t.Errorf("expected an error for non-RIFF input")
	}
}

func TestRecorderWritesValidHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	var rec Recorder
	if err := rec.Open(path, 8000, 1); err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec.Write([]int16{1, 2, 3, 4})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	info, mono, err := ReadMono(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadMono of recorded file: %v", err)
	}
	if info.SampleRate != 8000 || info.NumChannels != 1 {
		t.Errorf("unexpected info: %+v", info)
	}
	if len(mono) != 4 {
		t.Fatalf("expected 4 recorded samples, got %d", len(mono))
	}
}

func TestRecorderWriteAfterCloseIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	var rec Recorder
	rec.Open(path, 8000, 1)
	rec.Close()
	rec.Write([]int16{1, 2, 3}) // must not panic or reopen the file

	if rec.IsOpen() {
		t.Errorf("expected recorder to remain closed")
	}
}
