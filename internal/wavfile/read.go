// Package wavfile parses WAV files into mono float32 PCM, and records
// mono S16 PCM back out to a WAV file, ported from rade_decoder.cpp's
// wav_read_header/wav_read_mono_float and wav_recorder.cpp's WavRecorder.
package wavfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	fmtPCM   = 1
	fmtFloat = 3
)

// Info describes a parsed WAV file's format.
type Info struct {
	SampleRate    int
	NumChannels   int
	BitsPerSample int
	IsFloat       bool
}

// ReadMono parses a WAV stream and returns its format plus its audio
// collapsed to a single mono channel by averaging all channels per
// frame, mirroring wav_read_mono_float's nch-way average.
func ReadMono(r io.Reader) (Info, []float32, error) {
	br := bufio.NewReader(r)

	var tag [4]byte
	if _, err := io.ReadFull(br, tag[:]); err != nil || string(tag[:]) != "RIFF" {
		return Info{}, nil, fmt.Errorf("wavfile: not a RIFF file")
	}
	var riffSize uint32
	if err := binary.Read(br, binary.LittleEndian, &riffSize); err != nil {
		return Info{}, nil, fmt.Errorf("wavfile: truncated RIFF header: %w", err)
	}
	if _, err := io.ReadFull(br, tag[:]); err != nil || string(tag[:]) != "WAVE" {
		return Info{}, nil, fmt.Errorf("wavfile: not a WAVE file")
	}

	var info Info
	haveFmt := false
	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(br, chunkID[:]); err != nil {
			return Info{}, nil, fmt.Errorf("wavfile: no data chunk found")
		}
		var chunkSize uint32
		if err := binary.Read(br, binary.LittleEndian, &chunkSize); err != nil {
			return Info{}, nil, fmt.Errorf("wavfile: truncated chunk header: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if chunkSize < 16 {
				return Info{}, nil, fmt.Errorf("wavfile: fmt chunk too small")
			}
			buf := make([]byte, 16)
			if _, err := io.ReadFull(br, buf); err != nil {
				return Info{}, nil, fmt.Errorf("wavfile: truncated fmt chunk: %w", err)
			}
			audioFmt := binary.LittleEndian.Uint16(buf[0:2])
			nch := binary.LittleEndian.Uint16(buf[2:4])
			sr := binary.LittleEndian.Uint32(buf[4:8])
			bps := binary.LittleEndian.Uint16(buf[14:16])

			info.SampleRate = int(sr)
			info.NumChannels = int(nch)
			info.BitsPerSample = int(bps)
			info.IsFloat = audioFmt == fmtFloat
			haveFmt = true

			if extra := int(chunkSize) - 16; extra > 0 {
				if _, err := io.CopyN(io.Discard, br, int64(extra)); err != nil {
					return Info{}, nil, fmt.Errorf("wavfile: skipping fmt extension: %w", err)
				}
			}

		case "data":
			if !haveFmt {
				return Info{}, nil, fmt.Errorf("wavfile: data chunk before fmt chunk")
			}
			mono, err := readMonoData(br, info, chunkSize)
			if err != nil {
				return Info{}, nil, err
			}
			return info, mono, nil

		default:
			skip := int64(chunkSize)
			if skip&1 != 0 {
				skip++ // chunks are word-aligned
			}
			if _, err := io.CopyN(io.Discard, br, skip); err != nil {
				return Info{}, nil, fmt.Errorf("wavfile: skipping chunk %q: %w", chunkID, err)
			}
		}
	}
}

func readMonoData(r io.Reader, info Info, dataSize uint32) ([]float32, error) {
	bytesPerSample := info.BitsPerSample / 8
	if bytesPerSample == 0 || info.NumChannels == 0 {
		return nil, fmt.Errorf("wavfile: unsupported format %+v", info)
	}
	total := int(dataSize) / bytesPerSample
	nFrames := total / info.NumChannels

	out := make([]float32, nFrames)
	sampleBuf := make([]byte, bytesPerSample)

	for i := 0; i < nFrames; i++ {
		var sum float32
		for ch := 0; ch < info.NumChannels; ch++ {
			if _, err := io.ReadFull(r, sampleBuf); err != nil {
				return nil, fmt.Errorf("wavfile: truncated sample data: %w", err)
			}
			sum += decodeSample(sampleBuf, info)
		}
		out[i] = sum / float32(info.NumChannels)
	}
	return out, nil
}

func decodeSample(b []byte, info Info) float32 {
	switch {
	case info.IsFloat && info.BitsPerSample == 32:
		bits := binary.LittleEndian.Uint32(b)
		return math.Float32frombits(bits)
	case info.IsFloat && info.BitsPerSample == 64:
		bits := binary.LittleEndian.Uint64(b)
		return float32(math.Float64frombits(bits))
	case info.BitsPerSample == 16:
		return float32(int16(binary.LittleEndian.Uint16(b))) / 32768.0
	case info.BitsPerSample == 24:
		raw := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if raw&0x800000 != 0 {
			raw |= ^int32(0xFFFFFF)
		}
		return float32(raw) / 8388608.0
	case info.BitsPerSample == 32:
		raw := int32(binary.LittleEndian.Uint32(b))
		return float32(raw) / 2147483648.0
	default:
		return 0
	}
}
