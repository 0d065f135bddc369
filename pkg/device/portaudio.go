package device

import (
	"time"

	"github.com/gordonklaus/portaudio"
)

// PortAudioMono drives one mono capture or playback stream through
// PortAudio, the cross-platform backend used where ASIO is unavailable
// (Linux, macOS). It wraps the same ringAdapter ASIOMono uses so the RX
// and TX pipelines see identical blocking semantics from either backend.
type PortAudioMono struct {
	stream *portaudio.Stream
	ring   *ringAdapter
	dir    Direction
}

func (p *PortAudioMono) Open(deviceID string, dir Direction, channels, sampleRate, framesPerBuffer int) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	p.dir = dir
	p.ring = newRingAdapter(framesPerBuffer * 16)

	dev, err := portAudioDeviceByName(deviceID, dir)
	if err != nil {
		return err
	}

	var stream *portaudio.Stream
	if dir == Capture {
		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: channels,
				Latency:  dev.DefaultLowInputLatency,
			},
			SampleRate:      float64(sampleRate),
			FramesPerBuffer: framesPerBuffer,
		}
		stream, err = portaudio.OpenStream(params, p.onCapture)
	} else {
		params := portaudio.StreamParameters{
			Output: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: channels,
				Latency:  dev.DefaultLowOutputLatency,
			},
			SampleRate:      float64(sampleRate),
			FramesPerBuffer: framesPerBuffer,
		}
		stream, err = portaudio.OpenStream(params, p.onPlayback)
	}
	if err != nil {
		return err
	}
	p.stream = stream
	return nil
}

func (p *PortAudioMono) onCapture(in []int16) {
	p.ring.captured(in)
}

func (p *PortAudioMono) onPlayback(out []int16) {
	p.ring.playback(out)
}

func (p *PortAudioMono) Start() error {
	return p.stream.Start()
}

func (p *PortAudioMono) Stop() error {
	return p.stream.Stop()
}

func (p *PortAudioMono) Read(buf []int16) (int, error) {
	return p.ring.Read(buf)
}

func (p *PortAudioMono) Write(buf []int16) (int, error) {
	return p.ring.Write(buf)
}

// InterruptRead unblocks a pending Read without stopping the stream or
// touching PortAudio's process-wide session, so the device can be
// Start-ed again after a Stop.
func (p *PortAudioMono) InterruptRead() {
	p.ring.interruptRead()
}

func (p *PortAudioMono) Drain() error {
	for len(p.ring.toDev) > 0 {
		time.Sleep(time.Millisecond)
	}
	return nil
}

func (p *PortAudioMono) Close() error {
	p.ring.close()
	if err := p.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

func portAudioDeviceByName(name string, dir Direction) (*portaudio.DeviceInfo, error) {
	if name == "" {
		if dir == Capture {
			return portaudio.DefaultInputDevice()
		}
		return portaudio.DefaultOutputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, ErrDeviceIndex
}
