package device

import (
	"time"

	"github.com/xsjk/go-asio"
)

// ASIOMono drives a single input/output channel pair of an ASIO device,
// grounded on the teacher's ASIOMono wrapper. ASIO delivers left-justified
// 32-bit samples regardless of bit depth; the callback installed by Start
// truncates captured samples to S16 by taking the high 16 bits, and
// shifts queued playback samples back up by 16 bits on the way to the
// driver.
type ASIOMono struct {
	DeviceName string
	InChannel  int
	OutChannel int

	device asio.Device
	ring   *ringAdapter
}

func (a *ASIOMono) Open(deviceID string, dir Direction, channels, sampleRate, framesPerBuffer int) error {
	if deviceID != "" {
		a.DeviceName = deviceID
	}
	a.ring = newRingAdapter(framesPerBuffer * 16)
	if err := a.device.Load(a.DeviceName); err != nil {
		return err
	}
	a.device.SetSampleRate(float64(sampleRate))
	return a.device.Open()
}

func (a *ASIOMono) Start() error {
	return a.device.Start(func(in, out [][]int32) {
		inCh := in[a.InChannel]
		frames := make([]int16, len(inCh))
		for i, v := range inCh {
			frames[i] = int16(v >> 16)
		}
		a.ring.captured(frames)

		outCh := out[a.OutChannel]
		frames16 := make([]int16, len(outCh))
		a.ring.playback(frames16)
		for i, v := range frames16 {
			outCh[i] = int32(v) << 16
		}
	})
}

func (a *ASIOMono) Stop() error {
	return a.device.Stop()
}

func (a *ASIOMono) Read(buf []int16) (int, error) {
	return a.ring.Read(buf)
}

func (a *ASIOMono) Write(buf []int16) (int, error) {
	return a.ring.Write(buf)
}

// InterruptRead unblocks a pending Read without stopping the ASIO
// device, so it can be Start-ed again after a Stop.
func (a *ASIOMono) InterruptRead() {
	a.ring.interruptRead()
}

func (a *ASIOMono) Drain() error {
	for len(a.ring.toDev) > 0 {
		time.Sleep(time.Millisecond)
	}
	return nil
}

func (a *ASIOMono) Close() error {
	a.ring.close()
	if err := a.device.Close(); err != nil {
		return err
	}
	return a.device.Unload()
}
