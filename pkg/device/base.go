// Package device provides a blocking, mono, S16LE audio transport
// abstraction shared by the RX and TX pipelines. Three interchangeable
// backends exist — Loopback (in-process, for tests), PortAudio and ASIO
// (both cgo-bound hardware backends) — behind the same Device interface,
// plus FileSource, a capture-only Device that replays a WAV file.
package device

import "errors"

// Direction selects whether a Device is opened for capture or playback.
type Direction int

const (
	Capture Direction = iota
	Playback
)

// ErrOverflow is returned by Read to report a non-fatal capture overflow:
// data is still delivered, but some input may have been dropped upstream.
var ErrOverflow = errors.New("device: input overflow")

// ErrClosed is returned by Read/Write after Close, and by a Read that
// InterruptRead unblocks. FileSource differs: its Read returns
// ErrClosed once the file is exhausted and ErrNotOpen after Close.
var ErrClosed = errors.New("device: closed")

// ErrNotOpen is returned before Open by the in-process backends'
// Start, Stop and Read (and Loopback's Write); their Drain and Close
// return nil before Open.
var ErrNotOpen = errors.New("device: not open")

// ErrDeviceIndex is returned by Open when deviceID does not name a
// device the backend can find.
var ErrDeviceIndex = errors.New("device: no such device")

// Device is a blocking, mono, S16LE audio transport. Read and Write block
// until frames are available or room exists; Read's count, err result
// reports ErrOverflow as a non-fatal condition alongside delivered data.
type Device interface {
	// Open prepares the device for the given direction at the requested
	// sample rate, arranging for reads/writes to proceed in chunks of
	// framesPerBuffer frames where the backend allows it.
	Open(deviceID string, dir Direction, channels, sampleRate, framesPerBuffer int) error

	// Read blocks until len(buf) frames are available, converts and
	// copies them into buf, and returns the frame count read.
	Read(buf []int16) (int, error)

	// Write blocks until len(buf) frames have been accepted by the
	// playback buffer.
	Write(buf []int16) (int, error)

	Start() error
	Stop() error

	// Drain blocks until all pending playback data has been played out.
	Drain() error

	Close() error
}

// BufferSize is the default chunk size used by in-process test backends.
const BufferSize = 512

// Interrupter is implemented by Device backends that can unblock a
// pending Read without tearing down the underlying stream — a
// controller calls InterruptRead when stopping a pipeline so the
// device can later be Start-ed again, instead of calling Close, which
// destroys the stream (and, for PortAudio, the whole process-wide
// session) permanently.
type Interrupter interface {
	InterruptRead()
}
