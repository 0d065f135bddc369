// Package telemetry provides the lock-free atomics both pipelines
// publish their state through and the controller/UI polls at a fixed
// cadence, per the relaxed-ordering policy of §5's concurrency model:
// readers may observe a few milliseconds of staleness and values from
// different atomics are not jointly consistent, which is acceptable
// since the UI re-reads every ~33 ms.
package telemetry

import (
	"math"
	"sync/atomic"
)

// Float32 is a lock-free float32 built on atomic.Uint32, the Go
// equivalent of the source's std::atomic<float>.
type Float32 struct {
	bits atomic.Uint32
}

// Load returns the current value.
func (f *Float32) Load() float32 {
	return math.Float32frombits(f.bits.Load())
}

// Store sets the current value.
func (f *Float32) Store(v float32) {
	f.bits.Store(math.Float32bits(v))
}

// Snapshot is a point-in-time copy of one pipeline's published state,
// read for the UI/diagnostics without holding any lock.
type Snapshot struct {
	Running     bool
	Synced      bool
	SNRdB       float32
	FreqOffset  float32
	InputLevel  float32
	OutputLevel float32
}

// State groups every atomic a worker goroutine publishes and a
// controller/UI goroutine polls, shared by both the RX and TX
// pipelines.
type State struct {
	Running     atomic.Bool
	Synced      atomic.Bool
	SNRdB       Float32
	FreqOffset  Float32
	InputLevel  Float32
	OutputLevel Float32
}

// Snapshot copies every field without locking, matching the "separate
// atomics are not jointly consistent" guarantee.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Running:     s.Running.Load(),
		Synced:      s.Synced.Load(),
		SNRdB:       s.SNRdB.Load(),
		FreqOffset:  s.FreqOffset.Load(),
		InputLevel:  s.InputLevel.Load(),
		OutputLevel: s.OutputLevel.Load(),
	}
}
