//go:build radaesim

package radaecodec

import "testing"

func TestReceiverSyncsAfterSettling(t *testing.T) {
	r, err := OpenReceiver()
	if err != nil {
		t.Fatalf("OpenReceiver: %v", err)
	}
	defer r.Close()

	iq := make([]complex64, r.Nin())
	for i := range iq {
		iq[i] = complex(0.5, 0.0)
	}
	features := make([]float32, r.NFeaturesOut())
	eoo := make([]float32, r.NEooBits())

	for i := 0; i < 5; i++ {
		r.Process(iq, features, eoo)
	}
	if !r.Synced() {
		t.Errorf("expected receiver to report sync after settling on a steady tone")
	}
}

func TestReceiverNoSyncOnSilence(t *testing.T) {
	r, _ := OpenReceiver()
	defer r.Close()

	iq := make([]complex64, r.Nin())
	features := make([]float32, r.NFeaturesOut())
	eoo := make([]float32, r.NEooBits())
	for i := 0; i < 5; i++ {
		r.Process(iq, features, eoo)
	}
	if r.Synced() {
		t.Errorf("expected no sync on silence")
	}
}

func TestTransmitterProducesFixedFrameLength(t *testing.T) {
	tx, err := OpenTransmitter()
	if err != nil {
		t.Fatalf("OpenTransmitter: %v", err)
	}
	defer tx.Close()

	features := make([]float32, tx.NFeaturesIn())
	out := make([]complex64, tx.NTxOut())
	n := tx.Process(features, out)
	if n != tx.NTxOut() {
		t.Errorf("got %d samples, want %d", n, tx.NTxOut())
	}
}

func TestFarganWarmupThenSynthesize(t *testing.T) {
	f := NewFarganState()
	f.Continue(make([]float32, 5*20))
	out := f.Synthesize(make([]float32, NFeaturesPerFrame))
	if len(out) != LPCNetFrameSize {
		t.Errorf("got %d samples, want %d", len(out), LPCNetFrameSize)
	}
}

func TestLPCNetEncoderFeaturesScaleWithLevel(t *testing.T) {
	enc, err := NewLPCNetEncoder()
	if err != nil {
		t.Fatalf("NewLPCNetEncoder: %v", err)
	}
	defer enc.Close()

	quiet := make([]int16, LPCNetFrameSize)
	loud := make([]int16, LPCNetFrameSize)
	for i := range loud {
		loud[i] = 10000
	}

	quietFeat := make([]float32, NFeaturesPerFrame)
	loudFeat := make([]float32, NFeaturesPerFrame)
	enc.ComputeFrameFeatures(quiet, quietFeat)
	enc.ComputeFrameFeatures(loud, loudFeat)

	if loudFeat[0] <= quietFeat[0] {
		t.Errorf("expected louder frame to produce a larger feature value: quiet=%f loud=%f", quietFeat[0], loudFeat[0])
	}
}

func TestBPFPreservesStateAcrossChunks(t *testing.T) {
	whole := NewBPF(31, 8000, 1500, 2000, 1)
	in := make([]complex64, 200)
	for i := range in {
		in[i] = complex(float32(i%5), 0)
	}
	outWhole := whole.Process(in)

	chunked := NewBPF(31, 8000, 1500, 2000, 1)
	outChunked := make([]complex64, 0, len(in))
	for i := 0; i < len(in); i += 17 {
		end := i + 17
		if end > len(in) {
			end = len(in)
		}
		outChunked = append(outChunked, chunked.Process(in[i:end])...)
	}

	for i := range outWhole {
		if outWhole[i] != outChunked[i] {
			t.Errorf("sample %d diverged: whole=%v chunked=%v", i, outWhole[i], outChunked[i])
		}
	}
}
