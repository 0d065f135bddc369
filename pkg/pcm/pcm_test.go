package pcm

import "testing"

func TestToFloat32RoundTrip(t *testing.T) {
	in := []int16{0, 16384, -16384, 32767, -32768}
	f := ToFloat32(in)
	out := FromFloat32Round(f, 32768)
	for i := range in {
		diff := int(in[i]) - int(out[i])
		if diff > 1 || diff < -1 {
			t.Errorf("sample %d: %d round-tripped to %d", i, in[i], out[i])
		}
	}
}

func TestFromFloat32RoundClamps(t *testing.T) {
	out := FromFloat32Round([]float32{2.0, -2.0}, 32768)
	if out[0] != 32767 || out[1] != -32767 {
		t.Errorf("expected clamping to +/-32767, got %v", out)
	}
}

func TestFromFloat32TruncVsRound(t *testing.T) {
	// 0.5 LSB above an integer: rounds up, truncates down.
	v := []float32{(1000.5) / 32768.0}
	rounded := FromFloat32Round(v, 32768)
	truncated := FromFloat32Trunc(v, 32768)
	if rounded[0] != 1001 {
		t.Errorf("expected round to 1001, got %d", rounded[0])
	}
	if truncated[0] != 1000 {
		t.Errorf("expected truncate to 1000, got %d", truncated[0])
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Errorf("RMS of empty signal: got %f", got)
	}
	if got := RMS([]float32{1, -1, 1, -1}); got != 1 {
		t.Errorf("RMS of unit square wave: got %f, want 1", got)
	}
}
