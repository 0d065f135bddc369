package callsign

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const floatCount = 224 // matches a plausible rade_n_eoo_bits(dv)
	syms := Encode("W1AW", floatCount)

	got, ok := Decode(syms, floatCount/2)
	if !ok {
		t.Fatalf("decode failed on a clean encode")
	}
	if got != "W1AW" {
		t.Errorf("got %q, want %q", got, "W1AW")
	}
}

func TestEncodeTruncatesLongCallsigns(t *testing.T) {
	syms := Encode("TOOLONGCALLSIGN", 224)
	got, ok := Decode(syms, 112)
	if !ok {
		t.Fatalf("decode failed")
	}
	if len(got) > MaxLength {
		t.Errorf("expected truncation to %d chars, got %q", MaxLength, got)
	}
}

func TestDecodeRejectsNoise(t *testing.T) {
	noise := make([]float32, 224)
	for i := range noise {
		noise[i] = 0.01 * float32(i%7-3)
	}
	if _, ok := Decode(noise, 112); ok {
		t.Errorf("expected decode of near-zero noise to fail CRC/BER checks")
	}
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	if _, ok := Decode(make([]float32, 4), 2); ok {
		t.Errorf("expected decode of too-short buffer to fail")
	}
}
