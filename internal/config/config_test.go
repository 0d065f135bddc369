package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "radae-decoder.conf")

	want := Config{
		InputDevice:    "hw:1,0",
		OutputDevice:   "hw:0,0",
		TxInputDevice:  "hw:2,0",
		TxOutputDevice: "hw:3,0",
		Callsign:       "W1AW",
		Gridsquare:     "FN31",
		MicGain:        1.5,
		TxScale:        24000,
		BPFEnabled:     true,
		LogLevel:       "debug",
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.InputDevice != want.InputDevice || got.OutputDevice != want.OutputDevice ||
		got.TxInputDevice != want.TxInputDevice || got.TxOutputDevice != want.TxOutputDevice ||
		got.Callsign != want.Callsign || got.Gridsquare != want.Gridsquare ||
		got.BPFEnabled != want.BPFEnabled || got.LogLevel != want.LogLevel {
		t.Errorf("got %+v, want %+v", got, want)
	}
	// tx_level/mic_level round-trip through an integer percentage, so
	// the raw values only need to survive to the nearest 1%.
	if d := got.TxScale - want.TxScale; d > 400 || d < -400 {
		t.Errorf("got TxScale %v, want near %v", got.TxScale, want.TxScale)
	}
	if d := got.MicGain - want.MicGain; d > 0.02 || d < -0.02 {
		t.Errorf("got MicGain %v, want near %v", got.MicGain, want.MicGain)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	got, err := Load(filepath.Join(dir, "missing.conf"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if got.MicGain != want.MicGain || got.TxScale != want.TxScale || got.LogLevel != want.LogLevel {
		t.Errorf("got %+v, want defaults %+v", got, want)
	}
}

func TestLoadIgnoresCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "radae-decoder.conf")
	content := "# comment\n\ncallsign=KK7ABC\n"
	if err := writeFile(path, content); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Callsign != "KK7ABC" {
		t.Errorf("got callsign %q, want KK7ABC", got.Callsign)
	}
}

func TestSaveLoadPreservesUnknownLinesVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "radae-decoder.conf")
	content := "# a future GUI's private key\nfuture_key=some_value\n\ncallsign=KK7ABC\n"
	if err := writeFile(path, content); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Callsign = "W1AW"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(raw)
	for _, want := range []string{"# a future GUI's private key", "future_key=some_value", "callsign=W1AW"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected saved file to contain %q, got:\n%s", want, got)
		}
	}
}

func TestTxLevelAndMicLevelPercentConversion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "radae-decoder.conf")
	content := "tx_level=100\nmic_level=0\n"
	if err := writeFile(path, content); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TxScale != txScaleFullPct {
		t.Errorf("got TxScale %v, want %v", got.TxScale, txScaleFullPct)
	}
	if got.MicGain != 0 {
		t.Errorf("got MicGain %v, want 0", got.MicGain)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
