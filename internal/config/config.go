// Package config persists the operator's last-used settings (device
// selection, callsign, gains) across runs, in a simple key=value text
// format read and written line by line — the same line-oriented style
// as xsjk-Aethernet's ReadTxt/WriteTxt helpers (internel/utils/file.go),
// generalized from per-line typed values to named fields since Config
// is a fixed struct rather than a homogeneous slice.
//
// The on-disk keys follow §6.1: input/output name the RX capture and
// playback devices, tx_input/tx_output the TX microphone and radio
// devices, tx_level and mic_level are operator-facing 0-100 percentages
// rather than raw scale factors, and any line Load doesn't recognize
// (comments, blank lines, keys from a newer build) is preserved
// verbatim so Save never silently discards operator or tooling state it
// doesn't understand.
package config

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the persisted settings a GUI or CLI front-end restores
// on startup and saves on exit.
type Config struct {
	InputDevice    string
	OutputDevice   string
	TxInputDevice  string
	TxOutputDevice string
	Callsign       string
	Gridsquare     string
	MicGain        float64 // multiplier applied to TX mic samples; see mic_level in Load/fields
	TxScale        float64 // scale applied to TX modulated output; see tx_level in Load/fields
	BPFEnabled     bool
	LogLevel       string

	// lines and lineIdx hold the raw file as last loaded (or the
	// zero value before any Load), so Save can round-trip comments,
	// blank lines, and unrecognized keys verbatim instead of
	// reconstructing the file purely from the typed fields above.
	lines   []string
	lineIdx map[string]int
}

// txScaleFullPct is the raw TxScale value a tx_level of 100 maps to,
// per §6.1's pct/100*32767.
const txScaleFullPct = 32767.0

// micGainFullPct is the raw MicGain value a mic_level of 100 maps to,
// per §6.1's pct/100*2.0.
const micGainFullPct = 2.0

// Default returns the settings a fresh install starts with: tx_level
// and mic_level both at 50%, i.e. MicGain 1.0 (equal to
// txpipeline.DefaultMicGain) and TxScale 16383.5 (within one count of
// txpipeline.DefaultTxScale, 16384).
func Default() Config {
	return Config{
		MicGain:  0.5 * micGainFullPct,
		TxScale:  0.5 * txScaleFullPct,
		LogLevel: "info",
	}
}

// Path returns the default config file location, $HOME/.config/radae-decoder.conf.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %v", err)
	}
	return filepath.Join(home, ".config", "radae-decoder.conf"), nil
}

// Load reads Config from path, starting from Default() so an absent or
// partial file still yields usable settings. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	cfg.lineIdx = make(map[string]int)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			cfg.lines = append(cfg.lines, raw)
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			cfg.lines = append(cfg.lines, raw)
			continue
		}
		key = strings.TrimSpace(key)
		applyField(&cfg, key, strings.TrimSpace(value))
		cfg.lineIdx[key] = len(cfg.lines)
		cfg.lines = append(cfg.lines, raw)
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("failed to read file: %v", err)
	}

	return cfg, nil
}

func applyField(cfg *Config, key, value string) {
	switch key {
	case "input":
		cfg.InputDevice = value
	case "output":
		cfg.OutputDevice = value
	case "tx_input":
		cfg.TxInputDevice = value
	case "tx_output":
		cfg.TxOutputDevice = value
	case "callsign":
		cfg.Callsign = value
	case "gridsquare":
		cfg.Gridsquare = value
	case "tx_level":
		if pct, err := strconv.Atoi(value); err == nil {
			cfg.TxScale = float64(pct) / 100 * txScaleFullPct
		}
	case "mic_level":
		if pct, err := strconv.Atoi(value); err == nil {
			cfg.MicGain = float64(pct) / 100 * micGainFullPct
		}
	case "bpf_enabled":
		cfg.BPFEnabled = value == "1" || value == "true"
	case "log_level":
		cfg.LogLevel = value
	}
}

// pctOf converts a raw value back to its 0-100 operator-facing
// percentage given the raw value a 100% setting maps to, rounding to
// the nearest integer and clamping to [0, 100] so a config hand-edited
// or driven out of range by SetMicGain/SetTxScale still saves a valid
// percentage.
func pctOf(raw, full float64) int {
	pct := int(math.Round(raw / full * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// boolDigit renders b the way §6.1 writes bpf_enabled: "1" or "0".
func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// fields returns cfg's typed settings as the values of the keys §6.1
// expects, keyed by key name; the map carries no order, so Save takes
// its key order from fieldOrder.
func (cfg Config) fields() map[string]string {
	return map[string]string{
		"input":       cfg.InputDevice,
		"output":      cfg.OutputDevice,
		"tx_input":    cfg.TxInputDevice,
		"tx_output":   cfg.TxOutputDevice,
		"callsign":    cfg.Callsign,
		"gridsquare":  cfg.Gridsquare,
		"tx_level":    strconv.Itoa(pctOf(cfg.TxScale, txScaleFullPct)),
		"mic_level":   strconv.Itoa(pctOf(cfg.MicGain, micGainFullPct)),
		"bpf_enabled": boolDigit(cfg.BPFEnabled),
		"log_level":   cfg.LogLevel,
	}
}

// fieldOrder fixes the key order Save uses when writing a config that
// was never previously Load-ed (so a fresh file is stable and
// reviewable rather than depending on map iteration order).
var fieldOrder = []string{
	"input", "output", "tx_input", "tx_output",
	"tx_level", "mic_level", "bpf_enabled",
	"callsign", "gridsquare", "log_level",
}

// Save writes cfg to path as key=value lines, creating parent
// directories as needed. If cfg was produced by Load, every
// unrecognized line from that file — comments, blank lines, keys this
// build doesn't know about — is preserved verbatim in its original
// position; only the lines holding this package's own keys are
// rewritten with cfg's current values.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	fields := cfg.fields()
	out := make([]string, len(cfg.lines))
	copy(out, cfg.lines)

	written := make(map[string]bool, len(fields))
	for key, idx := range cfg.lineIdx {
		value, ok := fields[key]
		if !ok {
			continue
		}
		out[idx] = key + "=" + value
		written[key] = true
	}
	for _, key := range fieldOrder {
		if written[key] {
			continue
		}
		out = append(out, key+"="+fields[key])
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	for _, line := range out {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return fmt.Errorf("failed to write file: %v", err)
		}
	}
	return nil
}
