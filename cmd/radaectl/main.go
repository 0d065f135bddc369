// Command radaectl is the headless operational front door for the RADAE
// transceiver: it opens one pipeline (RX or TX), starts it against a
// real or loopback audio backend, serves Prometheus metrics, and prints
// telemetry to stderr until interrupted. It is not the windowed UI —
// that is out of scope — but a thin binary in the spirit of
// Aethernet's many small cmd/project*/taskN/node*/main.go entry points,
// each wiring one config plus one device plus one modem.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peterbmarks/radae-decoder/controller"
	"github.com/peterbmarks/radae-decoder/internal/config"
	"github.com/peterbmarks/radae-decoder/internal/logging"
	"github.com/peterbmarks/radae-decoder/internal/metrics"
	"github.com/peterbmarks/radae-decoder/internal/radaecodec"
	"github.com/peterbmarks/radae-decoder/pkg/device"
)

func main() {
	mode := flag.String("mode", "rx", "pipeline to run: rx or tx")
	backend := flag.String("backend", "portaudio", "audio backend: portaudio, asio, or loopback")
	inputDevice := flag.String("input-device", "", "capture device name (empty = system default)")
	outputDevice := flag.String("output-device", "", "playback device name (empty = system default)")
	inputFile := flag.String("input-file", "", "WAV file to replay as the RX capture source instead of a live device (RX mode only)")
	deviceRate := flag.Int("rate", 48000, "audio device sample rate in Hz")
	configPath := flag.String("config", "", "config file path (empty = $HOME/.config/radae-decoder.conf)")
	metricsAddr := flag.String("metrics-addr", ":9091", "address to serve /metrics on (empty = disabled)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (empty = from config)")
	callsign := flag.String("callsign", "", "TX callsign to encode in EOO (empty = from config)")
	micGain := flag.Float64("mic-gain", 0, "TX microphone gain multiplier (0 = from config)")
	txScale := flag.Float64("tx-scale", 0, "TX output scale factor (0 = from config)")
	bpfEnabled := flag.Bool("bpf", false, "enable the TX output bandpass filter")
	record := flag.String("record", "", "WAV file path to record the pipeline's input stream to (empty = disabled)")
	flag.Parse()

	path := *configPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			fmt.Fprintf(os.Stderr, "radaectl: %v\n", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "radaectl: loading config: %v\n", err)
		os.Exit(1)
	}

	var pipelineMode controller.Mode
	switch *mode {
	case "rx":
		pipelineMode = controller.ModeRX
	case "tx":
		pipelineMode = controller.ModeTX
	default:
		fmt.Fprintf(os.Stderr, "radaectl: unknown -mode %q, want rx or tx\n", *mode)
		os.Exit(1)
	}

	if *callsign != "" {
		cfg.Callsign = *callsign
	}
	if *micGain != 0 {
		cfg.MicGain = *micGain
	}
	if *txScale != 0 {
		cfg.TxScale = *txScale
	}
	if *bpfEnabled {
		cfg.BPFEnabled = true
	}
	// §6.1 gives RX and TX independent device slots (input/output vs.
	// tx_input/tx_output); route the shared -input-device/-output-device
	// flags to whichever pair this run's mode actually uses.
	if *inputDevice != "" {
		if pipelineMode == controller.ModeTX {
			cfg.TxInputDevice = *inputDevice
		} else {
			cfg.InputDevice = *inputDevice
		}
	}
	if *outputDevice != "" {
		if pipelineMode == controller.ModeTX {
			cfg.TxOutputDevice = *outputDevice
		} else {
			cfg.OutputDevice = *outputDevice
		}
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logging.Setup(level)

	m := metrics.New()
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server exited", "error", err)
			}
		}()
		log.Info("metrics server listening", "addr", *metricsAddr)
	}

	if *inputFile != "" && pipelineMode != controller.ModeRX {
		fmt.Fprintf(os.Stderr, "radaectl: -input-file is only valid with -mode rx\n")
		os.Exit(1)
	}
	if *inputFile != "" {
		// The file source resamples the WAV once to the modem rate
		// itself (spec §4.7); running the rest of the pipeline at
		// that same rate keeps rxpipeline's own device-rate resample
		// stage a no-op pass-through instead of resampling twice.
		*deviceRate = radaecodec.RadeFS
		log.Info("using WAV file RX source", "path", *inputFile, "rate", *deviceRate)
	}

	capture, playback, err := openAudio(*backend, cfg, pipelineMode, *deviceRate, *inputFile)
	if err != nil {
		log.Error("opening audio devices", "error", err)
		os.Exit(1)
	}

	ctl := controller.New(pipelineMode, cfg, m, logging.Component(*mode))
	if err := ctl.Open(capture, playback, *deviceRate); err != nil {
		log.Error("opening pipeline", "error", err)
		os.Exit(1)
	}

	if *record != "" {
		if err := ctl.AttachRecorder(*record, recorderRate(pipelineMode), 1); err != nil {
			log.Error("attaching recorder", "error", err)
			os.Exit(1)
		}
		log.Info("recording input stream", "path", *record)
	}

	if err := ctl.Start(); err != nil {
		log.Error("starting pipeline", "error", err)
		os.Exit(1)
	}
	log.Info("pipeline running", "mode", *mode, "backend", *backend, "rate", *deviceRate)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()
	printTicker := time.NewTicker(time.Second)
	defer printTicker.Stop()

	for {
		select {
		case <-sigCh:
			log.Info("shutting down")
			if err := ctl.Stop(); err != nil {
				log.Warn("stopping pipeline", "error", err)
			}
			if err := ctl.DetachRecorder(); err != nil {
				log.Warn("closing recorder", "error", err)
			}
			if err := ctl.Close(); err != nil {
				log.Warn("closing pipeline", "error", err)
			}
			if err := config.Save(path, cfg); err != nil {
				log.Warn("saving config", "error", err)
			}
			return
		case <-ticker.C:
			ctl.PushMetrics()
		case <-printTicker.C:
			snap := ctl.State()
			fmt.Fprintf(os.Stderr, "running=%v synced=%v snr=%.1fdB freq_off=%.1fHz in=%.3f out=%.3f\n",
				snap.Running, snap.Synced, snap.SNRdB, snap.FreqOffset, snap.InputLevel, snap.OutputLevel)
			if pipelineMode == controller.ModeRX {
				if cs := ctl.Callsign(); cs != "" {
					fmt.Fprintf(os.Stderr, "callsign=%s\n", cs)
				}
			}
		}
	}
}

// recorderRate returns the sample rate a recorder attached to the given
// pipeline mode should be opened at: the RX pipeline taps its 8 kHz
// modem-rate input, the TX pipeline its 16 kHz mic-rate input.
func recorderRate(mode controller.Mode) int {
	if mode == controller.ModeTX {
		return 16000
	}
	return 8000
}

// openAudio opens the capture and playback streams for the selected
// backend and pipeline mode at deviceRate. The loopback backend exists
// for smoke-testing radaectl itself without real hardware. When
// inputFile is set, the capture side is a device.FileSource replaying
// that WAV file instead of the chosen backend's live capture device
// (spec §4.7's WAV file RX alternative); playback still goes through
// the selected backend so decoded audio is still heard/recorded live.
func openAudio(backend string, cfg config.Config, mode controller.Mode, deviceRate int, inputFile string) (device.Device, device.Device, error) {
	var capture, playback device.Device
	switch backend {
	case "portaudio":
		capture = &device.PortAudioMono{}
		playback = &device.PortAudioMono{}
	case "asio":
		capture = &device.ASIOMono{}
		playback = &device.ASIOMono{}
	case "loopback":
		capture = &device.Loopback{}
		playback = &device.Loopback{}
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
	if inputFile != "" {
		capture = &device.FileSource{}
	}

	framesPerBuffer := 512
	if mode == controller.ModeTX {
		framesPerBuffer = 160
	}

	// §6.1 gives TX its own device slots (tx_input/tx_output) distinct
	// from RX's (input/output), since on a real station the mic/radio
	// pair driving TX is usually not the same interface as RX.
	captureDeviceID, playbackDeviceID := cfg.InputDevice, cfg.OutputDevice
	if mode == controller.ModeTX {
		captureDeviceID, playbackDeviceID = cfg.TxInputDevice, cfg.TxOutputDevice
	}

	captureID := captureDeviceID
	if inputFile != "" {
		captureID = inputFile
	}
	if err := capture.Open(captureID, device.Capture, 1, deviceRate, framesPerBuffer); err != nil {
		return nil, nil, fmt.Errorf("open capture: %w", err)
	}
	if err := playback.Open(playbackDeviceID, device.Playback, 1, deviceRate, framesPerBuffer); err != nil {
		capture.Close()
		return nil, nil, fmt.Errorf("open playback: %w", err)
	}
	return capture, playback, nil
}
