// Package metrics exposes the transceiver's telemetry atomics as
// Prometheus gauges, grounded on madpsy-ka9q_ubersdr's
// promauto.NewGaugeVec registration pattern (prometheus.go).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics mirrors the controller's telemetry atomics as Prometheus
// gauges, labeled by direction so one registry serves both pipelines.
type Metrics struct {
	Running     *prometheus.GaugeVec
	Synced      *prometheus.GaugeVec
	SNRdB       *prometheus.GaugeVec
	FreqOffset  *prometheus.GaugeVec
	InputLevel  *prometheus.GaugeVec
	OutputLevel *prometheus.GaugeVec
	TxScale     prometheus.Gauge
	MicGain     prometheus.Gauge
	BPFEnabled  prometheus.Gauge
}

// New creates and registers the module's Prometheus gauges against the
// default registry.
func New() *Metrics {
	return &Metrics{
		Running: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radae_running",
				Help: "Whether the pipeline's worker goroutine is currently running (1) or stopped (0).",
			},
			[]string{"direction"},
		),
		Synced: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radae_synced",
				Help: "Whether the RX demodulator currently reports frame sync (1) or not (0).",
			},
			[]string{"direction"},
		),
		SNRdB: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radae_snr_db",
				Help: "Demodulator SNR estimate in dB, valid only while synced.",
			},
			[]string{"direction"},
		),
		FreqOffset: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radae_freq_offset_hz",
				Help: "Demodulator carrier frequency offset estimate in Hz.",
			},
			[]string{"direction"},
		),
		InputLevel: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radae_input_level",
				Help: "RMS level of the most recently captured audio block.",
			},
			[]string{"direction"},
		),
		OutputLevel: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radae_output_level",
				Help: "RMS level of the most recently synthesized/modulated audio block.",
			},
			[]string{"direction"},
		),
		TxScale: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "radae_tx_scale",
			Help: "Current TX output scale factor.",
		}),
		MicGain: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "radae_mic_gain",
			Help: "Current microphone gain multiplier.",
		}),
		BPFEnabled: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "radae_bpf_enabled",
			Help: "Whether the TX output bandpass filter is enabled (1) or not (0).",
		}),
	}
}
