//go:build radaesim

package radaecodec

// LPCNetEncoder is the radaesim stand-in for the LPCNet feature
// extractor: it reports a feature vector derived from the input
// frame's mean-square level, enough to drive the TX pipeline's feature
// accumulation and rade_tx cadence without the proprietary model.
type LPCNetEncoder struct{}

func NewLPCNetEncoder() (*LPCNetEncoder, error) {
	return &LPCNetEncoder{}, nil
}

func (e *LPCNetEncoder) Close() {}

func (e *LPCNetEncoder) ComputeFrameFeatures(pcm []int16, out []float32) {
	var sum float64
	for _, s := range pcm {
		sum += float64(s) * float64(s)
	}
	level := float32(0)
	if len(pcm) > 0 {
		level = float32(sum / float64(len(pcm)))
	}
	n := NFeaturesPerFrame
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = level / 1e6
	}
}
