package audio

import "math"

const (
	// DefaultTopDB is the threshold below the loudest frame under which audio counts as silence.
	DefaultTopDB = 20.0

	frameLength = 2048
	hopLength   = 512
)

// NonSilentInterval finds the first and last non-silent samples.
//
// Frames of frameLength samples are centered every hopLength samples (zero padded at
// the edges). A frame is non-silent when its RMS is within topDB of the loudest frame.
// The interval runs from the first non-silent frame's start to the end of the last one.
// ok is false when every frame is silent.
func NonSilentInterval(samples []float32, topDB float64) (iv Interval, ok bool) {
	n := len(samples)
	if n == 0 {
		return Interval{}, false
	}
	if topDB <= 0 {
		topDB = DefaultTopDB
	}

	// prefix[i] holds the energy of samples[:i].
	prefix := make([]float64, n+1)
	for i, s := range samples {
		v := float64(s)
		prefix[i+1] = prefix[i] + v*v
	}

	frames := 1 + n/hopLength
	rms := make([]float64, frames)
	var peak float64
	for f := range rms {
		center := f * hopLength
		lo := max(center-frameLength/2, 0)
		hi := min(center+frameLength/2, n)
		energy := 0.0
		if hi > lo {
			energy = prefix[hi] - prefix[lo]
		}
		rms[f] = math.Sqrt(math.Max(energy, 0) / frameLength)
		peak = math.Max(peak, rms[f])
	}
	if peak == 0 {
		return Interval{}, false
	}

	threshold := peak * math.Pow(10, -topDB/20)
	first, last := -1, -1
	for f, v := range rms {
		if v > threshold {
			if first < 0 {
				first = f
			}
			last = f
		}
	}
	if first < 0 {
		return Interval{}, false
	}

	return Interval{
		Start: min(first*hopLength, n),
		End:   min((last+1)*hopLength, n),
	}, true
}
