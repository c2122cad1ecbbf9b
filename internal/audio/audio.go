package audio

import "fmt"

// Interval is a half-open [Start, End) range of sample indices.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of samples in the interval.
func (i Interval) Len() int { return i.End - i.Start }

// Audio is a mono recording together with its non-silent interval.
// It is read-only after construction.
type Audio struct {
	Name string
	// SourceFolderID is the storage folder the recording was listed from.
	SourceFolderID string

	samples    []float32
	sampleRate int
	interval   Interval
}

// New validates and wraps samples. The slice is owned by the returned Audio.
func New(name string, samples []float32, sampleRate int, interval Interval) (*Audio, error) {
	if len(samples) == 0 {
		return nil, &InvalidAudioError{Name: name, Reason: "no samples"}
	}
	if sampleRate <= 0 {
		return nil, &InvalidAudioError{Name: name, Reason: fmt.Sprintf("sample rate %d", sampleRate)}
	}
	if interval.Start < 0 || interval.Start > interval.End || interval.End > len(samples) {
		return nil, &InvalidAudioError{
			Name:   name,
			Reason: fmt.Sprintf("interval [%d, %d) outside [0, %d]", interval.Start, interval.End, len(samples)),
		}
	}

	return &Audio{
		Name:       name,
		samples:    samples,
		sampleRate: sampleRate,
		interval:   interval,
	}, nil
}

// Load wraps samples and computes the non-silent interval at topDB below peak.
func Load(name string, samples []float32, sampleRate int, topDB float64) (*Audio, error) {
	if len(samples) == 0 {
		return nil, &InvalidAudioError{Name: name, Reason: "no samples"}
	}
	iv, ok := NonSilentInterval(samples, topDB)
	if !ok {
		return nil, &InvalidAudioError{Name: name, Reason: "audio is entirely silent"}
	}
	return New(name, samples, sampleRate, iv)
}

func (a *Audio) Samples() []float32 { return a.samples }

func (a *Audio) SampleRate() int { return a.sampleRate }

func (a *Audio) Interval() Interval { return a.interval }

// Duration is the length of the full recording in seconds.
func (a *Audio) Duration() float64 {
	return float64(len(a.samples)) / float64(a.sampleRate)
}

// Trimmed returns the non-silent samples. Callers must not modify the result.
func (a *Audio) Trimmed() []float32 {
	return a.samples[a.interval.Start:a.interval.End]
}

// StartOffset is the silence removed before the interval, in seconds.
func (a *Audio) StartOffset() float64 {
	return float64(a.interval.Start) / float64(a.sampleRate)
}

// EndOffset is the silence removed after the interval, in seconds.
func (a *Audio) EndOffset() float64 {
	return a.Duration() - float64(a.interval.End)/float64(a.sampleRate)
}

// Absolute maps a time relative to the trimmed samples onto the original timeline.
func (a *Audio) Absolute(relative float64) float64 {
	return a.StartOffset() + relative
}

// Slice returns trimmed samples between two relative times, clamped to the interval.
func (a *Audio) Slice(relStart, relEnd float64) []float32 {
	trimmed := a.Trimmed()
	lo := clamp(int(relStart*float64(a.sampleRate)), 0, len(trimmed))
	hi := clamp(int(relEnd*float64(a.sampleRate)), lo, len(trimmed))
	return trimmed[lo:hi]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
