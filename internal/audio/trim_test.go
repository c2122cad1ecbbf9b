package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(n int, amplitude float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return out
}

func TestNonSilentInterval(t *testing.T) {
	const rate = 16000
	var samples []float32
	samples = append(samples, make([]float32, rate)...)
	samples = append(samples, tone(2*rate, 0.5)...)
	samples = append(samples, make([]float32, rate)...)

	iv, ok := NonSilentInterval(samples, DefaultTopDB)
	require.True(t, ok)

	assert.LessOrEqual(t, iv.Start, rate)
	assert.GreaterOrEqual(t, iv.Start, rate-frameLength)
	assert.GreaterOrEqual(t, iv.End, 3*rate)
	assert.LessOrEqual(t, iv.End, 3*rate+frameLength)
	assert.Zero(t, iv.Start%hopLength)
}

func TestNonSilentIntervalFullSignal(t *testing.T) {
	samples := tone(10000, 0.3)
	iv, ok := NonSilentInterval(samples, DefaultTopDB)
	require.True(t, ok)
	assert.Equal(t, 0, iv.Start)
	assert.Equal(t, len(samples), iv.End)
}

func TestNonSilentIntervalSilent(t *testing.T) {
	_, ok := NonSilentInterval(make([]float32, 5000), DefaultTopDB)
	assert.False(t, ok)

	_, ok = NonSilentInterval(nil, DefaultTopDB)
	assert.False(t, ok)
}

func TestLoadTrimsLeadingSilence(t *testing.T) {
	const rate = 16000
	samples := append(make([]float32, 5*rate), tone(rate, 0.8)...)

	a, err := Load("late start", samples, rate, 0)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, a.StartOffset(), float64(frameLength)/rate)
	assert.InDelta(t, 0.0, a.EndOffset(), 1e-9)
}
