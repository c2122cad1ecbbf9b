package persistence

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

const manifestName = "summary.csv"

// layout places the local artifacts of one audio under root/<name>.
type layout struct {
	root   string
	name   string
	format string
}

func (l layout) dir() string { return filepath.Join(l.root, l.name) }
func (l layout) audioDir() string { return filepath.Join(l.dir(), "audios") }
func (l layout) textDir() string { return filepath.Join(l.dir(), "texts") }
func (l layout) manifest() string { return filepath.Join(l.dir(), manifestName) }

// ArtifactName names the files of a segment: index, audio name and absolute times.
func ArtifactName(index int, audioName string, absStart, absEnd float64) string {
	sanitized := strings.ReplaceAll(filepath.Base(audioName), " ", "_")
	return fmt.Sprintf("%04d_%s_%.2f_%.2f", index, sanitized, absStart, absEnd)
}

// buildSegment places raw on the original timeline of a and names its artifacts.
func buildSegment(a *audio.Audio, raw models.RawSegment, l layout) models.Segment {
	absStart := a.Absolute(raw.RelativeStart)
	absEnd := a.Absolute(raw.RelativeEnd)
	rate := a.SampleRate()
	if raw.SampleRate == 0 {
		raw.SampleRate = rate
	}

	name := ArtifactName(raw.Index, a.Name, absStart, absEnd)
	audioFile := name + "." + l.format
	textFile := name + ".txt"

	return models.Segment{
		RawSegment:        raw,
		AbsoluteStart:     absStart,
		AbsoluteEnd:       absEnd,
		SpeakerID:         models.SpeakerIDFromTag(raw.SpeakerTag),
		ArtifactName:      name,
		AudioPath:         filepath.Join(l.audioDir(), audioFile),
		TextPath:          filepath.Join(l.textDir(), textFile),
		RelativeAudioPath: path.Join(l.name, "audios", audioFile),
		RelativeTextPath:  path.Join(l.name, "texts", textFile),
		Frames:            int((absEnd - absStart) * float64(rate)),
		DurationSeconds:   int(absEnd - absStart),
	}
}

// orderSegments returns a copy sorted by relative start, then index.
func orderSegments(raws []models.RawSegment) []models.RawSegment {
	out := make([]models.RawSegment, len(raws))
	copy(out, raws)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RelativeStart != out[j].RelativeStart {
			return out[i].RelativeStart < out[j].RelativeStart
		}
		return out[i].Index < out[j].Index
	})
	return out
}
