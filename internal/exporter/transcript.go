package exporter

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// DefaultSpeaker is assigned to a leading segment without speaker.
const DefaultSpeaker = 0

// ConcatenatedText joins segment texts with one space and drops line breaks.
func ConcatenatedText(texts []string) string {
	return strings.ReplaceAll(strings.Join(texts, " "), "\n", "")
}

// SpeakerRun is a maximal sequence of consecutive segments of one speaker.
type SpeakerRun struct {
	SpeakerID int
	Texts     []string
}

func (r SpeakerRun) Text() string { return strings.Join(r.Texts, " ") }

// AttributeSpeakers returns the speaker of each segment. A segment without speaker
// belongs to the previous segment's speaker, or DefaultSpeaker when it leads.
func AttributeSpeakers(segs []models.SegmentRecord) []int {
	out := make([]int, len(segs))
	current := DefaultSpeaker
	for i, s := range segs {
		if s.SpeakerID != nil {
			current = *s.SpeakerID
		}
		out[i] = current
	}
	return out
}

// SpeakerRuns groups segments, in order, into runs. A segment without speaker
// continues the current run.
func SpeakerRuns(segs []models.SegmentRecord) []SpeakerRun {
	var runs []SpeakerRun
	speakers := AttributeSpeakers(segs)
	for i, s := range segs {
		current := speakers[i]
		text := strings.ReplaceAll(s.Text, "\n", " ")
		if i > 0 && runs[len(runs)-1].SpeakerID == current {
			runs[len(runs)-1].Texts = append(runs[len(runs)-1].Texts, text)
			continue
		}
		runs = append(runs, SpeakerRun{SpeakerID: current, Texts: []string{text}})
	}
	return runs
}

// RenderSpeakerRuns formats runs as "SPEAKER n: text" blocks separated by a blank line.
func RenderSpeakerRuns(runs []SpeakerRun) string {
	blocks := make([]string, len(runs))
	for i, r := range runs {
		blocks[i] = fmt.Sprintf("SPEAKER %d: %s", r.SpeakerID, r.Text())
	}
	return strings.Join(blocks, "\n\n")
}
