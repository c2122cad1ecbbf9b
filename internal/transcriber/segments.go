package transcriber

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

type segmentPayload struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
}

type transcriptPayload struct {
	Language string           `json:"language"`
	Segments []segmentPayload `json:"segments"`
}

// parseSegments accepts {"segments": [...]} or a bare array of segments and numbers
// them in (start, end) order.
func parseSegments(data []byte, sampleRate int) ([]models.RawSegment, error) {
	data = bytes.TrimSpace(stripCodeFence(data))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty transcript")
	}

	var segments []segmentPayload
	if data[0] == '[' {
		if err := json.Unmarshal(data, &segments); err != nil {
			return nil, fmt.Errorf("decode segments: %w", err)
		}
	} else {
		var payload transcriptPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		segments = payload.Segments
	}

	for i := range segments {
		if segments[i].Start < 0 {
			segments[i].Start = 0
		}
		if segments[i].End < segments[i].Start {
			segments[i].End = segments[i].Start
		}
	}
	// Indices name the artifacts, so they must follow the timeline.
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].Start != segments[j].Start {
			return segments[i].Start < segments[j].Start
		}
		return segments[i].End < segments[j].End
	})

	out := make([]models.RawSegment, 0, len(segments))
	for i, s := range segments {
		out = append(out, models.RawSegment{
			Index:         i,
			RelativeStart: s.Start,
			RelativeEnd:   s.End,
			Text:          strings.TrimSpace(s.Text),
			SpeakerTag:    s.Speaker,
			SampleRate:    sampleRate,
		})
	}
	return out, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add around JSON.
func stripCodeFence(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "```") {
		return data
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(s)
}
