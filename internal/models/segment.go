package models

import (
	"strconv"
	"strings"
)

// NoSpeaker marks a segment without a usable speaker tag.
const NoSpeaker = -1

// RawSegment is a transcriber output with times relative to the trimmed audio.
type RawSegment struct {
	Index         int
	RelativeStart float64
	RelativeEnd   float64
	Text          string
	SpeakerTag    string
	SampleRate    int
}

// Segment is a RawSegment placed on the original audio timeline and named for persistence.
type Segment struct {
	RawSegment

	AbsoluteStart float64
	AbsoluteEnd   float64
	SpeakerID     int

	ArtifactName      string
	AudioPath         string
	TextPath          string
	RelativeAudioPath string
	RelativeTextPath  string

	Frames          int
	DurationSeconds int
}

// SpeakerIDFromTag extracts the numeric id from tags like "SPEAKER_01".
func SpeakerIDFromTag(tag string) int {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return NoSpeaker
	}
	if i := strings.LastIndex(tag, "_"); i >= 0 {
		tag = tag[i+1:]
	}
	id, err := strconv.Atoi(tag)
	if err != nil || id < 0 {
		return NoSpeaker
	}
	return id
}
