package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Interval is one annotated span of a tier. Empty Text marks a gap.
type Interval struct {
	Start float64
	End   float64
	Text  string
}

// Tier holds the intervals of one speaker, covering [0, duration] without overlap.
type Tier struct {
	Name      string
	Intervals []Interval
}

// BuildTiers creates one tier per speaker, in order of first appearance. Speakers
// are attributed as in SpeakerRuns. A non-positive duration falls back to the
// latest segment end.
func BuildTiers(segs []models.SegmentRecord, duration float64) ([]Tier, float64) {
	if duration <= 0 {
		for _, s := range segs {
			duration = max(duration, s.EndTime)
		}
	}

	var order []int
	spans := make(map[int][]Interval)
	speakers := AttributeSpeakers(segs)
	for i, s := range segs {
		speaker := speakers[i]
		if _, ok := spans[speaker]; !ok {
			order = append(order, speaker)
			spans[speaker] = nil
		}
		iv := Interval{
			Start: clampTime(s.StartTime, duration),
			End:   clampTime(s.EndTime, duration),
			Text:  strings.TrimSpace(strings.ReplaceAll(s.Text, "\n", " ")),
		}
		if iv.End > iv.Start {
			spans[speaker] = append(spans[speaker], iv)
		}
	}

	tiers := make([]Tier, 0, len(order))
	for _, speaker := range order {
		tiers = append(tiers, Tier{
			Name:      fmt.Sprintf("SPEAKER %d", speaker),
			Intervals: fillGaps(spans[speaker], duration),
		})
	}
	return tiers, duration
}

// fillGaps sorts ivs, trims overlaps and inserts empty intervals so the result
// tiles [0, duration].
func fillGaps(ivs []Interval, duration float64) []Interval {
	sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })

	var out []Interval
	cursor := 0.0
	for _, iv := range ivs {
		if iv.Start < cursor {
			iv.Start = cursor
		}
		if iv.End <= iv.Start {
			continue
		}
		if iv.Start > cursor {
			out = append(out, Interval{Start: cursor, End: iv.Start})
		}
		out = append(out, iv)
		cursor = iv.End
	}
	if cursor < duration {
		out = append(out, Interval{Start: cursor, End: duration})
	}
	return out
}

func clampTime(t, duration float64) float64 {
	return min(max(t, 0), duration)
}

// WriteTextGrid writes tiers in the Praat long TextGrid format.
func WriteTextGrid(w io.Writer, duration float64, tiers []Tier) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "File type = \"ooTextFile\"\nObject class = \"TextGrid\"\n\n")
	fmt.Fprintf(bw, "xmin = 0 \nxmax = %s \ntiers? <exists> \nsize = %d \nitem []: \n", formatTime(duration), len(tiers))

	for i, tier := range tiers {
		fmt.Fprintf(bw, "    item [%d]:\n", i+1)
		fmt.Fprintf(bw, "        class = \"IntervalTier\" \n")
		fmt.Fprintf(bw, "        name = %s \n", quote(tier.Name))
		fmt.Fprintf(bw, "        xmin = 0 \n        xmax = %s \n", formatTime(duration))
		fmt.Fprintf(bw, "        intervals: size = %d \n", len(tier.Intervals))
		for j, iv := range tier.Intervals {
			fmt.Fprintf(bw, "        intervals [%d]:\n", j+1)
			fmt.Fprintf(bw, "            xmin = %s \n", formatTime(iv.Start))
			fmt.Fprintf(bw, "            xmax = %s \n", formatTime(iv.End))
			fmt.Fprintf(bw, "            text = %s \n", quote(iv.Text))
		}
	}
	return bw.Flush()
}

func writeTextGridFile(path string, duration float64, segs []models.SegmentRecord) error {
	tiers, duration := BuildTiers(segs, duration)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTextGrid(f, duration, tiers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatTime(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
