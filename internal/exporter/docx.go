package exporter

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
)

// speakerRunsToDocx writes a transcript with one paragraph per speaker run.
func speakerRunsToDocx(title string, runs []SpeakerRun, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	for _, r := range runs {
		p := doc.AddParagraph("")
		addStyledRun(p, fmt.Sprintf("SPEAKER %d: ", r.SpeakerID), true, fontSize)
		addStyledRun(p, r.Text(), false, fontSize)
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
