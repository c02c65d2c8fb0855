package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows how many outcomes of a run have been reported
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a new progress bar. A non-positive count gives a
// spinner, used when the number of tests is not known up front.
func NewProgressBar(count int) *ProgressBar {
	if count <= 0 {
		count = -1
	}
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(
			color.CyanString("Reporting outcomes: ")+
				color.GreenString("[passed: 0")+
				" | "+
				color.RedString("failed: 0]"),
		),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Update sets the bar to the number of outcomes seen so far
func (p *ProgressBar) Update(passed, failed, total int) {
	p.bar.Set(total)
	p.bar.Describe(
		color.CyanString("Reporting outcomes: ") +
			color.GreenString("[passed: %d", passed) +
			" | " +
			color.RedString("failed: %d]", failed),
	)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}
