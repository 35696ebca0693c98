// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar implements a progress bar over a fixed number of
// episodes that must be manually managed: call Increment after every
// finished episode and Display whenever an updated bar should be
// printed. No concurrency is used.
type ProgressBar struct {
	width     float64
	max       float64
	current   float64
	bar       strings.Builder
	startTime time.Time
}

// New returns a progress bar that is width characters wide and reaches
// 100% after max Increment calls
func New(width, max int) *ProgressBar {
	return &ProgressBar{
		width:     float64(width),
		max:       float64(max),
		startTime: time.Now(),
	}
}

// Increment records one finished episode
func (p *ProgressBar) Increment() {
	if p.current < p.max {
		p.current++
	}
}

// Display redraws the progress bar in place on the current terminal
// line
func (p *ProgressBar) Display() {
	p.bar.Reset()
	p.bar.WriteString("|")

	progress := p.current / p.max * p.width
	for i := 0.0; i < progress; i++ {
		p.bar.WriteString("█")
	}
	for i := progress; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	fmt.Fprintf(&p.bar, "| [episode %v/%v | elapsed: %v]",
		int(p.current), int(p.max),
		time.Since(p.startTime).Truncate(time.Second))

	fmt.Printf("\n\033[1A\033[K%v", p.bar.String())
}

// Finish jumps to the next terminal line once the run is over
func (p *ProgressBar) Finish() {
	fmt.Println()
}
