package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// progressPrinter renders mux progress. On a terminal it draws a live bar;
// otherwise it prints coarse percentage lines so logs stay readable.
type progressPrinter struct {
	out  io.Writer
	bar  *progressbar.ProgressBar
	desc string
	last int
}

func newProgressPrinter(out io.Writer, description string) *progressPrinter {
	p := &progressPrinter{out: out, desc: description, last: -1}
	if isTerminalWriter(out) {
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetWidth(24),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *progressPrinter) Set(percent int) {
	if p.bar != nil {
		_ = p.bar.Set(percent)
		return
	}
	// non-tty output only at 25% steps and completion
	if percent == 100 || (p.last < 0 && percent == 0) || percent/25 > p.last/25 {
		fmt.Fprintf(p.out, "%s: %d%%\n", p.desc, percent)
	}
	p.last = percent
}

func (p *progressPrinter) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
