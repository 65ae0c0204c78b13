// Package progress draws a per-stage progress bar. The bar is redrawn only
// when the whole-number percentage changes.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/photodater/internal/term"
)

// Reporter tracks progress through a batch of files. A nil *Reporter is valid
// and does nothing.
type Reporter struct {
	bar         *progressbar.ProgressBar
	total       int
	done        int
	lastPercent int
}

// New returns a Reporter drawing to w. When enabled is false the Reporter
// still counts but never draws.
func New(w io.Writer, label string, total int, enabled bool) *Reporter {
	r := &Reporter{total: total, lastPercent: -1}
	if enabled && total > 0 {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

// ForStage returns a Reporter on stdout that draws only when stdout is a
// terminal and verbose logging is off (log lines would tear the bar).
func ForStage(label string, total int, verbose bool) *Reporter {
	return New(os.Stdout, label, total, !verbose && term.IsTerminal(os.Stdout))
}

// Step advances the count by n.
func (r *Reporter) Step(n int) {
	if r == nil {
		return
	}
	r.done += n
	if r.done > r.total {
		r.done = r.total
	}
	p := r.Percent()
	if p == r.lastPercent {
		return
	}
	r.lastPercent = p
	if r.bar != nil {
		_ = r.bar.Set(r.done)
	}
}

// Percent returns the completed share as a whole number 0-100.
func (r *Reporter) Percent() int {
	if r == nil || r.total <= 0 {
		return 100
	}
	return r.done * 100 / r.total
}

// Finish completes and clears the bar.
func (r *Reporter) Finish() {
	if r == nil || r.bar == nil {
		return
	}
	_ = r.bar.Finish()
}
