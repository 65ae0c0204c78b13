// Package term provides color state, terminal detection, and the interactive
// confirmation prompt.
//
// Color output goes through fatih/color. [Configure] sets color.NoColor once
// during startup; every package that prints colored text then follows it.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/backmassage/photodater/internal/config"
)

// Palette used by logging and display. Each is a printf-style colorizer that
// returns the input unchanged when colors are disabled.
var (
	Red     = color.New(color.FgHiRed, color.Bold).SprintFunc()
	Green   = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	Yellow  = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	Blue    = color.New(color.FgHiBlue, color.Bold).SprintFunc()
	Cyan    = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	Magenta = color.New(color.FgHiMagenta, color.Bold).SprintFunc()
)

// Configure resolves the color mode and toggles color output globally.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	color.NoColor = !resolve(mode)
}

// Enabled reports whether colors are currently active.
func Enabled() bool { return !color.NoColor }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Confirmer asks the operator to approve a mutating run.
type Confirmer interface {
	Confirm(question string) bool
}

// Prompt is a Confirmer reading answers line by line from In.
type Prompt struct {
	In  io.Reader
	Out io.Writer

	r *bufio.Reader
}

// NewPrompt returns a Prompt on stdin/stdout.
func NewPrompt() *Prompt {
	return &Prompt{In: os.Stdin, Out: os.Stdout}
}

// Confirm prints question followed by "Proceed? [yes|no]" and returns true
// only for "y" or "yes" (case-insensitive). EOF counts as no, so piping
// `yes` into the tool works and a closed stdin never approves.
func (p *Prompt) Confirm(question string) bool {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}
	fmt.Fprintf(p.Out, "%s\nProceed? [yes|no]\n", question)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// AutoConfirm approves every question. Used for --yes.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string) bool { return true }
