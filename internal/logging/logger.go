// Package logging provides the leveled, optionally colored Logger used by
// every stage. It is a thin layer over logrus: console and log-file output
// are logrus hooks sharing one line format.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/term"
)

// labelKey carries the display label (INFO, SUCCESS, ...) on each entry so
// levels that logrus lacks still render distinctly.
const labelKey = "label"

// Logger provides leveled, optionally colored logging with an optional file sink.
type Logger struct {
	log  *logrus.Logger
	file *os.File
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return newLogger(cfg.LogFile, os.Stdout, os.Stderr, term.Enabled())
}

// NewTo returns a Logger writing to the given streams without touching the
// global color state. Used by tests and by callers that capture output.
func NewTo(stdout, stderr io.Writer) *Logger {
	l, _ := newLogger("", stdout, stderr, false)
	return l
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return NewTo(io.Discard, io.Discard)
}

func newLogger(logFile string, stdout, stderr io.Writer, color bool) (*Logger, error) {
	lr := logrus.New()
	lr.SetOutput(io.Discard)
	lr.SetLevel(logrus.DebugLevel)
	lr.SetFormatter(&lineFormatter{})
	lr.AddHook(&consoleHook{stdout: stdout, stderr: stderr, format: &lineFormatter{color: color}})

	l := &Logger{log: lr}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		lr.AddHook(&writerHook{w: f, format: &lineFormatter{}})
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) with(label string) *logrus.Entry {
	return l.log.WithField(labelKey, label)
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.with("INFO").Info(fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.with("SUCCESS").Info(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.with("WARN").Warn(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red) to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.with("ERROR").Error(fmt.Sprintf(format, args...))
}

// Plan logs a planned filesystem action (magenta). Used for RENAME/MOVE/CREATE lines.
func (l *Logger) Plan(format string, args ...interface{}) {
	l.with("PLAN").Info(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.with("DEBUG").Debug(fmt.Sprintf(format, args...))
}

// lineFormatter renders "2006-01-02 15:04:05 [LEVEL] text".
type lineFormatter struct {
	color bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	label, _ := e.Data[labelKey].(string)
	if label == "" {
		label = "INFO"
	}
	tag := "[" + label + "]"
	if f.color {
		tag = paint(label, tag)
	}
	ts := e.Time.Format("2006-01-02 15:04:05")
	return []byte(ts + " " + tag + " " + e.Message + "\n"), nil
}

func paint(label, s string) string {
	switch label {
	case "ERROR":
		return term.Red(s)
	case "SUCCESS":
		return term.Green(s)
	case "WARN":
		return term.Yellow(s)
	case "DEBUG":
		return term.Cyan(s)
	case "PLAN":
		return term.Magenta(s)
	default:
		return term.Blue(s)
	}
}

// consoleHook sends errors to stderr and everything else to stdout.
type consoleHook struct {
	stdout io.Writer
	stderr io.Writer
	format logrus.Formatter
}

func (h *consoleHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *consoleHook) Fire(e *logrus.Entry) error {
	b, err := h.format.Format(e)
	if err != nil {
		return err
	}
	out := h.stdout
	if e.Level <= logrus.ErrorLevel {
		out = h.stderr
	}
	_, err = out.Write(b)
	return err
}

// writerHook appends plain lines to a log file.
type writerHook struct {
	w      io.Writer
	format logrus.Formatter
}

func (h *writerHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *writerHook) Fire(e *logrus.Entry) error {
	b, err := h.format.Format(e)
	if err != nil {
		return err
	}
	_, err = h.w.Write(b)
	return err
}
