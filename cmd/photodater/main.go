// Command photodater renames photos and videos to YYYYMMDD-HHMMSS-XXX.ext
// from their capture date and files them into Pictures_YYYY/MM_YYYY folders.
//
// It parses arguments, validates configuration and paths, and then runs the
// system check, a single-file inspection, or one of the batch stages.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/backmassage/photodater/internal/check"
	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/dating"
	"github.com/backmassage/photodater/internal/display"
	"github.com/backmassage/photodater/internal/fsx"
	"github.com/backmassage/photodater/internal/logging"
	"github.com/backmassage/photodater/internal/metadata"
	"github.com/backmassage/photodater/internal/pipeline"
	"github.com/backmassage/photodater/internal/progress"
	"github.com/backmassage/photodater/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseArgs(&cfg, args, version); err != nil {
		fmt.Fprintf(os.Stderr, "photodater: %v\n", err)
		return exitCode(err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "photodater: %v\n", err)
		return exitCode(err)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "photodater: %v\n", err)
		return exitRuntime
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(os.Stdout)

	if cfg.Stage == config.StageCheck {
		if !check.RunCheck(&cfg, log) {
			return exitRuntime
		}
		return exitOK
	}

	if err := cfg.ValidatePaths(); err != nil {
		log.Error("%v", err)
		return exitConfig
	}
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		log.Error("Install exiftool or run with --provider native")
		return exitConfig
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// stages stop between files.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
	}()

	// The move stage only parses names, so it never starts a metadata backend.
	var backend *metadata.Backend
	if cfg.Stage != config.StageMove {
		backend, err = metadata.Open(cfg.Provider, cfg.ExiftoolPath)
		if err != nil {
			log.Error("Cannot start metadata provider: %v", err)
			return exitRuntime
		}
		defer backend.Close()
		log.Debug(cfg.Verbose, "Metadata provider: %s", backend.Name)
	}

	if cfg.Stage == config.StageInspect {
		return inspect(ctx, &cfg, log, backend, os.Stdout)
	}

	logHeader(&cfg, log)
	if cfg.Mutates() && !confirmer(&cfg).Confirm(question(&cfg)) {
		log.Info("Nothing changed")
		return exitOK
	}

	// Phase 4: Run the stage (discover → plan → execute).
	deps := pipeline.Deps{
		FS: fsx.OS{},
		Progress: func(label string, total int) *progress.Reporter {
			return progress.ForStage(label, total, cfg.Verbose)
		},
	}
	if backend != nil {
		deps.Resolver = dating.NewResolver(backend)
		deps.Provider = backend.Name
	}
	report, runErr := pipeline.Run(ctx, &cfg, log, deps)

	code := exitOK
	if cfg.ReportFile != "" && report != nil {
		if err := report.WriteJSON(cfg.ReportFile); err != nil {
			log.Error("%v", err)
			code = exitRuntime
		} else {
			log.Info("Report written to %s", cfg.ReportFile)
		}
	}
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) {
			log.Error("%v", runErr)
		}
		return exitRuntime
	}
	return code
}

func exitCode(err error) int {
	if config.IsConfigError(err) {
		return exitConfig
	}
	return exitRuntime
}

func logHeader(cfg *config.Config, log *logging.Logger) {
	log.Info("=== photodater v%s (%s): %s ===", version, commit, cfg.Stage)
	log.Info("Directory: %s", cfg.Directory)
	if cfg.BaseFolder != "" {
		log.Info("Base folder: %s", cfg.BaseFolder)
	}
	if !cfg.Recursive {
		log.Info("Subdirectories: skipped")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be changed (verbose output forced)")
	}
	log.Info("")
}

func confirmer(cfg *config.Config) term.Confirmer {
	if cfg.AutoConfirm {
		return term.AutoConfirm{}
	}
	return term.NewPrompt()
}

// question is the confirmation text shown before a mutating run.
func question(cfg *config.Config) string {
	var b strings.Builder
	switch cfg.Stage {
	case config.StageRename:
		fmt.Fprintf(&b, "Rename the pictures in this folder:\n'%s'", cfg.Directory)
	case config.StageMove:
		fmt.Fprintf(&b, "Process the pictures from this folder:\n'%s'\nand store them at this location:\n'%s'", cfg.Directory, cfg.BaseFolder)
	default:
		fmt.Fprintf(&b, "Rename the pictures in this folder:\n'%s'\nand store them at this location:\n'%s'", cfg.Directory, cfg.BaseFolder)
	}
	return b.String()
}

// inspect resolves one file and prints the chosen date. Verbose mode also
// prints every date-like field the provider returned to w.
func inspect(ctx context.Context, cfg *config.Config, log *logging.Logger, p metadata.Provider, w io.Writer) int {
	fields, err := p.Fields(ctx, cfg.File)
	if err != nil {
		log.Error("%s: %v", cfg.File, err)
		return exitRuntime
	}
	res, pickErr := dating.NewResolver(p).Pick(cfg.File, fields)

	if cfg.Verbose {
		printDateFields(w, fields, res.Field)
	}
	if pickErr != nil {
		log.Error("%v", pickErr)
		return exitRuntime
	}
	log.Success("%s: %s (from %s)", cfg.File, res.Timestamp, res.Field)
	log.Info("Canonical stem: %s", res.Timestamp.Stem())
	return exitOK
}

func printDateFields(w io.Writer, fields metadata.Fields, winner string) {
	tbl := display.Table{Header: []string{"Field", "Value"}, Highlight: map[int]func(...interface{}) string{}}
	for _, name := range fields.Names() {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "date") && !strings.Contains(lower, "time") {
			continue
		}
		if name == winner {
			tbl.Highlight[len(tbl.Rows)] = term.Green
		}
		tbl.Rows = append(tbl.Rows, []string{name, fields[name]})
	}
	fmt.Fprintln(w)
	tbl.Print(w)
	fmt.Fprintln(w)
}
