package config

// This file implements CLI parsing and help text with kong.
// Flags shared by the batch stages live in batchFlags; global display and
// logging flags live on the root grammar so they work with every command.

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

// cli is the kong grammar. Field values are copied into Config by apply.
type cli struct {
	Color    string           `enum:"auto,always,never" default:"auto" help:"Colored logs: auto | always | never."`
	Log      string           `short:"l" type:"path" placeholder:"PATH" help:"Append logs to file."`
	Report   string           `type:"path" placeholder:"PATH" help:"Write the run report as JSON."`
	Exiftool string           `default:"exiftool" env:"PHOTODATER_EXIFTOOL" placeholder:"PATH" help:"exiftool binary to use."`
	Version  kong.VersionFlag `short:"V" help:"Print version and exit."`

	Rename  renameCmd  `cmd:"" help:"Rename media files to YYYYMMDD-HHMMSS-XXX.ext using their capture date."`
	Move    moveCmd    `cmd:"" help:"Move canonically named files into Pictures_YYYY/MM_YYYY folders."`
	Process processCmd `cmd:"" help:"Rename, then move."`
	Inspect inspectCmd `cmd:"" help:"Show the capture date of one file (no renaming)."`
	Check   checkCmd   `cmd:"" help:"Report metadata tool availability and exit."`
}

type batchFlags struct {
	Directory string `short:"d" type:"path" placeholder:"DIR" help:"Directory to process."`
	DryRun    bool   `short:"n" name:"dry-run" help:"Only show what would be done."`
	Verbose   bool   `short:"v" help:"Print more information."`
	Yes       bool   `short:"y" help:"Do not ask for confirmation."`
	Recursive bool   `default:"true" negatable:"" help:"Descend into subdirectories (default: on)."`
}

type providerFlag struct {
	Provider string `enum:"auto,exiftool,native" default:"auto" help:"Metadata backend: auto | exiftool | native."`
}

type baseFolderFlag struct {
	BaseFolder string `short:"b" name:"basefolder" type:"path" env:"PHOTODATER_BASEFOLDER" placeholder:"DIR" help:"Root of the Pictures_YYYY tree."`
}

type renameCmd struct {
	Batch    batchFlags   `embed:""`
	Provider providerFlag `embed:""`
}

type moveCmd struct {
	Batch batchFlags     `embed:""`
	Base  baseFolderFlag `embed:""`
}

type processCmd struct {
	Batch    batchFlags     `embed:""`
	Base     baseFolderFlag `embed:""`
	Provider providerFlag   `embed:""`
}

type inspectCmd struct {
	File     string       `short:"f" type:"path" placeholder:"FILE" help:"File to inspect."`
	Verbose  bool         `short:"v" help:"Print every date field the backend returned."`
	Provider providerFlag `embed:""`
}

type checkCmd struct{}

// ParseArgs parses args (without the program name) into cfg. On --help or
// --version kong prints and exits. A parse failure is returned as a
// *ConfigError so callers map it to the configuration exit code.
func ParseArgs(cfg *Config, args []string, version string) error {
	return parseArgs(cfg, args, version, os.Stdout, os.Stderr, os.Exit)
}

func parseArgs(cfg *Config, args []string, version string, stdout, stderr io.Writer, exit func(int)) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("photodater"),
		kong.Description("Rename and organize photos and videos by their EXIF capture date."),
		kong.Vars{"version": "photodater v" + version},
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		return fmt.Errorf("build CLI parser: %w", err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return &ConfigError{Msg: err.Error()}
	}
	return apply(cfg, &c, kctx.Command())
}

// apply copies the parsed grammar into cfg for the selected command.
func apply(cfg *Config, c *cli, command string) error {
	cfg.ColorMode = ColorMode(c.Color)
	cfg.LogFile = c.Log
	cfg.ReportFile = c.Report
	cfg.ExiftoolPath = c.Exiftool

	// kong reports commands with their positional args, e.g. "rename"; the
	// first word is all we need.
	name := strings.Fields(command)
	if len(name) == 0 {
		return &ConfigError{Field: "command", Msg: "no action specified"}
	}

	switch Stage(name[0]) {
	case StageRename:
		cfg.Stage = StageRename
		applyBatch(cfg, c.Rename.Batch)
		cfg.Provider = ProviderKind(c.Rename.Provider.Provider)
	case StageMove:
		cfg.Stage = StageMove
		applyBatch(cfg, c.Move.Batch)
		cfg.BaseFolder = c.Move.Base.BaseFolder
	case StageProcess:
		cfg.Stage = StageProcess
		applyBatch(cfg, c.Process.Batch)
		cfg.BaseFolder = c.Process.Base.BaseFolder
		cfg.Provider = ProviderKind(c.Process.Provider.Provider)
	case StageInspect:
		cfg.Stage = StageInspect
		cfg.File = c.Inspect.File
		cfg.Verbose = c.Inspect.Verbose
		cfg.Provider = ProviderKind(c.Inspect.Provider.Provider)
	case StageCheck:
		cfg.Stage = StageCheck
	default:
		return &ConfigError{Field: "command", Msg: fmt.Sprintf("unknown command %q", command)}
	}
	return nil
}

func applyBatch(cfg *Config, b batchFlags) {
	cfg.Directory = b.Directory
	cfg.DryRun = b.DryRun
	cfg.Verbose = b.Verbose
	cfg.AutoConfirm = b.Yes
	cfg.Recursive = b.Recursive
}
