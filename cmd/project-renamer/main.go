// Package main provides the project-renamer CLI: it copies a project
// directory to a renamed sibling directory, applying the old-name to
// new-name substitution (in every casing/separator variant) to directory
// names, file names and text file contents.
//
// Usage:
//
//	project-renamer --input path/to/old-project --name new-project [flags]
//
// The old name is the base name of --input. The destination is created next
// to the source and must not already exist. Exit codes: 0 on success, 2 on
// InvalidArgument, 1 on AlreadyExists or IOError.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajilach/project-renamer/internal/config"
	"github.com/ajilach/project-renamer/internal/diff"
	"github.com/ajilach/project-renamer/internal/fail"
	"github.com/ajilach/project-renamer/internal/manifest"
	"github.com/ajilach/project-renamer/internal/plan"
	"github.com/ajilach/project-renamer/internal/treecopy"
	"github.com/ajilach/project-renamer/internal/variant"
)

// Config is the resolved run configuration: flag values after the optional
// YAML config file has filled in unset ones.
type Config struct {
	Input       string
	Name        string
	Excludes    []string
	DryRun      bool
	Diff        bool
	DiffContext int
	Manifest    string
	ConfigPath  string
	Verbose     bool
	Quiet       bool
}

func newRootCmd() *cobra.Command {
	cfg := &Config{}
	cmd := &cobra.Command{
		Use:   "project-renamer",
		Short: "Copy a project directory while renaming every variant of its name",
		Long: `project-renamer copies a project directory to a renamed sibling directory.
Every file name, directory name and in-file text occurrence of the old
project name (hyphenated, underscored, dotted, spaced or joined; Title,
UPPER or lower case) is replaced with the matching variant of the new name.
The old name is taken from the base name of --input. Binary files are
copied byte-for-byte; the source tree is never modified.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.Input, "input", "i", "", "source project directory")
	f.StringVarP(&cfg.Name, "name", "n", "", "new project base name")
	f.StringArrayVar(&cfg.Excludes, "exclude", nil, "doublestar pattern relative to the source root (repeatable)")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "print the plan without writing anything")
	f.BoolVar(&cfg.Diff, "diff", false, "with --dry-run, include unified diffs of content rewrites")
	f.IntVar(&cfg.DiffContext, "diff-context", 4, "context lines per hunk in --diff output")
	f.StringVar(&cfg.Manifest, "manifest", "", "write a JSON manifest of created entries to this path")
	f.StringVar(&cfg.ConfigPath, "config", "", "YAML config file supplying defaults for the flags above")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", false, "errors only")
	return cmd
}

func run(cmd *cobra.Command, cfg *Config) error {
	setupLogging(cfg)

	if cfg.ConfigPath != "" {
		fc, err := config.Parse(cfg.ConfigPath)
		if err != nil {
			return err
		}
		applyConfig(cmd.Flags(), fc, cfg)
	}
	if cfg.Input == "" {
		return fail.Invalidf("--input is required")
	}
	if cfg.Name == "" {
		return fail.Invalidf("--name must not be empty")
	}

	srcAbs, err := filepath.Abs(cfg.Input)
	if err != nil {
		return fail.IO(cfg.Input, err)
	}
	oldName := filepath.Base(srcAbs)

	vm, err := variant.Build(oldName, cfg.Name)
	if err != nil {
		return err
	}

	opts := treecopy.Options{Excludes: cfg.Excludes, DryRun: cfg.DryRun}
	var pl *plan.Plan
	if cfg.DryRun {
		pl = plan.New()
		opts.Plan = pl
		if cfg.Diff {
			opts.DiffOpts = &diff.Options{Context: cfg.DiffContext}
		}
	}
	var mb *manifest.Builder
	if cfg.Manifest != "" && !cfg.DryRun {
		if err := checkManifestPath(cfg.Manifest, srcAbs); err != nil {
			return err
		}
		mb = manifest.NewBuilder()
		opts.Manifest = mb
	}

	c, err := treecopy.New(cfg.Input, vm, opts)
	if err != nil {
		return err
	}

	sum, err := c.Run()
	if err != nil {
		return err
	}

	if pl != nil {
		if err := pl.Render(cmd.OutOrStdout()); err != nil {
			return fail.IO("", err)
		}
	}
	if mb != nil {
		m := mb.Build(srcAbs, c.DestRoot())
		if err := manifest.Save(cfg.Manifest, m); err != nil {
			return fail.IO(cfg.Manifest, err)
		}
		log.Infof("wrote manifest %s (%d entries)", cfg.Manifest, mb.Len())
	}

	verb := "copied"
	if cfg.DryRun {
		verb = "would copy"
	}
	log.Infof("%s %d dirs, %d files (%d rewritten, %d binary, %d skipped) to %s",
		verb, sum.Dirs, sum.Files, sum.Rewritten, sum.Binaries, sum.Skipped, c.DestRoot())
	return nil
}

// applyConfig fills in flags the user did not set on the command line.
func applyConfig(flags *pflag.FlagSet, fc config.File, cfg *Config) {
	if !flags.Changed("input") && fc.Input != "" {
		cfg.Input = fc.Input
	}
	if !flags.Changed("name") && fc.Name != "" {
		cfg.Name = fc.Name
	}
	if !flags.Changed("exclude") && len(fc.Exclude) > 0 {
		cfg.Excludes = fc.Exclude
	}
	if !flags.Changed("manifest") && fc.Manifest != "" {
		cfg.Manifest = fc.Manifest
	}
}

// checkManifestPath rejects a manifest destination inside the source tree:
// the walk must not observe its own output.
func checkManifestPath(manifestPath, srcAbs string) error {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return fail.IO(manifestPath, err)
	}
	if abs == srcAbs || strings.HasPrefix(abs, srcAbs+string(filepath.Separator)) {
		return fail.Invalidf("manifest path %s is inside the source tree", abs)
	}
	return nil
}

func setupLogging(cfg *Config) {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	switch {
	case cfg.Quiet:
		log.SetLevel(log.ErrorLevel)
	case cfg.Verbose:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(fail.ExitCode(err))
	}
}
