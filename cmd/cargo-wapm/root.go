// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cargo-wapm CLI surface.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wasmerio/cargo-wapm/internal/config"
	"github.com/wasmerio/cargo-wapm/internal/publish"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// rootCmd is the single publish verb; cargo-wapm has no subcommands.
	rootCmd = &cobra.Command{
		Use:   "cargo-wapm",
		Short: "Publish a crate to the WebAssembly Package Manager",
		Long: TitleStyle.Render("cargo wapm") + SubtitleStyle.Render(" - Publish Rust crates to the WebAssembly Package Manager") + `

Compiles the current crate (or every opted-in crate with --workspace) to
WebAssembly, generates its wapm.toml from the [package.metadata.wapm] table
in Cargo.toml, assembles a self-contained package directory under
target/wapm/ and hands it to the "wapm" CLI.

Crates opt in by declaring at least a namespace:

  [package.metadata.wapm]
  namespace = "my-namespace"
  abi = "wasi"

Every flag can also be set through a ` + CmdStyle.Render("CARGO_WAPM_*") + ` environment variable.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPublish,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.BoolP("dry-run", "d", false, "build the package, but don't publish it")
	flags.String("manifest-path", "", "path to Cargo.toml")
	flags.BoolP("workspace", "w", false, "publish every opted-in crate in this workspace")
	flags.StringSlice("features", nil, "a comma-delimited list of features to enable")
	flags.Bool("all-features", false, "compile with all features enabled")
	flags.Bool("no-default-features", false, "do not activate the default feature while compiling")
	flags.StringSlice("exclude", nil, "crates to ignore in workspace mode")
	flags.Bool("debug", false, "compile in debug mode")
	flags.BoolP("verbose", "v", false, "enable verbose output")
}

// Execute runs the CLI. Called by main.main().
func Execute() {
	rootCmd.SetArgs(stripCargoSubcommand(os.Args[1:]))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// stripCargoSubcommand drops the leading "wapm" argument cargo inserts when
// the tool runs as "cargo wapm", so both invocation styles parse the same.
func stripCargoSubcommand(args []string) []string {
	if len(args) > 0 && args[0] == "wapm" {
		return args[1:]
	}
	return args
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return Version + " (commit: " + Commit + ")"
}

func runPublish(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	initLogging(cfg.Verbose)

	pipeline := publish.New(publish.Dependencies{})
	return pipeline.Run(cmd.Context(), publish.Options{
		DryRun:            cfg.DryRun,
		ManifestPath:      cfg.ManifestPath,
		Workspace:         cfg.Workspace,
		Features:          cfg.Features,
		AllFeatures:       cfg.AllFeatures,
		NoDefaultFeatures: cfg.NoDefaultFeatures,
		Exclude:           cfg.Exclude,
		Debug:             cfg.Debug,
	})
}

// initLogging routes the internal packages' slog output through the styled
// charmbracelet handler.
func initLogging(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	slog.SetDefault(slog.New(handler))
}
