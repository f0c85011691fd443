// SPDX-License-Identifier: MPL-2.0

// Package config resolves the tool's run options from CLI flags with
// CARGO_WAPM_* environment variables as fallback, so CI systems can
// configure a publish without touching the command line.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables, e.g. CARGO_WAPM_DRY_RUN
// for --dry-run.
const EnvPrefix = "CARGO_WAPM"

// Publish are the resolved options for one publishing run.
type Publish struct {
	// DryRun builds and assembles but suppresses the remote publish.
	DryRun bool
	// ManifestPath is an explicit path to a Cargo.toml.
	ManifestPath string
	// Workspace publishes every opted-in crate in the workspace.
	Workspace bool
	// Features to enable while compiling.
	Features []string
	// AllFeatures compiles with every feature enabled.
	AllFeatures bool
	// NoDefaultFeatures leaves the default feature set off.
	NoDefaultFeatures bool
	// Exclude names crates to skip in workspace mode.
	Exclude []string
	// Debug compiles without optimizations.
	Debug bool
	// Verbose enables debug logging.
	Verbose bool
}

// Load resolves options from the given flag set, falling back to the
// environment for flags that were not set explicitly.
func Load(flags *pflag.FlagSet) (*Publish, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("unable to bind flags: %w", err)
	}

	return &Publish{
		DryRun:            v.GetBool("dry-run"),
		ManifestPath:      v.GetString("manifest-path"),
		Workspace:         v.GetBool("workspace"),
		Features:          splitList(v.GetStringSlice("features")),
		AllFeatures:       v.GetBool("all-features"),
		NoDefaultFeatures: v.GetBool("no-default-features"),
		Exclude:           splitList(v.GetStringSlice("exclude")),
		Debug:             v.GetBool("debug"),
		Verbose:           v.GetBool("verbose"),
	}, nil
}

// splitList flattens comma-delimited entries, so a single
// CARGO_WAPM_FEATURES="a,b" behaves like repeated flags.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
