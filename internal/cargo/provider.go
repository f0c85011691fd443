// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Options select how the workspace description is loaded.
type Options struct {
	// ManifestPath points at an explicit Cargo.toml; empty means cargo's own
	// manifest discovery from the current directory.
	ManifestPath string
	// Features to enable while resolving the workspace.
	Features []string
	// AllFeatures enables every feature.
	AllFeatures bool
	// NoDefaultFeatures disables the default feature set.
	NoDefaultFeatures bool
}

// Provider loads workspace metadata from explicit options.
type Provider interface {
	Load(ctx context.Context, opts Options) (*Metadata, error)
}

// MetadataError reports that the workspace description could not be
// obtained or understood.
type MetadataError struct {
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("unable to load the workspace's metadata: %v", e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// cliProvider shells out to `cargo metadata`.
type cliProvider struct {
	// output runs the prepared command and returns its stdout. Swapped in
	// tests.
	output func(cmd *exec.Cmd) ([]byte, error)
}

// NewProvider creates the production metadata provider.
func NewProvider() Provider {
	return &cliProvider{output: (*exec.Cmd).Output}
}

// Load runs `cargo metadata --format-version 1` and decodes its output.
func (p *cliProvider) Load(ctx context.Context, opts Options) (*Metadata, error) {
	args := []string{"metadata", "--format-version", "1"}
	if opts.ManifestPath != "" {
		args = append(args, "--manifest-path", opts.ManifestPath)
	}
	if len(opts.Features) > 0 {
		args = append(args, "--features", strings.Join(opts.Features, ","))
	}
	if opts.AllFeatures {
		args = append(args, "--all-features")
	}
	if opts.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}

	cmd := exec.CommandContext(ctx, Bin(), args...)
	slog.Debug("loading workspace metadata", "cmd", cmd.String())

	out, err := p.output(cmd)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if stderr := bytes.TrimSpace(exitErr.Stderr); len(stderr) > 0 {
				return nil, &MetadataError{Err: fmt.Errorf("%s exited with %d: %s", Bin(), exitErr.ExitCode(), stderr)}
			}
			return nil, &MetadataError{Err: fmt.Errorf("%s exited with %d", Bin(), exitErr.ExitCode())}
		}
		return nil, &MetadataError{Err: fmt.Errorf("unable to start %q: %w", Bin(), err)}
	}

	return Decode(out)
}
