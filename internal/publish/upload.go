// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
)

// wapmBin is the registry CLI the assembled package is handed to.
const wapmBin = "wapm"

// RegistryUploader hands an assembled package directory to the registry.
type RegistryUploader interface {
	Upload(ctx context.Context, dir string, dryRun bool) error
}

// Registry shells out to `wapm publish` from inside the package directory.
type Registry struct {
	// run executes the prepared command. Swapped in tests.
	run func(cmd *exec.Cmd) error
}

// NewRegistry creates the production uploader.
func NewRegistry() *Registry {
	return &Registry{run: (*exec.Cmd).Run}
}

// Upload publishes the package directory. Dry-run is forwarded to the wapm
// CLI, which performs everything except the remote side effect.
func (r *Registry) Upload(ctx context.Context, dir string, dryRun bool) error {
	args := []string{"publish"}
	if dryRun {
		args = append(args, "--dry-run")
	}

	cmd := exec.CommandContext(ctx, wapmBin, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Debug("publishing with the wapm CLI", "cmd", cmd.String(), "dir", dir)

	if err := r.run(cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &PublishFailedError{ExitCode: exitErr.ExitCode()}
		}
		return &ToolNotFoundError{Tool: wapmBin, Err: err}
	}
	return nil
}
