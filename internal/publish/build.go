// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tetratelabs/wazero"

	"github.com/wasmerio/cargo-wapm/internal/cargo"
	"github.com/wasmerio/cargo-wapm/pkg/wapm"
)

// BuildOptions describe one compilation of a crate to WebAssembly.
type BuildOptions struct {
	Package *cargo.Package
	Target  *cargo.Target
	Abi     wapm.Abi
	// TargetDir is the workspace's shared build output directory.
	TargetDir string
	// Debug skips --release.
	Debug bool
}

// ArtifactBuilder compiles a crate and returns the path to the produced
// .wasm artifact.
type ArtifactBuilder interface {
	Build(ctx context.Context, opts BuildOptions) (string, error)
}

// Builder shells out to `cargo build` and locates the artifact in the
// target directory.
type Builder struct {
	// run executes the prepared command. Swapped in tests.
	run func(cmd *exec.Cmd) error
	// validate checks the located artifact. Swapped in tests.
	validate func(ctx context.Context, path string) error
}

// NewBuilder creates the production builder.
func NewBuilder() *Builder {
	return &Builder{run: (*exec.Cmd).Run, validate: validateArtifact}
}

// targetTriple maps an ABI to the rustc target triple it is compiled for.
func targetTriple(abi wapm.Abi) string {
	switch abi {
	case wapm.AbiWasi:
		return "wasm32-wasi"
	case wapm.AbiEmscripten:
		return "wasm32-unknown-emscripten"
	default: // none and wasm4 are plain wasm
		return "wasm32-unknown-unknown"
	}
}

// Build compiles the crate for its ABI's target triple and returns the
// artifact path, after checking the artifact really is a wasm module.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (string, error) {
	triple := targetTriple(opts.Abi)

	args := []string{
		"build", "--quiet",
		"--manifest-path", opts.Package.ManifestPath,
		"--target", triple,
	}
	if !opts.Debug {
		args = append(args, "--release")
	}

	cmd := exec.CommandContext(ctx, cargo.Bin(), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Debug("compiling the WebAssembly module", "cmd", cmd.String())

	if err := b.run(cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &BuildFailedError{ExitCode: exitErr.ExitCode()}
		}
		return "", &ToolNotFoundError{Tool: cargo.Bin(), Err: err}
	}

	profile := "release"
	if opts.Debug {
		profile = "debug"
	}
	binary := filepath.Join(opts.TargetDir, triple, profile, wasmBinaryName(opts.Target)+".wasm")
	if _, err := os.Stat(binary); err != nil {
		return "", &ArtifactNotFoundError{Path: binary}
	}

	if err := b.validate(ctx, binary); err != nil {
		return "", err
	}

	return binary, nil
}

// validateArtifact decodes the artifact with wazero to catch toolchain
// misconfiguration before anything is uploaded.
func validateArtifact(ctx context.Context, path string) error {
	bin, err := os.ReadFile(path)
	if err != nil {
		return &InvalidArtifactError{Path: path, Err: err}
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer func() {
		if closeErr := r.Close(ctx); closeErr != nil {
			slog.Debug("closing wasm validator", "error", closeErr)
		}
	}()

	compiled, err := r.CompileModule(ctx, bin)
	if err != nil {
		return &InvalidArtifactError{Path: path, Err: fmt.Errorf("compile check failed: %w", err)}
	}
	return compiled.Close(ctx)
}
