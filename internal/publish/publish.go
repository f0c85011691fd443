// SPDX-License-Identifier: MPL-2.0

// Package publish implements the crate-to-registry pipeline: decide which
// workspace crates to publish, pick each crate's publishable target,
// synthesize its wapm.toml, compile it to WebAssembly, assemble the package
// directory and hand it to the wapm CLI.
//
// The pipeline is strictly sequential and fail-fast: each crate is taken
// through every step before the next begins, and the first failure aborts
// the whole run. A failed crate's package directory is left in place for
// inspection.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wasmerio/cargo-wapm/internal/cargo"
)

// Options are the caller's publishing intent, one value per CLI flag.
type Options struct {
	// DryRun builds and assembles the package but suppresses the remote
	// publish side effect.
	DryRun bool
	// ManifestPath points at an explicit Cargo.toml.
	ManifestPath string
	// Workspace publishes every opted-in crate instead of the current one.
	Workspace bool
	// Features, AllFeatures and NoDefaultFeatures select the feature set for
	// metadata resolution and compilation.
	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
	// Exclude names crates to skip in workspace mode.
	Exclude []string
	// Debug compiles without --release.
	Debug bool
}

// Dependencies are the pipeline's injectable collaborators. Nil fields are
// replaced with production defaults by New.
type Dependencies struct {
	Metadata cargo.Provider
	Builder  ArtifactBuilder
	Registry RegistryUploader
	// WorkDir is the directory crate selection is based on; empty means the
	// process working directory.
	WorkDir string
}

// Pipeline runs the whole publishing flow.
type Pipeline struct {
	metadata cargo.Provider
	builder  ArtifactBuilder
	registry RegistryUploader
	workDir  string
}

// New wires a Pipeline, substituting production defaults for nil
// dependencies.
func New(deps Dependencies) *Pipeline {
	p := &Pipeline{
		metadata: deps.Metadata,
		builder:  deps.Builder,
		registry: deps.Registry,
		workDir:  deps.WorkDir,
	}
	if p.metadata == nil {
		p.metadata = cargo.NewProvider()
	}
	if p.builder == nil {
		p.builder = NewBuilder()
	}
	if p.registry == nil {
		p.registry = NewRegistry()
	}
	return p
}

// Run loads the workspace, resolves the publish set and publishes each
// selected crate in order.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	meta, err := p.metadata.Load(ctx, cargo.Options{
		ManifestPath:      opts.ManifestPath,
		Features:          opts.Features,
		AllFeatures:       opts.AllFeatures,
		NoDefaultFeatures: opts.NoDefaultFeatures,
	})
	if err != nil {
		return fmt.Errorf("unable to parse the workspace's metadata: %w", err)
	}

	currentDir := p.workDir
	if currentDir == "" {
		currentDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("unable to determine the current directory: %w", err)
		}
	}

	pkgs, err := resolvePublishSet(meta, opts.Workspace, currentDir, opts.Exclude)
	if err != nil {
		return fmt.Errorf("unable to determine which crates to publish: %w", err)
	}

	outDir := filepath.Join(meta.TargetDirectory, "wapm")

	for _, pkg := range pkgs {
		dest := filepath.Join(outDir, pkg.Name)
		if err := p.publishPackage(ctx, meta, pkg, dest, opts); err != nil {
			return fmt.Errorf("unable to publish %q: %w", pkg.Name, err)
		}
	}

	return nil
}

// publishPackage takes one crate through target resolution, manifest
// synthesis, compilation, assembly and upload.
func (p *Pipeline) publishPackage(ctx context.Context, meta *cargo.Metadata, pkg *cargo.Package, dest string, opts Options) error {
	slog.Info("publishing", "crate", pkg.Name, "dry-run", opts.DryRun)

	target, err := resolveTarget(pkg)
	if err != nil {
		return err
	}

	manifest, err := synthesizeManifest(pkg, target)
	if err != nil {
		return err
	}

	wasmPath, err := p.builder.Build(ctx, BuildOptions{
		Package:   pkg,
		Target:    target,
		Abi:       manifest.Modules[0].Abi,
		TargetDir: meta.TargetDirectory,
		Debug:     opts.Debug,
	})
	if err != nil {
		return err
	}

	if err := assemble(dest, manifest, wasmPath, pkg); err != nil {
		return err
	}

	if err := p.registry.Upload(ctx, dest, opts.DryRun); err != nil {
		return err
	}

	slog.Info("published", "crate", pkg.Name, "package", manifest.Package.Name, "dir", dest)
	return nil
}
