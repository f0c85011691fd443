// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wasmerio/cargo-wapm/internal/cargo"
	"github.com/wasmerio/cargo-wapm/pkg/wapm"
)

// assemble lays out the self-contained package directory the wapm CLI
// publishes from: the serialized wapm.toml, the compiled binary, the
// license and readme files, and every bindings-referenced file at its
// crate-relative location.
func assemble(dir string, manifest *wapm.Manifest, wasmPath string, pkg *cargo.Package) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create the %q directory: %w", dir, err)
	}

	out, err := manifest.Encode()
	if err != nil {
		return err
	}
	manifestPath := filepath.Join(dir, wapm.ManifestFileName)
	slog.Debug("writing manifest", "path", manifestPath, "bytes", len(out))
	if err := os.WriteFile(manifestPath, out, 0o644); err != nil {
		return fmt.Errorf("unable to write to %q: %w", manifestPath, err)
	}

	if err := copyFile(wasmPath, filepath.Join(dir, filepath.Base(wasmPath))); err != nil {
		return err
	}

	baseDir := pkg.Dir()

	// License and readme land at the package root under their base names.
	for _, rel := range []string{pkg.LicenseFile, pkg.Readme} {
		if rel == "" {
			continue
		}
		src := filepath.Join(baseDir, rel)
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return err
		}
	}

	// Bindings files keep their location relative to the Cargo.toml so the
	// paths inside the manifest still resolve.
	for _, module := range manifest.Modules {
		if module.Bindings == nil {
			continue
		}
		for _, src := range module.Bindings.ReferencedFiles(baseDir) {
			rel, err := filepath.Rel(baseDir, src)
			if err != nil || strings.HasPrefix(rel, "..") {
				return &PathOutsideUnitError{Path: src, Base: baseDir}
			}
			dest := filepath.Join(dir, rel)
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("unable to create the %q directory: %w", filepath.Dir(dest), err)
			}
			if err := copyFile(src, dest); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a regular file, failing with an AssemblyIOError naming
// both ends.
func copyFile(from, to string) error {
	slog.Debug("copying file", "from", from, "to", to)

	src, err := os.Open(from)
	if err != nil {
		return &AssemblyIOError{From: from, To: to, Err: err}
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return &AssemblyIOError{From: from, To: to, Err: err}
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return &AssemblyIOError{From: from, To: to, Err: err}
	}
	if err := dst.Close(); err != nil {
		return &AssemblyIOError{From: from, To: to, Err: err}
	}
	return nil
}
