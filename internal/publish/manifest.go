// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"github.com/wasmerio/cargo-wapm/internal/cargo"
	"github.com/wasmerio/cargo-wapm/pkg/wapm"
)

// synthesizeManifest builds the wapm.toml document for a crate and its
// publishable target. The crate's Cargo.toml identity fields map onto the
// [package] table; the [package.metadata.wapm] table supplies the registry
// namespace, ABI, filesystem mappings and bindings.
func synthesizeManifest(pkg *cargo.Package, target *cargo.Target) (*wapm.Manifest, error) {
	meta, err := wapm.DecodeMetadata(pkg.Metadata)
	if err != nil {
		return nil, &InvalidMetadataError{Crate: pkg.Name, Err: err}
	}

	switch {
	case pkg.Description == nil:
		return nil, &MissingDescriptionError{Crate: pkg.Name}
	case *pkg.Description == "":
		return nil, &MissingDescriptionError{Crate: pkg.Name, Empty: true}
	}

	packageName := meta.PackageName(pkg.Name)

	module := wapm.Module{
		Name:     target.Name,
		Source:   wasmBinaryName(target) + ".wasm",
		Abi:      meta.Abi,
		Bindings: meta.Bindings,
	}

	var commands []wapm.Command
	if target.IsExecutable() {
		commands = []wapm.Command{{
			Name:    target.Name,
			Module:  target.Name,
			Package: packageName,
		}}
	}

	return &wapm.Manifest{
		Package: wapm.Package{
			Name:             packageName,
			Version:          pkg.Version,
			Description:      *pkg.Description,
			License:          pkg.License,
			LicenseFile:      pkg.LicenseFile,
			Readme:           pkg.Readme,
			Repository:       pkg.Repository,
			Homepage:         pkg.Homepage,
			WasmerExtraFlags: meta.WasmerExtraFlags,
		},
		Modules:  []wapm.Module{module},
		Commands: commands,
		FS:       meta.FS,
	}, nil
}
