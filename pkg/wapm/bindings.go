// SPDX-License-Identifier: MPL-2.0

package wapm

import (
	"errors"
	"path/filepath"
)

// Bindings points at the interface-description files (WIT or WAI) that must
// travel alongside a module's binary. Exactly one of the two layouts is
// populated: wit-bindgen/wit-exports, or wai-version/exports/imports.
type Bindings struct {
	// WitBindgen is the wit-bindgen version the bindings were generated for.
	WitBindgen string `json:"wit-bindgen,omitempty" toml:"wit-bindgen,omitempty"`
	// WitExports is the path to the exported .wit interface.
	WitExports string `json:"wit-exports,omitempty" toml:"wit-exports,omitempty"`

	// WaiVersion is the WAI format version.
	WaiVersion string `json:"wai-version,omitempty" toml:"wai-version,omitempty"`
	// Exports is the path to the exported .wai interface.
	Exports string `json:"exports,omitempty" toml:"exports,omitempty"`
	// Imports are paths to imported .wai interfaces.
	Imports []string `json:"imports,omitempty" toml:"imports,omitempty"`
}

func (b *Bindings) isWit() bool { return b.WitBindgen != "" || b.WitExports != "" }
func (b *Bindings) isWai() bool {
	return b.WaiVersion != "" || b.Exports != "" || len(b.Imports) > 0
}

// Validate checks that the bindings table is one coherent layout.
func (b *Bindings) Validate() error {
	switch {
	case b.isWit() && b.isWai():
		return errors.New("bindings must be either wit or wai, not both")
	case b.isWit() && (b.WitBindgen == "" || b.WitExports == ""):
		return errors.New("wit bindings need both \"wit-bindgen\" and \"wit-exports\"")
	case b.isWai() && b.WaiVersion == "":
		return errors.New("wai bindings need a \"wai-version\"")
	case !b.isWit() && !b.isWai():
		return errors.New("bindings table is empty")
	default:
		return nil
	}
}

// ReferencedFiles resolves every file the bindings refer to against baseDir,
// the directory holding the crate's Cargo.toml. Paths are returned absolute;
// whether they stay inside baseDir is the assembler's concern.
func (b *Bindings) ReferencedFiles(baseDir string) []string {
	var files []string
	for _, p := range b.paths() {
		if filepath.IsAbs(p) {
			files = append(files, filepath.Clean(p))
			continue
		}
		files = append(files, filepath.Join(baseDir, p))
	}
	return files
}

func (b *Bindings) paths() []string {
	var paths []string
	if b.WitExports != "" {
		paths = append(paths, b.WitExports)
	}
	if b.Exports != "" {
		paths = append(paths, b.Exports)
	}
	paths = append(paths, b.Imports...)
	return paths
}
