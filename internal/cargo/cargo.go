// SPDX-License-Identifier: MPL-2.0

// Package cargo loads a Cargo workspace's description via `cargo metadata`
// and exposes the packages, targets and metadata tables the publishing
// pipeline works from.
package cargo

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Metadata is the decoded output of `cargo metadata --format-version 1`.
// It is loaded once per run and treated as immutable afterwards; downstream
// components hold *Package references into it.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	Resolve          *Resolve  `json:"resolve"`
	// TargetDirectory is the workspace's shared build output directory.
	TargetDirectory string `json:"target_directory"`
	WorkspaceRoot   string `json:"workspace_root"`
}

// Resolve carries the dependency graph header; only the root package id is
// of interest here.
type Resolve struct {
	Root string `json:"root"`
}

// Package is one crate in the workspace.
type Package struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description *string `json:"description"`
	License     string  `json:"license"`
	LicenseFile string  `json:"license_file"`
	Readme      string  `json:"readme"`
	Repository  string  `json:"repository"`
	Homepage    string  `json:"homepage"`
	// ManifestPath is the absolute path to the crate's Cargo.toml.
	ManifestPath string `json:"manifest_path"`
	// Metadata is the crate's free-form [package.metadata] table as raw
	// JSON; the wapm package decodes its typed shape.
	Metadata jsoniter.RawMessage `json:"metadata"`
	Targets  []Target            `json:"targets"`
}

// Dir returns the directory holding the crate's Cargo.toml.
func (p *Package) Dir() string {
	return filepath.Dir(p.ManifestPath)
}

// Target is one buildable artifact declared by a crate.
type Target struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// IsExecutable reports whether the target builds a binary.
func (t *Target) IsExecutable() bool { return t.hasKind("bin") }

// IsCdylib reports whether the target builds a C-style dynamic library, the
// library flavor rustc can compile to a standalone wasm module.
func (t *Target) IsCdylib() bool { return t.hasKind("cdylib") }

func (t *Target) hasKind(kind string) bool {
	for _, k := range t.Kind {
		if k == kind {
			return true
		}
	}
	return false
}

// WorkspacePackages returns the packages that are workspace members, in
// metadata order.
func (m *Metadata) WorkspacePackages() []*Package {
	members := make(map[string]struct{}, len(m.WorkspaceMembers))
	for _, id := range m.WorkspaceMembers {
		members[id] = struct{}{}
	}

	var pkgs []*Package
	for i := range m.Packages {
		if _, ok := members[m.Packages[i].ID]; ok {
			pkgs = append(pkgs, &m.Packages[i])
		}
	}
	return pkgs
}

// RootPackage returns the workspace's designated root package, or nil for a
// virtual workspace that has none.
func (m *Metadata) RootPackage() *Package {
	if m.Resolve == nil || m.Resolve.Root == "" {
		return nil
	}
	for i := range m.Packages {
		if m.Packages[i].ID == m.Resolve.Root {
			return &m.Packages[i]
		}
	}
	return nil
}

// Decode parses raw `cargo metadata` JSON output.
func Decode(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, &MetadataError{Err: fmt.Errorf("malformed cargo metadata output: %w", err)}
	}
	return &meta, nil
}

// Bin returns the cargo binary to invoke, honoring the $CARGO override that
// cargo sets when running subcommands.
func Bin() string {
	if bin := os.Getenv("CARGO"); bin != "" {
		return bin
	}
	return "cargo"
}
