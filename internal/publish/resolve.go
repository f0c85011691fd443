// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/wasmerio/cargo-wapm/internal/cargo"
	"github.com/wasmerio/cargo-wapm/pkg/wapm"
)

// resolvePublishSet decides which workspace members get published.
//
// In workspace mode every member is a candidate, minus the explicitly
// excluded names and minus crates without a [package.metadata.wapm] table
// (the table's presence is the opt-in signal). Order is preserved.
//
// Otherwise the crate is picked from currentDir: among members whose crate
// directory contains currentDir, the one with the deepest manifest path wins
// (nested crates resolve to the innermost). With no match the workspace's
// root package is the fallback; a virtual workspace without a root is a
// ResolutionError.
func resolvePublishSet(meta *cargo.Metadata, workspace bool, currentDir string, exclude []string) ([]*cargo.Package, error) {
	members := meta.WorkspacePackages()

	if workspace {
		var pkgs []*cargo.Package
		for _, pkg := range members {
			if slices.Contains(exclude, pkg.Name) {
				slog.Debug("explicitly ignoring crate", "crate", pkg.Name)
				continue
			}
			if !wapm.HasMetadata(pkg.Metadata) {
				slog.Debug("skipping crate without a [package.metadata.wapm] table", "crate", pkg.Name)
				continue
			}
			pkgs = append(pkgs, pkg)
		}
		return pkgs, nil
	}

	var candidates []*cargo.Package
	for _, pkg := range members {
		if containsPath(pkg.Dir(), currentDir) {
			candidates = append(candidates, pkg)
		}
	}
	// Nested crates: the most specific manifest path wins.
	sort.SliceStable(candidates, func(i, j int) bool {
		return pathComponents(candidates[i].ManifestPath) < pathComponents(candidates[j].ManifestPath)
	})

	if len(candidates) > 0 {
		return candidates[len(candidates)-1:], nil
	}
	if root := meta.RootPackage(); root != nil {
		return []*cargo.Package{root}, nil
	}
	return nil, &ResolutionError{}
}

// containsPath reports whether child is dir itself or nested below it.
func containsPath(dir, child string) bool {
	rel, err := filepath.Rel(dir, child)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !strings.HasPrefix(rel, "..")
}

func pathComponents(path string) int {
	return len(strings.Split(filepath.Clean(path), string(filepath.Separator)))
}
