// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"fmt"
	"strings"

	"github.com/wasmerio/cargo-wapm/internal/cargo"
)

// resolveTarget picks the single publishable target of a crate: a binary or
// a cdylib library. Anything else (rlib, proc-macro, tests, ...) is never
// publishable. Zero candidates or more than one are both errors; ambiguity
// is a crate-configuration problem the tool refuses to guess about.
func resolveTarget(pkg *cargo.Package) (*cargo.Target, error) {
	var candidates []*cargo.Target
	for i := range pkg.Targets {
		t := &pkg.Targets[i]
		if t.IsCdylib() || t.IsExecutable() {
			candidates = append(candidates, t)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, &NoPublishableTargetError{Crate: pkg.Name}
	default:
		names := make([]string, len(candidates))
		for i, t := range candidates {
			names[i] = fmt.Sprintf("%s (%s)", t.Name, strings.Join(t.Kind, ", "))
		}
		return nil, &AmbiguousTargetError{Crate: pkg.Name, Candidates: names}
	}
}

// wasmBinaryName is the artifact file stem cargo produces for a target.
// rustc keeps dashes in binary names but rewrites them to underscores for
// libraries; the lookup path must reproduce that exactly.
func wasmBinaryName(t *cargo.Target) string {
	if t.IsExecutable() {
		return t.Name
	}
	return strings.ReplaceAll(t.Name, "-", "_")
}
