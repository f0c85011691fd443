// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"fmt"
	"strings"
)

// ResolutionError means no crate could be selected for publishing.
type ResolutionError struct{}

func (e *ResolutionError) Error() string {
	return `unable to determine which crate to publish: either "cd" into the crate folder or use the "--workspace" flag`
}

// NoPublishableTargetError means a crate declares no binary and no cdylib
// library target.
type NoPublishableTargetError struct {
	Crate string
}

func (e *NoPublishableTargetError) Error() string {
	return fmt.Sprintf("the %s crate doesn't contain any binaries or \"cdylib\" libraries", e.Crate)
}

// AmbiguousTargetError means a crate declares more than one publishable
// target. The tool never tie-breaks; the crate must be split or its targets
// pruned upstream.
type AmbiguousTargetError struct {
	Crate      string
	Candidates []string
}

func (e *AmbiguousTargetError) Error() string {
	return fmt.Sprintf(
		"unable to decide what to publish: expected one executable or \"cdylib\" library, but found %s",
		strings.Join(e.Candidates, ", "),
	)
}

// InvalidMetadataError means the crate's [package.metadata.wapm] table does
// not have the expected shape.
type InvalidMetadataError struct {
	Crate string
	Err   error
}

func (e *InvalidMetadataError) Error() string {
	return fmt.Sprintf("unable to deserialize the [package.metadata.wapm] table: %v", e.Err)
}

func (e *InvalidMetadataError) Unwrap() error { return e.Err }

// MissingDescriptionError means the crate's description is empty or was
// never set. The two cases are reported distinctly.
type MissingDescriptionError struct {
	Crate string
	// Empty distinguishes `description = ""` from an absent field.
	Empty bool
}

func (e *MissingDescriptionError) Error() string {
	if e.Empty {
		return `the "description" field in your Cargo.toml is empty`
	}
	return `the "description" field in your Cargo.toml wasn't set`
}

// ToolNotFoundError means an external tool's process could not be started.
type ToolNotFoundError struct {
	Tool string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("unable to start %q, is it installed?", e.Tool)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

// BuildFailedError means the compiler toolchain exited unsuccessfully.
// ExitCode is negative when the process was terminated by a signal.
type BuildFailedError struct {
	ExitCode int
}

func (e *BuildFailedError) Error() string {
	if e.ExitCode < 0 {
		return "cargo exited unsuccessfully"
	}
	return fmt.Sprintf("cargo exited unsuccessfully with exit code %d", e.ExitCode)
}

// ArtifactNotFoundError means a successful build did not leave the artifact
// at the expected path. This is an internal-consistency failure, not a skip.
type ArtifactNotFoundError struct {
	Path string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("expected %q to exist", e.Path)
}

// InvalidArtifactError means the built artifact does not decode as a
// WebAssembly module.
type InvalidArtifactError struct {
	Path string
	Err  error
}

func (e *InvalidArtifactError) Error() string {
	return fmt.Sprintf("%q is not a valid WebAssembly module: %v", e.Path, e.Err)
}

func (e *InvalidArtifactError) Unwrap() error { return e.Err }

// AssemblyIOError means a file could not be copied into the package
// directory.
type AssemblyIOError struct {
	From string
	To   string
	Err  error
}

func (e *AssemblyIOError) Error() string {
	return fmt.Sprintf("unable to copy %q to %q: %v", e.From, e.To, e.Err)
}

func (e *AssemblyIOError) Unwrap() error { return e.Err }

// PathOutsideUnitError means a bindings-referenced file resolves outside the
// crate directory, so its crate-relative location cannot be preserved in the
// package.
type PathOutsideUnitError struct {
	Path string
	Base string
}

func (e *PathOutsideUnitError) Error() string {
	return fmt.Sprintf("%q should be inside %q", e.Path, e.Base)
}

// PublishFailedError means the wapm CLI exited unsuccessfully. ExitCode is
// negative when the process was terminated by a signal.
type PublishFailedError struct {
	ExitCode int
}

func (e *PublishFailedError) Error() string {
	if e.ExitCode < 0 {
		return "the wapm CLI exited unsuccessfully"
	}
	return fmt.Sprintf("the wapm CLI exited unsuccessfully with exit code %d", e.ExitCode)
}
