// SPDX-License-Identifier: MPL-2.0

// Package wapm models the wapm.toml package manifest consumed by the wapm
// CLI, plus the [package.metadata.wapm] table that crates use to opt in to
// publishing.
//
// A wapm.toml describes a single published package: identity metadata under
// [package], one or more [[module]] entries pointing at WebAssembly binaries
// (with their ABI and optional bindings), optional [[command]] entries for
// executable modules, and an [fs] table mapping guest paths to bundled files.
package wapm

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// ManifestFileName is the file name the wapm CLI expects at the root of a
// package directory.
const ManifestFileName = "wapm.toml"

// Abi identifies the binary interface a compiled WebAssembly module conforms
// to. It selects the compiler target triple and how the runtime treats the
// module's entry point.
type Abi string

const (
	// AbiNone is a bare wasm32-unknown-unknown module.
	AbiNone Abi = "none"
	// AbiWasi targets the WebAssembly System Interface.
	AbiWasi Abi = "wasi"
	// AbiEmscripten targets the Emscripten runtime environment.
	AbiEmscripten Abi = "emscripten"
	// AbiWasm4 targets the WASM-4 fantasy console (compiled like AbiNone).
	AbiWasm4 Abi = "wasm4"
)

// UnmarshalJSON validates the ABI value while decoding crate metadata.
func (a *Abi) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("abi must be a string: %w", err)
	}
	switch Abi(s) {
	case AbiNone, AbiWasi, AbiEmscripten, AbiWasm4:
		*a = Abi(s)
		return nil
	default:
		return fmt.Errorf("unknown abi %q (expected \"none\", \"wasi\", \"emscripten\" or \"wasm4\")", s)
	}
}

// Manifest is a complete wapm.toml document.
type Manifest struct {
	Package  Package           `toml:"package"`
	Modules  []Module          `toml:"module"`
	Commands []Command         `toml:"command,omitempty"`
	FS       map[string]string `toml:"fs,omitempty"`
	// Dependencies is accepted by the registry but never synthesized from a
	// crate, so it stays empty.
	Dependencies map[string]string `toml:"dependencies,omitempty"`
	// BaseDirectoryPath is runtime-only information. It is always empty:
	// every path inside the manifest is relative to the package directory so
	// the assembled bundle stays relocatable.
	BaseDirectoryPath string `toml:"base_directory_path,omitempty"`
}

// Package is the [package] table of a wapm.toml.
type Package struct {
	// Name is the fully-qualified package name, "namespace/name".
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	License     string `toml:"license,omitempty"`
	// LicenseFile and Readme are paths as written in the crate's Cargo.toml;
	// the assembler copies the files into the package directory.
	LicenseFile string `toml:"license-file,omitempty"`
	Readme      string `toml:"readme,omitempty"`
	Repository  string `toml:"repository,omitempty"`
	Homepage    string `toml:"homepage,omitempty"`
	// WasmerExtraFlags are passed through to the wasmer runtime when the
	// package is executed (e.g. "--backend=singlepass").
	WasmerExtraFlags               string `toml:"wasmer-extra-flags,omitempty"`
	DisableCommandRename           bool   `toml:"disable-command-rename"`
	RenameCommandsToRawCommandName bool   `toml:"rename-commands-to-raw-command-name"`
}

// Module is one [[module]] entry: a single WebAssembly binary shipped with
// the package.
type Module struct {
	Name string `toml:"name"`
	// Source is the binary's path relative to the package directory.
	Source   string    `toml:"source"`
	Abi      Abi       `toml:"abi"`
	Bindings *Bindings `toml:"bindings,omitempty"`
}

// Command is one [[command]] entry, binding a runnable name to a module.
type Command struct {
	Name     string `toml:"name"`
	Module   string `toml:"module"`
	Package  string `toml:"package,omitempty"`
	MainArgs string `toml:"main-args,omitempty"`
}

// Encode serializes the manifest to its wapm.toml textual form.
func (m *Manifest) Encode() ([]byte, error) {
	out, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize the %s: %w", ManifestFileName, err)
	}
	return out, nil
}
