// SPDX-License-Identifier: MPL-2.0

// cargo-wapm is a cargo subcommand that publishes Rust crates to the
// WebAssembly Package Manager.
package main

import cmd "github.com/wasmerio/cargo-wapm/cmd/cargo-wapm"

func main() {
	cmd.Execute()
}
