// SPDX-License-Identifier: MPL-2.0

package wapm

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Metadata is the [package.metadata.wapm] table of a crate's Cargo.toml,
// surfaced by cargo metadata as free-form JSON. Its presence is the opt-in
// signal that a crate is publishable.
type Metadata struct {
	// Namespace is the registry namespace the package is published under.
	Namespace string `json:"namespace"`
	// Package overrides the published package name; the crate name is used
	// when empty.
	Package string `json:"package,omitempty"`
	// Abi the module is compiled against. Defaults to AbiNone.
	Abi Abi `json:"abi,omitempty"`
	// WasmerExtraFlags are forwarded verbatim into the manifest.
	WasmerExtraFlags string `json:"wasmer_extra_flags,omitempty"`
	// FS maps guest paths to host files bundled with the package.
	FS map[string]string `json:"fs,omitempty"`
	// Bindings reference the interface files shipped with the module.
	Bindings *Bindings `json:"bindings,omitempty"`
}

// metadataTable mirrors the shape of a crate's full metadata blob; only the
// wapm key matters here.
type metadataTable struct {
	Wapm *Metadata `json:"wapm"`
}

// HasMetadata reports whether a crate's raw metadata blob carries a wapm
// table at all, without validating its shape.
func HasMetadata(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	var table map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &table); err != nil {
		return false
	}
	_, ok := table["wapm"]
	return ok
}

// DecodeMetadata parses a crate's raw metadata blob into the typed wapm
// table, applying defaults and validating its shape.
func DecodeMetadata(raw []byte) (*Metadata, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("the crate has no [package.metadata.wapm] table")
	}

	var table metadataTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("malformed [package.metadata] table: %w", err)
	}
	if table.Wapm == nil {
		return nil, errors.New("the crate has no [package.metadata.wapm] table")
	}

	meta := table.Wapm
	if meta.Namespace == "" {
		return nil, errors.New("the [package.metadata.wapm] table has no \"namespace\"")
	}
	if meta.Abi == "" {
		meta.Abi = AbiNone
	}
	if meta.Bindings != nil {
		if err := meta.Bindings.Validate(); err != nil {
			return nil, fmt.Errorf("invalid bindings: %w", err)
		}
	}

	return meta, nil
}

// PackageName computes the fully-qualified published name for a crate,
// "{namespace}/{override-or-crate-name}".
func (m *Metadata) PackageName(crateName string) string {
	name := m.Package
	if name == "" {
		name = crateName
	}
	return m.Namespace + "/" + name
}
