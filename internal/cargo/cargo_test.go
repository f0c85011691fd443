// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

const sampleMetadata = `{
	"packages": [
		{
			"id": "hello 0.1.0 (path+file:///ws/hello)",
			"name": "hello",
			"version": "0.1.0",
			"description": "Say hello",
			"license": "MIT",
			"manifest_path": "/ws/hello/Cargo.toml",
			"metadata": {"wapm": {"namespace": "wasmer", "abi": "wasi"}},
			"targets": [{"name": "hello", "kind": ["bin"]}]
		},
		{
			"id": "helper 0.1.0 (path+file:///ws/helper)",
			"name": "helper",
			"version": "0.1.0",
			"description": null,
			"manifest_path": "/ws/helper/Cargo.toml",
			"metadata": null,
			"targets": [{"name": "helper", "kind": ["lib"]}]
		},
		{
			"id": "serde 1.0.0 (registry+https://github.com/rust-lang/crates.io-index)",
			"name": "serde",
			"version": "1.0.0",
			"manifest_path": "/registry/serde/Cargo.toml",
			"targets": [{"name": "serde", "kind": ["lib"]}]
		}
	],
	"workspace_members": [
		"hello 0.1.0 (path+file:///ws/hello)",
		"helper 0.1.0 (path+file:///ws/helper)"
	],
	"resolve": {"root": "hello 0.1.0 (path+file:///ws/hello)"},
	"target_directory": "/ws/target",
	"workspace_root": "/ws"
}`

func TestDecode(t *testing.T) {
	meta, err := Decode([]byte(sampleMetadata))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	members := meta.WorkspacePackages()
	if len(members) != 2 {
		t.Fatalf("expected 2 workspace members, got %d", len(members))
	}
	if members[0].Name != "hello" || members[1].Name != "helper" {
		t.Errorf("members out of order: %q, %q", members[0].Name, members[1].Name)
	}

	hello := members[0]
	if hello.Description == nil || *hello.Description != "Say hello" {
		t.Errorf("description not decoded: %v", hello.Description)
	}
	if hello.Dir() != "/ws/hello" {
		t.Errorf("Dir() = %q", hello.Dir())
	}
	if !hello.Targets[0].IsExecutable() || hello.Targets[0].IsCdylib() {
		t.Errorf("target kinds misread: %+v", hello.Targets[0])
	}

	if members[1].Description != nil {
		t.Errorf("null description should stay nil, got %q", *members[1].Description)
	}

	root := meta.RootPackage()
	if root == nil || root.Name != "hello" {
		t.Errorf("RootPackage() = %+v", root)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"packages": "nope"}`))
	var metaErr *MetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("expected MetadataError, got %v", err)
	}
}

func TestRootPackageVirtualWorkspace(t *testing.T) {
	meta := &Metadata{Resolve: &Resolve{}}
	if meta.RootPackage() != nil {
		t.Error("virtual workspace should have no root package")
	}
	meta = &Metadata{}
	if meta.RootPackage() != nil {
		t.Error("missing resolve should mean no root package")
	}
}

func TestProviderLoadArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			opts: Options{},
			want: []string{"metadata", "--format-version", "1"},
		},
		{
			name: "everything",
			opts: Options{
				ManifestPath:      "/ws/Cargo.toml",
				Features:          []string{"a", "b"},
				AllFeatures:       true,
				NoDefaultFeatures: true,
			},
			want: []string{
				"metadata", "--format-version", "1",
				"--manifest-path", "/ws/Cargo.toml",
				"--features", "a,b",
				"--all-features", "--no-default-features",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotArgs []string
			p := &cliProvider{output: func(cmd *exec.Cmd) ([]byte, error) {
				gotArgs = cmd.Args[1:]
				return []byte(sampleMetadata), nil
			}}

			if _, err := p.Load(context.Background(), tt.opts); err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if strings.Join(gotArgs, " ") != strings.Join(tt.want, " ") {
				t.Errorf("args = %v, want %v", gotArgs, tt.want)
			}
		})
	}
}

func TestProviderLoadFailure(t *testing.T) {
	p := &cliProvider{output: func(cmd *exec.Cmd) ([]byte, error) {
		return nil, errors.New("no such file or directory")
	}}

	_, err := p.Load(context.Background(), Options{})
	var metaErr *MetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("expected MetadataError, got %v", err)
	}
}

func TestBin(t *testing.T) {
	t.Setenv("CARGO", "")
	if Bin() != "cargo" {
		t.Errorf("Bin() = %q, want cargo", Bin())
	}
	t.Setenv("CARGO", "/opt/rust/bin/cargo")
	if Bin() != "/opt/rust/bin/cargo" {
		t.Errorf("Bin() = %q", Bin())
	}
}
