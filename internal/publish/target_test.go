// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"errors"
	"strings"
	"testing"

	"github.com/wasmerio/cargo-wapm/internal/cargo"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name    string
		targets []cargo.Target
		want    string
	}{
		{
			name:    "single binary",
			targets: []cargo.Target{{Name: "tool", Kind: []string{"bin"}}},
			want:    "tool",
		},
		{
			name:    "single cdylib",
			targets: []cargo.Target{{Name: "lib", Kind: []string{"cdylib"}}},
			want:    "lib",
		},
		{
			name: "non-publishable kinds are ignored",
			targets: []cargo.Target{
				{Name: "lib", Kind: []string{"rlib"}},
				{Name: "macros", Kind: []string{"proc-macro"}},
				{Name: "tool", Kind: []string{"bin"}},
			},
			want: "tool",
		},
		{
			name:    "combined kind list qualifies once",
			targets: []cargo.Target{{Name: "lib", Kind: []string{"cdylib", "rlib"}}},
			want:    "lib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := &cargo.Package{Name: "crate", Targets: tt.targets}
			target, err := resolveTarget(pkg)
			if err != nil {
				t.Fatalf("resolveTarget() failed: %v", err)
			}
			if target.Name != tt.want {
				t.Errorf("selected %q, want %q", target.Name, tt.want)
			}
		})
	}
}

func TestResolveTargetNoCandidate(t *testing.T) {
	pkg := &cargo.Package{
		Name:    "quiet",
		Targets: []cargo.Target{{Name: "quiet", Kind: []string{"rlib"}}},
	}

	_, err := resolveTarget(pkg)
	var noTarget *NoPublishableTargetError
	if !errors.As(err, &noTarget) {
		t.Fatalf("expected NoPublishableTargetError, got %v", err)
	}
	if noTarget.Crate != "quiet" {
		t.Errorf("error names crate %q, want quiet", noTarget.Crate)
	}
	if !strings.Contains(err.Error(), "quiet") {
		t.Errorf("message should name the crate: %q", err)
	}
}

func TestResolveTargetAmbiguous(t *testing.T) {
	pkg := &cargo.Package{
		Name: "busy",
		Targets: []cargo.Target{
			{Name: "busy-lib", Kind: []string{"cdylib"}},
			{Name: "busy-cli", Kind: []string{"bin"}},
		},
	}

	_, err := resolveTarget(pkg)
	var ambiguous *AmbiguousTargetError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousTargetError, got %v", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Fatalf("candidates = %v", ambiguous.Candidates)
	}
	msg := err.Error()
	for _, want := range []string{"busy-lib (cdylib)", "busy-cli (bin)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing candidate %q", msg, want)
		}
	}
}

func TestWasmBinaryName(t *testing.T) {
	tests := []struct {
		name   string
		target cargo.Target
		want   string
	}{
		{
			name:   "binary keeps dashes",
			target: cargo.Target{Name: "my-tool", Kind: []string{"bin"}},
			want:   "my-tool",
		},
		{
			name:   "library dashes become underscores",
			target: cargo.Target{Name: "my-lib", Kind: []string{"cdylib"}},
			want:   "my_lib",
		},
		{
			name:   "library without dashes is unchanged",
			target: cargo.Target{Name: "lib", Kind: []string{"cdylib"}},
			want:   "lib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wasmBinaryName(&tt.target); got != tt.want {
				t.Errorf("wasmBinaryName() = %q, want %q", got, tt.want)
			}
		})
	}
}
