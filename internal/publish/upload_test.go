// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestUpload(t *testing.T) {
	tests := []struct {
		name     string
		dryRun   bool
		wantArgs string
	}{
		{name: "real publish", wantArgs: "publish"},
		{name: "dry run", dryRun: true, wantArgs: "publish --dry-run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotArgs, gotDir string
			r := &Registry{run: func(cmd *exec.Cmd) error {
				gotArgs = strings.Join(cmd.Args[1:], " ")
				gotDir = cmd.Dir
				return nil
			}}

			if err := r.Upload(context.Background(), "/pkg/dir", tt.dryRun); err != nil {
				t.Fatalf("Upload() failed: %v", err)
			}
			if gotArgs != tt.wantArgs {
				t.Errorf("args = %q, want %q", gotArgs, tt.wantArgs)
			}
			if gotDir != "/pkg/dir" {
				t.Errorf("working dir = %q, want /pkg/dir", gotDir)
			}
		})
	}
}

func TestUploadFailure(t *testing.T) {
	r := &Registry{run: func(cmd *exec.Cmd) error {
		return exec.Command("sh", "-c", "exit 2").Run()
	}}

	err := r.Upload(context.Background(), "/pkg/dir", false)
	var pubErr *PublishFailedError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishFailedError, got %v", err)
	}
	if pubErr.ExitCode != 2 {
		t.Errorf("exit code = %d, want 2", pubErr.ExitCode)
	}
}

func TestUploadToolMissing(t *testing.T) {
	r := &Registry{run: func(cmd *exec.Cmd) error { return exec.ErrNotFound }}

	err := r.Upload(context.Background(), "/pkg/dir", false)
	var notFound *ToolNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ToolNotFoundError, got %v", err)
	}
	if notFound.Tool != "wapm" {
		t.Errorf("tool = %q, want wapm", notFound.Tool)
	}
}
