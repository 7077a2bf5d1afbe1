// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package gitrepo_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/gitrepo"
)

func TestLatestCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping integration test.")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test Author",
			"GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=Test Author",
			"GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	run("init", "-q")
	writeFile(t, dir, "ecephys_605238_2023-01-01_12-00-00/curation/curation.json")
	writeFile(t, dir, "ecephys_605238_2023-01-01_12-00-00/raw/data.bin")
	run("add", ".")
	run("commit", "-q", "-m", "add curation output")

	inspector := gitrepo.NewInspector(dir)
	ctx := context.Background()

	commit, err := inspector.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if commit.ShortHash == "" {
		t.Fatal("short hash missing")
	}
	if commit.Author != "Test Author" {
		t.Fatalf("author mismatch: %q", commit.Author)
	}
	if commit.Timestamp.IsZero() || commit.Timestamp.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", commit.Timestamp)
	}

	added := commit.AddedOrModified()
	if len(added) != 2 {
		t.Fatalf("expected 2 added paths, got %v", added)
	}

	perFile, err := inspector.LatestForFile(ctx, "ecephys_605238_2023-01-01_12-00-00/curation/curation.json")
	if err != nil {
		t.Fatalf("LatestForFile failed: %v", err)
	}
	if perFile.ShortHash != commit.ShortHash {
		t.Fatalf("per-file hash mismatch: %q vs %q", perFile.ShortHash, commit.ShortHash)
	}
}

func TestLatestFailsOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping integration test.")
	}
	inspector := gitrepo.NewInspector(t.TempDir())
	if _, err := inspector.Latest(context.Background()); err == nil {
		t.Fatal("expected error outside a git repository")
	}
}

func writeFile(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}
