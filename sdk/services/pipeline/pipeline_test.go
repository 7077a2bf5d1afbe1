// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package pipeline_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/services/pipeline"
)

// End-to-end dry-run over a real git repository: discovery and staging
// happen, nothing reaches S3 or the registration API.
func TestRunDeltaDryRun(t *testing.T) {
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
	curation := filepath.Join(dir, "ecephys_605238_2023-01-01_12-00-00", "curation")
	if err := os.MkdirAll(curation, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(curation, "curation.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ecephys_605238_2023-01-01_12-00-00", "data.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "add curation output")

	err := pipeline.Run(context.Background(), pipeline.Options{
		Mode:   pipeline.ModeDelta,
		Root:   dir,
		Bucket: "my-bucket",
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("dry-run pipeline failed: %v", err)
	}
}

func TestRunRequiresBucket(t *testing.T) {
	err := pipeline.Run(context.Background(), pipeline.Options{Mode: pipeline.ModeDelta})
	if err == nil {
		t.Fatal("expected error when bucket is missing")
	}
}

func TestRunRejectsUnknownMode(t *testing.T) {
	err := pipeline.Run(context.Background(), pipeline.Options{Mode: "bogus", Bucket: "b"})
	if err == nil {
		t.Fatal("expected error for unknown discovery mode")
	}
}
