// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Change is one path touched by a commit, with its git status letter
// ("A", "M", "D", ...).
type Change struct {
	Status string
	Path   string
}

// Commit holds the metadata this tool needs from a single commit.
// Immutable after creation.
type Commit struct {
	ShortHash string
	Timestamp time.Time // UTC
	Author    string
	Changes   []Change
}

// AddedOrModified returns the paths tagged A or M.
func (c *Commit) AddedOrModified() []string {
	var paths []string
	for _, ch := range c.Changes {
		if ch.Status == "A" || ch.Status == "M" {
			paths = append(paths, ch.Path)
		}
	}
	return paths
}

// Inspector reads commit metadata by shelling out to git. Any tool
// failure or unparseable output is returned as an error; there is no
// retry.
type Inspector struct {
	Dir string // repository root; "" means the current directory
}

func NewInspector(dir string) *Inspector {
	return &Inspector{Dir: dir}
}

// Latest returns the most recent commit with its changed-path list.
func (i *Inspector) Latest(ctx context.Context) (*Commit, error) {
	return i.latest(ctx, "")
}

// LatestForFile returns the most recent commit touching path. The
// changed-path list is not populated.
func (i *Inspector) LatestForFile(ctx context.Context, path string) (*Commit, error) {
	return i.latest(ctx, path)
}

func (i *Inspector) latest(ctx context.Context, path string) (*Commit, error) {
	logArgs := []string{"log", "-1", "--pretty=format:%h"}
	if path != "" {
		logArgs = append(logArgs, "--", path)
	}
	hash, err := i.git(ctx, logArgs...)
	if err != nil {
		return nil, err
	}
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, fmt.Errorf("git returned no commit for %q", path)
	}

	tsOut, err := i.git(ctx, "show", "-s", "--format=%ct", hash)
	if err != nil {
		return nil, err
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(tsOut), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable commit timestamp %q: %w", strings.TrimSpace(tsOut), err)
	}

	author, err := i.git(ctx, "show", "-s", "--format=%an", hash)
	if err != nil {
		return nil, err
	}

	commit := &Commit{
		ShortHash: hash,
		Timestamp: time.Unix(ts, 0).UTC(),
		Author:    strings.TrimSpace(author),
	}

	if path == "" {
		statusOut, err := i.git(ctx, "log", "-1", "--name-status", "--pretty=format:", hash)
		if err != nil {
			return nil, err
		}
		commit.Changes = parseNameStatus(statusOut)
	}

	return commit, nil
}

func (i *Inspector) git(ctx context.Context, args ...string) (string, error) {
	if i.Dir != "" {
		args = append([]string{"-C", i.Dir}, args...)
	}
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// parseNameStatus reads "<status>\t<path>" lines from
// `git log --name-status`. Rename/copy lines (R100 old new) report the
// destination path.
func parseNameStatus(out string) []Change {
	var changes []Change
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		status := fields[0][:1]
		changes = append(changes, Change{Status: status, Path: fields[len(fields)-1]})
	}
	return changes
}
