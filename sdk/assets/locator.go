// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package assets

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/gitrepo"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/metadata"
)

// curationMarker tags result files produced by the curation review step.
const curationMarker = "curation"

// Asset is one discovered curation file, with the commit metadata that
// last touched it.
type Asset struct {
	RelativePath string // forward-slash path relative to the repo root
	RootFolder   string // first path segment, encodes platform + subject
	Author       string
	CommitTime   time.Time
}

func newAsset(relPath, author string, commitTime time.Time) Asset {
	relPath = filepath.ToSlash(relPath)
	root := relPath
	if i := strings.Index(relPath, "/"); i >= 0 {
		root = relPath[:i]
	}
	return Asset{
		RelativePath: relPath,
		RootFolder:   root,
		Author:       author,
		CommitTime:   commitTime,
	}
}

/* -------------------- DELTA MODE -------------------- */

// FromCommit filters a commit's added/modified paths down to curation
// files under a platform-prefixed top-level folder. Paths under a
// recognized folder that lack the curation marker are silently
// excluded.
func FromCommit(commit *gitrepo.Commit) []Asset {
	var found []Asset
	seen := map[string]bool{}

	for _, p := range commit.AddedOrModified() {
		p = filepath.ToSlash(p)
		i := strings.Index(p, "/")
		if i <= 0 {
			continue
		}
		root := p[:i]
		abbr := strings.SplitN(root, "_", 2)[0]
		if !metadata.IsPlatformAbbreviation(abbr) {
			continue
		}
		if !strings.Contains(p, curationMarker) {
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		found = append(found, newAsset(p, commit.Author, commit.Timestamp))
	}
	return found
}

/* -------------------- SINGLE ASSET -------------------- */

// FromFile wraps one explicitly named file with the commit metadata
// that last touched it. No convention checks happen here; metadata
// construction fails later if the folder name is off.
func FromFile(relPath string, commit *gitrepo.Commit) []Asset {
	return []Asset{newAsset(relPath, commit.Author, commit.Timestamp)}
}

/* -------------------- SCAN MODE -------------------- */

// commitSource resolves per-file commit metadata; satisfied by
// *gitrepo.Inspector.
type commitSource interface {
	LatestForFile(ctx context.Context, path string) (*gitrepo.Commit, error)
}

// Scan walks the repository for JSON files whose path carries the
// curation marker, regardless of commit history. Each match costs one
// git invocation to recover its own author and timestamp.
func Scan(ctx context.Context, root string, src commitSource) ([]Asset, error) {
	var found []Asset

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !strings.Contains(filepath.ToSlash(relPath), curationMarker) {
			return nil
		}
		commit, err := src.LatestForFile(ctx, relPath)
		if err != nil {
			return fmt.Errorf("commit lookup for %s: %w", relPath, err)
		}
		found = append(found, newAsset(relPath, commit.Author, commit.Timestamp))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
