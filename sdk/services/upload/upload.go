// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/config"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/metadata"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/utils"
)

// DirSyncer is the slice of the S3 client the uploader needs.
type DirSyncer interface {
	SyncDir(ctx context.Context, localDir, bucket, prefix string) ([]config.SyncedFile, error)
}

type UploadService struct {
	s3      DirSyncer
	builder *metadata.Builder
}

func NewUploadService(ctx context.Context, conf config.Config, settings metadata.Settings) (*UploadService, error) {
	s3c, err := config.NewS3Client(ctx, conf.S3)
	if err != nil {
		return nil, fmt.Errorf("S3 init failed: %w", err)
	}
	return &UploadService{s3: s3c, builder: metadata.NewBuilder(settings)}, nil
}

// NewUploadServiceWith wires a preconstructed syncer (tests).
func NewUploadServiceWith(s3 DirSyncer, builder *metadata.Builder) *UploadService {
	return &UploadService{s3: s3, builder: builder}
}

// Upload performs:
// - descriptor construction from the asset's root folder name
// - staging of source + sidecar into a temp dir mirroring the
//   destination layout
// - additive sync to s3://<bucket>/<folder>_<process>_<date>_<time>/
// The staging directory is removed on exit regardless of the sync
// outcome. Dry-run stages but never touches the network.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Input == "" {
		return nil, errors.New("missing required input file or directory")
	}
	if req.Bucket == "" {
		return nil, errors.New("s3 bucket not specified")
	}

	relInput := filepath.ToSlash(filepath.Clean(req.Input))
	localPath := filepath.Join(req.Root, relInput)
	st, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access input: %w", err)
	}

	rootFolder, sourceName := splitAsset(relInput, st.IsDir())

	creation := req.CommitTime
	if creation.IsZero() {
		creation = time.Now().UTC()
	}

	desc, err := s.builder.Build(rootFolder, sourceName, creation, req.Author)
	if err != nil {
		return nil, err
	}
	prefix := desc.Name

	stagingDir := filepath.Join(os.TempDir(), "aind-upload-"+utils.UUIDv4NoDash())
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	if st.IsDir() {
		if err := copyTree(localPath, stagingDir); err != nil {
			return nil, fmt.Errorf("staging failed: %w", err)
		}
	} else {
		dest := filepath.Join(stagingDir, filepath.FromSlash(relInput))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("staging failed: %w", err)
		}
		if err := copyFile(localPath, dest); err != nil {
			return nil, fmt.Errorf("staging failed: %w", err)
		}
	}

	sidecar, err := desc.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize descriptor: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stagingDir, metadata.DescriptorFilename), sidecar, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write descriptor: %w", err)
	}

	result := &UploadResult{
		S3Prefix:     prefix,
		SubjectID:    desc.SubjectID,
		PlatformAbbr: desc.Platform.Abbreviation,
	}

	if req.DryRun {
		utils.Infof("dry-run: would have synced %s to s3://%s/%s", stagingDir, req.Bucket, prefix)
		return result, nil
	}

	synced, err := s.s3.SyncDir(ctx, stagingDir, req.Bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("sync failed: %w", err)
	}
	for _, f := range synced {
		utils.Infof("uploaded s3://%s/%s (%d bytes)", req.Bucket, f.Key, f.Size)
	}
	return result, nil
}

// splitAsset derives the naming-convention folder and the name the
// process label comes from. Directory input is the session folder
// itself; its process label is always "curated".
func splitAsset(relInput string, isDir bool) (rootFolder, sourceName string) {
	if isDir {
		return filepath.Base(relInput), "curation"
	}
	rootFolder = relInput
	if i := strings.Index(relInput, "/"); i >= 0 {
		rootFolder = relInput[:i]
	}
	return rootFolder, filepath.Base(relInput)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func copyTree(srcDir, destDir string) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(destDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		return copyFile(path, dest)
	})
}
