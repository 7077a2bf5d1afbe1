// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/assets"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/config"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/gitrepo"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/metadata"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/services/endpoints"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/services/register"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/services/upload"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/utils"
)

// Mode selects the asset discovery strategy.
type Mode string

const (
	ModeDelta Mode = "delta" // newly added/modified files from the latest commit
	ModeScan  Mode = "scan"  // every curation file in the working tree
	ModeAsset Mode = "asset" // one explicitly named file
)

type Options struct {
	Mode        Mode
	Input       string // asset path, ModeAsset only
	Root        string // repository root; "" means the current directory
	Bucket      string
	ParamStore  string
	SecretsName string
	DryRun      bool
	Settings    metadata.Settings
	S3          config.S3Config
}

// Run executes the upload-and-register workflow: discover assets, then
// for each one build metadata, stage, sync, and (outside dry-run)
// trigger the registration capsule. Strictly sequential; the resolved
// config/secret pair is fetched once and reused for every
// registration within the invocation.
func Run(ctx context.Context, opts Options) error {
	if opts.Bucket == "" {
		return errors.New("s3 bucket not specified")
	}

	inspector := gitrepo.NewInspector(opts.Root)

	found, err := discover(ctx, opts, inspector)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		utils.Infof("no curation files to upload")
		return nil
	}
	utils.Infof("found %d curation file(s) to upload", len(found))

	uploader, err := upload.NewUploadService(ctx, config.Config{S3: opts.S3}, opts.Settings)
	if err != nil {
		return err
	}

	var registrar *register.RegisterService
	if !opts.DryRun {
		registrar, err = newRegistrar(ctx, opts)
		if err != nil {
			return err
		}
	}

	for _, asset := range found {
		utils.Infof("curation file: %s (author %s, committed %s)",
			asset.RelativePath, asset.Author, asset.CommitTime.Format("2006-01-02 15:04:05"))

		result, err := uploader.Upload(ctx, upload.UploadRequest{
			Input:      asset.RelativePath,
			Root:       opts.Root,
			Bucket:     opts.Bucket,
			Author:     asset.Author,
			CommitTime: asset.CommitTime,
			DryRun:     opts.DryRun,
		})
		if err != nil {
			return err
		}

		if opts.DryRun {
			utils.Infof("dry-run: would have registered s3://%s/%s", opts.Bucket, result.S3Prefix)
			continue
		}
		if _, err := registrar.Register(ctx, register.RegisterRequest{
			Bucket:       opts.Bucket,
			Prefix:       result.S3Prefix,
			SubjectID:    result.SubjectID,
			PlatformAbbr: result.PlatformAbbr,
		}); err != nil {
			return err
		}
	}
	return nil
}

func discover(ctx context.Context, opts Options, inspector *gitrepo.Inspector) ([]assets.Asset, error) {
	switch opts.Mode {
	case ModeDelta:
		commit, err := inspector.Latest(ctx)
		if err != nil {
			return nil, err
		}
		utils.Infof("latest commit: %s by %s at %s",
			commit.ShortHash, commit.Author, commit.Timestamp.Format("2006-01-02 15:04:05"))
		return assets.FromCommit(commit), nil
	case ModeScan:
		root := opts.Root
		if root == "" {
			root = "."
		}
		return assets.Scan(ctx, root, inspector)
	case ModeAsset:
		if opts.Input == "" {
			return nil, errors.New("asset path not specified")
		}
		commit, err := inspector.LatestForFile(ctx, opts.Input)
		if err != nil {
			return nil, err
		}
		return assets.FromFile(opts.Input, commit), nil
	default:
		return nil, fmt.Errorf("unknown discovery mode %q", opts.Mode)
	}
}

// newRegistrar resolves the parameter store and secrets blobs, then
// builds the registration service. Missing blobs or keys are explicit
// errors here; the lookups themselves only warn.
func newRegistrar(ctx context.Context, opts Options) (*register.RegisterService, error) {
	resolver, err := endpoints.NewResolver(ctx)
	if err != nil {
		return nil, err
	}

	params := resolver.Params(ctx, opts.ParamStore)
	if params == nil {
		return nil, fmt.Errorf("parameter store %q unavailable, cannot register", opts.ParamStore)
	}
	secrets := resolver.Secrets(ctx, opts.SecretsName)
	if secrets == nil {
		return nil, fmt.Errorf("secrets %q unavailable, cannot register", opts.SecretsName)
	}

	coConfig := config.CodeOceanConfig{
		Domain:     utils.GetStringValue(params, endpoints.ParamCodeOceanDomain),
		APIVersion: "v1",
		CapsuleID:  utils.GetStringValue(params, endpoints.ParamTriggerCapsuleID),
		Token:      utils.GetStringValue(secrets, endpoints.SecretAPIToken),
	}
	if coConfig.Domain == "" || coConfig.Token == "" {
		return nil, errors.New("codeocean domain or api token missing from resolved configuration")
	}

	return register.NewRegisterService(ctx, config.Config{CodeOcean: coConfig})
}
