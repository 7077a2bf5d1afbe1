// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/config"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/services/pipeline"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/utils"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "aind-upload",
		Short:         "Upload curated ecephys results to S3 and trigger Code Ocean registration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return utils.RegisterIniCfgWithViper()
		},
	}

	cmd.AddCommand(newNewCommand())
	cmd.AddCommand(newAllCommand())
	cmd.AddCommand(newAssetCommand())
	cmd.AddCommand(newConfigureCommand())
	return cmd
}

type commonOpts struct {
	bucket       string
	paramStore   string
	secretsName  string
	dryRun       bool
	settingsFile string
	repoRoot     string
}

func addCommonFlags(cmd *cobra.Command, o *commonOpts) {
	cmd.Flags().StringVarP(&o.bucket, "s3-bucket", "b", "", "Destination S3 bucket")
	cmd.Flags().StringVarP(&o.paramStore, "param-store", "p", "", "Name of the operational-parameter store")
	cmd.Flags().StringVarP(&o.secretsName, "secrets-name", "s", "", "Name of the secrets store")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Stage locally but skip the S3 sync and registration call")
	cmd.Flags().StringVar(&o.settingsFile, "settings", "", "Optional YAML settings file (investigators map, funding)")
	cmd.Flags().StringVar(&o.repoRoot, "repo-root", "", "Data repository root (defaults to the current directory)")
}

func newNewCommand() *cobra.Command {
	var o commonOpts
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Upload curation files added or modified by the latest commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, pipeline.ModeDelta, "", o)
		},
	}
	addCommonFlags(cmd, &o)
	return cmd
}

func newAllCommand() *cobra.Command {
	var o commonOpts
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Upload every curation file found in the working tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, pipeline.ModeScan, "", o)
		},
	}
	addCommonFlags(cmd, &o)
	return cmd
}

func newAssetCommand() *cobra.Command {
	var o commonOpts
	cmd := &cobra.Command{
		Use:   "asset <path>",
		Short: "Upload one curation file by path (relative to the repository root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, pipeline.ModeAsset, args[0], o)
		},
	}
	addCommonFlags(cmd, &o)
	return cmd
}

func newConfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Persist the current environment-derived configuration to ~/" + utils.IniName,
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.SaveIni()
		},
	}
}

func runPipeline(cmd *cobra.Command, mode pipeline.Mode, input string, o commonOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	bucket := o.bucket
	if bucket == "" {
		bucket = viper.GetString(utils.S3BucketKey)
	}
	if bucket == "" {
		return errors.New("s3 bucket is required (use -b or set S3_BUCKET)")
	}
	paramStore := o.paramStore
	if paramStore == "" {
		paramStore = viper.GetString(utils.ParamStoreKey)
	}
	secretsName := o.secretsName
	if secretsName == "" {
		secretsName = viper.GetString(utils.SecretsNameKey)
	}

	settings, err := utils.LoadSettings(o.settingsFile)
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, pipeline.Options{
		Mode:        mode,
		Input:       input,
		Root:        o.repoRoot,
		Bucket:      bucket,
		ParamStore:  paramStore,
		SecretsName: secretsName,
		DryRun:      o.dryRun,
		Settings:    settings,
		S3: config.S3Config{
			AccessKey:   viper.GetString(utils.AwsAccessKeyIDKey),
			SecretKey:   viper.GetString(utils.AwsSecretKeyKey),
			AccessToken: viper.GetString(utils.AwsSessionTokenKey),
			Region:      viper.GetString(utils.AwsRegionKey),
			EndpointURL: viper.GetString(utils.AwsEndpointURLKey),
		},
	})
}
