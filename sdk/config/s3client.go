// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Client struct {
	s3 *s3.Client
}

func NewS3Client(ctx context.Context, cfgCreds S3Config) (*S3Client, error) {
	opts := []func(*config.LoadOptions) error{}

	// static credentials only when configured, otherwise the default chain
	if cfgCreds.AccessKey != "" {
		creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfgCreds.AccessKey,
			cfgCreds.SecretKey,
			cfgCreds.AccessToken,
		))
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	if cfgCreds.Region != "" {
		opts = append(opts, config.WithRegion(cfgCreds.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Options := func(o *s3.Options) {
		if cfgCreds.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfgCreds.EndpointURL)
			o.UsePathStyle = true // needed for most S3-compat endpoints
		}
	}

	return &S3Client{
		s3: s3.NewFromConfig(cfg, s3Options),
	}, nil
}

type SyncedFile struct {
	Key         string
	Size        int64
	ContentType string
}

/* -------------------- DIRECTORY SYNC -------------------- */

// SyncDir uploads every file under localDir to s3://<bucket>/<prefix>/,
// preserving the relative layout. Additive only: nothing is deleted
// remotely.
func (c *S3Client) SyncDir(ctx context.Context, localDir, bucket, prefix string) ([]SyncedFile, error) {
	var synced []SyncedFile

	err := filepath.Walk(localDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walk error: %w", walkErr)
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(localDir, path)
		if err != nil {
			return fmt.Errorf("relative path error: %w", err)
		}
		key := filepath.ToSlash(filepath.Join(prefix, relPath))

		sf, err := c.putFile(ctx, bucket, key, path)
		if err != nil {
			return err
		}
		synced = append(synced, *sf)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return synced, nil
}

/* -------------------- SINGLE FILE -------------------- */

func (c *S3Client) putFile(ctx context.Context, bucket, key, localPath string) (*SyncedFile, error) {
	const threshold = 100 * 1024 * 1024

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat error: %w", err)
	}
	size := info.Size()

	// Detect MIME type
	header := make([]byte, 512)
	n, _ := file.Read(header)
	mime := http.DetectContentType(header[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind error: %w", err)
	}

	if size > threshold {
		_, err = manager.NewUploader(c.s3).Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        file,
			ContentType: aws.String(mime),
		})
	} else {
		_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			Body:          file,
			ContentLength: aws.Int64(size),
			ContentType:   aws.String(mime),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}

	return &SyncedFile{Key: key, Size: size, ContentType: mime}, nil
}
