// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package register

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/config"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/metadata"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/utils"
)

type RegisterService struct {
	http      config.CoreHTTP
	capsuleID string
}

func NewRegisterService(_ context.Context, conf config.Config) (*RegisterService, error) {
	if conf.CodeOcean.Domain == "" || conf.CodeOcean.APIVersion == "" {
		return nil, errors.New("invalid Code Ocean config")
	}
	if conf.CodeOcean.CapsuleID == "" {
		return nil, errors.New("trigger capsule id not specified")
	}
	return &RegisterService{
		http:      config.NewHTTPCore(nil, conf.CodeOcean),
		capsuleID: conf.CodeOcean.CapsuleID,
	}, nil
}

// Register submits a capsule run that registers the uploaded prefix.
// The raw response body is printed; HTTP status is reported but not
// treated as failure, so the operator sees whatever the API returned.
func (s *RegisterService) Register(ctx context.Context, req RegisterRequest) ([]byte, error) {
	if req.Bucket == "" || req.Prefix == "" {
		return nil, errors.New("bucket and prefix are required")
	}

	// legacy: the trigger capsule still reads the "experiment type" key
	customMetadata := map[string]string{
		"modality":        metadata.ModalityEcephys.Name,
		"experiment type": req.PlatformAbbr,
		"data level":      metadata.DataLevelDerived,
		"subject id":      req.SubjectID,
	}
	tags := []string{
		metadata.ModalityEcephys.Abbreviation,
		req.SubjectID,
		"curated",
		req.PlatformAbbr,
		metadata.DataLevelDerived,
	}

	jobParams, err := json.Marshal(JobParameters{
		TriggerCodeOceanJob: TriggerJob{
			JobType:        "register_data",
			CapsuleID:      s.capsuleID,
			Bucket:         req.Bucket,
			Prefix:         req.Prefix,
			Tags:           tags,
			CustomMetadata: customMetadata,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job parameters: %w", err)
	}

	body, err := json.Marshal(RunCapsuleRequest{
		CapsuleID:  s.capsuleID,
		Parameters: []string{string(jobParams)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run request: %w", err)
	}

	url := s.http.BuildURL("computations", "", nil)
	b, status, err := s.http.Do(ctx, "POST", url, body)
	if err != nil {
		return nil, fmt.Errorf("run capsule request failed: %w", err)
	}

	utils.Infof("capsule run response (status %d):", status)
	fmt.Println(utils.PrettyJSON(b))
	return b, nil
}
