// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package register_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/config"
	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/services/register"
)

func newService(t *testing.T, domain string) *register.RegisterService {
	t.Helper()
	svc, err := register.NewRegisterService(context.Background(), config.Config{
		CodeOcean: config.CodeOceanConfig{
			Domain:     domain,
			APIVersion: "v1",
			Token:      "test-token",
			CapsuleID:  "capsule-123",
		},
	})
	if err != nil {
		t.Fatalf("failed to init service: %v", err)
	}
	return svc
}

func TestRegisterSubmitsCapsuleRun(t *testing.T) {
	var gotPath, gotUser string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"run-1","state":"initializing"}`))
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	body, err := svc.Register(context.Background(), register.RegisterRequest{
		Bucket:       "my-bucket",
		Prefix:       "ecephys_605238_2023-01-01_12-00-00_curated_2023-01-01_12-00-00",
		SubjectID:    "605238",
		PlatformAbbr: "ecephys",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected raw response body")
	}

	if gotPath != "/api/v1/computations" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotUser != "test-token" {
		t.Fatalf("token not sent as basic auth user: %q", gotUser)
	}

	var runReq register.RunCapsuleRequest
	if err := json.Unmarshal(gotBody, &runReq); err != nil {
		t.Fatalf("request body unmarshal failed: %v", err)
	}
	if runReq.CapsuleID != "capsule-123" {
		t.Fatalf("capsule id mismatch: %q", runReq.CapsuleID)
	}
	if len(runReq.Parameters) != 1 {
		t.Fatalf("expected one serialized parameter, got %d", len(runReq.Parameters))
	}

	var params register.JobParameters
	if err := json.Unmarshal([]byte(runReq.Parameters[0]), &params); err != nil {
		t.Fatalf("job parameters unmarshal failed: %v", err)
	}
	job := params.TriggerCodeOceanJob
	if job.JobType != "register_data" {
		t.Fatalf("job type mismatch: %q", job.JobType)
	}
	if job.Bucket != "my-bucket" || job.Prefix == "" {
		t.Fatalf("bucket/prefix mismatch: %#v", job)
	}

	wantTags := []string{"ecephys", "605238", "curated", "ecephys", "derived"}
	if len(job.Tags) != len(wantTags) {
		t.Fatalf("tags mismatch: %v", job.Tags)
	}
	for i, tag := range wantTags {
		if job.Tags[i] != tag {
			t.Fatalf("tag %d mismatch: %q != %q", i, job.Tags[i], tag)
		}
	}
	if job.CustomMetadata["subject id"] != "605238" {
		t.Fatalf("custom metadata mismatch: %v", job.CustomMetadata)
	}
	if job.CustomMetadata["data level"] != "derived" {
		t.Fatalf("custom metadata mismatch: %v", job.CustomMetadata)
	}
	if job.CustomMetadata["experiment type"] != "ecephys" {
		t.Fatalf("custom metadata mismatch: %v", job.CustomMetadata)
	}
}

func TestRegisterDoesNotFailOnAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"capsule busy"}`))
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	body, err := svc.Register(context.Background(), register.RegisterRequest{
		Bucket:       "my-bucket",
		Prefix:       "p",
		SubjectID:    "1",
		PlatformAbbr: "ecephys",
	})
	if err != nil {
		t.Fatalf("API-level errors must not fail the call: %v", err)
	}
	if string(body) != `{"message":"capsule busy"}` {
		t.Fatalf("raw body not returned: %q", body)
	}
}
