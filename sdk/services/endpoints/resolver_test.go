// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package endpoints_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/services/endpoints"
)

type fakeSSM struct {
	value string
	err   error
}

func (f *fakeSSM) GetParameter(_ context.Context, _ *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String(f.value)},
	}, nil
}

type fakeSecrets struct {
	value string
	err   error
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.value)}, nil
}

func TestParamsReturnsDecodedBlob(t *testing.T) {
	r := endpoints.NewResolverWithClients(
		&fakeSSM{value: `{"codeocean_domain":"https://codeocean.example.org","codeocean_trigger_capsule_id":"cap-1"}`},
		&fakeSecrets{},
	)
	params := r.Params(context.Background(), "/my/store")
	if params == nil {
		t.Fatal("expected decoded parameters")
	}
	if params[endpoints.ParamCodeOceanDomain] != "https://codeocean.example.org" {
		t.Fatalf("domain mismatch: %v", params[endpoints.ParamCodeOceanDomain])
	}
	if params[endpoints.ParamTriggerCapsuleID] != "cap-1" {
		t.Fatalf("capsule id mismatch: %v", params[endpoints.ParamTriggerCapsuleID])
	}
}

func TestParamsDegradesOnAccessFailure(t *testing.T) {
	r := endpoints.NewResolverWithClients(
		&fakeSSM{err: errors.New("ParameterNotFound")},
		&fakeSecrets{},
	)
	if params := r.Params(context.Background(), "/missing/store"); params != nil {
		t.Fatalf("expected nil on access failure, got %v", params)
	}
}

func TestParamsDegradesOnMalformedBlob(t *testing.T) {
	r := endpoints.NewResolverWithClients(&fakeSSM{value: "not-json"}, &fakeSecrets{})
	if params := r.Params(context.Background(), "/my/store"); params != nil {
		t.Fatalf("expected nil on malformed blob, got %v", params)
	}
}

func TestSecretsReturnsDecodedBlob(t *testing.T) {
	r := endpoints.NewResolverWithClients(
		&fakeSSM{},
		&fakeSecrets{value: `{"codeocean_api_token":"tok"}`},
	)
	secrets := r.Secrets(context.Background(), "my-secret")
	if secrets == nil {
		t.Fatal("expected decoded secrets")
	}
	if secrets[endpoints.SecretAPIToken] != "tok" {
		t.Fatalf("token mismatch: %v", secrets[endpoints.SecretAPIToken])
	}
}

func TestSecretsDegradesOnAccessFailure(t *testing.T) {
	r := endpoints.NewResolverWithClients(
		&fakeSSM{},
		&fakeSecrets{err: errors.New("ResourceNotFoundException")},
	)
	if secrets := r.Secrets(context.Background(), "missing"); secrets != nil {
		t.Fatalf("expected nil on access failure, got %v", secrets)
	}
}
