// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"
)

// Keys the registration workflow expects inside the resolved blobs.
const (
	ParamCodeOceanDomain  = "codeocean_domain"
	ParamTriggerCapsuleID = "codeocean_trigger_capsule_id"
	SecretAPIToken        = "codeocean_api_token"
)

type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver fetches the operational-parameter and secret JSON blobs.
// Lookups are degraded, not fatal: a failed fetch logs a warning and
// yields nil. Nothing is cached; every call hits AWS again.
type Resolver struct {
	ssm     SSMAPI
	secrets SecretsAPI
}

func NewResolver(ctx context.Context) (*Resolver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		ssm:     ssm.NewFromConfig(cfg),
		secrets: secretsmanager.NewFromConfig(cfg),
	}, nil
}

// NewResolverWithClients wires preconstructed clients (tests).
func NewResolverWithClients(ssmClient SSMAPI, secretsClient SecretsAPI) *Resolver {
	return &Resolver{ssm: ssmClient, secrets: secretsClient}
}

// Params downloads the endpoint configuration from the parameter
// store. Returns nil after logging a warning on any access failure.
func (r *Resolver) Params(ctx context.Context, storeName string) map[string]any {
	out, err := r.ssm.GetParameter(ctx, &ssm.GetParameterInput{Name: &storeName})
	if err != nil {
		warnAWS("parameters", err)
		return nil
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		log.Printf("WARNING: parameter store %q returned no value\n", storeName)
		return nil
	}
	return decodeJSONBlob("parameters", *out.Parameter.Value)
}

// Secrets downloads the secret blob from the secrets manager. Same
// degraded failure policy as Params.
func (r *Resolver) Secrets(ctx context.Context, secretsName string) map[string]any {
	out, err := r.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretsName})
	if err != nil {
		warnAWS("secrets", err)
		return nil
	}
	if out.SecretString == nil {
		log.Printf("WARNING: secret %q has no string value\n", secretsName)
		return nil
	}
	return decodeJSONBlob("secrets", *out.SecretString)
}

func decodeJSONBlob(what, raw string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		log.Printf("WARNING: unable to decode %s blob: %v\n", what, err)
		return nil
	}
	return m
}

func warnAWS(what string, err error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		log.Printf("WARNING: unable to retrieve %s from aws: %s - %s\n",
			what, apiErr.ErrorCode(), apiErr.ErrorMessage())
		return
	}
	log.Printf("WARNING: unable to retrieve %s from aws: %v\n", what, err)
}
