// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package register

type RegisterRequest struct {
	Bucket       string
	Prefix       string
	SubjectID    string
	PlatformAbbr string
}

// TriggerJob is the inner job description consumed by the trigger
// capsule.
type TriggerJob struct {
	JobType        string            `json:"job_type"`
	CapsuleID      string            `json:"capsule_id"`
	Bucket         string            `json:"bucket"`
	Prefix         string            `json:"prefix"`
	Tags           []string          `json:"tags"`
	CustomMetadata map[string]string `json:"custom_metadata"`
}

type JobParameters struct {
	TriggerCodeOceanJob TriggerJob `json:"trigger_codeocean_job"`
}

// RunCapsuleRequest is the computations API request body. The job
// parameters travel as a single serialized string parameter.
type RunCapsuleRequest struct {
	CapsuleID  string   `json:"capsule_id"`
	Parameters []string `json:"parameters"`
}
