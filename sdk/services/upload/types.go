// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package upload

import "time"

type UploadRequest struct {
	Input      string // curation file or session directory, relative to Root
	Root       string // repository root; "" means the current directory
	Bucket     string
	Author     string    // commit author, mapped to an investigator name
	CommitTime time.Time // zero value means "now"
	DryRun     bool
}

// UploadResult feeds the registration call. Transient; no lifecycle
// beyond the invocation.
type UploadResult struct {
	S3Prefix     string
	SubjectID    string
	PlatformAbbr string
}
