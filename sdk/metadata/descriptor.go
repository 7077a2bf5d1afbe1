// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	DataLevelDerived = "derived"

	// DescriptorFilename is the sidecar written next to the uploaded data.
	DescriptorFilename = "data_description.json"
)

// Modality of the acquired data. Everything this pipeline touches is
// extracellular electrophysiology.
type Modality struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

var ModalityEcephys = Modality{Name: "Extracellular electrophysiology", Abbreviation: "ecephys"}

type Organization struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

var (
	OrganizationAIND = Organization{Name: "Allen Institute for Neural Dynamics", Abbreviation: "AIND"}
	OrganizationAI   = Organization{Name: "Allen Institute", Abbreviation: "AI"}
)

type PIDName struct {
	Name string `json:"name"`
}

type Funding struct {
	Funder Organization `json:"funder"`
}

// dataNamePattern is the <platform>_<subject-id>_<date>_<time> folder
// naming convention. Group 1 is the platform abbreviation, group 2 the
// subject id.
var dataNamePattern = regexp.MustCompile(
	`^([a-zA-Z0-9-]+)_([0-9]+)_(\d{4}-\d{2}-\d{2})_(\d{2}-\d{2}-\d{2})$`)

// ParseDataName extracts platform abbreviation and subject id from a
// root folder name. A name outside the convention is an error; there
// is no repair path.
func ParseDataName(folder string) (platformAbbr, subjectID string, err error) {
	m := dataNamePattern.FindStringSubmatch(folder)
	if m == nil {
		return "", "", fmt.Errorf("folder %q does not match the <platform>_<subject-id>_<date>_<time> convention", folder)
	}
	return m[1], m[2], nil
}

// BuildDataName appends the creation timestamp to a label, e.g.
// "curated_2023-01-01_12-00-00".
func BuildDataName(label string, creation time.Time) string {
	return fmt.Sprintf("%s_%s_%s",
		label,
		creation.UTC().Format("2006-01-02"),
		creation.UTC().Format("15-04-05"))
}

// ProcessName derives the process label from a curation file name:
// strip the extension, "curation" becomes "curated", underscores
// become dashes.
func ProcessName(filename string) string {
	stem := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	stem = strings.ReplaceAll(stem, "curation", "curated")
	return strings.ReplaceAll(stem, "_", "-")
}

// DerivedDataDescription is the metadata sidecar describing one
// derived asset. Built fresh per asset, serialized once, never
// persisted beyond the staging directory.
type DerivedDataDescription struct {
	Name          string       `json:"name"`
	InputDataName string       `json:"input_data_name"`
	ProcessName   string       `json:"process_name"`
	CreationTime  time.Time    `json:"creation_time"`
	Modality      []Modality   `json:"modality"`
	Platform      Platform     `json:"platform"`
	Institution   Organization `json:"institution"`
	SubjectID     string       `json:"subject_id"`
	Investigators []PIDName    `json:"investigators"`
	FundingSource []Funding    `json:"funding_source"`
	DataLevel     string       `json:"data_level"`
}

// JSON serializes the descriptor with the 3-space indent the
// downstream registration capsule expects.
func (d *DerivedDataDescription) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "   ")
}

// Settings carries the per-invocation configuration the builder needs.
// The author map translates commit author logins into display names;
// a missing entry falls back to the raw author string.
type Settings struct {
	InvestigatorsByLogin map[string]string `json:"investigators_by_login"`
	Institution          *Organization     `json:"institution,omitempty"`
	Funder               *Organization     `json:"funder,omitempty"`
}

func (s Settings) institution() Organization {
	if s.Institution != nil {
		return *s.Institution
	}
	return OrganizationAIND
}

func (s Settings) funder() Organization {
	if s.Funder != nil {
		return *s.Funder
	}
	return OrganizationAI
}

type Builder struct {
	settings Settings
}

func NewBuilder(settings Settings) *Builder {
	return &Builder{settings: settings}
}

// Build constructs the descriptor for one asset. rootFolder must match
// the data name convention; fileName is the curation file the process
// name derives from.
func (b *Builder) Build(rootFolder, fileName string, creation time.Time, author string) (*DerivedDataDescription, error) {
	platformAbbr, subjectID, err := ParseDataName(rootFolder)
	if err != nil {
		return nil, err
	}
	platform, ok := PlatformFromAbbreviation(platformAbbr)
	if !ok {
		// the convention matched but the abbreviation is unknown;
		// keep it as-is so the descriptor still names the rig
		platform = Platform{Name: platformAbbr, Abbreviation: platformAbbr}
	}

	author = strings.TrimSpace(author)
	investigator := author
	if name, ok := b.settings.InvestigatorsByLogin[author]; ok {
		investigator = name
	}

	processName := ProcessName(fileName)

	return &DerivedDataDescription{
		Name:          rootFolder + "_" + BuildDataName(processName, creation),
		InputDataName: rootFolder,
		ProcessName:   processName,
		CreationTime:  creation.UTC(),
		Modality:      []Modality{ModalityEcephys},
		Platform:      platform,
		Institution:   b.settings.institution(),
		SubjectID:     subjectID,
		Investigators: []PIDName{{Name: investigator}},
		FundingSource: []Funding{{Funder: b.settings.funder()}},
		DataLevel:     DataLevelDerived,
	}, nil
}
