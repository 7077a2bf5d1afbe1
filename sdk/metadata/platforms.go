// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package metadata

// Platform identifies the acquisition rig type. The abbreviation is
// the first segment of the data folder naming convention.
type Platform struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

var platformsByAbbreviation = map[string]Platform{
	"behavior":           {Name: "Behavior platform", Abbreviation: "behavior"},
	"confocal":           {Name: "Confocal microscopy platform", Abbreviation: "confocal"},
	"ecephys":            {Name: "Electrophysiology platform", Abbreviation: "ecephys"},
	"exaspim":            {Name: "ExaSPIM platform", Abbreviation: "exaspim"},
	"fip":                {Name: "Frame-projected independent-fiber photometry platform", Abbreviation: "fip"},
	"hcr":                {Name: "Hybridization chain reaction platform", Abbreviation: "hcr"},
	"hsfp":               {Name: "Hyperspectral fiber photometry platform", Abbreviation: "hsfp"},
	"isi":                {Name: "Intrinsic signal imaging platform", Abbreviation: "isi"},
	"merfish":            {Name: "MERFISH platform", Abbreviation: "merfish"},
	"mesospim":           {Name: "MesoSPIM platform", Abbreviation: "mesospim"},
	"motor-observatory":  {Name: "Motor observatory platform", Abbreviation: "motor-observatory"},
	"mri":                {Name: "Magnetic resonance imaging platform", Abbreviation: "mri"},
	"multiplane-ophys":   {Name: "Multiplane optical physiology platform", Abbreviation: "multiplane-ophys"},
	"single-plane-ophys": {Name: "Single-plane optical physiology platform", Abbreviation: "single-plane-ophys"},
	"slap2":              {Name: "SLAP2 platform", Abbreviation: "slap2"},
	"smartspim":          {Name: "SmartSPIM platform", Abbreviation: "smartspim"},
}

func PlatformFromAbbreviation(abbr string) (Platform, bool) {
	p, ok := platformsByAbbreviation[abbr]
	return p, ok
}

func IsPlatformAbbreviation(abbr string) bool {
	_, ok := platformsByAbbreviation[abbr]
	return ok
}
