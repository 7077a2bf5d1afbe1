// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/AllenNeuralDynamics/aind-curation-upload/sdk/metadata"
)

// LoadSettings builds the metadata settings for one invocation: an
// optional YAML settings file, with the investigators map falling back
// to the JSON-encoded INVESTIGATORS_GH_TO_NAME_MAP environment value.
func LoadSettings(path string) (metadata.Settings, error) {
	var settings metadata.Settings

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return settings, fmt.Errorf("failed to read settings file: %w", err)
		}
		jsonBytes, err := yaml.YAMLToJSON(data)
		if err != nil {
			return settings, fmt.Errorf("yaml to json failed: %w", err)
		}
		if err := json.Unmarshal(jsonBytes, &settings); err != nil {
			return settings, fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	if settings.InvestigatorsByLogin == nil {
		if raw := viper.GetString(InvestigatorsMapKey); raw != "" {
			m := map[string]string{}
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				return settings, fmt.Errorf("invalid %s value: %w", InvestigatorsMapKey, err)
			}
			settings.InvestigatorsByLogin = m
		}
	}

	return settings, nil
}
