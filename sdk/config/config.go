// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package config

// Config passed into the SDK services (no viper/INI here)
type Config struct {
	CodeOcean CodeOceanConfig
	S3        S3Config
}

type CodeOceanConfig struct {
	Domain     string
	APIVersion string
	Token      string
	CapsuleID  string
}

type S3Config struct {
	AccessKey   string
	SecretKey   string
	AccessToken string
	Region      string
	EndpointURL string
}
