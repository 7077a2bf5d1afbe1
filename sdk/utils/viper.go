// SPDX-FileCopyrightText: © 2025 Allen Institute for Neural Dynamics
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

const IniName = ".aind-upload.ini"

// Viper keys for the tool configuration.
const (
	S3BucketKey         = "s3_bucket"
	ParamStoreKey       = "param_store_name"
	SecretsNameKey      = "secrets_name"
	AwsAccessKeyIDKey   = "aws_access_key_id"
	AwsSecretKeyKey     = "aws_secret_access_key"
	AwsSessionTokenKey  = "aws_session_token"
	AwsRegionKey        = "aws_region"
	AwsEndpointURLKey   = "aws_endpoint_url"
	InvestigatorsMapKey = "investigators_gh_to_name_map"
)

// Config holds all logical keys. Tags:
// - vkey: Viper key
// - env: canonical env name (UPPER_SNAKE). If empty, derived from vkey
// - persist: "true" to write the key into the INI
// - secret: "true" if sensitive (handy for logging)
type Config struct {
	S3Bucket           string `vkey:"s3_bucket"                    env:"S3_BUCKET"                    persist:"true"`
	ParamStoreName     string `vkey:"param_store_name"             env:"PARAM_STORE_NAME"             persist:"true"`
	SecretsName        string `vkey:"secrets_name"                 env:"SECRETS_NAME"                 persist:"true"`
	AwsAccessKeyID     string `vkey:"aws_access_key_id"            env:"AWS_ACCESS_KEY_ID"            persist:"true"  secret:"true"`
	AwsSecretAccessKey string `vkey:"aws_secret_access_key"        env:"AWS_SECRET_ACCESS_KEY"        persist:"true"  secret:"true"`
	AwsSessionToken    string `vkey:"aws_session_token"            env:"AWS_SESSION_TOKEN"            persist:"true"  secret:"true"`
	AwsRegion          string `vkey:"aws_region"                   env:"AWS_REGION"                   persist:"true"`
	AwsEndpointURL     string `vkey:"aws_endpoint_url"             env:"AWS_ENDPOINT_URL"             persist:"true"`
	InvestigatorsMap   string `vkey:"investigators_gh_to_name_map" env:"INVESTIGATORS_GH_TO_NAME_MAP" persist:"false"`
}

func getIniPath() string {
	iniPath, err := os.UserHomeDir()
	if err != nil {
		iniPath = "."
	}
	return iniPath + string(os.PathSeparator) + IniName
}

// BindEnvFromStruct binds env for all fields of Config using struct tags.
func BindEnvFromStruct() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rt := reflect.TypeOf(Config{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)

		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		env := f.Tag.Get("env")
		if env == "" {
			env = strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
		_ = viper.BindEnv(key, env)
	}
}

// WriteIniFromStruct writes a new INI with only fields marked persist:"true".
func WriteIniFromStruct(iniPath string) error {
	cfg := ini.Empty()
	sec := cfg.Section("DEFAULT")

	rt := reflect.TypeOf(Config{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Tag.Get("persist") != "true" {
			continue
		}
		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		val := viper.GetString(key)
		if val == "" {
			continue
		}
		sec.Key(key).SetValue(val)
	}

	return cfg.SaveTo(iniPath)
}

// RegisterIniCfgWithViper:
// 1) bind ENV from struct (live)
// 2) load the INI if present and merge its DEFAULT section as defaults;
//    ENV still overrides on Get()
func RegisterIniCfgWithViper() error {
	BindEnvFromStruct()

	iniPath := getIniPath()
	cfg, err := ini.Load(iniPath)
	if err != nil {
		// no INI is fine, ENV-only mode
		return nil
	}
	for _, k := range cfg.Section("DEFAULT").Keys() {
		if !viper.IsSet(k.Name()) {
			viper.SetDefault(k.Name(), k.Value())
		}
	}
	return nil
}

// SaveIni persists the current persistable values.
func SaveIni() error {
	if err := WriteIniFromStruct(getIniPath()); err != nil {
		return fmt.Errorf("failed to update ini file: %w", err)
	}
	return nil
}
