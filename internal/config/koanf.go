// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movierec/config.yaml",
	"/etc/movierec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces the service's environment variables.
const envPrefix = "MOVIEREC_"

// Load builds the configuration from defaults, an optional YAML file, and
// MOVIEREC_* environment variables, in that order of priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: struct defaults.
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: optional config file.
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables.
	// MOVIEREC_SERVER_PORT -> server.port, MOVIEREC_TMDB_API_KEY -> tmdb.api_key
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Env vars arrive as strings; convert the known slice fields from
	// comma-separated values.
	if raw := k.String("server.cors_origins"); raw != "" && len(k.Strings("server.cors_origins")) == 0 {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := k.Set("server.cors_origins", parts); err != nil {
			return nil, fmt.Errorf("parse server.cors_origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps an environment variable name to a koanf path. The
// section is the first underscore-delimited word; the rest is the key, so
// multi-word keys keep their underscores.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	// Keys whose section and field cannot be split on the first
	// underscore alone.
	mappings := map[string]string{
		"tmdb_api_key":                   "tmdb.api_key",
		"tmdb_base_url":                  "tmdb.base_url",
		"tmdb_timeout":                   "tmdb.timeout",
		"data_download_url":              "data.download_url",
		"server_rate_limit_requests":     "server.rate_limit_requests",
		"server_rate_limit_window":       "server.rate_limit_window",
		"server_read_timeout":            "server.read_timeout",
		"server_write_timeout":           "server.write_timeout",
		"server_shutdown_timeout":        "server.shutdown_timeout",
		"server_cors_origins":            "server.cors_origins",
		"recommend_top_k":                "recommend.top_k",
		"recommend_like_threshold":       "recommend.like_threshold",
		"recommend_min_similar_fraction": "recommend.min_similar_fraction",
		"tags_min_count":                 "tags.min_count",
	}
	if mapped, ok := mappings[key]; ok {
		return mapped
	}

	return strings.Replace(key, "_", ".", 1)
}
