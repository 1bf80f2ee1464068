// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package config loads the service configuration in three layers: struct
// defaults, an optional YAML file, and environment variables, each layer
// overriding the previous one.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Recommend RecommendConfig `koanf:"recommend"`
	Tags      TagsConfig      `koanf:"tags"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DataConfig locates the MovieLens CSV files.
type DataConfig struct {
	// Dir is the directory holding movies.csv, ratings.csv, links.csv,
	// and tags.csv.
	Dir string `koanf:"dir"`

	// DownloadURL is the dataset archive fetched when Dir does not exist.
	// Empty disables the bootstrap download.
	DownloadURL string `koanf:"download_url"`
}

// TMDBConfig configures poster lookups.
type TMDBConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	TopK               int     `koanf:"top_k"`
	LikeThreshold      float64 `koanf:"like_threshold"`
	MinSimilarFraction float64 `koanf:"min_similar_fraction"`
}

// TagsConfig configures tag search.
type TagsConfig struct {
	MinCount int `koanf:"min_count"`

	// Synonyms overrides the built-in synonym table. Keys are canonical
	// tags, values their synonyms.
	Synonyms map[string][]string `koanf:"synonyms"`
}

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			Dir:         "data/ml-latest-small",
			DownloadURL: "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip",
		},
		TMDB: TMDBConfig{
			APIKey:  "",
			BaseURL: "",
			Timeout: 5 * time.Second,
		},
		Recommend: RecommendConfig{
			TopK:               5,
			LikeThreshold:      4.0,
			MinSimilarFraction: 0.1,
		},
		Tags: TagsConfig{
			MinCount: 5,
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateData,
		c.validateRecommend,
		c.validateTags,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitRequests < 1 {
		return fmt.Errorf("server.rate_limit_requests must be positive, got %d", c.Server.RateLimitRequests)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.TopK < 1 {
		return fmt.Errorf("recommend.top_k must be positive, got %d", c.Recommend.TopK)
	}
	if c.Recommend.LikeThreshold < 0 || c.Recommend.LikeThreshold > 5 {
		return fmt.Errorf("recommend.like_threshold must be within the 0-5 rating scale, got %v", c.Recommend.LikeThreshold)
	}
	if c.Recommend.MinSimilarFraction < 0 || c.Recommend.MinSimilarFraction >= 1 {
		return fmt.Errorf("recommend.min_similar_fraction must be in [0,1), got %v", c.Recommend.MinSimilarFraction)
	}
	return nil
}

func (c *Config) validateTags() error {
	if c.Tags.MinCount < 1 {
		return fmt.Errorf("tags.min_count must be positive, got %d", c.Tags.MinCount)
	}
	return nil
}
