// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// adapterConfig is one entry in the build config's adapter list.
type adapterConfig struct {
	// Kind selects the adapter implementation: "aws", "google", "azure",
	// "github", "generic", or "private".
	Kind string `mapstructure:"kind"`

	// Short is the source identifier recorded on every Record this
	// adapter emits. Required for "generic"; the other kinds fix their
	// own short name.
	Short string `mapstructure:"short"`

	// Pretty is the human-readable name registered in the info page's
	// sources map. Required for "generic".
	Pretty string `mapstructure:"pretty"`

	// Path is the local gzip-compressed JSON snapshot this adapter reads.
	// Unused by "private".
	Path string `mapstructure:"path"`
}

// buildConfig is the top-level shape of the --config YAML file, the
// Go-native replacement for cloud_db.py's hardcoded sources dict literal
// in create_db.
type buildConfig struct {
	Adapters []adapterConfig `mapstructure:"adapters"`
}

// loadConfig reads and parses the YAML build config at path using viper,
// matching its presence as a direct dependency of optakt/flow-dps.
func loadConfig(path string) (*buildConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg buildConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
