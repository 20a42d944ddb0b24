// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/open2b/pug"
)

// defaultConfigFile is the configuration file read, if it exists, when the
// --config flag is not given.
const defaultConfigFile = "pug.yaml"

// envPrefix is the prefix of the environment variables read as
// configuration, as PUG_OUT_DIR for out_dir.
const envPrefix = "PUG_"

// Config is the configuration of the pug command.
type Config struct {
	SrcDir          string                 `koanf:"src_dir"`
	OutDir          string                 `koanf:"out_dir"`
	StatePath       string                 `koanf:"state_path"`
	Addr            string                 `koanf:"addr"`
	Jobs            int                    `koanf:"jobs"`
	VarsFile        string                 `koanf:"vars_file"`
	Vars            map[string]interface{} `koanf:"vars"`
	LogLevel        string                 `koanf:"log_level"`
	LogFormat       string                 `koanf:"log_format"`
	Truthiness      string                 `koanf:"truthiness"`
	MaxTemplateSize int64                  `koanf:"max_template_size"`
	Profile         string                 `koanf:"profile"`

	// File is the configuration file that has been read, if any.
	File string `koanf:"-"`
}

var defaults = map[string]interface{}{
	"src_dir":           ".",
	"out_dir":           "public",
	"state_path":        ".pug/state.db",
	"addr":              ":8080",
	"jobs":              4,
	"log_level":         "info",
	"log_format":        "text",
	"truthiness":        "coerce",
	"max_template_size": 1 << 20,
}

// flagKeys maps the flags whose name differs from the configuration key.
var flagKeys = map[string]string{
	"vars":  "vars_file",
	"state": "state_path",
}

// ignoredFlags are the flags that are not configuration keys.
var ignoredFlags = map[string]bool{
	"config": true,
	"set":    true,
	"string": true,
	"force":  true,
	"help":   true,
}

// loadConfig loads the configuration. The values are read, from the lowest
// to the highest priority, from the defaults, the configuration file, the
// environment and the flags set on the command line.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {

	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults, "."), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	} else {
		path = ""
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot load environment: %w", err)
	}

	if flags != nil {
		err = k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || ignoredFlags[f.Name] {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("cannot load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate validates the configuration.
func (cfg *Config) validate() error {
	if cfg.Jobs < 1 {
		return fmt.Errorf("invalid jobs %d, expecting a positive number", cfg.Jobs)
	}
	if cfg.MaxTemplateSize < 1 {
		return fmt.Errorf("invalid max_template_size %d, expecting a positive number", cfg.MaxTemplateSize)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q, expecting text or json", cfg.LogFormat)
	}
	if _, err := pug.ParseTruthiness(cfg.Truthiness); err != nil {
		return err
	}
	if cfg.Profile != "" {
		if _, ok := profileModes[cfg.Profile]; !ok {
			return fmt.Errorf("invalid profile mode %q", cfg.Profile)
		}
	}
	return nil
}

// options returns the compilation options for the template with the given
// path.
func (cfg *Config) options(path string) *pug.Options {
	truthiness, _ := pug.ParseTruthiness(cfg.Truthiness)
	return &pug.Options{Path: path, Truthiness: truthiness}
}
