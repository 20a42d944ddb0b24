// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/open2b/pug"
)

// app is the state shared by the commands.
type app struct {
	configFile string
	cfg        *Config
	logger     *slog.Logger
	profile    stopper
}

// close stops the profiling, if started.
func (a *app) close() {
	if a.profile != nil {
		a.profile.Stop()
		a.profile = nil
	}
}

// newRootCmd returns the pug command.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pug",
		Short: "Compile pug templates to HTML",
		Long: `Pug compiles templates written in an indentation based markup language
to HTML. It renders single templates, builds static sites and serves
templates during development.`,
		Version:       pug.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate("pug {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./"+defaultConfigFile+")")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("truthiness", "", "truthiness of the if conditions: coerce or strict")
	pf.String("profile", "", "write a profile: cpu, mem, allocs, heap, block, mutex, goroutine, thread or trace")

	root.AddCommand(
		newRenderCmd(a),
		newParseCmd(a),
		newBuildCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads the configuration and creates the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if cfg.File != "" {
		logger.Debug("using config file", "path", cfg.File)
	}
	if cfg.Profile != "" {
		a.profile = startProfile(cfg.Profile)
		logger.Debug("profiling enabled", "mode", cfg.Profile)
	}
	return nil
}

// readTemplate reads the template with the given path, or the standard
// input if path is empty or "-". It returns an error if the template is
// larger than max bytes.
func readTemplate(stdin io.Reader, path string, max int64) ([]byte, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = stdin
		path = "standard input"
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	src, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if int64(len(src)) > max {
		return nil, fmt.Errorf("template %s exceeds the maximum size of %d bytes", path, max)
	}
	return src, nil
}
