// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/open2b/pug"
	"github.com/open2b/pug/ast/astutil"
)

func newRenderCmd(a *app) *cobra.Command {
	var vf varsFlags
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a template to the standard output",
		Long: `Render compiles the template in file, or the standard input if file is
omitted or is "-", and writes the HTML to the standard output.

The variables are read from the "vars" map of the configuration, from the
YAML file given with --vars and from the --set and --string flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			src, err := readTemplate(cmd.InOrStdin(), path, a.cfg.MaxTemplateSize)
			if err != nil {
				return err
			}
			ctx, err := vf.context(a.cfg)
			if err != nil {
				return err
			}
			if path == "-" {
				path = ""
			}
			a.logger.Debug("rendering template", "path", path, "vars", ctx.Len())
			return pug.CompileTo(cmd.OutOrStdout(), src, ctx, a.cfg.options(path))
		},
	}
	vf.register(cmd.Flags())
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the tree of a template",
		Long: `Parse parses the template in file, or the standard input if file is
omitted or is "-", and prints its tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			src, err := readTemplate(cmd.InOrStdin(), path, a.cfg.MaxTemplateSize)
			if err != nil {
				return err
			}
			if path == "-" {
				path = ""
			}
			tree, err := pug.Parse(src, path)
			if err != nil {
				return err
			}
			var b bytes.Buffer
			if err := astutil.Dump(&b, tree); err != nil {
				return err
			}
			_, err = b.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !semver.IsValid(pug.Version) {
				return fmt.Errorf("invalid version %q", pug.Version)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pug version:                   %s\n", semver.Canonical(pug.Version))
			_, err := fmt.Fprintf(out, "Go version used to build pug:  %s\n", runtime.Version())
			return err
		},
	}
}
