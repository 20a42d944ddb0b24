// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/open2b/pug"
	"github.com/open2b/pug/cmd/pug/internal/state"
)

func newBuildCmd(a *app) *cobra.Command {
	var vf varsFlags
	var force bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a static site",
		Long: `Build builds the site in the source directory into the output directory.

The .pug templates and the .md Markdown files are rendered to .html files,
the other files are copied. Files and directories whose name starts with
"." or "_" are skipped. A file is rebuilt only if it, or the variables,
changed since the last build, unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars, err := vf.context(a.cfg)
			if err != nil {
				return err
			}
			b := &builder{
				cfg:    a.cfg,
				logger: a.logger,
				vars:   vars,
				force:  force,
			}
			summary, err := b.build(cmd.Context())
			if summary != nil {
				summary.write(cmd.OutOrStdout())
			}
			return err
		},
	}
	flags := cmd.Flags()
	flags.String("src-dir", "", "source directory (default .)")
	flags.String("out-dir", "", "output directory (default public)")
	flags.String("state", "", "state database (default .pug/state.db)")
	flags.Int("jobs", 0, "number of files built concurrently (default 4)")
	flags.BoolVar(&force, "force", false, "rebuild all the files")
	vf.register(flags)
	return cmd
}

// buildSummary is the summary of a build.
type buildSummary struct {
	ID       string
	Built    int
	Skipped  int
	Failed   int
	Removed  int
	Duration time.Duration
}

// write writes the summary as a table to w.
func (s *buildSummary) write(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Build", "Built", "Skipped", "Failed", "Removed", "Time"})
	t.AppendRow(table.Row{s.ID, s.Built, s.Skipped, s.Failed, s.Removed, s.Duration.Round(time.Millisecond)})
	t.Render()
}

// builder builds a site.
type builder struct {
	cfg    *Config
	logger *slog.Logger
	vars   *pug.Context
	force  bool

	srcDir   string
	outDir   string
	store    *state.Store
	run      *state.Build
	varsHash string
	renderer *renderer

	mu       sync.Mutex
	outputs  map[string]string // output name -> source name
	summary  buildSummary
	failures []error
}

// build builds the site. It returns the summary also if the build fails,
// if it has been started.
func (b *builder) build(ctx context.Context) (*buildSummary, error) {

	start := time.Now()

	var err error
	b.srcDir, err = filepath.Abs(b.cfg.SrcDir)
	if err != nil {
		return nil, err
	}
	b.outDir, err = filepath.Abs(b.cfg.OutDir)
	if err != nil {
		return nil, err
	}
	if b.outDir == b.srcDir {
		return nil, fmt.Errorf("output directory %q cannot be the source directory", b.cfg.OutDir)
	}

	if err = os.MkdirAll(filepath.Dir(b.cfg.StatePath), 0700); err != nil {
		return nil, err
	}
	b.store, err = state.Open(ctx, b.cfg.StatePath)
	if err != nil {
		return nil, err
	}
	defer b.store.Close()
	if err = b.store.Migrate(ctx, b.logger); err != nil {
		return nil, err
	}

	b.run, err = b.store.BeginBuild(ctx)
	if err != nil {
		return nil, err
	}
	b.summary = buildSummary{ID: b.run.ID}
	b.failures = nil
	b.varsHash = varsHash(b.vars)
	b.outputs = map[string]string{}
	b.renderer = &renderer{md: newMarkdown(), vars: b.vars, options: b.cfg.options}

	logger := b.logger.With("build", b.run.ID)
	logger.Info("build started", "src", b.srcDir, "out", b.outDir)

	names, err := b.sources()
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Jobs)
	for _, name := range names {
		name := name
		g.Go(func() error {
			return b.buildFile(gctx, logger, name)
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	if err = b.removeStale(ctx, logger, names); err != nil {
		return nil, err
	}

	b.run.Pages = b.summary.Built
	b.run.Skipped = b.summary.Skipped
	b.run.Failed = b.summary.Failed
	if err = b.store.FinishBuild(ctx, b.run); err != nil {
		return nil, err
	}

	b.summary.Duration = time.Since(start)
	logger.Info("build finished", "built", b.summary.Built, "skipped", b.summary.Skipped,
		"failed", b.summary.Failed, "duration", b.summary.Duration)

	summary := b.summary
	if len(b.failures) > 0 {
		return &summary, fmt.Errorf("%d files failed to build:\n%w", len(b.failures), errors.Join(b.failures...))
	}
	return &summary, nil
}

// sources returns the names of the files of the site, sorted.
func (b *builder) sources() ([]string, error) {
	var names []string
	err := filepath.WalkDir(b.srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == b.srcDir {
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == b.outDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name, err := filepath.Rel(b.srcDir, path)
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)
		out := outputName(name)
		if prev, ok := b.outputs[out]; ok {
			return fmt.Errorf("files %q and %q both build to %q", prev, name, out)
		}
		b.outputs[out] = name
		names = append(names, name)
		return nil
	})
	sort.Strings(names)
	return names, err
}

// buildFile builds the file with the given name.
func (b *builder) buildFile(ctx context.Context, logger *slog.Logger, name string) error {

	src, err := b.readSource(name)
	if err != nil {
		return err
	}

	page := &state.Page{
		Path:       name,
		SourceHash: sourceHash(src),
		Output:     outputName(name),
		BuildID:    b.run.ID,
	}
	if kindOf(name) == templateFile {
		page.VarsHash = b.varsHash
	}
	dst := filepath.Join(b.outDir, filepath.FromSlash(page.Output))

	if !b.force {
		prev, err := b.store.Page(ctx, name)
		if err != nil && !errors.Is(err, state.ErrNotFound) {
			return err
		}
		if prev != nil && prev.SourceHash == page.SourceHash && prev.VarsHash == page.VarsHash && prev.Output == page.Output {
			if _, err := os.Stat(dst); err == nil {
				logger.Debug("file unchanged", "file", name)
				b.count(&b.summary.Skipped, nil)
				return nil
			}
		}
	}

	out, err := b.renderer.render(name, src)
	if err != nil {
		var e *pug.CompileError
		if errors.As(err, &e) {
			logger.Error("cannot build file", "file", name, "error", err)
			b.count(&b.summary.Failed, err)
			// The output of the previous build, if any, is stale.
			return b.store.DeletePage(ctx, name)
		}
		return err
	}

	if err = os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err = atomic.WriteFile(dst, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("cannot write %s: %w", dst, err)
	}
	if err = b.store.PutPage(ctx, page); err != nil {
		return err
	}
	logger.Debug("file built", "file", name, "kind", kindOf(name), "output", page.Output)
	b.count(&b.summary.Built, nil)

	return nil
}

// readSource reads the source of the file name, checking the size of the
// templates and Markdown files.
func (b *builder) readSource(name string) ([]byte, error) {
	path := filepath.Join(b.srcDir, filepath.FromSlash(name))
	if kindOf(name) == staticFile {
		return os.ReadFile(path)
	}
	src, err := readTemplate(nil, path, b.cfg.MaxTemplateSize)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// count increments the counter n and records the failure err, if not nil.
func (b *builder) count(n *int, err error) {
	b.mu.Lock()
	*n++
	if err != nil {
		b.failures = append(b.failures, err)
	}
	b.mu.Unlock()
}

// removeStale removes the outputs of the files built by a previous build
// that no longer exist.
func (b *builder) removeStale(ctx context.Context, logger *slog.Logger, names []string) error {
	exists := make(map[string]bool, len(names))
	for _, name := range names {
		exists[name] = true
	}
	stored, err := b.store.Pages(ctx)
	if err != nil {
		return err
	}
	for _, name := range stored {
		if exists[name] {
			continue
		}
		page, err := b.store.Page(ctx, name)
		if err != nil {
			return err
		}
		// Do not remove an output now generated by another file.
		if _, ok := b.outputs[page.Output]; !ok {
			err = os.Remove(filepath.Join(b.outDir, filepath.FromSlash(page.Output)))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		if err = b.store.DeletePage(ctx, name); err != nil {
			return err
		}
		logger.Debug("file removed", "file", name, "output", page.Output)
		b.summary.Removed++
	}
	return nil
}
