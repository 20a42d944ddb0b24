// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/open2b/pug"
)

func newServeCmd(a *app) *cobra.Command {
	var vf varsFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the templates of a site",
		Long: `Serve starts a web server that serves the site in the source directory.

A request for a .html page renders the .pug template, or the .md Markdown
file, with the same name. The other files are served as they are. The
rendered pages are cached until their source changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars, err := vf.context(a.cfg)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a.cfg, a.logger, vars)
		},
	}
	flags := cmd.Flags()
	flags.String("src-dir", "", "source directory (default .)")
	flags.String("addr", "", "address to listen on (default :8080)")
	vf.register(flags)
	return cmd
}

// serve serves the site until ctx is done.
func serve(ctx context.Context, cfg *Config, logger *slog.Logger, vars *pug.Context) error {

	fsys, err := newTemplateFS(cfg.SrcDir)
	if err != nil {
		return err
	}
	defer fsys.Close()

	srv := newServer(fsys, cfg, logger, vars)

	g, gctx := errgroup.WithContext(ctx)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		BaseContext: func(net.Listener) context.Context {
			return gctx
		},
	}

	g.Go(func() error {
		return fsys.watch(gctx)
	})
	g.Go(func() error {
		srv.invalidate(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("web server started", "addr", cfg.Addr, "src", cfg.SrcDir)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down web server")
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// server serves the pages of a site.
type server struct {
	fsys     *templateFS
	static   http.Handler
	renderer *renderer
	logger   *slog.Logger
	maxSize  int64

	sync.Mutex
	pages map[string][]byte // source name -> rendered page
}

func newServer(fsys *templateFS, cfg *Config, logger *slog.Logger, vars *pug.Context) *server {
	return &server{
		fsys:     fsys,
		static:   http.FileServer(http.FS(fsys)),
		renderer: &renderer{md: newMarkdown(), vars: vars, options: cfg.options},
		logger:   logger,
		maxSize:  cfg.MaxTemplateSize,
		pages:    map[string][]byte{},
	}
}

// routes returns the handler of the server.
func (srv *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.CleanPath,
		srv.logRequests,
		middleware.Recoverer,
	)
	r.Get("/*", srv.servePage)
	r.Head("/*", srv.servePage)
	return r
}

// invalidate removes the changed pages from the cache until ctx is done.
func (srv *server) invalidate(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case name := <-srv.fsys.Changed():
			srv.Lock()
			delete(srv.pages, name)
			srv.Unlock()
			srv.logger.Debug("file changed", "file", name)
		case err := <-srv.fsys.Errors():
			srv.logger.Error("watcher error", "error", err)
		}
	}
}

func (srv *server) servePage(w http.ResponseWriter, r *http.Request) {

	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	for _, part := range strings.Split(name, "/") {
		if isHidden(part) {
			http.NotFound(w, r)
			return
		}
	}

	if path.Ext(name) != ".html" {
		srv.static.ServeHTTP(w, r)
		return
	}

	for _, src := range pageSources(name) {
		page, err := srv.page(src)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			var e *pug.CompileError
			if errors.As(err, &e) {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, "%s", err)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			srv.logger.Error("cannot render page", "file", src, "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err = w.Write(page); err != nil {
			srv.logger.Debug("cannot write page", "file", src, "error", err)
		}
		return
	}

	// A .html file without a source is served as a static file.
	srv.static.ServeHTTP(w, r)
}

// page returns the rendered page of the source file name.
func (srv *server) page(name string) ([]byte, error) {
	srv.Lock()
	page, ok := srv.pages[name]
	srv.Unlock()
	if ok {
		return page, nil
	}
	src, err := srv.fsys.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if int64(len(src)) > srv.maxSize {
		return nil, fmt.Errorf("template %s exceeds the maximum size of %d bytes", name, srv.maxSize)
	}
	start := time.Now()
	page, err = srv.renderer.render(name, src)
	if err != nil {
		return nil, err
	}
	srv.logger.Debug("page rendered", "file", name, "duration", time.Since(start))
	srv.Lock()
	srv.pages[name] = page
	srv.Unlock()
	return page, nil
}

// logRequests logs the requests.
func (srv *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		srv.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
