// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state stores the state of the builds of a site in a SQLite
// database, so that a build can skip the pages that did not change since
// the last successful build.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a page or a build does not exist.
var ErrNotFound = errors.New("state: not found")

// Build is a build of a site.
type Build struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero if the build is not finished
	Pages      int       // number of built pages
	Skipped    int       // number of unchanged pages
	Failed     int       // number of pages that failed to build
}

// Page is the last successful build of a page.
type Page struct {
	Path       string // path of the source, relative to the source directory
	SourceHash string
	VarsHash   string
	Output     string // path of the output, relative to the output directory
	BuildID    string
	BuiltAt    time.Time
}

// Store is a build state store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the store at the given path, creating the database if it does
// not exist. Call Migrate before using it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open state database: %w", err)
	}
	// SQLite supports only one writer at a time.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot open state database %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path of the database.
func (s *Store) Path() string {
	return s.path
}

// BeginBuild records the start of a new build and returns it.
func (s *Store) BeginBuild(ctx context.Context) (*Build, error) {
	b := &Build{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, started_at) VALUES (?, ?)`,
		b.ID, b.StartedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("cannot begin build: %w", err)
	}
	return b, nil
}

// FinishBuild records the end of the build b with its counters.
func (s *Store) FinishBuild(ctx context.Context, b *Build) error {
	b.FinishedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE builds SET finished_at = ?, pages = ?, skipped = ?, failed = ? WHERE id = ?`,
		b.FinishedAt.UnixNano(), b.Pages, b.Skipped, b.Failed, b.ID)
	if err != nil {
		return fmt.Errorf("cannot finish build %s: %w", b.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("cannot finish build %s: %w", b.ID, ErrNotFound)
	}
	return nil
}

// Build returns the build with identifier id.
func (s *Store) Build(ctx context.Context, id string) (*Build, error) {
	return s.scanBuild(s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, pages, skipped, failed FROM builds WHERE id = ?`, id))
}

// LastBuild returns the last finished build.
func (s *Store) LastBuild(ctx context.Context) (*Build, error) {
	return s.scanBuild(s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, pages, skipped, failed FROM builds
		WHERE finished_at IS NOT NULL ORDER BY finished_at DESC LIMIT 1`))
}

func (s *Store) scanBuild(row *sql.Row) (*Build, error) {
	var b Build
	var started int64
	var finished sql.NullInt64
	err := row.Scan(&b.ID, &started, &finished, &b.Pages, &b.Skipped, &b.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read build: %w", err)
	}
	b.StartedAt = time.Unix(0, started).UTC()
	if finished.Valid {
		b.FinishedAt = time.Unix(0, finished.Int64).UTC()
	}
	return &b, nil
}

// Page returns the page with the given source path. If the page does not
// exist, it returns ErrNotFound.
func (s *Store) Page(ctx context.Context, path string) (*Page, error) {
	var p Page
	var built int64
	err := s.db.QueryRowContext(ctx,
		`SELECT path, source_hash, vars_hash, output, build_id, built_at FROM pages WHERE path = ?`, path,
	).Scan(&p.Path, &p.SourceHash, &p.VarsHash, &p.Output, &p.BuildID, &built)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read page %s: %w", path, err)
	}
	p.BuiltAt = time.Unix(0, built).UTC()
	return &p, nil
}

// PutPage inserts or replaces the page p.
func (s *Store) PutPage(ctx context.Context, p *Page) error {
	if p.BuiltAt.IsZero() {
		p.BuiltAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (path, source_hash, vars_hash, output, build_id, built_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET source_hash = excluded.source_hash,
		vars_hash = excluded.vars_hash, output = excluded.output,
		build_id = excluded.build_id, built_at = excluded.built_at`,
		p.Path, p.SourceHash, p.VarsHash, p.Output, p.BuildID, p.BuiltAt.UnixNano())
	if err != nil {
		return fmt.Errorf("cannot store page %s: %w", p.Path, err)
	}
	return nil
}

// DeletePage deletes the page with the given source path. It does nothing
// if the page does not exist.
func (s *Store) DeletePage(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("cannot delete page %s: %w", path, err)
	}
	return nil
}

// Pages returns the source paths of the stored pages, sorted.
func (s *Store) Pages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM pages ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("cannot read pages: %w", err)
	}
	defer rows.Close()
	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("cannot read pages: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read pages: %w", err)
	}
	return paths, nil
}
