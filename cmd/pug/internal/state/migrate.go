// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseMu serializes the use of the goose package state.
var gooseMu sync.Mutex

// Migrate runs the pending migrations, logging them to logger. logger can
// be nil.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	if err := setupGoose(logger); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("cannot migrate state database: %w", err)
	}
	return nil
}

// Version returns the version of the database schema.
func (s *Store) Version(ctx context.Context) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	if err := setupGoose(nil); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, s.db)
}

func setupGoose(logger *slog.Logger) error {
	goose.SetBaseFS(migrations)
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	goose.SetLogger(gooseLogger{logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("cannot set dialect: %w", err)
	}
	return nil
}

// gooseLogger routes the goose messages to a slog logger.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}
