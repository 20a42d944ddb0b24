// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session exposes the template engine through opaque handles, for
// callers that cannot hold Go values such as foreign function bindings.
//
// A Table holds the sessions and the compiled strings. A session owns a
// context with the variables; a compiled string is owned by the caller
// until it is freed. Misuse of a handle is reported with an error and never
// panics.
package session

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/open2b/pug"
)

var (
	// ErrInvalidHandle is returned when a session handle does not refer to
	// a live session.
	ErrInvalidHandle = errors.New("session: invalid handle")

	// ErrInvalidString is returned when a string handle does not refer to a
	// live compiled string.
	ErrInvalidString = errors.New("session: invalid string handle")

	// ErrInvalidUTF8 is returned when a variable name or value is not valid
	// UTF-8.
	ErrInvalidUTF8 = errors.New("session: invalid UTF-8 encoding")
)

// Handle identifies a session. The zero Handle never refers to a session.
type Handle uint64

// StringHandle identifies a compiled string. The zero StringHandle never
// refers to a string.
type StringHandle uint64

// Stats reports the number of live sessions and strings of a Table.
type Stats struct {
	Sessions int
	Strings  int
}

type session struct {
	mu  sync.Mutex
	ctx *pug.Context
}

// Table is a table of sessions and compiled strings. It is safe for
// concurrent use. Operations on the same session are serialized.
type Table struct {
	options pug.Options

	mu         sync.Mutex
	sessions   map[Handle]*session
	strings    map[StringHandle]string
	lastHandle Handle
	lastString StringHandle
}

// NewTable returns a new empty table.
func NewTable() *Table {
	return NewTableWithOptions(pug.Options{})
}

// NewTableWithOptions returns a new empty table whose sessions compile the
// templates with the given options.
func NewTableWithOptions(options pug.Options) *Table {
	return &Table{
		options:  options,
		sessions: map[Handle]*session{},
		strings:  map[StringHandle]string{},
	}
}

// Create creates a new session with an empty context and returns its
// handle.
func (t *Table) Create() Handle {
	t.mu.Lock()
	t.lastHandle++
	h := t.lastHandle
	t.sessions[h] = &session{ctx: pug.NewContext()}
	t.mu.Unlock()
	return h
}

// Destroy destroys the session h. The strings compiled by the session are
// not freed. Destroying the zero Handle does nothing.
func (t *Table) Destroy(h Handle) error {
	if h == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sessions[h]; !ok {
		return ErrInvalidHandle
	}
	delete(t.sessions, h)
	return nil
}

func (t *Table) session(h Handle) (*session, error) {
	t.mu.Lock()
	s, ok := t.sessions[h]
	t.mu.Unlock()
	if !ok {
		return nil, ErrInvalidHandle
	}
	return s, nil
}

// set sets the variable name to v in the context of the session h.
func (t *Table) set(h Handle, name string, v pug.Value) error {
	s, err := t.session(h)
	if err != nil {
		return err
	}
	if !utf8.ValidString(name) {
		return ErrInvalidUTF8
	}
	s.mu.Lock()
	s.ctx.Set(name, v)
	s.mu.Unlock()
	return nil
}

// SetString sets the variable name to the string value in the session h.
func (t *Table) SetString(h Handle, name, value string) error {
	if !utf8.ValidString(value) {
		if _, err := t.session(h); err != nil {
			return err
		}
		return ErrInvalidUTF8
	}
	return t.set(h, name, pug.StringValue(value))
}

// SetInt sets the variable name to the integer value in the session h.
func (t *Table) SetInt(h Handle, name string, value int64) error {
	return t.set(h, name, pug.IntValue(value))
}

// SetBool sets the variable name to the boolean value in the session h.
func (t *Table) SetBool(h Handle, name string, value bool) error {
	return t.set(h, name, pug.BoolValue(value))
}

// Compile compiles src with the variables of the session h and returns the
// handle of the resulting HTML. The caller owns the string and must free it
// with FreeString.
//
// If the compilation fails, it returns a *pug.CompileError and no string.
func (t *Table) Compile(h Handle, src string) (StringHandle, error) {
	s, err := t.session(h)
	if err != nil {
		return 0, err
	}
	options := t.options
	s.mu.Lock()
	html, err := pug.Compile(src, s.ctx, &options)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	t.lastString++
	sh := t.lastString
	t.strings[sh] = html
	t.mu.Unlock()
	return sh, nil
}

// String returns the compiled string s.
func (t *Table) String(s StringHandle) (string, error) {
	t.mu.Lock()
	html, ok := t.strings[s]
	t.mu.Unlock()
	if !ok {
		return "", ErrInvalidString
	}
	return html, nil
}

// FreeString frees the compiled string s. Freeing the zero StringHandle
// does nothing.
func (t *Table) FreeString(s StringHandle) error {
	if s == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.strings[s]; !ok {
		return ErrInvalidString
	}
	delete(t.strings, s)
	return nil
}

// Stats returns the number of live sessions and strings.
func (t *Table) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{Sessions: len(t.sessions), Strings: len(t.strings)}
}

// Version returns the version of the engine.
func Version() string {
	return pug.Version
}
