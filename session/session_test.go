// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open2b/pug"
)

func TestCompile(t *testing.T) {
	table := NewTable()
	h := table.Create()
	require.NotZero(t, h)

	require.NoError(t, table.SetString(h, "name", "Alice"))
	require.NoError(t, table.SetInt(h, "age", 25))
	require.NoError(t, table.SetBool(h, "loggedIn", true))

	s, err := table.Compile(h, "if loggedIn\n  p Hello #{name}, #{age}!\nelse\n  p Please log in")
	require.NoError(t, err)
	html, err := table.String(s)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello Alice, 25!</p>", html)

	require.NoError(t, table.SetBool(h, "loggedIn", false))
	s2, err := table.Compile(h, "if loggedIn\n  p Hello #{name}, #{age}!\nelse\n  p Please log in")
	require.NoError(t, err)
	assert.NotEqual(t, s, s2)
	html, err = table.String(s2)
	require.NoError(t, err)
	assert.Equal(t, "<p>Please log in</p>", html)

	require.NoError(t, table.FreeString(s))
	require.NoError(t, table.FreeString(s2))
	require.NoError(t, table.Destroy(h))
	assert.Equal(t, Stats{}, table.Stats())
}

func TestCompileError(t *testing.T) {
	table := NewTable()
	h := table.Create()
	s, err := table.Compile(h, "p Hello #{name}!")
	assert.Zero(t, s)
	var e *pug.CompileError
	require.True(t, errors.As(err, &e))
	assert.Equal(t, pug.StageRender, e.Stage())
	assert.Equal(t, "1:9: render error: undefined variable name", e.Error())
	assert.Equal(t, Stats{Sessions: 1}, table.Stats())
}

func TestInvalidHandle(t *testing.T) {
	table := NewTable()
	h := table.Create()
	require.NoError(t, table.Destroy(h))

	for _, h := range []Handle{h, 0, 42} {
		assert.ErrorIs(t, table.SetString(h, "a", "b"), ErrInvalidHandle)
		assert.ErrorIs(t, table.SetString(h, "a", "\xff"), ErrInvalidHandle)
		assert.ErrorIs(t, table.SetInt(h, "a", 1), ErrInvalidHandle)
		assert.ErrorIs(t, table.SetBool(h, "a", true), ErrInvalidHandle)
		_, err := table.Compile(h, "p")
		assert.ErrorIs(t, err, ErrInvalidHandle)
	}
	assert.ErrorIs(t, table.Destroy(h), ErrInvalidHandle)
	assert.NoError(t, table.Destroy(0))
}

func TestInvalidString(t *testing.T) {
	table := NewTable()
	h := table.Create()
	s, err := table.Compile(h, "p")
	require.NoError(t, err)
	require.NoError(t, table.FreeString(s))

	assert.ErrorIs(t, table.FreeString(s), ErrInvalidString)
	_, err = table.String(s)
	assert.ErrorIs(t, err, ErrInvalidString)
	_, err = table.String(0)
	assert.ErrorIs(t, err, ErrInvalidString)
	assert.NoError(t, table.FreeString(0))
}

func TestInvalidUTF8(t *testing.T) {
	table := NewTable()
	h := table.Create()
	assert.ErrorIs(t, table.SetString(h, "name", "\xffAlice"), ErrInvalidUTF8)
	assert.ErrorIs(t, table.SetString(h, "\xff", "Alice"), ErrInvalidUTF8)
	assert.ErrorIs(t, table.SetInt(h, "\xff", 1), ErrInvalidUTF8)
	assert.ErrorIs(t, table.SetBool(h, "\xff", true), ErrInvalidUTF8)
	_, err := table.Compile(h, "p #{name}")
	var e *pug.CompileError
	assert.True(t, errors.As(err, &e), "variable should not be set")
}

// TestStringOutlivesSession checks that a compiled string is still valid
// after its session has been destroyed.
func TestStringOutlivesSession(t *testing.T) {
	table := NewTable()
	h := table.Create()
	require.NoError(t, table.SetString(h, "name", "Bob"))
	s, err := table.Compile(h, "p #{name}")
	require.NoError(t, err)
	require.NoError(t, table.Destroy(h))

	html, err := table.String(s)
	require.NoError(t, err)
	assert.Equal(t, "<p>Bob</p>", html)
	assert.Equal(t, Stats{Strings: 1}, table.Stats())
	require.NoError(t, table.FreeString(s))
}

func TestSessionsAreIndependent(t *testing.T) {
	table := NewTable()
	a, b := table.Create(), table.Create()
	require.NotEqual(t, a, b)
	require.NoError(t, table.SetString(a, "name", "Alice"))
	_, err := table.Compile(b, "p #{name}")
	assert.Error(t, err)
}

func TestTableOptions(t *testing.T) {
	table := NewTableWithOptions(pug.Options{Path: "page.pug", Truthiness: pug.StrictTruthiness})
	h := table.Create()
	require.NoError(t, table.SetInt(h, "n", 1))
	_, err := table.Compile(h, "if n\n  p")
	var re *pug.RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, pug.NonBooleanCondition, re.Kind())
	assert.Equal(t, "page.pug", re.Path())
}

func TestConcurrentUse(t *testing.T) {
	table := NewTable()
	h := table.Create()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				assert.NoError(t, table.SetInt(h, "n", int64(i)))
				s, err := table.Compile(h, "p #{n}")
				if assert.NoError(t, err) {
					assert.NoError(t, table.FreeString(s))
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, Stats{Sessions: 1}, table.Stats())
}

func TestVersion(t *testing.T) {
	assert.Equal(t, pug.Version, Version())
}
