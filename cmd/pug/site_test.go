// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open2b/pug"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		name string
		kind fileKind
		out  string
	}{
		{"index.pug", templateFile, "index.html"},
		{"docs/intro.md", markdownFile, "docs/intro.html"},
		{"css/style.css", staticFile, "css/style.css"},
		{"page.html", staticFile, "page.html"},
		{"archive.tar.gz", staticFile, "archive.tar.gz"},
		{"v1.2/notes.md", markdownFile, "v1.2/notes.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, kindOf(tt.name))
			assert.Equal(t, tt.out, outputName(tt.name))
		})
	}
	assert.Equal(t, []string{"docs/index.pug", "docs/index.md"}, pageSources("docs/index.html"))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".git"))
	assert.True(t, isHidden("_layouts"))
	assert.False(t, isHidden("index.pug"))
}

func TestRenderer(t *testing.T) {
	vars := pug.NewContext()
	vars.SetString("name", "Alice")
	r := &renderer{md: newMarkdown(), vars: vars, options: func(path string) *pug.Options {
		return &pug.Options{Path: path}
	}}

	out, err := r.render("a.pug", []byte("p #{name}"))
	require.NoError(t, err)
	assert.Equal(t, "<p>Alice</p>", string(out))

	out, err = r.render("a.md", []byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")

	out, err = r.render("a.txt", []byte("#{name}"))
	require.NoError(t, err)
	assert.Equal(t, "#{name}", string(out))

	_, err = r.render("b.pug", []byte("p #{missing}"))
	var e *pug.CompileError
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "b.pug", e.Path())
	assert.Equal(t, 1, vars.Len(), "the variables are not changed")
}

func TestStartProfile(t *testing.T) {
	// An empty mode does not start profiling.
	p := startProfile("")
	assert.IsType(t, noProfile{}, p)
	p.Stop()
}
