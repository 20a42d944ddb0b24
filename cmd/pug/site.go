// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/open2b/pug"
)

// fileKind is the kind of a file of a site.
type fileKind int

const (
	staticFile   fileKind = iota // copied as is
	templateFile                 // .pug file compiled to HTML
	markdownFile                 // .md file converted to HTML
)

func (k fileKind) String() string {
	switch k {
	case templateFile:
		return "template"
	case markdownFile:
		return "markdown"
	}
	return "static"
}

// kindOf returns the kind of the file with the given path.
func kindOf(name string) fileKind {
	switch path.Ext(name) {
	case ".pug":
		return templateFile
	case ".md":
		return markdownFile
	}
	return staticFile
}

// outputName returns the name of the file generated from the file name.
func outputName(name string) string {
	if kind := kindOf(name); kind != staticFile {
		return strings.TrimSuffix(name, path.Ext(name)) + ".html"
	}
	return name
}

// pageSources returns the names of the files that can generate the page
// name, ending with ".html", in order of precedence.
func pageSources(name string) []string {
	base := strings.TrimSuffix(name, ".html")
	return []string{base + ".pug", base + ".md"}
}

// isHidden reports whether a file or directory with base name base is
// excluded from a site.
func isHidden(base string) bool {
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// renderer renders the files of a site.
type renderer struct {
	md      goldmark.Markdown
	vars    *pug.Context
	options func(path string) *pug.Options
}

// render renders the source src of the file name and returns the generated
// content. The variables of r are not changed.
func (r *renderer) render(name string, src []byte) ([]byte, error) {
	var b bytes.Buffer
	switch kindOf(name) {
	case templateFile:
		if err := pug.CompileTo(&b, src, r.vars.Clone(), r.options(name)); err != nil {
			return nil, err
		}
	case markdownFile:
		if err := r.md.Convert(src, &b); err != nil {
			return nil, fmt.Errorf("cannot convert %s: %w", name, err)
		}
	default:
		return src, nil
	}
	return b.Bytes(), nil
}
