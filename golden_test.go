// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pug

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/open2b/pug/ast"
)

// TestGolden compiles the templates in the testdata/*.txtar archives. Each
// archive contains a "template.pug" file, an optional "vars.yaml" file and
// either an "output.html" file with the expected output or an "error.txt"
// file with the expected error.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no golden files")
	}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			var src, vars, output, expectedErr []byte
			for _, f := range ar.Files {
				switch f.Name {
				case "template.pug":
					src = f.Data
				case "vars.yaml":
					vars = f.Data
				case "output.html":
					output = f.Data
				case "error.txt":
					expectedErr = f.Data
				default:
					t.Fatalf("unexpected file %q", f.Name)
				}
			}
			ctx := NewContext()
			if vars != nil {
				var m map[string]interface{}
				if err := yaml.Unmarshal(vars, &m); err != nil {
					t.Fatal(err)
				}
				if err := ctx.Merge(m); err != nil {
					t.Fatal(err)
				}
			}
			got, err := Compile(string(src), ctx, &Options{Path: "template.pug"})
			if expectedErr != nil {
				if err == nil {
					t.Fatalf("expecting error, got output %q", got)
				}
				if got != "" {
					t.Fatalf("unexpected partial output %q", got)
				}
				if expected := strings.TrimSuffix(string(expectedErr), "\n"); err.Error() != expected {
					t.Fatalf("unexpected error %q, expecting %q", err, expected)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if expected := strings.TrimSuffix(string(output), "\n"); got != expected {
				t.Fatalf("unexpected output\n%s\nexpecting\n%s", got, expected)
			}
			if err := checkWellFormed(got); err != nil {
				t.Fatal(err)
			}
		})
	}
}

// checkWellFormed checks that every start tag in s, except for void
// elements, is closed by a matching end tag.
func checkWellFormed(s string) error {
	var open []string
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			if len(open) > 0 {
				return fmt.Errorf("elements %q are not closed", open)
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if !ast.IsVoidElement(string(name)) {
				open = append(open, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(open) == 0 || open[len(open)-1] != string(name) {
				return fmt.Errorf("unexpected end tag %s", name)
			}
			open = open[:len(open)-1]
		case html.SelfClosingTagToken:
			return fmt.Errorf("unexpected self-closing tag")
		}
	}
}

func TestCheckWellFormed(t *testing.T) {
	for _, s := range []string{"<p>", "<p></div>", "</p>", "<br/>"} {
		if checkWellFormed(s) == nil {
			t.Errorf("%q: expecting error", s)
		}
	}
	if err := checkWellFormed(`<p class="a">x<br><img></p>`); err != nil {
		t.Error(err)
	}
}
