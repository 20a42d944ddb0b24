// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astutil_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/open2b/pug/ast"
	"github.com/open2b/pug/ast/astutil"
	"github.com/open2b/pug/internal/compiler"
)

var inspectTests = []struct {
	src   string
	prune bool
	nodes string
}{
	{"p", false, "Tree Element"},
	{"p #{a}", false, "Tree Element Text Interpolation"},
	{"if ok\n  br\nelse\n  hr", false, "Tree If Element Element"},
	{"mixin m\n  p\n+m", false, "Tree Mixin Element MixinCall"},
	{"div\n  p\n    span", true, "Tree Element"},
}

func TestInspect(t *testing.T) {
	for _, test := range inspectTests {
		tree, err := compiler.ParseTemplate([]byte(test.src), "")
		if err != nil {
			t.Fatalf("source: %q, %s", test.src, err)
		}
		var nodes []string
		astutil.Inspect(tree, func(n ast.Node) bool {
			if n == nil {
				return false
			}
			nodes = append(nodes, fmt.Sprintf("%T", n)[5:])
			if _, ok := n.(*ast.Element); ok && test.prune {
				return false
			}
			return true
		})
		if got := strings.Join(nodes, " "); got != test.nodes {
			t.Errorf("source: %q, unexpected nodes %q, expecting %q", test.src, got, test.nodes)
		}
	}
}

func TestWalkNilVisitor(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expecting a panic")
		}
	}()
	astutil.Walk(nil, ast.NewTree("", nil))
}
