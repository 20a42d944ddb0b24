// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astutil implements methods to walk and dump a tree.
package astutil

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/open2b/pug/ast"
)

type dumper struct {
	output      io.Writer
	indentLevel int
}

type errVisitor struct {
	err error
}

func (e errVisitor) Error() string {
	return e.err.Error()
}

// Visit elaborates a node of a tree, writing on a Writer the representation
// of the same node correctly indented. The Visit method is called by the Walk
// function.
func (d *dumper) Visit(node ast.Node) Visitor {

	// Management of the v.Visit(nil) call made by Walk.
	if node == nil {
		d.indentLevel--
		return nil
	}

	d.indentLevel++

	// If the node is of type Tree, it writes it and returns without doing
	// anything else.
	if n, ok := node.(*ast.Tree); ok {
		_, err := fmt.Fprintf(d.output, "Tree: %v:%v\n", strconv.Quote(n.Path), n.Position)
		if err != nil {
			panic(errVisitor{err})
		}
		return d
	}

	var text string
	switch n := node.(type) {
	case *ast.Text:
		text = strconv.Quote(truncate(n.String(), 30))
	case *ast.Literal:
		text = strconv.Quote(truncate(n.Text, 30))
	case *ast.If:
		text = n.Condition
		if n.Else != nil {
			text += " (else)"
		}
	case fmt.Stringer:
		text = n.String()
	default:
		text = fmt.Sprintf("%v", node)
	}

	// Inserts the right level of indentation.
	for i := 0; i < d.indentLevel; i++ {
		_, err := fmt.Fprint(d.output, "│    ")
		if err != nil {
			panic(errVisitor{err})
		}
	}

	// Determines the type by removing the prefix "*ast."
	typeStr := fmt.Sprintf("%T", node)[5:]

	posStr := "-"
	if pos := node.Pos(); pos != nil {
		posStr = pos.String()
	}

	_, err := fmt.Fprintf(d.output, "%v (%v) %v\n", typeStr, posStr, text)
	if err != nil {
		panic(errVisitor{err})
	}

	return d
}

// Dump writes the dump of node on w. It returns an error if node is nil or if
// writing on w fails.
func Dump(w io.Writer, node ast.Node) (err error) {

	defer func() {
		if r := recover(); r != nil {
			if t, ok := r.(errVisitor); ok {
				err = t.err
			} else {
				panic(r)
			}
		}
	}()

	if node == nil {
		return errors.New("can't dump a nil tree")
	}

	d := dumper{w, -1}
	Walk(&d, node)

	return nil
}

// Variables returns the names, sorted and without duplicates, of the
// variables referenced by node in interpolations and if conditions. Variables
// referenced only in the body of mixins that are never called are included.
func Variables(node ast.Node) []string {
	seen := map[string]bool{}
	Inspect(node, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Interpolation:
			seen[n.Name] = true
		case *ast.If:
			seen[n.Condition] = true
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func truncate(s string, maxRunes int) string {
	if maxRunes < 0 {
		panic("pug/astutil: maxRunes can not be negative")
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
