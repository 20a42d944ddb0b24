// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astutil

import (
	"github.com/open2b/pug/ast"
)

// Visitor's visit method is invoked for every node encountered by Walk.
type Visitor interface {
	Visit(node ast.Node) (w Visitor)
}

// Walk visits a tree in depth. Initially it calls v.Visit(node), where node
// must not be nil. If the value w returned by v.Visit(node) is different from
// nil, Walk is called recursively using w as the Visitor on all children of
// the node. Finally, it calls w.Visit(nil).
//
// The body of a mixin is visited where the mixin is declared, not where it is
// called.
func Walk(v Visitor, node ast.Node) {

	if v == nil {
		panic("v can't be nil")
	}

	if node == nil {
		panic("node can't be nil")
	}

	v = v.Visit(node)

	if v == nil {
		return
	}

	switch n := node.(type) {

	case *ast.Tree:
		for _, child := range n.Nodes {
			Walk(v, child)
		}

	case *ast.Element:
		for _, child := range n.Children {
			Walk(v, child)
		}

	case *ast.Text:
		for _, segment := range n.Segments {
			Walk(v, segment)
		}

	case *ast.If:
		for _, child := range n.Then {
			Walk(v, child)
		}
		for _, child := range n.Else {
			Walk(v, child)
		}

	case *ast.Mixin:
		for _, child := range n.Body {
			Walk(v, child)
		}

	case *ast.Literal, *ast.Interpolation, *ast.MixinCall:
		// Nothing to do.

	}

	v.Visit(nil)
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the children of node, followed by a call of
// f(nil).
func Inspect(node ast.Node, f func(ast.Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(ast.Node) bool

func (f inspector) Visit(node ast.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
