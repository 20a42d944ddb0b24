// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to define template trees.
//
// For example, the source in a template file named "welcome.pug":
//
//	div.box
//	  if loggedIn
//	    p Hello #{name}!
//
// is represented with the tree:
//
//	ast.NewTree("welcome.pug", []ast.Node{
//		ast.NewElement(
//			&ast.Position{Line: 1, Column: 1, Start: 0, End: 6},
//			"div", []string{"box"}, "",
//			[]ast.Node{
//				ast.NewIf(
//					&ast.Position{Line: 2, Column: 3, Start: 10, End: 20},
//					"loggedIn",
//					[]ast.Node{
//						ast.NewElement(
//							&ast.Position{Line: 3, Column: 5, Start: 26, End: 26},
//							"p", nil, "",
//							[]ast.Node{
//								ast.NewText(&ast.Position{Line: 3, Column: 7, Start: 28, End: 41}, []ast.Segment{
//									ast.NewLiteral(&ast.Position{Line: 3, Column: 7, Start: 28, End: 33}, "Hello "),
//									ast.NewInterpolation(&ast.Position{Line: 3, Column: 13, Start: 34, End: 40}, "name"),
//									ast.NewLiteral(&ast.Position{Line: 3, Column: 20, Start: 41, End: 41}, "!"),
//								}),
//							},
//						),
//					},
//					nil,
//				),
//			},
//		),
//	})
package ast

import (
	"strconv"
	"strings"
)

// expandedPrint is set to true in tests to print completely an element.
var expandedPrint = false

// Node is a node of the tree.
type Node interface {
	Pos() *Position // position in the original source
}

// Position is a position of a node in the source.
type Position struct {
	Line   int // line starting from 1
	Column int // column in characters starting from 1
	Start  int // index of the first byte
	End    int // index of the last byte
}

// Pos returns the position p.
func (p *Position) Pos() *Position {
	return p
}

// String returns the line and column separated by a colon, for example "37:18".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// WithEnd returns a copy of the position but with the given end index.
func (p *Position) WithEnd(end int) *Position {
	pp := *p
	pp.End = end
	return &pp
}

// Segment is a part of a Text node. It is implemented by the Literal and
// Interpolation nodes.
type Segment interface {
	Node
	segment()
}

// voidElements contains the elements that cannot have content and have no
// end tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether the element with the given tag name is a
// void element.
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}

// Element node represents an element written with the shorthand
// "tag.class#id".
type Element struct {
	*Position          // position in the source.
	Tag       string   // tag name.
	Classes   []string // classes in declaration order, without duplicates.
	ID        string   // identifier, empty if not present.
	Children  []Node   // child nodes.
}

// NewElement returns a new Element node. Duplicated classes are removed,
// keeping the first occurrence.
func NewElement(pos *Position, tag string, classes []string, id string, children []Node) *Element {
	if len(classes) > 1 {
		unique := make([]string, 0, len(classes))
		seen := make(map[string]bool, len(classes))
		for _, c := range classes {
			if !seen[c] {
				seen[c] = true
				unique = append(unique, c)
			}
		}
		classes = unique
	}
	return &Element{pos, tag, classes, id, children}
}

// IsVoid reports whether n is a void element.
func (n *Element) IsVoid() bool {
	return IsVoidElement(n.Tag)
}

// String returns the string representation of n.
func (n *Element) String() string {
	var b strings.Builder
	b.WriteString(n.Tag)
	for _, c := range n.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	if n.ID != "" {
		b.WriteByte('#')
		b.WriteString(n.ID)
	}
	if expandedPrint && len(n.Children) > 0 {
		b.WriteString(" {")
		for i, child := range n.Children {
			if i > 0 {
				b.WriteString("; ")
			}
			if s, ok := child.(interface{ String() string }); ok {
				b.WriteString(s.String())
			}
		}
		b.WriteString("}")
	}
	return b.String()
}

// Text node represents text content, written inline after an element or on
// a piped line.
type Text struct {
	*Position           // position in the source.
	Segments  []Segment // literal and interpolation segments.
}

// NewText returns a new Text node.
func NewText(pos *Position, segments []Segment) *Text {
	return &Text{pos, segments}
}

// String returns the string representation of n.
func (n *Text) String() string {
	var b strings.Builder
	for _, s := range n.Segments {
		switch s := s.(type) {
		case *Literal:
			b.WriteString(s.Text)
		case *Interpolation:
			b.WriteString(s.String())
		}
	}
	return b.String()
}

// Literal node represents a literal segment of a text.
type Literal struct {
	*Position        // position in the source.
	Text      string // text.
}

// NewLiteral returns a new Literal node.
func NewLiteral(pos *Position, text string) *Literal {
	return &Literal{pos, text}
}

func (n *Literal) segment() {}

// String returns the string representation of n.
func (n *Literal) String() string {
	return n.Text
}

// Interpolation node represents a "#{name}" segment of a text.
type Interpolation struct {
	*Position        // position in the source.
	Name      string // name of the interpolated variable.
}

// NewInterpolation returns a new Interpolation node.
func NewInterpolation(pos *Position, name string) *Interpolation {
	return &Interpolation{pos, name}
}

func (n *Interpolation) segment() {}

// String returns the string representation of n.
func (n *Interpolation) String() string {
	return "#{" + n.Name + "}"
}

// If node represents an "if" statement.
type If struct {
	*Position        // position in the source.
	Condition string // name of the variable that is the condition.
	Then      []Node // nodes to render if the condition is true.
	Else      []Node // nodes to render if the condition is false, nil if there is no else.
}

// NewIf returns a new If node.
func NewIf(pos *Position, cond string, then []Node, els []Node) *If {
	if then == nil {
		then = []Node{}
	}
	return &If{pos, cond, then, els}
}

// String returns the string representation of n.
func (n *If) String() string {
	return "if " + n.Condition
}

// Mixin node represents a "mixin" declaration.
type Mixin struct {
	*Position        // position in the source.
	Name      string // name.
	Body      []Node // body.
}

// NewMixin returns a new Mixin node.
func NewMixin(pos *Position, name string, body []Node) *Mixin {
	if body == nil {
		body = []Node{}
	}
	return &Mixin{pos, name, body}
}

// String returns the string representation of n.
func (n *Mixin) String() string {
	return "mixin " + n.Name
}

// MixinCall node represents a "+name" mixin call.
type MixinCall struct {
	*Position        // position in the source.
	Name      string // name of the called mixin.
}

// NewMixinCall returns a new MixinCall node.
func NewMixinCall(pos *Position, name string) *MixinCall {
	return &MixinCall{pos, name}
}

// String returns the string representation of n.
func (n *MixinCall) String() string {
	return "+" + n.Name
}

// Tree node represents a template tree.
type Tree struct {
	*Position
	Path  string // path of the tree.
	Nodes []Node // nodes of the first level of the tree.
}

// NewTree returns a new tree.
func NewTree(path string, nodes []Node) *Tree {
	if nodes == nil {
		nodes = []Node{}
	}
	tree := &Tree{
		Position: &Position{1, 1, 0, 0},
		Path:     path,
		Nodes:    nodes,
	}
	return tree
}

// Mixins returns the mixins declared at the first level of the tree, indexed
// by name. If two mixins have the same name, the last one is returned.
func (tree *Tree) Mixins() map[string]*Mixin {
	var mixins map[string]*Mixin
	for _, node := range tree.Nodes {
		if m, ok := node.(*Mixin); ok {
			if mixins == nil {
				mixins = map[string]*Mixin{}
			}
			mixins[m.Name] = m
		}
	}
	return mixins
}
