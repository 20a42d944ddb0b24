// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"

	"github.com/open2b/pug/ast"
)

// RenderErrorKind is the kind of a RenderError.
type RenderErrorKind int

const (
	UndefinedVariable   RenderErrorKind = iota // variable not present in the context
	UndefinedMixin                             // call of a mixin not declared in the template
	RecursiveMixin                             // call of a mixin from its own body
	NonBooleanCondition                        // non-boolean condition with strict truthiness
)

// String returns the name of the kind.
func (k RenderErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case UndefinedMixin:
		return "undefined mixin"
	case RecursiveMixin:
		return "recursive mixin"
	case NonBooleanCondition:
		return "non-boolean condition"
	}
	panic("invalid render error kind")
}

// RenderError records an error occurred rendering a template, with the path
// and the position of the node that caused it.
type RenderError struct {
	kind RenderErrorKind
	name string
	path string
	pos  ast.Position
	msg  string
}

// Error returns a string representing the error.
func (e *RenderError) Error() string {
	if e.path == "" {
		return fmt.Sprintf("%s: render error: %s", e.pos, e.msg)
	}
	return fmt.Sprintf("%s:%s: render error: %s", e.path, e.pos, e.msg)
}

// Kind returns the kind of the error.
func (e *RenderError) Kind() RenderErrorKind {
	return e.kind
}

// Name returns the name of the variable or of the mixin that caused the
// error.
func (e *RenderError) Name() string {
	return e.name
}

// Message returns the message of the error, without position and path.
func (e *RenderError) Message() string {
	return e.msg
}

// Path returns the path of the template.
func (e *RenderError) Path() string {
	return e.path
}

// Position returns the position of the node that caused the error.
func (e *RenderError) Position() ast.Position {
	return e.pos
}

// outError represents an error occurred calling the Write method of a
// template output.
type outError struct {
	err error
}

func (err outError) Error() string {
	return "out error: " + err.err.Error()
}

func (err outError) Unwrap() error {
	return err.err
}
