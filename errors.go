// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pug

import (
	"strconv"

	"github.com/open2b/pug/ast"
	"github.com/open2b/pug/internal/compiler"
	"github.com/open2b/pug/internal/runtime"
)

// Position is a position in a template source.
type Position struct {
	Line   int // line starting from 1
	Column int // column in characters starting from 1
	Start  int // index of the first byte
	End    int // index of the last byte
}

// String returns line and column separated by a colon, for example "37:18".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

type (
	// LexError is a lexical error.
	LexError = compiler.LexError

	// LexErrorKind is the kind of a LexError.
	LexErrorKind = compiler.LexErrorKind

	// ParseError is a parsing error.
	ParseError = compiler.ParseError

	// ParseErrorKind is the kind of a ParseError.
	ParseErrorKind = compiler.ParseErrorKind

	// RenderError is a rendering error.
	RenderError = runtime.RenderError

	// RenderErrorKind is the kind of a RenderError.
	RenderErrorKind = runtime.RenderErrorKind
)

const (
	UnexpectedIndentation     = compiler.UnexpectedIndentation
	InconsistentIndentation   = compiler.InconsistentIndentation
	UnterminatedInterpolation = compiler.UnterminatedInterpolation
	InvalidCharacter          = compiler.InvalidCharacter

	UnexpectedToken      = compiler.UnexpectedToken
	DanglingElse         = compiler.DanglingElse
	MalformedMixinInvoke = compiler.MalformedMixinInvoke

	UndefinedVariable   = runtime.UndefinedVariable
	UndefinedMixin      = runtime.UndefinedMixin
	RecursiveMixin      = runtime.RecursiveMixin
	NonBooleanCondition = runtime.NonBooleanCondition
)

// Stage is the compilation stage in which an error occurred.
type Stage int

const (
	StageLex    Stage = iota // lexing
	StageParse               // parsing
	StageRender              // rendering
)

// String returns the name of the stage.
func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageRender:
		return "render"
	}
	panic("invalid stage")
}

// templateError is implemented by the errors of every stage.
type templateError interface {
	error
	Path() string
	Position() ast.Position
	Message() string
}

// CompileError represents an error occurred compiling a template. It wraps a
// *LexError, a *ParseError or a *RenderError, depending on the stage.
type CompileError struct {
	stage Stage
	err   templateError
}

// newCompileError returns a CompileError for err. err must be a *LexError, a
// *ParseError or a *RenderError.
func newCompileError(err error) *CompileError {
	switch e := err.(type) {
	case *LexError:
		return &CompileError{stage: StageLex, err: e}
	case *ParseError:
		return &CompileError{stage: StageParse, err: e}
	case *RenderError:
		return &CompileError{stage: StageRender, err: e}
	}
	panic("pug: unexpected error " + err.Error())
}

// Error returns a string representation of the error.
func (err *CompileError) Error() string {
	return err.err.Error()
}

// Stage returns the stage in which the error occurred.
func (err *CompileError) Stage() Stage {
	return err.stage
}

// Path returns the path of the template where the error occurred.
func (err *CompileError) Path() string {
	return err.err.Path()
}

// Position returns the position in the template where the error occurred.
func (err *CompileError) Position() Position {
	pos := err.err.Position()
	return Position{Line: pos.Line, Column: pos.Column, Start: pos.Start, End: pos.End}
}

// Message returns the error message.
func (err *CompileError) Message() string {
	return err.err.Message()
}

// Unwrap returns the *LexError, *ParseError or *RenderError.
func (err *CompileError) Unwrap() error {
	return err.err
}
