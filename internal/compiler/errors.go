// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/open2b/pug/ast"
)

// LexErrorKind is the kind of a LexError.
type LexErrorKind int

const (
	UnexpectedIndentation     LexErrorKind = iota // indentation that does not match an open level
	InconsistentIndentation                       // tabs and spaces mixed in the indentation
	UnterminatedInterpolation                     // "#{" without a closing "}" on the same line
	InvalidCharacter                              // character that cannot start or continue a token
)

// String returns the name of the kind.
func (k LexErrorKind) String() string {
	switch k {
	case UnexpectedIndentation:
		return "unexpected indentation"
	case InconsistentIndentation:
		return "inconsistent indentation"
	case UnterminatedInterpolation:
		return "unterminated interpolation"
	case InvalidCharacter:
		return "invalid character"
	}
	panic("invalid lex error kind")
}

// ParseErrorKind is the kind of a ParseError.
type ParseErrorKind int

const (
	UnexpectedToken      ParseErrorKind = iota // token not allowed by the grammar
	DanglingElse                               // "else" without a preceding "if"
	MalformedMixinInvoke                       // mixin call without a name or with arguments
)

// String returns the name of the kind.
func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case DanglingElse:
		return "dangling else"
	case MalformedMixinInvoke:
		return "malformed mixin call"
	}
	panic("invalid parse error kind")
}

// LexError records a lexical error with the path and the position where the
// error occurred.
type LexError struct {
	kind LexErrorKind
	path string
	pos  ast.Position
	msg  string
}

// Error returns a string representing the lexical error.
func (e *LexError) Error() string {
	return formatError(e.path, e.pos, "syntax error", e.msg)
}

// Kind returns the kind of the error.
func (e *LexError) Kind() LexErrorKind {
	return e.kind
}

// Message returns the message of the error, without position and path.
func (e *LexError) Message() string {
	return e.msg
}

// Path returns the path of the error.
func (e *LexError) Path() string {
	return e.path
}

// Position returns the position of the error.
func (e *LexError) Position() ast.Position {
	return e.pos
}

// ParseError records a parsing error with the path and the position where
// the error occurred.
type ParseError struct {
	kind ParseErrorKind
	path string
	pos  ast.Position
	msg  string
}

// Error returns a string representing the parsing error.
func (e *ParseError) Error() string {
	return formatError(e.path, e.pos, "syntax error", e.msg)
}

// Kind returns the kind of the error.
func (e *ParseError) Kind() ParseErrorKind {
	return e.kind
}

// Message returns the message of the error, without position and path.
func (e *ParseError) Message() string {
	return e.msg
}

// Path returns the path of the error.
func (e *ParseError) Path() string {
	return e.path
}

// Position returns the position of the error.
func (e *ParseError) Position() ast.Position {
	return e.pos
}

// parseError returns a ParseError with position pos and message formatted
// according the given format.
func parseError(kind ParseErrorKind, pos *ast.Position, format string, a ...interface{}) *ParseError {
	return &ParseError{kind: kind, pos: *pos, msg: fmt.Sprintf(format, a...)}
}

// formatError formats an error as "path:line:column: prefix: msg". The path
// is omitted if empty.
func formatError(path string, pos ast.Position, prefix, msg string) string {
	if path == "" {
		return fmt.Sprintf("%s: %s: %s", pos, prefix, msg)
	}
	return fmt.Sprintf("%s:%s: %s: %s", path, pos, prefix, msg)
}
