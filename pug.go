// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pug

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/open2b/pug/ast"
	"github.com/open2b/pug/ast/astutil"
	"github.com/open2b/pug/internal/compiler"
	"github.com/open2b/pug/internal/runtime"
)

// Version is the version of the engine. A change of the output policy
// changes the major version.
const Version = "v1.0.0"

type (
	// Value is the value of a template variable: a string, an integer or a
	// boolean.
	Value = runtime.Value

	// Kind is the kind of a Value.
	Kind = runtime.Kind

	// Vars is implemented by the variables a template is compiled with.
	// *Context implements Vars.
	Vars = runtime.Vars

	// Context is a mutable set of template variables.
	Context = runtime.Context

	// Truthiness is the rule that decides whether a condition is true.
	Truthiness = runtime.Truthiness
)

const (
	String = runtime.String
	Int    = runtime.Int
	Bool   = runtime.Bool
)

const (
	// CoerceTruthiness considers true a true boolean, a non-zero integer and
	// a non-empty string. It is the default.
	CoerceTruthiness = runtime.CoerceTruthiness

	// StrictTruthiness allows only booleans as conditions.
	StrictTruthiness = runtime.StrictTruthiness
)

// StringValue returns a Value with kind String.
func StringValue(s string) Value { return runtime.StringValue(s) }

// IntValue returns a Value with kind Int.
func IntValue(n int64) Value { return runtime.IntValue(n) }

// BoolValue returns a Value with kind Bool.
func BoolValue(b bool) Value { return runtime.BoolValue(b) }

// ValueOf returns the Value of x, that must be a string, a boolean or an
// integer.
func ValueOf(x interface{}) (Value, error) { return runtime.ValueOf(x) }

// NewContext returns a new empty context.
func NewContext() *Context { return runtime.NewContext() }

// ParseTruthiness returns the truthiness rule with name "coerce" or
// "strict".
func ParseTruthiness(name string) (Truthiness, error) { return runtime.ParseTruthiness(name) }

// Options are the compilation options.
type Options struct {

	// Path is the path of the template. It is only used in error messages.
	Path string

	// Truthiness is the rule used to evaluate the conditions of the if
	// statements.
	Truthiness Truthiness
}

// Compile compiles the template src with the variables vars and returns the
// HTML. vars can be nil and options can be nil.
//
// If the compilation fails, it returns a *CompileError and no HTML.
func Compile(src string, vars Vars, options *Options) (string, error) {
	var b strings.Builder
	err := compile(&b, []byte(src), vars, options)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// CompileTo compiles the template src with the variables vars and writes the
// HTML to out. Nothing is written to out if the compilation fails.
//
// If the compilation fails, it returns a *CompileError, otherwise it returns
// the error, if any, returned by out.
func CompileTo(out io.Writer, src []byte, vars Vars, options *Options) error {
	var b bytes.Buffer
	err := compile(&b, src, vars, options)
	if err != nil {
		return err
	}
	_, err = b.WriteTo(out)
	return err
}

func compile(out io.Writer, src []byte, vars Vars, options *Options) error {
	if options == nil {
		options = &Options{}
	}
	tree, err := compiler.ParseTemplate(src, options.Path)
	if err != nil {
		return newCompileError(err)
	}
	err = runtime.Render(out, tree, vars, runtime.Options{Truthiness: options.Truthiness})
	if err != nil {
		var e *RenderError
		if errors.As(err, &e) {
			return newCompileError(e)
		}
		return err
	}
	return nil
}

// Parse parses the template src and returns its tree. path is the path of
// the template and is used in error messages.
//
// If the parsing fails, it returns a *CompileError.
func Parse(src []byte, path string) (*ast.Tree, error) {
	tree, err := compiler.ParseTemplate(src, path)
	if err != nil {
		return nil, newCompileError(err)
	}
	return tree, nil
}

// UsedVars returns the sorted names of the variables referenced by the
// template src, in interpolations and conditions.
func UsedVars(src []byte) ([]string, error) {
	tree, err := Parse(src, "")
	if err != nil {
		return nil, err
	}
	return astutil.Variables(tree), nil
}
