// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"
	"io"
	"strings"

	"github.com/open2b/pug/ast"
)

// Options are the rendering options.
type Options struct {

	// Truthiness is the rule used to evaluate the conditions of the if
	// statements.
	Truthiness Truthiness
}

// renderer renders a tree.
type renderer struct {

	// out is the writer to write to.
	out strWriter

	// vars are the variables.
	vars Vars

	// path is the path of the tree, used in errors.
	path string

	// truthiness is the rule for the conditions.
	truthiness Truthiness

	// mixins are the mixins declared in the tree.
	mixins map[string]*ast.Mixin

	// calls are the mixins that are currently being rendered.
	calls map[string]bool
}

// Render renders tree on out with the variables vars. A nil vars is an empty
// set of variables.
//
// The mixins called in the tree are resolved against the mixins declared at
// the first level of tree. If an error occurs, part of the output may have
// already been written on out. Errors are *RenderError values, except for
// errors returned by out.
func Render(out io.Writer, tree *ast.Tree, vars Vars, options Options) error {
	if vars == nil {
		vars = (*Context)(nil)
	}
	r := &renderer{
		out:        newStringWriter(out),
		vars:       vars,
		path:       tree.Path,
		truthiness: options.Truthiness,
		mixins:     tree.Mixins(),
	}
	err := r.render(tree.Nodes)
	if e, ok := err.(outError); ok {
		return e.err
	}
	return err
}

// render renders nodes.
func (r *renderer) render(nodes []ast.Node) error {

	for _, node := range nodes {

		var err error

		switch n := node.(type) {

		case *ast.Element:
			err = r.renderElement(n)

		case *ast.Text:
			err = r.renderText(n)

		case *ast.If:
			var truth bool
			truth, err = r.condition(n)
			if err == nil {
				if truth {
					err = r.render(n.Then)
				} else {
					err = r.render(n.Else)
				}
			}

		case *ast.Mixin:
			// Declarations are not rendered.

		case *ast.MixinCall:
			err = r.renderMixinCall(n)

		default:
			panic(fmt.Sprintf("pug/runtime: unexpected node %T", node))

		}

		if err != nil {
			return err
		}

	}

	return nil
}

// renderElement renders an element.
func (r *renderer) renderElement(n *ast.Element) error {
	if err := r.write("<", n.Tag); err != nil {
		return err
	}
	if len(n.Classes) > 0 {
		if err := r.write(` class="`); err != nil {
			return err
		}
		if err := r.escape(strings.Join(n.Classes, " ")); err != nil {
			return err
		}
		if err := r.write(`"`); err != nil {
			return err
		}
	}
	if n.ID != "" {
		if err := r.write(` id="`); err != nil {
			return err
		}
		if err := r.escape(n.ID); err != nil {
			return err
		}
		if err := r.write(`"`); err != nil {
			return err
		}
	}
	if err := r.write(">"); err != nil {
		return err
	}
	if n.IsVoid() {
		return nil
	}
	if err := r.render(n.Children); err != nil {
		return err
	}
	return r.write("</", n.Tag, ">")
}

// renderText renders a text, escaping the values of the interpolations.
func (r *renderer) renderText(n *ast.Text) error {
	for _, segment := range n.Segments {
		switch s := segment.(type) {
		case *ast.Literal:
			if err := r.write(s.Text); err != nil {
				return err
			}
		case *ast.Interpolation:
			v, ok := r.vars.Get(s.Name)
			if !ok {
				return r.errorf(UndefinedVariable, s.Name, s, "undefined variable %s", s.Name)
			}
			if err := r.escape(v.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// condition evaluates the condition of an if statement.
func (r *renderer) condition(n *ast.If) (bool, error) {
	v, ok := r.vars.Get(n.Condition)
	if !ok {
		return false, r.errorf(UndefinedVariable, n.Condition, n, "undefined variable %s", n.Condition)
	}
	truth, ok := r.truthiness.test(v)
	if !ok {
		return false, r.errorf(NonBooleanCondition, n.Condition, n,
			"non-boolean condition %s (%s value) used as if condition", n.Condition, v.Kind())
	}
	return truth, nil
}

// renderMixinCall renders the body of the called mixin in place of the call.
func (r *renderer) renderMixinCall(n *ast.MixinCall) error {
	m, ok := r.mixins[n.Name]
	if !ok {
		return r.errorf(UndefinedMixin, n.Name, n, "undefined mixin %s", n.Name)
	}
	if r.calls[n.Name] {
		return r.errorf(RecursiveMixin, n.Name, n, "recursive call of mixin %s", n.Name)
	}
	if r.calls == nil {
		r.calls = map[string]bool{}
	}
	r.calls[n.Name] = true
	err := r.render(m.Body)
	delete(r.calls, n.Name)
	return err
}

// write writes the strings s on the output.
func (r *renderer) write(s ...string) error {
	for _, str := range s {
		_, err := r.out.WriteString(str)
		if err != nil {
			return outError{err}
		}
	}
	return nil
}

// escape writes s on the output, escaped for HTML.
func (r *renderer) escape(s string) error {
	err := htmlEscape(r.out, s)
	if err != nil {
		return outError{err}
	}
	return nil
}

// errorf returns a RenderError of kind kind, caused by node.
func (r *renderer) errorf(kind RenderErrorKind, name string, node ast.Node, format string, a ...interface{}) *RenderError {
	return &RenderError{
		kind: kind,
		name: name,
		path: r.path,
		pos:  *node.Pos(),
		msg:  fmt.Sprintf(format, a...),
	}
}
