// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"
	"sort"
)

// Vars is implemented by the variables a template is rendered with.
type Vars interface {

	// Get returns the value of the variable with the given name and true,
	// or the zero Value and false if the variable does not exist.
	Get(name string) (Value, bool)
}

// Context is a mutable set of template variables. The zero Context is empty
// and ready to use. A nil *Context is an empty read-only set of variables.
//
// A Context is not safe for concurrent use. Use Clone to render with the
// same variables in several goroutines.
type Context struct {
	vars map[string]Value
}

// NewContext returns a new empty context.
func NewContext() *Context {
	return &Context{}
}

// Get returns the value of the variable name.
func (c *Context) Get(name string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	v, ok := c.vars[name]
	return v, ok
}

// Set sets the variable name to v, replacing any previous value.
func (c *Context) Set(name string, v Value) {
	if c.vars == nil {
		c.vars = map[string]Value{}
	}
	c.vars[name] = v
}

// SetString sets the variable name to the string s.
func (c *Context) SetString(name, s string) {
	c.Set(name, StringValue(s))
}

// SetInt sets the variable name to the integer n.
func (c *Context) SetInt(name string, n int64) {
	c.Set(name, IntValue(n))
}

// SetBool sets the variable name to the boolean b.
func (c *Context) SetBool(name string, b bool) {
	c.Set(name, BoolValue(b))
}

// Delete deletes the variable name. It does nothing if it does not exist.
func (c *Context) Delete(name string) {
	delete(c.vars, name)
}

// Len returns the number of variables.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.vars)
}

// Names returns the sorted names of the variables.
func (c *Context) Names() []string {
	if c == nil {
		return []string{}
	}
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of c.
func (c *Context) Clone() *Context {
	clone := &Context{}
	if c == nil || len(c.vars) == 0 {
		return clone
	}
	clone.vars = make(map[string]Value, len(c.vars))
	for name, v := range c.vars {
		clone.vars[name] = v
	}
	return clone
}

// Merge sets in c the variables in m. The values must be accepted by
// ValueOf.
func (c *Context) Merge(m map[string]interface{}) error {
	for name, x := range m {
		v, err := ValueOf(x)
		if err != nil {
			return fmt.Errorf("variable %q: %s", name, err)
		}
		c.Set(name, v)
	}
	return nil
}

// Truthiness is the rule that decides whether a condition value is true.
type Truthiness int

const (
	// CoerceTruthiness considers true a true boolean, a non-zero integer and
	// a non-empty string.
	CoerceTruthiness Truthiness = iota

	// StrictTruthiness allows only booleans as conditions.
	StrictTruthiness
)

// String returns the name of the rule, "coerce" or "strict".
func (t Truthiness) String() string {
	switch t {
	case CoerceTruthiness:
		return "coerce"
	case StrictTruthiness:
		return "strict"
	}
	panic("invalid truthiness")
}

// ParseTruthiness returns the truthiness rule with the given name.
func ParseTruthiness(name string) (Truthiness, error) {
	switch name {
	case "coerce", "":
		return CoerceTruthiness, nil
	case "strict":
		return StrictTruthiness, nil
	}
	return 0, fmt.Errorf("invalid truthiness %q, expecting coerce or strict", name)
}

// test reports whether v is true according to the rule t. ok is false if v
// cannot be used as a condition.
func (t Truthiness) test(v Value) (truth bool, ok bool) {
	switch v.kind {
	case Bool:
		return v.n == 1, true
	case Int:
		return v.n != 0, t == CoerceTruthiness
	default:
		return v.s != "", t == CoerceTruthiness
	}
}
