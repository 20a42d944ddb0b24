// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime implements the values, the contexts and the renderer of
// templates.
package runtime

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the kind of a Value.
type Kind uint8

const (
	String Kind = iota // string
	Int                // 64 bit signed integer
	Bool               // boolean
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	}
	panic("invalid kind")
}

// Value is the value of a template variable. It is a string, an integer or a
// boolean. The zero Value is the empty string.
//
// Values are comparable with the == operator.
type Value struct {
	kind Kind
	s    string
	n    int64
}

// StringValue returns a Value with kind String.
func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

// IntValue returns a Value with kind Int.
func IntValue(n int64) Value {
	return Value{kind: Int, n: n}
}

// BoolValue returns a Value with kind Bool.
func BoolValue(b bool) Value {
	v := Value{kind: Bool}
	if b {
		v.n = 1
	}
	return v
}

// ValueOf returns the Value of x. x must be a string, a boolean or an
// integer representable as an int64, otherwise ValueOf returns an error.
func ValueOf(x interface{}) (Value, error) {
	switch x := x.(type) {
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d overflows int64", x)
		}
		return IntValue(int64(x)), nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d overflows int64", x)
		}
		return IntValue(int64(x)), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", x)
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns the integer of v. It panics if the kind of v is not Int.
func (v Value) Int() int64 {
	if v.kind != Int {
		panic("pug: call of Value.Int on " + v.kind.String() + " Value")
	}
	return v.n
}

// Bool returns the boolean of v. It panics if the kind of v is not Bool.
func (v Value) Bool() bool {
	if v.kind != Bool {
		panic("pug: call of Value.Bool on " + v.kind.String() + " Value")
	}
	return v.n == 1
}

// String returns v as it is rendered: integers in base 10, booleans as
// "true" or "false" and strings as they are.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.n, 10)
	case Bool:
		if v.n == 1 {
			return "true"
		}
		return "false"
	}
	return v.s
}

// GoString implements the fmt.GoStringer interface.
func (v Value) GoString() string {
	switch v.kind {
	case Int:
		return "IntValue(" + v.String() + ")"
	case Bool:
		return "BoolValue(" + v.String() + ")"
	}
	return "StringValue(" + strconv.Quote(v.s) + ")"
}
