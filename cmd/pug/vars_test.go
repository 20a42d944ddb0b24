// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open2b/pug"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		s     string
		typed bool
		name  string
		value pug.Value
	}{
		{"name=Alice", true, "name", pug.StringValue("Alice")},
		{"age=25", true, "age", pug.IntValue(25)},
		{"age=-3", true, "age", pug.IntValue(-3)},
		{"age=25", false, "age", pug.StringValue("25")},
		{"ok=true", true, "ok", pug.BoolValue(true)},
		{"ok=false", true, "ok", pug.BoolValue(false)},
		{"ok=true", false, "ok", pug.StringValue("true")},
		{"ok=True", true, "ok", pug.StringValue("True")},
		{"empty=", true, "empty", pug.StringValue("")},
		{"eq=a=b", true, "eq", pug.StringValue("a=b")},
		{"big=99999999999999999999", true, "big", pug.StringValue("99999999999999999999")},
		{" spaced =x", true, "spaced", pug.StringValue("x")},
		{"user-name=x", true, "user-name", pug.StringValue("x")},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			name, value, err := parseAssignment(tt.s, tt.typed)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestParseAssignmentErrors(t *testing.T) {
	for _, s := range []string{"name", "=x", "1a=x", "a.b=x", "-a=x"} {
		_, _, err := parseAssignment(s, true)
		assert.Error(t, err, s)
	}
}

func TestVarsContext(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"vars.yaml": "name: Bob\nage: 30\nloggedIn: true\n",
		"bad.yaml":  "list: [1, 2]\n",
	})
	cfg := &Config{
		Vars:     map[string]interface{}{"name": "Alice", "site": "example"},
		VarsFile: filepath.Join(dir, "vars.yaml"),
	}
	vf := varsFlags{set: []string{"age=31"}, strings: []string{"loggedIn=yes"}}
	ctx, err := vf.context(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "loggedIn", "name", "site"}, ctx.Names())
	for name, want := range map[string]pug.Value{
		"name":     pug.StringValue("Bob"),
		"age":      pug.IntValue(31),
		"loggedIn": pug.StringValue("yes"),
		"site":     pug.StringValue("example"),
	} {
		got, ok := ctx.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	cfg.VarsFile = filepath.Join(dir, "bad.yaml")
	_, err = vf.context(cfg)
	assert.ErrorContains(t, err, "invalid vars file")

	cfg.VarsFile = filepath.Join(dir, "missing.yaml")
	_, err = vf.context(cfg)
	assert.ErrorContains(t, err, "cannot read vars file")
}

func TestVarsHash(t *testing.T) {
	a := pug.NewContext()
	a.SetString("name", "Alice")
	a.SetInt("age", 25)
	b := pug.NewContext()
	b.SetInt("age", 25)
	b.SetString("name", "Alice")
	assert.Equal(t, varsHash(a), varsHash(b))

	b.SetString("age", "25")
	assert.NotEqual(t, varsHash(a), varsHash(b), "the kind is part of the hash")

	assert.Equal(t, varsHash(pug.NewContext()), varsHash(pug.NewContext()))
	assert.Len(t, sourceHash([]byte("p")), 64)
}
