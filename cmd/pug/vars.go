// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/open2b/pug"
)

// varsFlags are the flags that set the template variables.
type varsFlags struct {
	set     []string
	strings []string
}

// register registers the flags in fs.
func (vf *varsFlags) register(fs *pflag.FlagSet) {
	fs.String("vars", "", "YAML file with the template variables")
	fs.StringArrayVar(&vf.set, "set", nil, "set a variable, as name=value (true, false and integers are typed)")
	fs.StringArrayVar(&vf.strings, "string", nil, "set a string variable, as name=value")
}

// context returns a context with the variables of the configuration, of the
// variables file and of the flags, in this order of priority from the
// lowest.
func (vf *varsFlags) context(cfg *Config) (*pug.Context, error) {
	ctx := pug.NewContext()
	if err := ctx.Merge(cfg.Vars); err != nil {
		return nil, fmt.Errorf("invalid vars in configuration: %w", err)
	}
	if cfg.VarsFile != "" {
		vars, err := readVarsFile(cfg.VarsFile)
		if err != nil {
			return nil, err
		}
		if err := ctx.Merge(vars); err != nil {
			return nil, fmt.Errorf("invalid vars file %s: %w", cfg.VarsFile, err)
		}
	}
	for _, s := range vf.set {
		name, v, err := parseAssignment(s, true)
		if err != nil {
			return nil, fmt.Errorf("invalid --set value: %w", err)
		}
		ctx.Set(name, v)
	}
	for _, s := range vf.strings {
		name, v, err := parseAssignment(s, false)
		if err != nil {
			return nil, fmt.Errorf("invalid --string value: %w", err)
		}
		ctx.Set(name, v)
	}
	return ctx, nil
}

// readVarsFile reads a YAML file with a map of variables.
func readVarsFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read vars file: %w", err)
	}
	var vars map[string]interface{}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("cannot parse vars file %s: %w", path, err)
	}
	return vars, nil
}

// parseAssignment parses an assignment "name=value". If typed is true, the
// values "true" and "false" are booleans and a decimal integer is an
// integer, otherwise the value is a string.
func parseAssignment(s string, typed bool) (string, pug.Value, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", pug.Value{}, fmt.Errorf("%q is not in the form name=value", s)
	}
	name = strings.TrimSpace(name)
	if !isVarName(name) {
		return "", pug.Value{}, fmt.Errorf("invalid variable name %q", name)
	}
	if typed {
		switch value {
		case "true":
			return name, pug.BoolValue(true), nil
		case "false":
			return name, pug.BoolValue(false), nil
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return name, pug.IntValue(n), nil
		}
	}
	return name, pug.StringValue(value), nil
}

// isVarName reports whether s is a name that can be used in an
// interpolation.
func isVarName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case ('0' <= c && c <= '9' || c == '-') && i > 0:
		default:
			return false
		}
	}
	return true
}

// varsHash returns a hash of the variables of ctx. Two contexts with the
// same variables have the same hash.
func varsHash(ctx *pug.Context) string {
	h := sha256.New()
	for _, name := range ctx.Names() {
		v, _ := ctx.Get(name)
		fmt.Fprintf(h, "%s\x00%d\x00%s\x00", name, v.Kind(), v)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// sourceHash returns a hash of a template source.
func sourceHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
