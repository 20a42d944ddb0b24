// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pug

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/mod/semver"
)

func aliceContext() *Context {
	ctx := NewContext()
	ctx.SetString("name", "Alice")
	ctx.SetInt("age", 25)
	return ctx
}

var compileTests = []struct {
	src      string
	vars     map[string]interface{}
	expected string
}{
	{"div.container Hello World", nil, `<div class="container">Hello World</div>`},
	{"p Hello #{name}!", map[string]interface{}{"name": "Alice", "age": 25}, "<p>Hello Alice!</p>"},
	{"if loggedIn\n  p Welcome back!\nelse\n  p Please log in", map[string]interface{}{"loggedIn": true}, "<p>Welcome back!</p>"},
	{"if loggedIn\n  p Welcome back!\nelse\n  p Please log in", map[string]interface{}{"loggedIn": false}, "<p>Please log in</p>"},
	{"mixin button\n  button.btn Click me!\n+button", nil, `<button class="btn">Click me!</button>`},
	{"button.btn Click me!", nil, `<button class="btn">Click me!</button>`},
	{"p #{v}", map[string]interface{}{"v": "a < b > c & d"}, "<p>a &lt; b &gt; c &amp; d</p>"},
	{"p #{v}", map[string]interface{}{"v": "<script>x</script>"}, "<p>&lt;script&gt;x&lt;/script&gt;</p>"},
	{"ul\n  li one\n  li two", nil, "<ul><li>one</li><li>two</li></ul>"},
	{"ul\r\n  li one\r\n  li two\r\n", nil, "<ul><li>one</li><li>two</li></ul>"},
	{"\ufeffp", nil, "<p></p>"},
}

func TestCompile(t *testing.T) {
	for _, test := range compileTests {
		ctx := NewContext()
		if err := ctx.Merge(test.vars); err != nil {
			t.Fatal(err)
		}
		got, err := Compile(test.src, ctx, nil)
		if err != nil {
			t.Errorf("source: %q, unexpected error: %s", test.src, err)
			continue
		}
		if got != test.expected {
			t.Errorf("source: %q, unexpected %q, expecting %q", test.src, got, test.expected)
		}
	}
}

// TestMixinInlining checks that calling a mixin renders as its body inlined
// at the call site.
func TestMixinInlining(t *testing.T) {
	called, err := Compile("mixin button\n  button.btn Click me!\ndiv\n  +button", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	inlined, err := Compile("div\n  button.btn Click me!", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if called != inlined {
		t.Fatalf("unexpected %q, expecting %q", called, inlined)
	}
}

func TestDeterminism(t *testing.T) {
	src := "div.a.b#c\n  if ok\n    p #{name} #{age}\n  +m\nmixin m\n  span.x.y.z"
	ctx := aliceContext()
	ctx.SetBool("ok", true)
	first, err := Compile(src, ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		got, err := Compile(src, ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("compile %d: unexpected %q, expecting %q", i, got, first)
		}
	}
}

var compileErrorTests = []struct {
	src   string
	stage Stage
	kind  interface{}
	msg   string
}{
	{"p Hello #{name}!", StageRender, UndefinedVariable, "1:9: render error: undefined variable name"},
	{"if loggedIn\n  p Welcome back!\nelse\n  p Please log in", StageRender, UndefinedVariable, "1:1: render error: undefined variable loggedIn"},
	{"+undefinedMixin", StageRender, UndefinedMixin, "1:1: render error: undefined mixin undefinedMixin"},
	{"div\n  p\n\tspan", StageLex, InconsistentIndentation, "3:1: syntax error: indentation with tabs, expecting spaces"},
	{"div\n \tp", StageLex, InconsistentIndentation, "2:1: syntax error: indentation mixes tabs and spaces"},
	{"p #{name", StageLex, UnterminatedInterpolation, "1:3: syntax error: interpolation not terminated, expecting }"},
	{"<p>", StageLex, InvalidCharacter, `1:1: syntax error: invalid character U+003C '<' at the beginning of the line`},
	{"  p", StageLex, UnexpectedIndentation, "1:3: syntax error: unexpected indentation of the first line"},
	{"else", StageParse, DanglingElse, "1:1: syntax error: else without if"},
	{"+", StageParse, MalformedMixinInvoke, "1:2: syntax error: missing mixin name after +"},
	{"p\n  mixin m", StageParse, UnexpectedToken, "2:3: syntax error: mixin declaration not at top level"},
}

func TestCompileErrors(t *testing.T) {
	for _, test := range compileErrorTests {
		got, err := Compile(test.src, nil, nil)
		if err == nil {
			t.Errorf("source: %q, expecting error, got %q", test.src, got)
			continue
		}
		if got != "" {
			t.Errorf("source: %q, unexpected partial output %q", test.src, got)
		}
		var e *CompileError
		if !errors.As(err, &e) {
			t.Errorf("source: %q, unexpected error type %T", test.src, err)
			continue
		}
		if e.Stage() != test.stage {
			t.Errorf("source: %q, unexpected stage %s, expecting %s", test.src, e.Stage(), test.stage)
		}
		var kind interface{}
		switch e := e.Unwrap().(type) {
		case *LexError:
			kind = e.Kind()
		case *ParseError:
			kind = e.Kind()
		case *RenderError:
			kind = e.Kind()
		}
		if kind != test.kind {
			t.Errorf("source: %q, unexpected kind %v, expecting %v", test.src, kind, test.kind)
		}
		if e.Error() != test.msg {
			t.Errorf("source: %q, unexpected error %q, expecting %q", test.src, e.Error(), test.msg)
		}
	}
}

func TestCompileErrorAccessors(t *testing.T) {
	_, err := Compile("div\n  p Hello #{name}!", nil, &Options{Path: "/index.pug"})
	var e *CompileError
	if !errors.As(err, &e) {
		t.Fatalf("unexpected error %v", err)
	}
	if e.Path() != "/index.pug" {
		t.Errorf("unexpected path %q", e.Path())
	}
	if pos := e.Position(); pos != (Position{Line: 2, Column: 11, Start: 14, End: 20}) {
		t.Errorf("unexpected position %#v", pos)
	}
	if e.Message() != "undefined variable name" {
		t.Errorf("unexpected message %q", e.Message())
	}
	var re *RenderError
	if !errors.As(err, &re) || re.Name() != "name" {
		t.Errorf("expecting a *RenderError for variable name")
	}
	if e.Error() != "/index.pug:2:11: render error: undefined variable name" {
		t.Errorf("unexpected error %q", e.Error())
	}
}

func TestStrictTruthiness(t *testing.T) {
	ctx := aliceContext()
	src := "if age\n  | adult"
	got, err := Compile(src, ctx, nil)
	if err != nil || got != "adult" {
		t.Fatalf("unexpected %q (%v), expecting %q", got, err, "adult")
	}
	_, err = Compile(src, ctx, &Options{Truthiness: StrictTruthiness})
	var re *RenderError
	if !errors.As(err, &re) || re.Kind() != NonBooleanCondition {
		t.Fatalf("unexpected error %v, expecting a non-boolean condition error", err)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("fail")
}

func TestCompileTo(t *testing.T) {
	var b bytes.Buffer
	err := CompileTo(&b, []byte("p #{name}"), aliceContext(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.String() != "<p>Alice</p>" {
		t.Fatalf("unexpected %q", b.String())
	}
	b.Reset()
	err = CompileTo(&b, []byte("p ok\np #{missing}"), aliceContext(), nil)
	if err == nil {
		t.Fatal("expecting error")
	}
	if b.Len() != 0 {
		t.Fatalf("unexpected partial output %q", b.String())
	}
	err = CompileTo(failWriter{}, []byte("p"), nil, nil)
	if err == nil || err.Error() != "fail" {
		t.Fatalf("unexpected error %v, expecting the writer error", err)
	}
}

func TestCompileDoesNotChangeContext(t *testing.T) {
	ctx := aliceContext()
	_, err := Compile("mixin m\n  p #{name}\n+m", ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if names := strings.Join(ctx.Names(), ","); names != "age,name" {
		t.Fatalf("unexpected names %q", names)
	}
}

func TestParse(t *testing.T) {
	tree, err := Parse([]byte("p\n  +m\nmixin m\n  | x"), "page.pug")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Path != "page.pug" || len(tree.Nodes) != 2 {
		t.Fatalf("unexpected tree %s with %d nodes", tree.Path, len(tree.Nodes))
	}
	if _, ok := tree.Mixins()["m"]; !ok {
		t.Fatal("expecting mixin m")
	}
	_, err = Parse([]byte("else"), "page.pug")
	var e *CompileError
	if !errors.As(err, &e) || e.Stage() != StageParse || e.Path() != "page.pug" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUsedVars(t *testing.T) {
	names, err := UsedVars([]byte("if ok\n  p #{b} #{a}\n+m\nmixin m\n  | #{b}"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(names, ","); got != "a,b,ok" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestVersion(t *testing.T) {
	if !semver.IsValid(Version) {
		t.Fatalf("version %q is not a valid semantic version", Version)
	}
	if semver.Major(Version) != "v1" {
		t.Fatalf("unexpected major version %s", semver.Major(Version))
	}
}

func TestConcurrentCompile(t *testing.T) {
	ctx := aliceContext()
	done := make(chan string)
	for i := 0; i < 8; i++ {
		go func(ctx *Context) {
			html, err := Compile("p #{name} #{age}", ctx, nil)
			if err != nil {
				html = err.Error()
			}
			done <- html
		}(ctx.Clone())
	}
	for i := 0; i < 8; i++ {
		if html := <-done; html != "<p>Alice 25</p>" {
			t.Errorf("unexpected %q", html)
		}
	}
}
