// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pug implements a template engine that compiles an indentation
// based markup language to HTML.
//
//	mixin button
//	  button.btn Click me!
//	div.container
//	  if loggedIn
//	    p Welcome back, #{name}!
//	    +button
//	  else
//	    p Please log in
//
// Each line starts with an element shorthand "tag.class#id", an "if", "else"
// or "mixin" keyword, a mixin call "+name" or a piped text "| text". The
// lines indented under a line are its children. Text can contain
// interpolations "#{name}" whose values are HTML escaped.
//
// Function Compile compiles a template with a set of variables:
//
//	ctx := pug.NewContext()
//	ctx.SetString("name", "Alice")
//	ctx.SetBool("loggedIn", true)
//	html, err := pug.Compile(src, ctx, nil)
//
// # Output
//
// The output is minified: no white space is added between elements and
// text. Piped text lines that follow each other are separated by a newline.
// Void elements, as br and img, have no end tag and cannot have content.
//
// # Errors
//
// Compile returns a *CompileError that wraps a *LexError, a *ParseError or a
// *RenderError. Its Error method returns a message in the form
//
//	path:line:column: syntax error: message
//	path:line:column: render error: message
//
// where the path is omitted if it is empty.
package pug
