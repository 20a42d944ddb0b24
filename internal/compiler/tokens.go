// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/open2b/pug/ast"
)

// Token type.
type tokenTyp int

const (
	tokenTag                tokenTyp = iota // tag name
	tokenClass                              // .class
	tokenID                                 // #id
	tokenText                               // text
	tokenPipe                               // |
	tokenStartInterpolation                 // #{
	tokenInterpolation                      // interpolated name
	tokenEndInterpolation                   // }
	tokenIf                                 // if
	tokenElse                               // else
	tokenMixin                              // mixin
	tokenMixinCall                          // +
	tokenIdentifier                         // identifier
	tokenIndent                             // indent
	tokenDedent                             // dedent
	tokenNewline                            // newline
	tokenEOF                                // end of file
)

var tokenString = map[tokenTyp]string{
	tokenTag:                "tag",
	tokenClass:              "class",
	tokenID:                 "id",
	tokenText:               "text",
	tokenPipe:               "|",
	tokenStartInterpolation: "#{",
	tokenInterpolation:      "interpolation",
	tokenEndInterpolation:   "}",
	tokenIf:                 "if",
	tokenElse:               "else",
	tokenMixin:              "mixin",
	tokenMixinCall:          "+",
	tokenIdentifier:         "identifier",
	tokenIndent:             "indent",
	tokenDedent:             "dedent",
	tokenNewline:            "newline",
	tokenEOF:                "EOF",
}

func (tt tokenTyp) String() string {
	if s, ok := tokenString[tt]; ok {
		return s
	}
	panic("invalid token type")
}

// Information about a token to return.
type token struct {
	typ tokenTyp      // type
	pos *ast.Position // position in the buffer
	txt []byte        // token text
	lin int           // line of the lexer when the token was emitted
}

// String returns the string that represents the token.
func (tok token) String() string {
	switch tok.typ {
	case tokenText:
		return fmt.Sprintf("%q", tok.txt)
	case tokenTag, tokenIdentifier, tokenInterpolation:
		return tok.typ.String() + " " + string(tok.txt)
	case tokenClass:
		return "class ." + string(tok.txt)
	case tokenID:
		return "id #" + string(tok.txt)
	}
	return tok.typ.String()
}
