// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler implements the lexer and the parser of templates.
package compiler

import (
	"github.com/open2b/pug/ast"
)

// parsing is a parsing state.
type parsing struct {

	// Lexer.
	lex *lexer

	// Token read and then put back, nil if there is none.
	back *token
}

// next returns the next token from the lexer. Panics if the lexer channel is
// closed.
func (p *parsing) next() token {
	if p.back != nil {
		tok := *p.back
		p.back = nil
		return tok
	}
	tok, ok := <-p.lex.tokens
	if !ok {
		if p.lex.err == nil {
			panic("next called after EOF")
		}
		panic(p.lex.err)
	}
	return tok
}

// unread puts back tok so that it is returned by the next call to next.
func (p *parsing) unread(tok token) {
	if p.back != nil {
		panic("unread called twice")
	}
	p.back = &tok
}

// ParseTemplate parses the template src and returns its tree. path is the
// path of the template and is used in error messages and as path of the
// returned tree.
//
// If an error occurs it returns a *LexError or a *ParseError.
func ParseTemplate(src []byte, path string) (tree *ast.Tree, err error) {

	var p = &parsing{
		lex: scanTemplate(src, path),
	}

	defer func() {
		p.lex.Stop()
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *ParseError:
				e.path = path
				tree, err = nil, e
			case *LexError:
				tree, err = nil, e
			default:
				panic(r)
			}
		}
	}()

	nodes := p.parseBlock(nil, true)

	if tok := p.next(); tok.typ != tokenEOF {
		panic(parseError(UnexpectedToken, tok.pos, "unexpected %s, expecting EOF", tok))
	}

	return ast.NewTree(path, nodes), nil
}

// parseBlock parses the lines of a block, appending the nodes to nodes,
// until a dedent or the end of the source. top reports whether the block is
// the first level of the tree.
func (p *parsing) parseBlock(nodes []ast.Node, top bool) []ast.Node {

	for {

		tok := p.next()

		switch tok.typ {

		case tokenEOF, tokenDedent:
			p.unread(tok)
			return nodes

		// tag, .class, #id
		case tokenTag, tokenClass, tokenID:
			nodes = append(nodes, p.parseElement(tok))

		// | text
		case tokenPipe:
			text := p.parseText(tok.pos)
			p.endLine()
			p.noBlock(UnexpectedToken)
			// Text on consecutive lines is joined with a newline.
			if n := len(nodes); n > 0 {
				if prev, ok := nodes[n-1].(*ast.Text); ok {
					joinText(prev, text, tok.pos)
					continue
				}
			}
			nodes = append(nodes, text)

		// if
		case tokenIf:
			nodes = append(nodes, p.parseIf(tok))

		// else
		case tokenElse:
			panic(parseError(DanglingElse, tok.pos, "else without if"))

		// mixin
		case tokenMixin:
			if !top {
				panic(parseError(UnexpectedToken, tok.pos, "mixin declaration not at top level"))
			}
			nodes = append(nodes, p.parseMixin(tok))

		// +name
		case tokenMixinCall:
			nodes = append(nodes, p.parseMixinCall(tok))

		case tokenIndent:
			panic(parseError(UnexpectedToken, tok.pos, "unexpected indentation"))

		default:
			panic(parseError(UnexpectedToken, tok.pos, "unexpected %s", tok))

		}

	}

}

// parseElement parses an element knowing that tok is the first token of its
// shorthand.
func (p *parsing) parseElement(tok token) *ast.Element {

	pos := *tok.pos
	tag := "div"
	if tok.typ == tokenTag {
		tag = string(tok.txt)
	} else {
		// Implicit div. The position includes the '.' or '#' character.
		pos.Start--
		pos.Column--
		pos.End = pos.Start
		p.unread(tok)
	}

	var classes []string
	var id string
	var text *ast.Text

SHORTHAND:
	for {
		tok = p.next()
		switch tok.typ {
		case tokenClass:
			classes = append(classes, string(tok.txt))
			pos.End = tok.pos.End
		case tokenID:
			id = string(tok.txt)
			pos.End = tok.pos.End
		case tokenText, tokenStartInterpolation:
			p.unread(tok)
			text = p.parseText(tok.pos)
			break SHORTHAND
		default:
			p.unread(tok)
			break SHORTHAND
		}
	}
	p.endLine()

	var children []ast.Node
	if text != nil {
		children = []ast.Node{text}
	}
	children = p.parseChildren(children, false)

	elem := ast.NewElement(&pos, tag, classes, id, children)
	if elem.IsVoid() && len(children) > 0 {
		panic(parseError(UnexpectedToken, children[0].Pos(), "void element %s can not have content", tag))
	}

	return elem
}

// parseText parses text and interpolations up to the end of the line. pos is
// the position of the text if it is empty.
func (p *parsing) parseText(pos *ast.Position) *ast.Text {
	var segments []ast.Segment
	for {
		tok := p.next()
		var segment ast.Segment
		switch tok.typ {
		case tokenText:
			segment = ast.NewLiteral(tok.pos, string(tok.txt))
		case tokenStartInterpolation:
			name := p.expect(tokenInterpolation)
			end := p.expect(tokenEndInterpolation)
			segment = ast.NewInterpolation(tok.pos.WithEnd(end.pos.End), string(name.txt))
		default:
			p.unread(tok)
			if len(segments) > 0 {
				first := segments[0].Pos()
				last := segments[len(segments)-1].Pos()
				pos = first.WithEnd(last.End)
			} else {
				pos = pos.WithEnd(pos.Start)
			}
			return ast.NewText(pos, segments)
		}
		segments = appendSegment(segments, segment)
	}
}

// parseIf parses an if statement knowing that tok is the "if" keyword.
func (p *parsing) parseIf(tok token) *ast.If {
	cond := p.next()
	if cond.typ != tokenIdentifier {
		panic(parseError(UnexpectedToken, cond.pos, "missing condition in if, unexpected %s", cond))
	}
	pos := tok.pos.WithEnd(cond.pos.End)
	p.endLine()
	then := p.parseChildren(nil, false)
	var els []ast.Node
	if tok = p.next(); tok.typ == tokenElse {
		p.endLine()
		els = p.parseChildren(nil, false)
		if els == nil {
			els = []ast.Node{}
		}
	} else {
		p.unread(tok)
	}
	return ast.NewIf(pos, string(cond.txt), then, els)
}

// parseMixin parses a mixin declaration knowing that tok is the "mixin"
// keyword.
func (p *parsing) parseMixin(tok token) *ast.Mixin {
	name := p.next()
	if name.typ != tokenIdentifier {
		panic(parseError(UnexpectedToken, name.pos, "missing mixin name, unexpected %s", name))
	}
	pos := tok.pos.WithEnd(name.pos.End)
	p.endLine()
	body := p.parseChildren(nil, false)
	return ast.NewMixin(pos, string(name.txt), body)
}

// parseMixinCall parses a mixin call knowing that tok is the "+" character.
func (p *parsing) parseMixinCall(tok token) *ast.MixinCall {
	name := p.next()
	if name.typ != tokenIdentifier {
		panic(parseError(MalformedMixinInvoke, name.pos, "missing mixin name after +"))
	}
	pos := tok.pos.WithEnd(name.pos.End)
	if next := p.next(); next.typ != tokenNewline {
		panic(parseError(MalformedMixinInvoke, next.pos, "unexpected %s after mixin name, mixins have no arguments", next))
	}
	p.noBlock(MalformedMixinInvoke)
	return ast.NewMixinCall(pos, string(name.txt))
}

// parseChildren parses the block that follows the current line, if there is
// one, appending its nodes to nodes.
func (p *parsing) parseChildren(nodes []ast.Node, top bool) []ast.Node {
	tok := p.next()
	if tok.typ != tokenIndent {
		p.unread(tok)
		return nodes
	}
	nodes = p.parseBlock(nodes, top)
	p.expect(tokenDedent)
	return nodes
}

// noBlock panics with a ParseError of kind kind if the current line is
// followed by an indented block.
func (p *parsing) noBlock(kind ParseErrorKind) {
	tok := p.next()
	if tok.typ == tokenIndent {
		panic(parseError(kind, tok.pos, "unexpected indentation, the line can not have a block"))
	}
	p.unread(tok)
}

// endLine reads the end of the current line.
func (p *parsing) endLine() {
	if tok := p.next(); tok.typ != tokenNewline {
		panic(parseError(UnexpectedToken, tok.pos, "unexpected %s at end of line", tok))
	}
}

// expect reads the next token and panics if it is not of type typ.
func (p *parsing) expect(typ tokenTyp) token {
	tok := p.next()
	if tok.typ != typ {
		panic(parseError(UnexpectedToken, tok.pos, "unexpected %s, expecting %s", tok, typ))
	}
	return tok
}

// appendSegment appends s to segments. A literal following a literal is
// merged with it.
func appendSegment(segments []ast.Segment, s ast.Segment) []ast.Segment {
	if lit, ok := s.(*ast.Literal); ok && len(segments) > 0 {
		if prev, ok := segments[len(segments)-1].(*ast.Literal); ok {
			segments[len(segments)-1] = ast.NewLiteral(prev.WithEnd(lit.End), prev.Text+lit.Text)
			return segments
		}
	}
	return append(segments, s)
}

// joinText appends the segments of text to prev, separated by a newline.
// pos is the position of the pipe that starts text.
func joinText(prev, text *ast.Text, pos *ast.Position) {
	prev.Segments = appendSegment(prev.Segments, ast.NewLiteral(pos.WithEnd(pos.Start), "\n"))
	for _, s := range text.Segments {
		prev.Segments = appendSegment(prev.Segments, s)
	}
	end := pos.Start
	if len(text.Segments) > 0 {
		end = text.End
	}
	prev.Position = prev.WithEnd(end)
}
