// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/open2b/pug/ast"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// scanTemplate scans a template source and returns a lexer. path is only
// used in error messages.
func scanTemplate(text []byte, path string) *lexer {
	tokens := make(chan token, 20)
	lex := &lexer{
		text:    text,
		src:     text,
		path:    path,
		line:    1,
		column:  1,
		indents: []int{0},
		tokens:  tokens,
	}
	go lex.scan()
	return lex
}

// Tokens returns a channel to read the scanned tokens.
func (l *lexer) Tokens() <-chan token {
	return l.tokens
}

// error returns the last occurred error or nil if no error occurred.
func (l *lexer) error() error {
	return l.err
}

// Stop stops the lexing and closes the tokens channel.
func (l *lexer) Stop() {
	for range l.tokens {
	}
}

// lexer maintains the scanner status.
type lexer struct {
	text    []byte     // text on which the scans are performed
	src     []byte     // slice of the text used during the scan
	path    string     // path of the template, used in errors
	line    int        // current line starting from 1
	column  int        // current column starting from 1
	lineEnd int        // index in text of the end of the content of the current line
	indents []int      // widths of the open indentation levels, the first is always 0
	unit    byte       // indentation character, zero until the first indented line
	lines   int        // number of non-blank lines scanned
	tokens  chan token // tokens, is closed at the end of the scan
	err     error      // error, reports whether there was an error
}

// offset returns the index in text of the next byte to scan.
func (l *lexer) offset() int {
	return len(l.text) - len(l.src)
}

// rest returns the part of the current line that has not been scanned yet.
func (l *lexer) rest() []byte {
	return l.src[:l.lineEnd-l.offset()]
}

func (l *lexer) newline() {
	l.line++
	l.column = 1
}

func (l *lexer) errorf(kind LexErrorKind, format string, a ...interface{}) *LexError {
	pos := ast.Position{
		Line:   l.line,
		Column: l.column,
		Start:  l.offset(),
		End:    l.offset(),
	}
	return l.errorAt(kind, pos, format, a...)
}

func (l *lexer) errorAt(kind LexErrorKind, pos ast.Position, format string, a ...interface{}) *LexError {
	return &LexError{kind: kind, path: l.path, pos: pos, msg: fmt.Sprintf(format, a...)}
}

// position returns the current position.
func (l *lexer) position() ast.Position {
	return ast.Position{Line: l.line, Column: l.column, Start: l.offset(), End: l.offset()}
}

// emit emits a token of type typ and length length at the current line and
// column, and advances the scan after the token.
func (l *lexer) emit(typ tokenTyp, length int) {
	var txt []byte
	if length > 0 {
		txt = l.src[0:length]
	}
	start := l.offset()
	end := start + length - 1
	if length == 0 {
		end = start
	}
	l.tokens <- token{
		typ: typ,
		pos: &ast.Position{
			Line:   l.line,
			Column: l.column,
			Start:  start,
			End:    end,
		},
		txt: txt,
		lin: l.line,
	}
	if length > 0 {
		l.skip(length)
	}
}

// skip skips n bytes of the current line.
func (l *lexer) skip(n int) {
	l.column += utf8.RuneCount(l.src[:n])
	l.src = l.src[n:]
}

// skipSpaces skips the spaces and tabs of the current line.
func (l *lexer) skipSpaces() {
	rest := l.rest()
	p := 0
	for p < len(rest) && (rest[p] == ' ' || rest[p] == '\t') {
		p++
	}
	l.skip(p)
}

// scan scans the text by placing the tokens on the tokens channel. If an
// error occurs, it puts the error in err, and closes the channel.
func (l *lexer) scan() {

	if bytes.HasPrefix(l.src, bom) {
		l.src = l.src[len(bom):]
	}

	for len(l.src) > 0 {
		err := l.lexLine()
		if err != nil {
			l.err = err
			close(l.tokens)
			return
		}
	}

	// Closes the open indentation levels.
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(tokenDedent, 0)
	}
	l.emit(tokenEOF, 0)

	close(l.tokens)
}

// lexLine scans a line, from the indentation to the newline included.
func (l *lexer) lexLine() error {

	start := l.offset()
	n := bytes.IndexByte(l.src, '\n')
	if n < 0 {
		n = len(l.src)
	}
	content := n
	if content > 0 && l.src[content-1] == '\r' {
		content--
	}
	l.lineEnd = start + content

	// Reads the indentation.
	rest := l.rest()
	var spaces, tabs int
	p := 0
	for p < len(rest) && (rest[p] == ' ' || rest[p] == '\t') {
		if rest[p] == ' ' {
			spaces++
		} else {
			tabs++
		}
		p++
	}

	if p < len(rest) {
		if spaces > 0 && tabs > 0 {
			return l.errorf(InconsistentIndentation, "indentation mixes tabs and spaces")
		}
		if p > 0 {
			unit := byte(' ')
			if tabs > 0 {
				unit = '\t'
			}
			if l.unit == 0 {
				l.unit = unit
			} else if unit != l.unit {
				return l.errorf(InconsistentIndentation, "indentation with %s, expecting %s", unitName(unit), unitName(l.unit))
			}
		}
		l.skip(p)
		err := l.lexIndentation(p)
		if err != nil {
			return err
		}
		l.lines++
		err = l.lexStatement()
		if err != nil {
			return err
		}
		if len(l.rest()) > 0 {
			panic("pug/compiler: line not completely scanned")
		}
		l.emit(tokenNewline, 0)
	}

	// Skips the rest of the line, newline included.
	l.src = l.text[start+n:]
	if len(l.src) > 0 {
		l.src = l.src[1:]
	}
	l.newline()

	return nil
}

// lexIndentation emits the indent and dedent tokens for a line with an
// indentation of the given width.
func (l *lexer) lexIndentation(width int) error {
	current := l.indents[len(l.indents)-1]
	switch {
	case width > current:
		if l.lines == 0 {
			return l.errorf(UnexpectedIndentation, "unexpected indentation of the first line")
		}
		l.indents = append(l.indents, width)
		l.emit(tokenIndent, 0)
	case width < current:
		for width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(tokenDedent, 0)
		}
		if width != l.indents[len(l.indents)-1] {
			return l.errorf(UnexpectedIndentation, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

// lexStatement scans the content of a line, after the indentation.
func (l *lexer) lexStatement() error {
	rest := l.rest()
	c := rest[0]
	switch {
	case c == '|':
		l.emit(tokenPipe, 1)
		if rest = l.rest(); len(rest) > 0 && rest[0] == ' ' {
			l.skip(1)
		}
		return l.lexText()
	case c == '+':
		l.emit(tokenMixinCall, 1)
		if n := identifierLen(l.rest()); n > 0 {
			l.emit(tokenIdentifier, n)
		}
		return l.lexTrailing()
	case isKeyword(rest, "if"):
		l.emit(tokenIf, 2)
		return l.lexOperand()
	case isKeyword(rest, "else"):
		l.emit(tokenElse, 4)
		return l.lexTrailing()
	case isKeyword(rest, "mixin"):
		l.emit(tokenMixin, 5)
		return l.lexOperand()
	case c == '.' || c == '#' || isAlpha(c):
		return l.lexElement()
	}
	r, _ := utf8.DecodeRune(rest)
	if r == utf8.RuneError {
		return l.errorf(InvalidCharacter, "invalid UTF-8 encoding")
	}
	return l.errorf(InvalidCharacter, "invalid character %U %q at the beginning of the line", r, r)
}

// lexOperand scans the identifier that follows the keywords "if" and
// "mixin", and the rest of the line.
func (l *lexer) lexOperand() error {
	l.skipSpaces()
	if n := identifierLen(l.rest()); n > 0 {
		l.emit(tokenIdentifier, n)
	}
	return l.lexTrailing()
}

// lexTrailing scans the rest of a line that should be empty. Trailing spaces
// are skipped, any other content is emitted as a text token so that the
// parser can report it.
func (l *lexer) lexTrailing() error {
	l.skipSpaces()
	if rest := l.rest(); len(rest) > 0 {
		if !utf8.Valid(rest) {
			return l.errorf(InvalidCharacter, "invalid UTF-8 encoding")
		}
		l.emit(tokenText, len(rest))
	}
	return nil
}

// lexElement scans an element shorthand "tag.class#id" and the inline text
// that follows it.
func (l *lexer) lexElement() error {
	if rest := l.rest(); isAlpha(rest[0]) {
		l.emit(tokenTag, tagNameLen(rest))
	}
	hasID := false
	for {
		rest := l.rest()
		if len(rest) == 0 {
			return nil
		}
		switch rest[0] {
		case '.':
			n := nameLen(rest[1:])
			if n == 0 {
				return l.errorf(InvalidCharacter, "expecting class name after '.'")
			}
			l.skip(1)
			l.emit(tokenClass, n)
		case '#':
			if len(rest) > 1 && rest[1] == '{' {
				return l.errorf(InvalidCharacter, "unexpected interpolation in element shorthand")
			}
			if hasID {
				return l.errorf(InvalidCharacter, "element can have only one id")
			}
			n := nameLen(rest[1:])
			if n == 0 {
				return l.errorf(InvalidCharacter, "expecting id after '#'")
			}
			l.skip(1)
			l.emit(tokenID, n)
			hasID = true
		case ' ', '\t':
			if len(bytes.TrimLeft(rest, " \t")) == 0 {
				l.skip(len(rest))
				return nil
			}
			l.skip(1)
			return l.lexText()
		default:
			r, _ := utf8.DecodeRune(rest)
			if r == utf8.RuneError {
				return l.errorf(InvalidCharacter, "invalid UTF-8 encoding")
			}
			return l.errorf(InvalidCharacter, "invalid character %U %q in element shorthand", r, r)
		}
	}
}

// lexText scans text up to the end of the line, emitting text and
// interpolation tokens.
func (l *lexer) lexText() error {
	rest := l.rest()
	if !utf8.Valid(rest) {
		for p := 0; p < len(rest); {
			r, s := utf8.DecodeRune(rest[p:])
			if r == utf8.RuneError && s == 1 {
				l.skip(p)
				break
			}
			p += s
		}
		return l.errorf(InvalidCharacter, "invalid UTF-8 encoding")
	}
	p := 0
	for p < len(rest) {
		switch {
		case rest[p] == '\\' && p+2 < len(rest) && rest[p+1] == '#' && rest[p+2] == '{':
			// Escaped interpolation.
			if p > 0 {
				l.emit(tokenText, p)
			}
			l.skip(1)
			l.emit(tokenText, 2)
			rest = l.rest()
			p = 0
			continue
		case rest[p] == '#' && p+1 < len(rest) && rest[p+1] == '{':
			if p > 0 {
				l.emit(tokenText, p)
			}
			err := l.lexInterpolation()
			if err != nil {
				return err
			}
			rest = l.rest()
			p = 0
			continue
		}
		p++
	}
	if p > 0 {
		l.emit(tokenText, p)
	}
	return nil
}

// lexInterpolation scans an interpolation "#{name}" knowing that the line
// continues with "#{".
func (l *lexer) lexInterpolation() error {
	pos := l.position()
	end := bytes.IndexByte(l.rest(), '}')
	if end < 0 {
		return l.errorAt(UnterminatedInterpolation, pos, "interpolation not terminated, expecting }")
	}
	l.emit(tokenStartInterpolation, 2)
	inner := l.rest()[:end-2]
	name := bytes.TrimSpace(inner)
	if len(name) == 0 || identifierLen(name) != len(name) {
		return l.errorAt(InvalidCharacter, pos, "invalid interpolation %q, expecting a variable name", inner)
	}
	lead := bytes.Index(inner, name)
	l.skip(lead)
	l.emit(tokenInterpolation, len(name))
	l.skip(len(inner) - lead - len(name))
	l.emit(tokenEndInterpolation, 1)
	return nil
}

// isKeyword reports whether line starts with the keyword kw followed by a
// space, a tab or the end of the line.
func isKeyword(line []byte, kw string) bool {
	if len(line) < len(kw) || string(line[:len(kw)]) != kw {
		return false
	}
	return len(line) == len(kw) || line[len(kw)] == ' ' || line[len(kw)] == '\t'
}

// identifierLen returns the length in bytes of the identifier at the
// beginning of s, zero if s does not start with an identifier. An identifier
// starts with a letter or '_' and continues with letters, digits, '_' and
// '-'.
func identifierLen(s []byte) int {
	if len(s) == 0 || !isAlpha(s[0]) && s[0] != '_' {
		return 0
	}
	p := 1
	for p < len(s) && (isAlpha(s[p]) || isDecDigit(s[p]) || s[p] == '_' || s[p] == '-') {
		p++
	}
	return p
}

// tagNameLen returns the length in bytes of the tag name at the beginning of
// s. s must start with a letter.
func tagNameLen(s []byte) int {
	p := 1
	for p < len(s) && (isAlpha(s[p]) || isDecDigit(s[p]) || s[p] == '-' || s[p] == '_' || s[p] == ':') {
		p++
	}
	return p
}

// nameLen returns the length in bytes of the class name or id at the
// beginning of s, zero if there is no name.
func nameLen(s []byte) int {
	if len(s) == 0 || !isAlpha(s[0]) && s[0] != '-' && s[0] != '_' {
		return 0
	}
	p := 1
	for p < len(s) && (isAlpha(s[p]) || isDecDigit(s[p]) || s[p] == '-' || s[p] == '_') {
		p++
	}
	return p
}

func unitName(c byte) string {
	if c == '\t' {
		return "tabs"
	}
	return "spaces"
}

// isAlpha reports whether s is an ASCII letter.
func isAlpha(s byte) bool {
	return 'a' <= s && s <= 'z' || 'A' <= s && s <= 'Z'
}

func isDecDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
