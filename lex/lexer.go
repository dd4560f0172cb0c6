// Copyright 2023 Google LLC
// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lex is a small ECMAScript tokenizer. Tokenizer internals are out
// of scope for the parser engine spec (they are a thin, data-only
// collaborator); this package exists so the engine and grammar packages have
// a real token source to run end to end, the same role the teacher's
// CustomLexer plays for its INI/template examples.
package lex

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ianlewis/runeio"

	"github.com/ianlewis/esparse/token"
)

// runeEOF is the rune returned by Peek/Advance once input is exhausted.
const runeEOF rune = -1

// State is a single state in the lexer's finite-state machine. It mirrors
// the teacher's LexState/CustomLexerContext shape: each state reads runes
// through ctx and returns the next state to run, or io.EOF to stop.
type State func(ctx *Context) (State, error)

// Context is passed to each State so it can interact with the Lexer without
// reaching into its unexported fields directly.
type Context struct {
	l *Lexer
}

// Peek returns the next rune without advancing.
func (ctx *Context) Peek() rune {
	r := ctx.l.peek(1)
	if len(r) == 0 {
		return runeEOF
	}

	return r[0]
}

// PeekN returns up to n runes ahead without advancing.
func (ctx *Context) PeekN(n int) []rune {
	return ctx.l.peek(n)
}

// Advance consumes one rune into the current token's value.
func (ctx *Context) Advance() rune {
	return ctx.l.advance()
}

// Discard consumes and drops one rune (for whitespace/comments).
func (ctx *Context) Discard() bool {
	r := ctx.l.advance()
	if r == runeEOF {
		return false
	}

	ctx.l.ignore()

	return true
}

// Emit emits the runes accumulated since the last Emit/Discard as a token of
// the given name.
func (ctx *Context) Emit(name token.Name) *token.MatchToken {
	return ctx.l.emit(name)
}

// Token returns the raw text accumulated for the token in progress.
func (ctx *Context) Token() string {
	return ctx.l.b.String()
}

// Lexer tokenizes an ECMAScript source file into a slice of MatchTokens. It
// is implemented as a finite-state machine, the same shape as the teacher's
// CustomLexer, built over the same buffered rune reader
// (github.com/ianlewis/runeio).
type Lexer struct {
	r *runeio.RuneReader
	b strings.Builder

	pos    token.Position
	cursor token.Position

	tokens []*token.MatchToken
	err    error
}

// New creates a Lexer reading from r.
func New(r io.Reader, filename string) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	pos := token.Position{Filename: filename, Line: 1, Column: 1}

	return &Lexer{
		r:      runeio.NewReader(br),
		pos:    pos,
		cursor: pos,
	}
}

// Tokenize runs the lexer to completion and returns the full token slice,
// each token's Index set to its position in that slice, terminated by a
// token.EOF token. The engine never streams tokens in; the whole array is
// built up front (spec Non-goals: no streaming input).
func (l *Lexer) Tokenize(ctx context.Context) ([]*token.MatchToken, error) {
	state := State(lexMain)

	for state != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var err error

		state, err = state(&Context{l: l})
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}
	}

	eof := &token.MatchToken{Name: token.EOF, Start: l.pos, End: l.pos}
	l.tokens = append(l.tokens, eof)

	for i, t := range l.tokens {
		t.Index = i
	}

	return l.tokens, nil
}

func (l *Lexer) peek(n int) []rune {
	if l.err != nil {
		return nil
	}

	r, err := l.r.Peek(n)
	if err != nil && !errors.Is(err, io.EOF) {
		l.err = err
	}

	return r
}

func (l *Lexer) advance() rune {
	if l.err != nil {
		return runeEOF
	}

	r, _, err := l.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.err = err
		}

		return runeEOF
	}

	l.pos.Offset++
	l.pos.Column++

	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	}

	l.b.WriteRune(r)

	return r
}

func (l *Lexer) ignore() {
	l.cursor = l.pos
	l.b.Reset()
}

func (l *Lexer) emit(name token.Name) *token.MatchToken {
	t := &token.MatchToken{
		Name:  name,
		Value: l.b.String(),
		Start: l.cursor,
		End:   l.pos,
	}

	l.tokens = append(l.tokens, t)
	l.ignore()

	return t
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

var keywords = map[string]token.Name{
	"var": "Var", "let": "Let", "const": "Const",
	"function": "Function", "return": "Return",
	"if": "If", "else": "Else", "true": "True", "false": "False", "null": "Null",
	"new": "New", "this": "This", "typeof": "Typeof",
	"import": "Import", "export": "Export", "from": "From", "class": "Class",
}

// punctuators is checked longest-match-first so that e.g. "===" is not
// tokenized as "==" followed by "=".
var punctuators = []struct {
	text string
	name token.Name
}{
	{"===", "EqEqEq"}, {"!==", "NotEqEq"},
	{"**=", "ExpEq"}, {"...", "Ellipsis"},
	{"=>", "Arrow"}, {"==", "EqEq"}, {"!=", "NotEq"},
	{"<=", "LtEq"}, {">=", "GtEq"}, {"&&", "AndAnd"}, {"||", "OrOr"},
	{"++", "PlusPlus"}, {"--", "MinusMinus"}, {"**", "Exp"},
	{"+=", "PlusEq"}, {"-=", "MinusEq"}, {"*=", "StarEq"}, {"/=", "SlashEq"},
	{"(", "LParen"}, {")", "RParen"}, {"{", "LBrace"}, {"}", "RBrace"},
	{"[", "LBracket"}, {"]", "RBracket"},
	{";", "Semicolon"}, {",", "Comma"}, {".", "Dot"},
	{"=", "Eq"}, {"+", "Plus"}, {"-", "Minus"}, {"*", "Star"}, {"/", "Slash"},
	{"%", "Percent"}, {"<", "Lt"}, {">", "Gt"}, {"!", "Bang"}, {"?", "Question"},
	{":", "Colon"},
}

// lexMain is the initial lexer state: it skips whitespace/comments and
// dispatches on the next rune, mirroring the teacher's lexINI top-level
// state.
func lexMain(ctx *Context) (State, error) {
	for {
		r := ctx.Peek()
		two := string(ctx.PeekN(2))

		switch {
		case r == runeEOF:
			return nil, io.EOF
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			ctx.Discard()
		case r == '/' && two == "//":
			return lexLineComment, nil
		case r == '/' && two == "/*":
			return lexBlockComment, nil
		case isIdentStart(r):
			return lexIdentifier, nil
		case unicode.IsDigit(r):
			return lexNumber, nil
		case r == '"' || r == '\'':
			return lexString, nil
		default:
			return lexPunctuator, nil
		}
	}
}

func lexLineComment(ctx *Context) (State, error) {
	for {
		r := ctx.Peek()
		if r == runeEOF || r == '\n' {
			break
		}

		ctx.Advance()
	}

	ctx.l.ignore()

	return lexMain, nil
}

func lexBlockComment(ctx *Context) (State, error) {
	ctx.Advance()
	ctx.Advance()

	for {
		r := ctx.Peek()
		if r == runeEOF {
			break
		}

		if r == '*' && string(ctx.PeekN(2)) == "*/" {
			ctx.Advance()
			ctx.Advance()

			break
		}

		ctx.Advance()
	}

	ctx.l.ignore()

	return lexMain, nil
}

func lexIdentifier(ctx *Context) (State, error) {
	for isIdentPart(ctx.Peek()) {
		ctx.Advance()
	}

	text := ctx.Token()
	if name, ok := keywords[text]; ok {
		ctx.Emit(name)
	} else {
		ctx.Emit("Identifier")
	}

	return lexMain, nil
}

func lexNumber(ctx *Context) (State, error) {
	for unicode.IsDigit(ctx.Peek()) {
		ctx.Advance()
	}

	if ctx.Peek() == '.' {
		ctx.Advance()

		for unicode.IsDigit(ctx.Peek()) {
			ctx.Advance()
		}
	}

	ctx.Emit("NumericLiteral")

	return lexMain, nil
}

func lexString(ctx *Context) (State, error) {
	quote := ctx.Advance()

	for {
		r := ctx.Peek()
		if r == runeEOF {
			return nil, fmt.Errorf("lex: unterminated string literal starting at %s", ctx.l.cursor)
		}

		if r == '\\' {
			ctx.Advance()
			ctx.Advance()

			continue
		}

		if r == quote {
			ctx.Advance()
			break
		}

		ctx.Advance()
	}

	ctx.Emit("StringLiteral")

	return lexMain, nil
}

func lexPunctuator(ctx *Context) (State, error) {
	for _, p := range punctuators {
		n := len(p.text)

		peeked := ctx.PeekN(n)
		if len(peeked) < n {
			continue
		}

		if string(peeked) == p.text {
			for range p.text {
				ctx.Advance()
			}

			ctx.Emit(p.name)

			return lexMain, nil
		}
	}

	r := ctx.Advance()

	return nil, fmt.Errorf("lex: unexpected character %q at %s", r, ctx.l.cursor)
}
