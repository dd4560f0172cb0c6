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

package lex_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/esparse/lex"
	"github.com/ianlewis/esparse/token"
)

func names(toks []*token.MatchToken) []token.Name {
	out := make([]token.Name, len(toks))
	for i, t := range toks {
		out[i] = t.Name
	}

	return out
}

func TestLexer_Tokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Name
	}{
		{
			name: "empty",
			src:  "",
			want: []token.Name{token.EOF},
		},
		{
			name: "keywords and identifiers",
			src:  "let x = foo;",
			want: []token.Name{"Let", "Identifier", "Eq", "Identifier", "Semicolon", token.EOF},
		},
		{
			name: "numbers and strings",
			src:  `x = 1.5 + "hi";`,
			want: []token.Name{
				"Identifier", "Eq", "NumericLiteral", "Plus", "StringLiteral", "Semicolon", token.EOF,
			},
		},
		{
			name: "longest-match punctuators",
			src:  "a === b !== c",
			want: []token.Name{"Identifier", "EqEqEq", "Identifier", "NotEqEq", "Identifier", token.EOF},
		},
		{
			name: "arrow and ellipsis",
			src:  "() => ...a",
			want: []token.Name{"LParen", "RParen", "Arrow", "Ellipsis", "Identifier", token.EOF},
		},
		{
			name: "line and block comments are skipped",
			src:  "a // comment\n/* block */ b",
			want: []token.Name{"Identifier", "Identifier", token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lex.New(strings.NewReader(tt.src), "test.js")

			toks, err := l.Tokenize(t.Context())
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, names(toks)); diff != "" {
				t.Errorf("token names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexer_Tokenize_indexIsSequential(t *testing.T) {
	l := lex.New(strings.NewReader("a b c"), "")

	toks, err := l.Tokenize(t.Context())
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	for i, tok := range toks {
		if diff := cmp.Diff(i, tok.Index); diff != "" {
			t.Errorf("tok[%d].Index mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestLexer_Tokenize_endsWithEOF(t *testing.T) {
	l := lex.New(strings.NewReader("a"), "")

	toks, err := l.Tokenize(t.Context())
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	last := toks[len(toks)-1]

	if diff := cmp.Diff(token.EOF, last.Name); diff != "" {
		t.Errorf("last token Name mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(true, last.IsEOF()); diff != "" {
		t.Errorf("last.IsEOF() mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Tokenize_unterminatedStringErrors(t *testing.T) {
	l := lex.New(strings.NewReader(`"unterminated`), "")

	_, err := l.Tokenize(t.Context())
	if err == nil {
		t.Fatal("Tokenize() error = nil, want unterminated-string error")
	}
}

func TestLexer_Tokenize_unknownCharacterErrors(t *testing.T) {
	l := lex.New(strings.NewReader("@"), "")

	_, err := l.Tokenize(t.Context())
	if err == nil {
		t.Fatal("Tokenize() error = nil, want unexpected-character error")
	}
}

func TestLexer_Tokenize_valuesPreserveLexeme(t *testing.T) {
	l := lex.New(strings.NewReader(`myVar`), "")

	toks, err := l.Tokenize(t.Context())
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	if diff := cmp.Diff("myVar", toks[0].Value); diff != "" {
		t.Errorf("Value mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(token.Position{Line: 1, Column: 1}, toks[0].Start, cmpopts.IgnoreFields(token.Position{}, "Offset")); diff != "" {
		t.Errorf("Start mismatch (-want +got):\n%s", diff)
	}
}
