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

// Package grammar implements the ECMAScript ES5/ES2015 dialects that drive
// the parser engine. The engine is grammar-agnostic; everything here is a
// "grammar" in the engine's sense — ordinary Go methods calling
// engine.Rule, engine.ConsumeTerminal, and the four combinators.
package grammar

import (
	"github.com/ianlewis/esparse/cst"
	"github.com/ianlewis/esparse/engine"
	"github.com/ianlewis/esparse/token"
)

// TokenConsumer is a polymorphic base used by grammars to match individual
// terminal tokens by name; each method is a thin call to the engine's
// ConsumeTerminal, and each terminal match also produces a leaf CstNode
// (§4.5). Dialects extend the terminal set by embedding TokenConsumer;
// ES2015Grammar matches its extra terminals (Let, Const, Arrow, Import,
// Export, From, Class) by calling consume with the terminal name.
type TokenConsumer struct {
	E *engine.Engine

	// rules records every name rule has ever wrapped, so that rule-ness is
	// driven through engine.RuleSet.Invoke rather than calling engine.Rule
	// directly (§4.6's "registry keyed by method identity" option).
	rules *engine.RuleSet
}

func (tc *TokenConsumer) consume(name token.Name) (*cst.Node, error) {
	return tc.E.ConsumeTerminal(name)
}

// The terminal classes shared by ES5 and ES2015. Each is a thin wrapper over
// consume; none push a CstNode of their own beyond the terminal leaf
// ConsumeTerminal already produces.
func (tc *TokenConsumer) Identifier() (*cst.Node, error) { return tc.consume("Identifier") }
func (tc *TokenConsumer) NumericLiteral() (*cst.Node, error) { return tc.consume("NumericLiteral") }
func (tc *TokenConsumer) StringLiteral() (*cst.Node, error) { return tc.consume("StringLiteral") }
func (tc *TokenConsumer) TrueTok() (*cst.Node, error) { return tc.consume("True") }
func (tc *TokenConsumer) FalseTok() (*cst.Node, error) { return tc.consume("False") }
func (tc *TokenConsumer) NullTok() (*cst.Node, error) { return tc.consume("Null") }
func (tc *TokenConsumer) ThisTok() (*cst.Node, error) { return tc.consume("This") }
func (tc *TokenConsumer) NewTok() (*cst.Node, error) { return tc.consume("New") }
func (tc *TokenConsumer) TypeofTok() (*cst.Node, error) { return tc.consume("Typeof") }

func (tc *TokenConsumer) VarTok() (*cst.Node, error) { return tc.consume("Var") }
func (tc *TokenConsumer) FunctionTok() (*cst.Node, error) { return tc.consume("Function") }
func (tc *TokenConsumer) ReturnTok() (*cst.Node, error) { return tc.consume("Return") }
func (tc *TokenConsumer) IfTok() (*cst.Node, error) { return tc.consume("If") }
func (tc *TokenConsumer) ElseTok() (*cst.Node, error) { return tc.consume("Else") }

func (tc *TokenConsumer) LParen() (*cst.Node, error) { return tc.consume("LParen") }
func (tc *TokenConsumer) RParen() (*cst.Node, error) { return tc.consume("RParen") }
func (tc *TokenConsumer) LBrace() (*cst.Node, error) { return tc.consume("LBrace") }
func (tc *TokenConsumer) RBrace() (*cst.Node, error) { return tc.consume("RBrace") }
func (tc *TokenConsumer) LBracket() (*cst.Node, error) { return tc.consume("LBracket") }
func (tc *TokenConsumer) RBracket() (*cst.Node, error) { return tc.consume("RBracket") }
func (tc *TokenConsumer) Semicolon() (*cst.Node, error) { return tc.consume("Semicolon") }
func (tc *TokenConsumer) Comma() (*cst.Node, error) { return tc.consume("Comma") }
func (tc *TokenConsumer) Dot() (*cst.Node, error) { return tc.consume("Dot") }
func (tc *TokenConsumer) Colon() (*cst.Node, error) { return tc.consume("Colon") }
func (tc *TokenConsumer) Question() (*cst.Node, error) { return tc.consume("Question") }
func (tc *TokenConsumer) Bang() (*cst.Node, error) { return tc.consume("Bang") }

func (tc *TokenConsumer) Eq() (*cst.Node, error) { return tc.consume("Eq") }
func (tc *TokenConsumer) EqEq() (*cst.Node, error) { return tc.consume("EqEq") }
func (tc *TokenConsumer) EqEqEq() (*cst.Node, error) { return tc.consume("EqEqEq") }
func (tc *TokenConsumer) NotEq() (*cst.Node, error) { return tc.consume("NotEq") }
func (tc *TokenConsumer) NotEqEq() (*cst.Node, error) { return tc.consume("NotEqEq") }
func (tc *TokenConsumer) Lt() (*cst.Node, error) { return tc.consume("Lt") }
func (tc *TokenConsumer) Gt() (*cst.Node, error) { return tc.consume("Gt") }
func (tc *TokenConsumer) LtEq() (*cst.Node, error) { return tc.consume("LtEq") }
func (tc *TokenConsumer) GtEq() (*cst.Node, error) { return tc.consume("GtEq") }
func (tc *TokenConsumer) AndAnd() (*cst.Node, error) { return tc.consume("AndAnd") }
func (tc *TokenConsumer) OrOr() (*cst.Node, error) { return tc.consume("OrOr") }
func (tc *TokenConsumer) Plus() (*cst.Node, error) { return tc.consume("Plus") }
func (tc *TokenConsumer) Minus() (*cst.Node, error) { return tc.consume("Minus") }
func (tc *TokenConsumer) Star() (*cst.Node, error) { return tc.consume("Star") }
func (tc *TokenConsumer) Slash() (*cst.Node, error) { return tc.consume("Slash") }
func (tc *TokenConsumer) Percent() (*cst.Node, error) { return tc.consume("Percent") }
func (tc *TokenConsumer) PlusPlus() (*cst.Node, error) { return tc.consume("PlusPlus") }
func (tc *TokenConsumer) MinusMinus() (*cst.Node, error) { return tc.consume("MinusMinus") }

// rule drives rule-ness through the TokenConsumer's RuleSet (§4.6's
// "registry keyed by method identity" option) rather than calling
// engine.Rule directly: the first call for a given name registers it as
// RuleStatus, and every call — including that first one — goes through
// RuleSet.Invoke. Grammar methods read as g.rule(name, body), with a body
// closure that has no explicit *engine.Engine parameter to thread through.
func (tc *TokenConsumer) rule(name string, body func() error) (*cst.Node, error) {
	if tc.rules.StatusOf(name) != engine.RuleStatus {
		tc.rules.Register(name, engine.RuleStatus)
	}

	return tc.rules.Invoke(tc.E, name, func(e *engine.Engine) error {
		return body()
	})
}

// or is a small adapter so grammar rules can write
// g.or(names, f1, f2, ...) instead of building a []func(*engine.Engine)
// error literal at every call site.
func (tc *TokenConsumer) or(names []string, alts ...func() error) error {
	wrapped := make([]func(e *engine.Engine) error, len(alts))
	for i, alt := range alts {
		alt := alt
		wrapped[i] = func(e *engine.Engine) error { return alt() }
	}

	return tc.E.Or(names, wrapped)
}

// many is the equivalent adapter for engine.Many.
func (tc *TokenConsumer) many(rule string, body func() error) error {
	return tc.E.Many(rule, func(e *engine.Engine) error { return body() })
}

// option is the equivalent adapter for engine.Option.
func (tc *TokenConsumer) option(body func() error) error {
	return tc.E.Option(func(e *engine.Engine) error { return body() })
}
