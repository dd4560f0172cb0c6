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

package grammar

import (
	"github.com/ianlewis/esparse/engine"
)

// ES2015Grammar composes an ES5Grammar and overrides the rules ES2015
// widens: VariableLetOrConst gains let/const, and StatementListItem gains
// import/export declarations. This is Design Note 9's "dialect inheritance
// maps to composition" — ES2015Grammar holds an ES5Grammar rather than
// copying its rules.
type ES2015Grammar struct {
	*ES5Grammar
}

// NewES2015 creates an ES2015 grammar driving e.
func NewES2015(e *engine.Engine) *ES2015Grammar {
	g := &ES2015Grammar{ES5Grammar: NewES5(e)}
	g.ES5Grammar.self = g
	g.ES5Grammar.thisClassName = "ES2015Grammar"

	return g
}

// VariableLetOrConst overrides ES5Grammar's var-only version to also accept
// let/const (§8 scenario 2).
func (g *ES2015Grammar) VariableLetOrConst() error {
	_, err := g.rule("VariableLetOrConst", func() error {
		return g.or(
			[]string{"Let", "Const", "Var"},
			func() error { _, err := g.consume("Let"); return err },
			func() error { _, err := g.consume("Const"); return err },
			func() error { _, err := g.VarTok(); return err },
		)
	})

	return err
}

// StatementListItem overrides ES5Grammar's version to also accept
// ImportDeclaration and ExportDeclaration at the top of the alternative
// list, per §4.7's ModuleItemList shape.
func (g *ES2015Grammar) StatementListItem() error {
	_, err := g.rule("StatementListItem", func() error {
		return g.or(
			[]string{"ImportDeclaration", "ExportDeclaration", "ClassDeclaration", "Statement"},
			g.importDeclaration,
			g.exportDeclaration,
			g.classDeclaration,
			g.Statement,
		)
	})

	return err
}

func (g *ES2015Grammar) importDeclaration() error {
	_, err := g.rule("ImportDeclaration", func() error {
		if _, err := g.consume("Import"); err != nil {
			return err
		}

		if err := g.bindingIdentifier(); err != nil {
			return err
		}

		if _, err := g.consume("From"); err != nil {
			return err
		}

		if _, err := g.StringLiteral(); err != nil {
			return err
		}

		_, err := g.Semicolon()

		return err
	})

	return err
}

func (g *ES2015Grammar) exportDeclaration() error {
	_, err := g.rule("ExportDeclaration", func() error {
		if _, err := g.consume("Export"); err != nil {
			return err
		}

		return g.or(
			[]string{"VariableDeclaration", "Statement"},
			g.variableStatement,
			g.Statement,
		)
	})

	return err
}

// AssignmentExpression overrides ES5Grammar's version to also accept arrow
// functions ahead of the plain conditional-expression fallback.
func (g *ES2015Grammar) AssignmentExpression() error {
	_, err := g.rule("AssignmentExpression", func() error {
		return g.or(
			[]string{"ArrowFunction", "ConditionalExpression"},
			g.arrowFunction,
			g.ConditionalExpression,
		)
	})

	return err
}

// arrowFunction → "(" ArrowParameters ")" "=>" (Block | AssignmentExpression).
//
// ArrowParameters is deliberately left empty, per Design Note 9: the source
// grammar comments this rule's body out, leaving it an open question whether
// arrow-function parameter parsing was meant to be disabled or implemented
// later. This implementation preserves that contract rather than guessing:
// ArrowParameters always matches zero tokens, so only the empty-parameter
// form "() => ..." parses; "(x) => ..." fails with TokenMismatch on the
// closing paren, same as it would against the uncommented-but-empty source
// rule.
func (g *ES2015Grammar) arrowFunction() error {
	_, err := g.rule("ArrowFunction", func() error {
		if _, err := g.LParen(); err != nil {
			return err
		}

		if err := g.arrowParameters(); err != nil {
			return err
		}

		if _, err := g.RParen(); err != nil {
			return err
		}

		if _, err := g.consume("Arrow"); err != nil {
			return err
		}

		return g.or(
			[]string{"Block", "AssignmentExpression"},
			g.Block,
			g.AssignmentExpression,
		)
	})

	return err
}

// ArrowParameters intentionally accepts zero tokens and produces an empty
// node; see arrowFunction's doc comment.
func (g *ES2015Grammar) arrowParameters() error {
	_, err := g.rule("ArrowParameters", func() error {
		return nil
	})

	return err
}

// classDeclaration → "class" Identifier "{" MethodDefinition* "}".
func (g *ES2015Grammar) classDeclaration() error {
	_, err := g.rule("ClassDeclaration", func() error {
		if _, err := g.consume("Class"); err != nil {
			return err
		}

		if _, err := g.Identifier(); err != nil {
			return err
		}

		if _, err := g.LBrace(); err != nil {
			return err
		}

		if err := g.many("ClassBody_rest", func() error {
			return g.methodDefinition()
		}); err != nil {
			return err
		}

		_, err := g.RBrace()

		return err
	})

	return err
}
