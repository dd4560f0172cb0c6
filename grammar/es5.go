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
	"github.com/ianlewis/esparse/cst"
	"github.com/ianlewis/esparse/engine"
)

// Dialect is the set of rules a dialect may override. Rule lookup goes
// through this interface rather than Go's embedding promotion, because
// embedding alone cannot give ES5Grammar's own method bodies access to an
// ES2015Grammar override (§9 "Dialect inheritance... maps to composition...
// rule lookup goes by name through a method table that the subclass can
// override").
type Dialect interface {
	VariableLetOrConst() error
	StatementListItem() error
	AssignmentExpression() error
}

// ES5Grammar implements the ES5 subset of the ECMAScript grammar described
// in §4.7: a Program made of ModuleItemList items, variable/if/block/
// expression statements, and the full binary-operator precedence ladder
// down through member/call chains.
//
// thisClassName is carried per §4.6 so rule nodes can be attributed to the
// dialect that produced them for diagnostic tooling; it is never used as the
// CstNode's Name, which is always the rule name.
type ES5Grammar struct {
	*TokenConsumer

	// self is the outermost dialect object; ES5Grammar calls through self
	// wherever a rule is overridable, so a composed ES2015Grammar's
	// overrides take effect even when the call originates from ES5Grammar's
	// own method bodies.
	self Dialect

	thisClassName string
}

// NewES5 creates an ES5 grammar driving e.
func NewES5(e *engine.Engine) *ES5Grammar {
	g := &ES5Grammar{
		TokenConsumer: &TokenConsumer{E: e, rules: engine.NewRuleSet()},
		thisClassName: "ES5Grammar",
	}
	g.self = g

	return g
}

// Parse runs the grammar's entry rule (Program) over the engine's full
// token view and returns the resulting CST.
func (g *ES5Grammar) Parse() (*cst.Node, error) {
	return g.E.Parse("Program", func(e *engine.Engine) error {
		return g.moduleItemList()
	})
}

// ModuleItemList → (StatementListItem | ErrorNode)*. This is the sole
// FaultToleranceMany call site in the grammar (§4.4): a syntax error inside
// one top-level item is recorded as an ErrorNode and skipped rather than
// aborting the whole parse.
func (g *ES5Grammar) moduleItemList() error {
	_, err := g.rule("ModuleItemList", func() error {
		return g.E.FaultToleranceMany("ModuleItemList", func(e *engine.Engine) error {
			return g.self.StatementListItem()
		})
	})

	return err
}

// StatementListItem → Statement. ES2015 widens this with import/export
// declarations (see es2015.go).
func (g *ES5Grammar) StatementListItem() error {
	_, err := g.rule("StatementListItem", func() error {
		return g.Statement()
	})

	return err
}

// Statement → VariableStatement | IfStatement | Block | ExpressionStatement.
// Longer/more-specific alternatives are listed first so that, e.g., a block
// is never mistaken for the start of an object-literal expression statement.
func (g *ES5Grammar) Statement() error {
	_, err := g.rule("Statement", func() error {
		return g.or(
			[]string{"VariableStatement", "IfStatement", "Block", "ExpressionStatement"},
			g.variableStatement,
			g.ifStatement,
			g.Block,
			g.expressionStatement,
		)
	})

	return err
}

// Block → "{" StatementList "}". Unlike ModuleItemList, a Block's statement
// list is NOT fault tolerant: FaultToleranceMany is reserved for the
// top-level item list (§4.4), so a syntax error inside a block propagates
// and fails the enclosing rule, to be recovered (if at all) only at the top
// level.
func (g *ES5Grammar) Block() error {
	_, err := g.rule("Block", func() error {
		if _, err := g.LBrace(); err != nil {
			return err
		}

		if err := g.many("StatementList", func() error {
			return g.self.StatementListItem()
		}); err != nil {
			return err
		}

		_, err := g.RBrace()

		return err
	})

	return err
}

func (g *ES5Grammar) variableStatement() error {
	_, err := g.rule("VariableDeclaration", func() error {
		if err := g.self.VariableLetOrConst(); err != nil {
			return err
		}

		if err := g.variableDeclarationList(); err != nil {
			return err
		}

		_, err := g.Semicolon()

		return err
	})

	return err
}

// VariableLetOrConst recognizes the declaration keyword. ES5Grammar only
// ever sees "var"; ES2015Grammar overrides this to also accept let/const
// (§9 "Dialect inheritance... maps to composition").
func (g *ES5Grammar) VariableLetOrConst() error {
	_, err := g.rule("VariableLetOrConst", func() error {
		_, err := g.VarTok()
		return err
	})

	return err
}

func (g *ES5Grammar) variableDeclarationList() error {
	_, err := g.rule("VariableDeclarationList", func() error {
		if err := g.variableDeclarator(); err != nil {
			return err
		}

		return g.many("VariableDeclarationList_rest", func() error {
			if _, err := g.Comma(); err != nil {
				return err
			}

			return g.variableDeclarator()
		})
	})

	return err
}

func (g *ES5Grammar) variableDeclarator() error {
	_, err := g.rule("VariableDeclarator", func() error {
		if err := g.bindingIdentifier(); err != nil {
			return err
		}

		return g.option(g.initializer)
	})

	return err
}

func (g *ES5Grammar) bindingIdentifier() error {
	_, err := g.rule("BindingIdentifier", func() error {
		_, err := g.Identifier()
		return err
	})

	return err
}

func (g *ES5Grammar) initializer() error {
	_, err := g.rule("Initializer", func() error {
		if _, err := g.Eq(); err != nil {
			return err
		}

		return g.self.AssignmentExpression()
	})

	return err
}

func (g *ES5Grammar) ifStatement() error {
	_, err := g.rule("IfStatement", func() error {
		if _, err := g.IfTok(); err != nil {
			return err
		}

		if _, err := g.LParen(); err != nil {
			return err
		}

		if err := g.Expression(); err != nil {
			return err
		}

		if _, err := g.RParen(); err != nil {
			return err
		}

		if err := g.Statement(); err != nil {
			return err
		}

		return g.option(func() error {
			if _, err := g.ElseTok(); err != nil {
				return err
			}

			return g.Statement()
		})
	})

	return err
}

func (g *ES5Grammar) expressionStatement() error {
	_, err := g.rule("ExpressionStatement", func() error {
		if err := g.Expression(); err != nil {
			return err
		}

		_, err := g.Semicolon()

		return err
	})

	return err
}

// Expression → AssignmentExpression ("," AssignmentExpression)*.
func (g *ES5Grammar) Expression() error {
	_, err := g.rule("Expression", func() error {
		if err := g.self.AssignmentExpression(); err != nil {
			return err
		}

		return g.many("Expression_rest", func() error {
			if _, err := g.Comma(); err != nil {
				return err
			}

			return g.self.AssignmentExpression()
		})
	})

	return err
}

// AssignmentExpression → ConditionalExpression. ES2015Grammar widens this
// with arrow functions.
func (g *ES5Grammar) AssignmentExpression() error {
	_, err := g.rule("AssignmentExpression", func() error {
		return g.ConditionalExpression()
	})

	return err
}

// ConditionalExpression → LogicalOrExpression ("?" AssignmentExpression ":"
// AssignmentExpression)?.
func (g *ES5Grammar) ConditionalExpression() error {
	_, err := g.rule("ConditionalExpression", func() error {
		if err := g.logicalOrExpression(); err != nil {
			return err
		}

		return g.option(func() error {
			if _, err := g.Question(); err != nil {
				return err
			}

			if err := g.self.AssignmentExpression(); err != nil {
				return err
			}

			if _, err := g.Colon(); err != nil {
				return err
			}

			return g.self.AssignmentExpression()
		})
	})

	return err
}

func (g *ES5Grammar) logicalOrExpression() error {
	_, err := g.rule("LogicalOrExpression", func() error {
		if err := g.logicalAndExpression(); err != nil {
			return err
		}

		return g.many("LogicalOrExpression_rest", func() error {
			if _, err := g.OrOr(); err != nil {
				return err
			}

			return g.logicalAndExpression()
		})
	})

	return err
}

func (g *ES5Grammar) logicalAndExpression() error {
	_, err := g.rule("LogicalAndExpression", func() error {
		if err := g.equalityExpression(); err != nil {
			return err
		}

		return g.many("LogicalAndExpression_rest", func() error {
			if _, err := g.AndAnd(); err != nil {
				return err
			}

			return g.equalityExpression()
		})
	})

	return err
}

func (g *ES5Grammar) equalityExpression() error {
	_, err := g.rule("EqualityExpression", func() error {
		if err := g.relationalExpression(); err != nil {
			return err
		}

		return g.many("EqualityExpression_rest", func() error {
			if err := g.or(
				[]string{"EqEqEq", "NotEqEq", "EqEq", "NotEq"},
				func() error { _, err := g.EqEqEq(); return err },
				func() error { _, err := g.NotEqEq(); return err },
				func() error { _, err := g.EqEq(); return err },
				func() error { _, err := g.NotEq(); return err },
			); err != nil {
				return err
			}

			return g.relationalExpression()
		})
	})

	return err
}

func (g *ES5Grammar) relationalExpression() error {
	_, err := g.rule("RelationalExpression", func() error {
		if err := g.additiveExpression(); err != nil {
			return err
		}

		return g.many("RelationalExpression_rest", func() error {
			if err := g.or(
				[]string{"LtEq", "GtEq", "Lt", "Gt"},
				func() error { _, err := g.LtEq(); return err },
				func() error { _, err := g.GtEq(); return err },
				func() error { _, err := g.Lt(); return err },
				func() error { _, err := g.Gt(); return err },
			); err != nil {
				return err
			}

			return g.additiveExpression()
		})
	})

	return err
}

func (g *ES5Grammar) additiveExpression() error {
	_, err := g.rule("AdditiveExpression", func() error {
		if err := g.multiplicativeExpression(); err != nil {
			return err
		}

		return g.many("AdditiveExpression_rest", func() error {
			if err := g.or(
				[]string{"Plus", "Minus"},
				func() error { _, err := g.Plus(); return err },
				func() error { _, err := g.Minus(); return err },
			); err != nil {
				return err
			}

			return g.multiplicativeExpression()
		})
	})

	return err
}

func (g *ES5Grammar) multiplicativeExpression() error {
	_, err := g.rule("MultiplicativeExpression", func() error {
		if err := g.unaryExpression(); err != nil {
			return err
		}

		return g.many("MultiplicativeExpression_rest", func() error {
			if err := g.or(
				[]string{"Star", "Slash", "Percent"},
				func() error { _, err := g.Star(); return err },
				func() error { _, err := g.Slash(); return err },
				func() error { _, err := g.Percent(); return err },
			); err != nil {
				return err
			}

			return g.unaryExpression()
		})
	})

	return err
}

// UnaryExpression → ("!" | "-" | "typeof" | "++" | "--") UnaryExpression |
// PostfixExpression.
func (g *ES5Grammar) unaryExpression() error {
	_, err := g.rule("UnaryExpression", func() error {
		return g.or(
			[]string{"Bang", "Minus", "Typeof", "PlusPlus", "MinusMinus", "PostfixExpression"},
			func() error {
				if _, err := g.Bang(); err != nil {
					return err
				}

				return g.unaryExpression()
			},
			func() error {
				if _, err := g.Minus(); err != nil {
					return err
				}

				return g.unaryExpression()
			},
			func() error {
				if _, err := g.TypeofTok(); err != nil {
					return err
				}

				return g.unaryExpression()
			},
			func() error {
				if _, err := g.PlusPlus(); err != nil {
					return err
				}

				return g.unaryExpression()
			},
			func() error {
				if _, err := g.MinusMinus(); err != nil {
					return err
				}

				return g.unaryExpression()
			},
			g.postfixExpression,
		)
	})

	return err
}

// PostfixExpression → LeftHandSideExpression ("++" | "--")?. The trailing
// operator is consumed speculatively via Option so that an expression with
// no postfix operator leaves no stray children behind (§8 scenario 4).
func (g *ES5Grammar) postfixExpression() error {
	_, err := g.rule("PostfixExpression", func() error {
		if err := g.LeftHandSideExpression(); err != nil {
			return err
		}

		return g.option(func() error {
			return g.or(
				[]string{"PlusPlus", "MinusMinus"},
				func() error { _, err := g.PlusPlus(); return err },
				func() error { _, err := g.MinusMinus(); return err },
			)
		})
	})

	return err
}

// LeftHandSideExpression → CallExpression | MemberExpression. CallExpression
// is tried first: it is the longer, more specific alternative, matching
// §4.7's note that member/call access is encoded as a head rule followed by
// Many(suffix) so the engine remains LL (§8 scenario 6).
func (g *ES5Grammar) LeftHandSideExpression() error {
	_, err := g.rule("LeftHandSideExpression", func() error {
		return g.or(
			[]string{"CallExpression", "MemberExpression"},
			g.callExpression,
			g.memberExpression,
		)
	})

	return err
}

// CallExpression → MemberExpression Arguments (Arguments | BracketExpression
// | DotExpression)*. Its first child is always a MemberExpression node
// (§8 scenario 6); the mandatory first Arguments is what distinguishes a
// CallExpression from a bare MemberExpression in the enclosing Or.
func (g *ES5Grammar) callExpression() error {
	_, err := g.rule("CallExpression", func() error {
		if err := g.memberExpression(); err != nil {
			return err
		}

		if err := g.arguments(); err != nil {
			return err
		}

		return g.many("CallExpression_rest", func() error {
			return g.or(
				[]string{"Arguments", "BracketExpression", "DotExpression"},
				g.arguments,
				g.bracketExpression,
				g.dotExpression,
			)
		})
	})

	return err
}

// MemberExpression → PrimaryExpression (DotExpression | BracketExpression)*.
func (g *ES5Grammar) memberExpression() error {
	_, err := g.rule("MemberExpression", func() error {
		if err := g.primaryExpression(); err != nil {
			return err
		}

		return g.many("MemberExpression_rest", func() error {
			return g.or(
				[]string{"DotExpression", "BracketExpression"},
				g.dotExpression,
				g.bracketExpression,
			)
		})
	})

	return err
}

func (g *ES5Grammar) dotExpression() error {
	_, err := g.rule("DotExpression", func() error {
		if _, err := g.Dot(); err != nil {
			return err
		}

		_, err := g.Identifier()

		return err
	})

	return err
}

func (g *ES5Grammar) bracketExpression() error {
	_, err := g.rule("BracketExpression", func() error {
		if _, err := g.LBracket(); err != nil {
			return err
		}

		if err := g.Expression(); err != nil {
			return err
		}

		_, err := g.RBracket()

		return err
	})

	return err
}

func (g *ES5Grammar) arguments() error {
	_, err := g.rule("Arguments", func() error {
		if _, err := g.LParen(); err != nil {
			return err
		}

		if err := g.option(g.argumentList); err != nil {
			return err
		}

		_, err := g.RParen()

		return err
	})

	return err
}

func (g *ES5Grammar) argumentList() error {
	if err := g.self.AssignmentExpression(); err != nil {
		return err
	}

	return g.many("ArgumentList_rest", func() error {
		if _, err := g.Comma(); err != nil {
			return err
		}

		return g.self.AssignmentExpression()
	})
}

// PrimaryExpression covers literals, identifiers, parenthesized
// expressions, array/object literals, and function expressions.
func (g *ES5Grammar) primaryExpression() error {
	_, err := g.rule("PrimaryExpression", func() error {
		return g.or(
			[]string{
				"FunctionExpression", "ObjectLiteral", "ArrayLiteral",
				"ParenthesizedExpression", "Literal", "IdentifierReference",
			},
			g.functionExpression,
			g.objectLiteral,
			g.arrayLiteral,
			g.parenthesizedExpression,
			g.literal,
			g.identifierReference,
		)
	})

	return err
}

func (g *ES5Grammar) identifierReference() error {
	_, err := g.rule("IdentifierReference", func() error {
		_, err := g.Identifier()
		return err
	})

	return err
}

func (g *ES5Grammar) literal() error {
	_, err := g.rule("Literal", func() error {
		return g.or(
			[]string{"NumericLiteral", "StringLiteral", "True", "False", "Null"},
			func() error { _, err := g.NumericLiteral(); return err },
			func() error { _, err := g.StringLiteral(); return err },
			func() error { _, err := g.TrueTok(); return err },
			func() error { _, err := g.FalseTok(); return err },
			func() error { _, err := g.NullTok(); return err },
		)
	})

	return err
}

func (g *ES5Grammar) parenthesizedExpression() error {
	_, err := g.rule("ParenthesizedExpression", func() error {
		if _, err := g.LParen(); err != nil {
			return err
		}

		if err := g.Expression(); err != nil {
			return err
		}

		_, err := g.RParen()

		return err
	})

	return err
}

func (g *ES5Grammar) arrayLiteral() error {
	_, err := g.rule("ArrayLiteral", func() error {
		if _, err := g.LBracket(); err != nil {
			return err
		}

		if err := g.option(func() error {
			if err := g.self.AssignmentExpression(); err != nil {
				return err
			}

			return g.many("ElementList_rest", func() error {
				if _, err := g.Comma(); err != nil {
					return err
				}

				return g.self.AssignmentExpression()
			})
		}); err != nil {
			return err
		}

		_, err := g.RBracket()

		return err
	})

	return err
}

// ObjectLiteral → "{" (PropertyDefinition ("," PropertyDefinition)* ","?)?
// "}".
func (g *ES5Grammar) objectLiteral() error {
	_, err := g.rule("ObjectLiteral", func() error {
		if _, err := g.LBrace(); err != nil {
			return err
		}

		if err := g.option(func() error {
			if err := g.propertyDefinition(); err != nil {
				return err
			}

			if err := g.many("PropertyDefinitionList_rest", func() error {
				if _, err := g.Comma(); err != nil {
					return err
				}

				return g.propertyDefinition()
			}); err != nil {
				return err
			}

			return g.option(func() error {
				_, err := g.Comma()
				return err
			})
		}); err != nil {
			return err
		}

		_, err := g.RBrace()

		return err
	})

	return err
}

// PropertyDefinition → MethodDefinition | IdentifierReference.
// MethodDefinition is listed first: for input like "{ m() {} }" both
// alternatives could independently match a prefix of the input, but there is
// no longest-match search (§4.4) — ordering alone decides the ambiguity in
// favor of MethodDefinition (§8 scenario 3).
func (g *ES5Grammar) propertyDefinition() error {
	_, err := g.rule("PropertyDefinition", func() error {
		return g.or(
			[]string{"MethodDefinition", "IdentifierReference"},
			g.methodDefinition,
			g.identifierReference,
		)
	})

	return err
}

func (g *ES5Grammar) methodDefinition() error {
	_, err := g.rule("MethodDefinition", func() error {
		if _, err := g.Identifier(); err != nil {
			return err
		}

		if _, err := g.LParen(); err != nil {
			return err
		}

		if err := g.option(func() error {
			if err := g.bindingIdentifier(); err != nil {
				return err
			}

			return g.many("FormalParameterList_rest", func() error {
				if _, err := g.Comma(); err != nil {
					return err
				}

				return g.bindingIdentifier()
			})
		}); err != nil {
			return err
		}

		if _, err := g.RParen(); err != nil {
			return err
		}

		return g.Block()
	})

	return err
}

func (g *ES5Grammar) functionExpression() error {
	_, err := g.rule("FunctionExpression", func() error {
		if _, err := g.FunctionTok(); err != nil {
			return err
		}

		if err := g.option(func() error {
			_, err := g.Identifier()
			return err
		}); err != nil {
			return err
		}

		if _, err := g.LParen(); err != nil {
			return err
		}

		if err := g.option(func() error {
			if err := g.bindingIdentifier(); err != nil {
				return err
			}

			return g.many("FormalParameterList_rest", func() error {
				if _, err := g.Comma(); err != nil {
					return err
				}

				return g.bindingIdentifier()
			})
		}); err != nil {
			return err
		}

		if _, err := g.RParen(); err != nil {
			return err
		}

		return g.Block()
	})

	return err
}
