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

// Package ast lowers a CST produced by the parser engine into a small
// abstract syntax tree. It is a thin external collaborator: it reads a
// *cst.Node only through FindChildByName/FindChildrenByName and the Name,
// Value, Children and IsTerminal fields, and never mutates the tree it walks.
package ast

import (
	"github.com/ianlewis/esparse/cst"
)

// Program is the root of a lowered module.
type Program struct {
	Body []Statement
}

// Statement is any top-level or block-level statement node.
type Statement interface {
	stmtNode()
}

// Expression is any expression node.
type Expression interface {
	exprNode()
}

// VariableDecl is a `var`/`let`/`const` declaration statement.
type VariableDecl struct {
	Kind        string // "var", "let", or "const"
	Declarators []*VariableDeclarator
}

func (*VariableDecl) stmtNode() {}

// VariableDeclarator is a single `name = init` pair inside a VariableDecl.
// Init is nil when the declarator has no initializer.
type VariableDeclarator struct {
	Name string
	Init Expression
}

// IfStatement is an `if (test) consequent else alternate` statement.
// Alternate is nil when there is no else clause.
type IfStatement struct {
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (*IfStatement) stmtNode() {}

// BlockStatement is a `{ ... }` statement list.
type BlockStatement struct {
	Body []Statement
}

func (*BlockStatement) stmtNode() {}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Expr Expression
}

func (*ExpressionStatement) stmtNode() {}

// ErrorStatement lowers a CST ErrorNode emitted by FaultToleranceMany: a
// token the grammar could not parse, skipped so the rest of the module could
// still be lowered.
type ErrorStatement struct {
	Token string
}

func (*ErrorStatement) stmtNode() {}

// Identifier is a bare name reference.
type Identifier struct {
	Name string
}

func (*Identifier) exprNode() {}

// Literal is a numeric, string, boolean, or null literal. Kind is the CST
// terminal name the value was lowered from (e.g. "NumericLiteral").
type Literal struct {
	Kind  string
	Value string
}

func (*Literal) exprNode() {}

// BinaryExpression is a two-operand operator expression produced by
// collapsing one level of the CST's precedence ladder (e.g.
// AdditiveExpression, EqualityExpression).
type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) exprNode() {}

// CallExpression is a MemberExpression followed by one or more Arguments/
// suffix applications, flattened from the CST's Many(suffix) encoding.
type CallExpression struct {
	Callee    Expression
	Arguments []Expression
}

func (*CallExpression) exprNode() {}

// MemberExpression is `object.property` or `object[property]`.
type MemberExpression struct {
	Object   Expression
	Property Expression
	Computed bool // true for object[property], false for object.property
}

func (*MemberExpression) exprNode() {}

// OpaqueExpression wraps a CST subtree this lowering pass does not yet model
// explicitly (e.g. object/array literals, function expressions). Source
// preserves the node so a caller can still recover its span and raw shape.
type OpaqueExpression struct {
	Source *cst.Node
}

func (*OpaqueExpression) exprNode() {}

// Lower walks a Program CST (as produced by grammar.ES5Grammar.Parse or
// grammar.ES2015Grammar.Parse) into an *ast.Program. It relies only on Name,
// Value, Children, IsTerminal, FindChildByName, and FindChildrenByName. It
// never mutates root or any of its descendants.
func Lower(root *cst.Node) *Program {
	prog := &Program{}

	itemList := root.FindChildByName("ModuleItemList")
	if itemList == nil {
		return prog
	}

	for _, child := range itemList.Children {
		prog.Body = append(prog.Body, lowerModuleItem(child))
	}

	return prog
}

func lowerModuleItem(n *cst.Node) Statement {
	switch n.Name {
	case "ErrorNode":
		return &ErrorStatement{Token: n.Value}
	case "StatementListItem":
		if len(n.Children) == 0 {
			return &ErrorStatement{}
		}

		return lowerModuleItem(n.Children[0])
	case "Statement":
		if len(n.Children) == 0 {
			return &ErrorStatement{}
		}

		return lowerModuleItem(n.Children[0])
	case "VariableDeclaration":
		return lowerVariableDecl(n)
	case "IfStatement":
		return lowerIfStatement(n)
	case "Block":
		return lowerBlock(n)
	case "ExpressionStatement":
		return &ExpressionStatement{Expr: lowerExpression(n.Children[0])}
	default:
		// ImportDeclaration, ExportDeclaration, ClassDeclaration and any
		// other rule this pass does not yet model explicitly.
		return &ExpressionStatement{Expr: &OpaqueExpression{Source: n}}
	}
}

func lowerVariableDecl(n *cst.Node) *VariableDecl {
	decl := &VariableDecl{Kind: "var"}

	if kw := n.FindChildByName("VariableLetOrConst"); kw != nil {
		for _, tok := range kw.Children {
			switch tok.Name {
			case "Let":
				decl.Kind = "let"
			case "Const":
				decl.Kind = "const"
			case "Var":
				decl.Kind = "var"
			}
		}
	}

	list := n.FindChildByName("VariableDeclarationList")
	if list == nil {
		return decl
	}

	for _, d := range list.FindChildrenByName("VariableDeclarator") {
		decl.Declarators = append(decl.Declarators, lowerVariableDeclarator(d))
	}

	return decl
}

func lowerVariableDeclarator(n *cst.Node) *VariableDeclarator {
	out := &VariableDeclarator{}

	if bi := n.FindChildByName("BindingIdentifier"); bi != nil {
		if id := bi.FindChildByName("Identifier"); id != nil {
			out.Name = id.Value
		}
	}

	if init := n.FindChildByName("Initializer"); init != nil {
		for _, c := range init.Children {
			if c.Name == "Eq" {
				continue
			}

			out.Init = lowerExpression(c)
		}
	}

	return out
}

func lowerIfStatement(n *cst.Node) *IfStatement {
	out := &IfStatement{}

	if test := n.FindChildByName("Expression"); test != nil {
		out.Test = lowerExpression(test)
	}

	stmts := n.FindChildrenByName("Statement")
	if len(stmts) > 0 {
		out.Consequent = lowerModuleItem(stmts[0])
	}

	if len(stmts) > 1 {
		out.Alternate = lowerModuleItem(stmts[1])
	}

	return out
}

func lowerBlock(n *cst.Node) *BlockStatement {
	out := &BlockStatement{}

	for _, c := range n.Children {
		if c.Name == "LBrace" || c.Name == "RBrace" {
			continue
		}

		out.Body = append(out.Body, lowerModuleItem(c))
	}

	return out
}

// lowerExpression collapses the CST's precedence ladder: a node with a
// single child is transparent (it just narrowed the grammar, it did not
// combine two operands), and a node with three children of the shape
// (left, operator, right) lowers to a BinaryExpression. Anything else falls
// back to OpaqueExpression so information is never silently dropped.
func lowerExpression(n *cst.Node) Expression {
	switch n.Name {
	case "Identifier", "IdentifierReference":
		if n.Name == "IdentifierReference" && len(n.Children) == 1 {
			return lowerExpression(n.Children[0])
		}

		return &Identifier{Name: n.Value}
	case "NumericLiteral", "StringLiteral", "True", "False", "Null":
		return &Literal{Kind: n.Name, Value: n.Value}
	case "Literal":
		if len(n.Children) == 1 {
			return lowerExpression(n.Children[0])
		}
	case "MemberExpression":
		return lowerMemberExpression(n)
	case "CallExpression":
		return lowerCallExpression(n)
	}

	if len(n.Children) == 1 {
		return lowerExpression(n.Children[0])
	}

	if len(n.Children) == 3 {
		if op := operatorName(n.Children[1]); op != "" {
			return &BinaryExpression{
				Operator: op,
				Left:     lowerExpression(n.Children[0]),
				Right:    lowerExpression(n.Children[2]),
			}
		}
	}

	return &OpaqueExpression{Source: n}
}

func lowerMemberExpression(n *cst.Node) Expression {
	if len(n.Children) == 0 {
		return &OpaqueExpression{Source: n}
	}

	expr := lowerExpression(n.Children[0])

	for _, suffix := range n.Children[1:] {
		switch suffix.Name {
		case "DotExpression":
			if id := suffix.FindChildByName("Identifier"); id != nil {
				expr = &MemberExpression{Object: expr, Property: &Identifier{Name: id.Value}}
			}
		case "BracketExpression":
			if e := suffix.FindChildByName("Expression"); e != nil {
				expr = &MemberExpression{Object: expr, Property: lowerExpression(e), Computed: true}
			}
		}
	}

	return expr
}

func lowerCallExpression(n *cst.Node) Expression {
	if len(n.Children) == 0 {
		return &OpaqueExpression{Source: n}
	}

	expr := lowerExpression(n.Children[0])

	for _, suffix := range n.Children[1:] {
		switch suffix.Name {
		case "Arguments":
			var args []Expression

			for _, a := range suffix.Children {
				if a.Name == "LParen" || a.Name == "RParen" || a.Name == "Comma" {
					continue
				}

				args = append(args, lowerExpression(a))
			}

			expr = &CallExpression{Callee: expr, Arguments: args}
		case "DotExpression":
			if id := suffix.FindChildByName("Identifier"); id != nil {
				expr = &MemberExpression{Object: expr, Property: &Identifier{Name: id.Value}}
			}
		case "BracketExpression":
			if e := suffix.FindChildByName("Expression"); e != nil {
				expr = &MemberExpression{Object: expr, Property: lowerExpression(e), Computed: true}
			}
		}
	}

	return expr
}

func operatorName(n *cst.Node) string {
	if !n.IsTerminal {
		return ""
	}

	switch n.Name {
	case "Plus", "Minus", "Star", "Slash", "Percent",
		"EqEq", "EqEqEq", "NotEq", "NotEqEq",
		"Lt", "Gt", "LtEq", "GtEq", "AndAnd", "OrOr":
		return n.Value
	default:
		return ""
	}
}
