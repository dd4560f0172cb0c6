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

package grammar_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/esparse/cst"
	"github.com/ianlewis/esparse/engine"
	"github.com/ianlewis/esparse/grammar"
	"github.com/ianlewis/esparse/lex"
)

func parseES2015(t *testing.T, src string) (*cst.Node, error) {
	t.Helper()

	l := lex.New(strings.NewReader(src), "test.js")

	toks, err := l.Tokenize(t.Context())
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	return grammar.NewES2015(engine.New(toks)).Parse()
}

// TestES2015_emptyModule is §8 scenario 1.
func TestES2015_emptyModule(t *testing.T) {
	root, err := parseES2015(t, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if diff := cmp.Diff("Program", root.Name); diff != "" {
		t.Errorf("root.Name mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(1, len(root.Children)); diff != "" {
		t.Fatalf("len(root.Children) mismatch (-want +got):\n%s", diff)
	}

	itemList := root.Children[0]

	if diff := cmp.Diff("ModuleItemList", itemList.Name); diff != "" {
		t.Errorf("itemList.Name mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(0, len(itemList.Children)); diff != "" {
		t.Errorf("len(itemList.Children) mismatch (-want +got):\n%s", diff)
	}

	if itemList.Loc != nil {
		t.Errorf("itemList.Loc = %+v, want nil", itemList.Loc)
	}
}

// TestES2015_variableDecl is §8 scenario 2.
func TestES2015_variableDecl(t *testing.T) {
	root, err := parseES2015(t, "let x = 1;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	itemList := root.FindChildByName("ModuleItemList")
	if itemList == nil {
		t.Fatal("ModuleItemList not found")
	}

	item := itemList.Children[0]
	stmt := item.FindChildByName("Statement")

	if stmt == nil {
		// ES2015's StatementListItem may resolve directly to a Statement
		// child, or item itself may already be the StatementListItem.
		stmt = item
	}

	decl := findDescendant(stmt, "VariableDeclaration")
	if decl == nil {
		t.Fatalf("VariableDeclaration not found in:\n%s", root)
	}

	kw := decl.FindChildByName("VariableLetOrConst")
	if kw == nil || len(kw.Children) != 1 || kw.Children[0].Name != "Let" {
		t.Errorf("VariableLetOrConst = %+v, want [Let]", kw)
	}

	list := decl.FindChildByName("VariableDeclarationList")
	if list == nil {
		t.Fatal("VariableDeclarationList not found")
	}

	declarator := list.FindChildByName("VariableDeclarator")
	if declarator == nil {
		t.Fatal("VariableDeclarator not found")
	}

	bindingID := declarator.FindChildByName("BindingIdentifier")
	if bindingID == nil {
		t.Fatal("BindingIdentifier not found")
	}

	if diff := cmp.Diff("x", bindingID.FindChildByName("Identifier").Value); diff != "" {
		t.Errorf("identifier value mismatch (-want +got):\n%s", diff)
	}

	init := declarator.FindChildByName("Initializer")
	if init == nil {
		t.Fatal("Initializer not found")
	}

	num := findDescendant(init, "NumericLiteral")
	if num == nil || num.Value != "1" {
		t.Errorf("NumericLiteral = %+v, want value 1", num)
	}

	if decl.FindChildByName("Semicolon") == nil {
		t.Error("Semicolon not found")
	}
}

// TestES2015_ambiguousPropertyDefinition is §8 scenario 3: MethodDefinition
// must win over IdentifierReference for "{ m() {} }".
func TestES2015_ambiguousPropertyDefinition(t *testing.T) {
	root, err := parseES2015(t, "({ m() {} });")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	propDef := findDescendant(root, "PropertyDefinition")
	if propDef == nil {
		t.Fatalf("PropertyDefinition not found in:\n%s", root)
	}

	if diff := cmp.Diff(1, len(propDef.Children)); diff != "" {
		t.Fatalf("len(propDef.Children) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff("MethodDefinition", propDef.Children[0].Name); diff != "" {
		t.Errorf("propDef.Children[0].Name mismatch (-want +got):\n%s", diff)
	}
}

// TestES2015_postfixBacktrackNeutrality is §8 scenario 4: a bare identifier
// leaves no stray children behind in PostfixExpression's Option.
func TestES2015_postfixBacktrackNeutrality(t *testing.T) {
	root, err := parseES2015(t, "a;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	postfix := findDescendant(root, "PostfixExpression")
	if postfix == nil {
		t.Fatalf("PostfixExpression not found in:\n%s", root)
	}

	if diff := cmp.Diff(1, len(postfix.Children)); diff != "" {
		t.Errorf("len(postfix.Children) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff("LeftHandSideExpression", postfix.Children[0].Name); diff != "" {
		t.Errorf("postfix.Children[0].Name mismatch (-want +got):\n%s", diff)
	}
}

// TestES2015_faultTolerance is §8 scenario 5: a syntax error inside one
// top-level item does not abort parsing the rest of the module.
func TestES2015_faultTolerance(t *testing.T) {
	root, err := parseES2015(t, "let ; let y = 2;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	itemList := root.FindChildByName("ModuleItemList")
	if itemList == nil {
		t.Fatal("ModuleItemList not found")
	}

	var sawError bool

	for _, c := range itemList.Children {
		if c.Name == "ErrorNode" {
			sawError = true
		}
	}

	if !sawError {
		t.Errorf("ModuleItemList has no ErrorNode child:\n%s", root)
	}

	decl := findDescendant(itemList, "VariableDeclarator")
	if decl == nil {
		t.Fatalf("no VariableDeclarator recovered after the error:\n%s", root)
	}

	id := decl.FindChildByName("BindingIdentifier").FindChildByName("Identifier")
	if id == nil || id.Value != "y" {
		t.Errorf("recovered declarator name = %+v, want y", id)
	}
}

// TestES2015_memberCallChain is §8 scenario 6: a.b.c()[0] lowers to a
// CallExpression whose first child is a MemberExpression covering a.b.c,
// followed by Arguments, followed by a BracketExpression.
func TestES2015_memberCallChain(t *testing.T) {
	root, err := parseES2015(t, "a.b.c()[0];")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	call := findDescendant(root, "CallExpression")
	if call == nil {
		t.Fatalf("CallExpression not found in:\n%s", root)
	}

	if len(call.Children) < 3 {
		t.Fatalf("CallExpression has %d children, want at least 3:\n%s", len(call.Children), call)
	}

	if diff := cmp.Diff("MemberExpression", call.Children[0].Name); diff != "" {
		t.Errorf("call.Children[0].Name mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff("Arguments", call.Children[1].Name); diff != "" {
		t.Errorf("call.Children[1].Name mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff("BracketExpression", call.Children[2].Name); diff != "" {
		t.Errorf("call.Children[2].Name mismatch (-want +got):\n%s", diff)
	}

	member := call.Children[0]

	dots := member.FindChildrenByName("DotExpression")
	if diff := cmp.Diff(2, len(dots)); diff != "" {
		t.Errorf("len(DotExpression) mismatch (-want +got):\n%s", diff)
	}
}

// TestES5_variableStatementRejectsLet verifies dialect composition: plain
// ES5Grammar never accepts let/const, only var. The top-level ModuleItemList
// is fault tolerant (§4.4), so a rejected `let` does not fail Parse; it shows
// up as ErrorNode children instead, and no VariableDeclaration is produced.
func TestES5_variableStatementRejectsLet(t *testing.T) {
	l := lex.New(strings.NewReader("let x = 1;"), "test.js")

	toks, err := l.Tokenize(t.Context())
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	root, err := grammar.NewES5(engine.New(toks)).Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	itemList := root.FindChildByName("ModuleItemList")
	if itemList == nil {
		t.Fatal("ModuleItemList not found")
	}

	var sawError bool

	for _, c := range itemList.Children {
		if c.Name == "ErrorNode" {
			sawError = true
		}
	}

	if !sawError {
		t.Errorf("ModuleItemList has no ErrorNode child:\n%s", root)
	}

	if findDescendant(root, "VariableDeclaration") != nil {
		t.Errorf("VariableDeclaration found, want none under ES5 for `let`:\n%s", root)
	}
}

func TestES2015_arrowFunctionEmptyParamsOnly(t *testing.T) {
	root, err := parseES2015(t, "(() => 1);")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if findDescendant(root, "ArrowFunction") == nil {
		t.Fatalf("ArrowFunction not found in:\n%s", root)
	}
}

// TestES2015_arrowFunctionWithParamsFails verifies ArrowParameters' empty-
// body contract: "(x) => ..." never resolves to an ArrowFunction, since the
// rule only ever matches the zero-parameter form. As with
// TestES5_variableStatementRejectsLet, the top-level ModuleItemList is fault
// tolerant, so the rejection surfaces as ErrorNode children rather than a
// Parse error.
func TestES2015_arrowFunctionWithParamsFails(t *testing.T) {
	root, err := parseES2015(t, "(x) => 1;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if findDescendant(root, "ArrowFunction") != nil {
		t.Errorf("ArrowFunction found, want none for `(x) => 1`:\n%s", root)
	}

	if findDescendant(root, "ErrorNode") == nil {
		t.Errorf("no ErrorNode found, want the unparsed tokens recorded:\n%s", root)
	}
}

// Example_es2015Grammar demonstrates parsing a small module and printing its
// concrete syntax tree.
func Example_es2015Grammar() {
	l := lex.New(strings.NewReader("let x = 1;"), "")

	toks, err := l.Tokenize(context.Background())
	if err != nil {
		panic(err)
	}

	root, err := grammar.NewES2015(engine.New(toks)).Parse()
	if err != nil {
		panic(err)
	}

	fmt.Print(root)
}

func findDescendant(n *cst.Node, name string) *cst.Node {
	if n == nil {
		return nil
	}

	if n.Name == name {
		return n
	}

	for _, c := range n.Children {
		if found := findDescendant(c, name); found != nil {
			return found
		}
	}

	return nil
}
