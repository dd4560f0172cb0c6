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

// Package cst defines the concrete syntax tree built by the parser engine.
package cst

import (
	"fmt"
	"strings"

	"github.com/ianlewis/esparse/token"
)

// Location is the span of source text a node covers, expressed in terms of
// its first and last descendant tokens.
type Location struct {
	Start token.Position
	End   token.Position

	// Index is the absolute token index of the first token in the span.
	Index int
}

// Node is a single node in the concrete syntax tree. Every grammar rule
// invocation produces one Node; every matched terminal produces a leaf Node.
//
// A Node is mutated only while its rule is "open" (between rule entry and
// exit, or before a terminal match completes); once attached to its parent it
// is treated as immutable by the engine.
type Node struct {
	// Name is the rule name for non-terminal nodes, or the terminal name for
	// leaf nodes.
	Name string

	// Value holds the matched lexeme for terminal nodes. It is always empty
	// for non-terminal nodes.
	Value string

	// Loc is nil iff the node covers zero tokens: it has no children, or
	// none of its children has a Loc.
	Loc *Location

	// Children are in source order. May be empty.
	Children []*Node

	// IsTerminal is true iff this node was produced by a terminal match, in
	// which case Children is always empty.
	IsTerminal bool
}

// NewTerminal builds a leaf node from a matched token.
func NewTerminal(name string, tok *token.MatchToken) *Node {
	return &Node{
		Name:  name,
		Value: tok.Value,
		Loc: &Location{
			Start: tok.Start,
			End:   tok.End,
			Index: tok.Index,
		},
		IsTerminal: true,
	}
}

// NewRule builds an empty non-terminal node for the given rule name. Loc is
// computed later, once the rule body has finished appending children, via
// RecomputeLoc.
func NewRule(name string) *Node {
	return &Node{Name: name}
}

// AppendChild appends child to n's children list. It does not recompute n's
// Loc; callers finalize the Loc once via RecomputeLoc after all children for
// this invocation of the rule have been appended.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// RecomputeLoc derives n.Loc from n.Children: the span running from the
// first child's start to the last child's end. If n has no children, Loc is
// set to nil (a rule that matched zero tokens and produced no children).
func (n *Node) RecomputeLoc() {
	if len(n.Children) == 0 {
		n.Loc = nil
		return
	}

	first := n.Children[0]
	last := n.Children[len(n.Children)-1]

	if first.Loc == nil || last.Loc == nil {
		// Children that themselves matched nothing don't contribute bounds;
		// fall back to scanning for the first/last child with a location.
		n.Loc = locFromChildren(n.Children)
		return
	}

	n.Loc = &Location{
		Start: first.Loc.Start,
		End:   last.Loc.End,
		Index: first.Loc.Index,
	}
}

func locFromChildren(children []*Node) *Location {
	var start, end *Location

	for _, c := range children {
		if c.Loc == nil {
			continue
		}

		if start == nil {
			start = c.Loc
		}

		end = c.Loc
	}

	if start == nil {
		return nil
	}

	return &Location{Start: start.Start, End: end.End, Index: start.Index}
}

// FindChildByName returns the first direct child named name, or nil.
func (n *Node) FindChildByName(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// FindChildrenByName returns all direct children named name, in order.
func (n *Node) FindChildrenByName(name string) []*Node {
	var out []*Node

	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}

	return out
}

// String implements fmt.Stringer, rendering n as an indented tree, in the
// same box-drawing style the engine's CLI and tests use for debugging.
func (n *Node) String() string {
	return fmtNode(n, nil)
}

func fmtNode(node *Node, lastRank []bool) string {
	var bldr strings.Builder

	for i := range len(lastRank) - 1 {
		if lastRank[i] {
			bldr.WriteString("    ")
		} else {
			bldr.WriteString("│   ")
		}
	}

	if len(lastRank) > 0 {
		if lastRank[len(lastRank)-1] {
			bldr.WriteString("└── ")
		} else {
			bldr.WriteString("├── ")
		}
	}

	if node.IsTerminal {
		fmt.Fprintf(&bldr, "%s %q\n", node.Name, node.Value)
	} else {
		fmt.Fprintf(&bldr, "%s\n", node.Name)
	}

	for i, child := range node.Children {
		newLastRank := make([]bool, len(lastRank)+1)
		copy(newLastRank, lastRank)
		newLastRank[len(lastRank)] = i == len(node.Children)-1
		bldr.WriteString(fmtNode(child, newLastRank))
	}

	return bldr.String()
}
