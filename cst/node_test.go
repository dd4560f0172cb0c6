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

package cst_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/esparse/cst"
	"github.com/ianlewis/esparse/token"
)

func term(name, value string, index int) *cst.Node {
	return cst.NewTerminal(name, &token.MatchToken{
		Name:  token.Name(name),
		Value: value,
		Start: token.Position{Line: 1, Column: index + 1, Offset: index},
		End:   token.Position{Line: 1, Column: index + 1 + len(value), Offset: index + len(value)},
		Index: index,
	})
}

func TestNode_RecomputeLoc_empty(t *testing.T) {
	n := cst.NewRule("Empty")
	n.RecomputeLoc()

	if n.Loc != nil {
		t.Errorf("Loc = %+v, want nil", n.Loc)
	}
}

func TestNode_RecomputeLoc_spansChildren(t *testing.T) {
	n := cst.NewRule("Pair")
	n.AppendChild(term("A", "a", 0))
	n.AppendChild(term("B", "bb", 2))
	n.RecomputeLoc()

	if n.Loc == nil {
		t.Fatal("Loc = nil, want non-nil")
	}

	if diff := cmp.Diff(0, n.Loc.Index); diff != "" {
		t.Errorf("Loc.Index mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(0, n.Loc.Start.Offset); diff != "" {
		t.Errorf("Loc.Start.Offset mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(4, n.Loc.End.Offset); diff != "" {
		t.Errorf("Loc.End.Offset mismatch (-want +got):\n%s", diff)
	}
}

func TestNode_RecomputeLoc_skipsLoclessChildren(t *testing.T) {
	n := cst.NewRule("Outer")

	empty := cst.NewRule("Inner")
	empty.RecomputeLoc()
	n.AppendChild(empty)
	n.AppendChild(term("A", "a", 5))
	n.RecomputeLoc()

	if n.Loc == nil {
		t.Fatal("Loc = nil, want non-nil (falls back to the one child with a location)")
	}

	if diff := cmp.Diff(5, n.Loc.Start.Offset); diff != "" {
		t.Errorf("Loc.Start.Offset mismatch (-want +got):\n%s", diff)
	}
}

func TestNode_FindChildByName(t *testing.T) {
	n := cst.NewRule("Parent")
	n.AppendChild(term("A", "a", 0))
	n.AppendChild(term("B", "b", 1))

	got := n.FindChildByName("B")
	if got == nil || got.Value != "b" {
		t.Errorf("FindChildByName(%q) = %+v, want B/b", "B", got)
	}

	if n.FindChildByName("C") != nil {
		t.Error("FindChildByName(\"C\") = non-nil, want nil")
	}
}

func TestNode_FindChildrenByName(t *testing.T) {
	n := cst.NewRule("Parent")
	n.AppendChild(term("Item", "1", 0))
	n.AppendChild(term("Sep", ",", 1))
	n.AppendChild(term("Item", "2", 2))

	got := n.FindChildrenByName("Item")
	if diff := cmp.Diff(2, len(got)); diff != "" {
		t.Fatalf("len(FindChildrenByName) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"1", "2"}, []string{got[0].Value, got[1].Value}); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestNode_String(t *testing.T) {
	root := cst.NewRule("Root")
	root.AppendChild(term("A", "a", 0))

	child := cst.NewRule("Child")
	child.AppendChild(term("B", "b", 1))
	root.AppendChild(child)

	want := "Root\n" +
		"├── A \"a\"\n" +
		"└── Child\n" +
		"    └── B \"b\"\n"

	if diff := cmp.Diff(want, root.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}
