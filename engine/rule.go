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

package engine

import "github.com/ianlewis/esparse/cst"

// Status distinguishes a "rule method" (pushes/pops a CstNode) from a
// "helper method" (runs in the caller's already-open node). It is a static
// property of a grammar method, known before parsing begins — the engine
// never infers it from the method's shape. This is the Go analog of the
// source grammar's class-definition-time decorator (§4.6, §9).
type Status int

const (
	// Helper methods append their matches directly into the caller's open
	// node; calling one does not push a new CstNode.
	Helper Status = iota

	// RuleStatus methods push a new CstNode on entry and pop/attach it on
	// exit, per Rule's contract.
	RuleStatus
)

// RuleSet is a registry mapping rule names to their Status, populated once
// at grammar-construction time (the "registry keyed by method identity"
// option from §4.6). A grammar that wants rule-ness to be data-driven
// (rather than simply always calling engine.Rule at each call site) can
// consult a RuleSet to decide whether to wrap a given call in engine.Rule or
// invoke the body directly as a helper.
type RuleSet struct {
	statuses map[string]Status
}

// NewRuleSet creates an empty registry.
func NewRuleSet() *RuleSet {
	return &RuleSet{statuses: make(map[string]Status)}
}

// Register marks name with the given status. Grammars call this once per
// rule/helper method during grammar construction, mirroring the source's
// class-definition-time decoration.
func (rs *RuleSet) Register(name string, status Status) {
	rs.statuses[name] = status
}

// StatusOf returns the registered status for name, defaulting to Helper for
// anything never registered.
func (rs *RuleSet) StatusOf(name string) Status {
	return rs.statuses[name]
}

// Invoke runs f under the status registered for name: as a rule (push/pop
// via Rule) or as a helper (run directly against the engine's current open
// node). Grammars that prefer per-call-site explicitness can ignore RuleSet
// entirely and call e.Rule directly; RuleSet exists for grammars that want
// rule-ness to be table-driven, matching the "registry keyed by method
// identity" design alternative from §4.6.
func (rs *RuleSet) Invoke(e *Engine, name string, f RuleFunc) (*cst.Node, error) {
	if rs.StatusOf(name) == Helper {
		return nil, f(e)
	}

	return e.Rule(name, f)
}
