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

// Package engine implements the combinator-style recursive-descent parsing
// core: rule invocation, the four structured combinators (Or, Many, Option,
// FaultToleranceMany), speculative backtracking, and top-level fault
// tolerance. It is grammar-agnostic; a grammar (see the grammar package)
// drives it by calling Rule, ConsumeTerminal, and the combinators.
package engine

import (
	"context"
	"fmt"

	"github.com/ianlewis/esparse/cst"
	"github.com/ianlewis/esparse/token"
)

// Engine owns a single parse's state: the token view, cursor, the stack of
// in-progress CST nodes, and the checkpoint stack used for backtracking. An
// Engine is not reentrant: a single instance must not be used by two
// concurrent parses. Separate Engines share no state.
type Engine struct {
	v   *view
	cur int

	nodeStack []*cst.Node
	saveStack []checkpoint

	// furthest is the deepest cursor position any attempt has reached, used
	// to report the furthest-reach diagnostic on total parse failure.
	furthest int

	// ctx is checked only between FaultToleranceMany iterations, per §5: "a
	// host wrapping the engine may check a cancellation flag between
	// top-level items". The core never polls anywhere else.
	ctx context.Context
}

// New creates an Engine over the given token sequence. Index fields on the
// tokens are assumed to already reflect each token's position in toks; a
// lexer is expected to have set them (see the lex package).
func New(toks []*token.MatchToken) *Engine {
	return &Engine{v: &view{tokens: toks}, ctx: context.Background()}
}

// WithContext attaches ctx to the engine so that FaultToleranceMany can
// observe cancellation between top-level items. It returns e for chaining.
func (e *Engine) WithContext(ctx context.Context) *Engine {
	e.ctx = ctx
	return e
}

// top returns the currently open parent node, or nil before any rule has
// been entered.
func (e *Engine) top() *cst.Node {
	if len(e.nodeStack) == 0 {
		return nil
	}

	return e.nodeStack[len(e.nodeStack)-1]
}

// Peek returns the token k positions ahead of the cursor without consuming
// it. Grammars may use this to make local dispatch decisions, e.g. in
// parseINI-style "peek and switch" rules, without paying for a full Or
// backtrack.
func (e *Engine) Peek(k int) *token.MatchToken {
	return e.peek(k)
}

// GetCurCST returns the currently open node, per the grammar interface's
// getCurCst (§6). A grammar must not mutate the returned node directly; it
// exists for read-only inspection (e.g. deciding whether a sibling was
// already appended).
func (e *Engine) GetCurCST() *cst.Node {
	return e.top()
}

// RuleFunc is the body of a grammar rule: it runs inside a freshly pushed
// CST node and returns an error if the rule fails to match. Terminal matches
// and sub-rule calls made from inside f append children to the open node
// automatically.
type RuleFunc func(e *Engine) error

// Rule invokes f as a rule named name: it pushes a new CST node, runs f, and
// on success pops the node, computes its Loc, and appends it as a child of
// the new top of stack. On failure the node is NOT attached anywhere; the
// failure propagates to the caller, which is responsible (via Or) for
// restoring cursor/children state.
func (e *Engine) Rule(name string, f RuleFunc) (*cst.Node, error) {
	n := cst.NewRule(name)
	e.nodeStack = append(e.nodeStack, n)

	if err := f(e); err != nil {
		// Do not pop: the failing node and any state it built are left for
		// the enclosing combinator's restore() to discard.
		return nil, err
	}

	e.nodeStack = e.nodeStack[:len(e.nodeStack)-1]
	n.RecomputeLoc()

	if parent := e.top(); parent != nil {
		parent.AppendChild(n)
	}

	return n, nil
}

// ConsumeTerminal matches a single terminal token named name under the
// cursor. On success it consumes the token, appends a leaf CstNode to the
// current open parent, and returns it. On mismatch it fails with
// TokenMismatch without consuming or appending anything, so the match is
// atomic.
func (e *Engine) ConsumeTerminal(name token.Name) (*cst.Node, error) {
	e.noteReach()

	tok := e.peek(0)
	if tok.Name != name {
		return nil, &TokenMismatch{Expected: name, Got: tok, At: e.cur}
	}

	tok, err := e.consume()
	if err != nil {
		return nil, err
	}

	n := cst.NewTerminal(string(name), tok)

	if parent := e.top(); parent != nil {
		parent.AppendChild(n)
	}

	return n, nil
}

// Or implements ordered choice with full backtracking: alternatives are
// tried in order, and the first to succeed wins. If an alternative fails
// with a recoverable error the engine is rolled back to exactly the state it
// was in before the alternative ran, and the next alternative is tried. If
// every alternative fails, Or fails with NoAlternative. A non-recoverable
// error from an alternative propagates immediately.
func (e *Engine) Or(names []string, alts []func(e *Engine) error) error {
	// Alternatives are tried strictly in listed order; grammar authors place
	// longer/more-specific alternatives first. There is no longest-match
	// search — first success wins.
	for _, alt := range alts {
		cp := e.save()

		err := alt(e)
		if err == nil {
			e.commit(cp)
			return nil
		}

		if !recoverable(err) {
			return err
		}

		e.restore(cp)
	}

	return &NoAlternative{At: e.cur, Tried: names}
}

// Many matches body zero or more times. Many itself never fails: a
// recoverable failure from body simply ends the loop with the engine rolled
// back to the state before the failing attempt. If body succeeds without
// advancing the cursor, Many fails fatally with NonProgressingRepetition to
// prevent an infinite loop.
func (e *Engine) Many(rule string, body func(e *Engine) error) error {
	for {
		cp := e.save()
		before := e.cur

		err := body(e)
		if err != nil {
			if !recoverable(err) {
				return err
			}

			e.restore(cp)
			return nil
		}

		e.commit(cp)

		if e.cur == before {
			return &NonProgressingRepetition{At: e.cur, Rule: rule}
		}
	}
}

// Option matches body zero or one time. Like a single Many iteration: on a
// recoverable failure it silently rolls back and succeeds anyway. Option
// never fails.
func (e *Engine) Option(body func(e *Engine) error) error {
	cp := e.save()

	err := body(e)
	if err != nil {
		if !recoverable(err) {
			return err
		}

		e.restore(cp)
		return nil
	}

	e.commit(cp)

	return nil
}

// FaultToleranceMany is like Many, but on a recoverable failure it does not
// stop: it rolls back, emits a synthetic ErrorNode child of the current
// parent, and advances the cursor by one token to guarantee progress, then
// continues. It is intended for exactly one call site per grammar — the
// top-level item list — so that a syntax error inside one top-level item
// does not abort the whole parse.
func (e *Engine) FaultToleranceMany(rule string, body func(e *Engine) error) error {
	for {
		if e.peek(0).IsEOF() {
			return nil
		}

		if e.ctx != nil {
			select {
			case <-e.ctx.Done():
				return e.ctx.Err()
			default:
			}
		}

		cp := e.save()
		before := e.cur

		err := body(e)
		if err != nil {
			if !recoverable(err) {
				return err
			}

			e.restore(cp)
			e.emitErrorNode()

			if _, cerr := e.consume(); cerr != nil {
				// Already at EOF; nothing left to skip past.
				return nil
			}

			continue
		}

		e.commit(cp)

		if e.cur == before {
			return &NonProgressingRepetition{At: e.cur, Rule: rule}
		}
	}
}

// emitErrorNode appends a synthetic ErrorNode covering the token currently
// under the cursor to the open parent.
func (e *Engine) emitErrorNode() {
	tok := e.peek(0)

	n := &cst.Node{
		Name:       "ErrorNode",
		Value:      tok.Value,
		IsTerminal: true,
	}

	if !tok.IsEOF() {
		n.Loc = &cst.Location{Start: tok.Start, End: tok.End, Index: tok.Index}
	}

	if parent := e.top(); parent != nil {
		parent.AppendChild(n)
	}
}

// Parse runs the entry rule over the whole token view and returns its CST,
// or a ParseError if the grammar did not consume the entire input. Parse
// itself runs entryFn as the rule named entryRuleName (via Rule) against a
// synthetic root frame and returns that rule's node, so entryFn must not
// wrap its body in a second rule of the same name.
func (e *Engine) Parse(entryRuleName string, entryFn RuleFunc) (*cst.Node, error) {
	root := cst.NewRule("__root__")
	e.nodeStack = append(e.nodeStack, root)

	n, err := e.Rule(entryRuleName, entryFn)

	// The root frame is done with; on success it is back on top of the node
	// stack, so pop it off and leave the node stack empty.
	if len(e.nodeStack) > 0 && e.nodeStack[len(e.nodeStack)-1] == root {
		e.nodeStack = e.nodeStack[:len(e.nodeStack)-1]
	}

	if err != nil {
		if recoverable(err) {
			return nil, e.furthestReachError()
		}

		return nil, fmt.Errorf("engine: internal parse failure: %w", err)
	}

	if len(e.saveStack) != 0 {
		return nil, ErrCheckpointImbalance
	}

	if !e.peek(0).IsEOF() {
		return nil, e.furthestReachError()
	}

	return n, nil
}

// furthestReachError builds the ParseError reported when the whole parse
// fails: it reports the deepest cursor position any attempt reached, per the
// furthest-reach diagnostic convention (§7/§8), not merely the last position
// tried.
func (e *Engine) furthestReachError() *ParseError {
	got := e.v.at(e.furthest)

	return &ParseError{
		At:      got.Start,
		Index:   e.furthest,
		Got:     got,
		Message: "unexpected token",
	}
}
