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

import "github.com/ianlewis/esparse/token"

// checkpoint is a saved (cursor, nodeStack-depth, top-node-child-count)
// tuple. Checkpoints nest: a restore only undoes what was added since the
// matching save.
type checkpoint struct {
	cur        int
	stackDepth int
	childCount int
}

// view is the immutable indexed view over the token sequence a parse runs
// over. The full array is supplied up front; there is no streaming input.
type view struct {
	tokens []*token.MatchToken
}

func (v *view) at(i int) *token.MatchToken {
	if i < 0 || i >= len(v.tokens) {
		return v.eof()
	}

	return v.tokens[i]
}

// eof synthesizes an end-of-stream token positioned just past the last real
// token, for use when the cursor runs off the end of the view.
func (v *view) eof() *token.MatchToken {
	if len(v.tokens) == 0 {
		return &token.MatchToken{Name: token.EOF, Index: 0}
	}

	last := v.tokens[len(v.tokens)-1]

	return &token.MatchToken{
		Name:  token.EOF,
		Start: last.End,
		End:   last.End,
		Index: last.Index + 1,
	}
}

// peek returns the token k positions ahead of the cursor without consuming.
func (e *Engine) peek(k int) *token.MatchToken {
	return e.v.at(e.cur + k)
}

// noteReach records the furthest cursor position any attempt (successful or
// not) has reached, for the furthest-reach diagnostic (§7/§8).
func (e *Engine) noteReach() {
	if e.cur > e.furthest {
		e.furthest = e.cur
	}
}

// consume advances the cursor by one token and returns it, failing with
// UnexpectedEnd at end of stream.
func (e *Engine) consume() (*token.MatchToken, error) {
	e.noteReach()

	tok := e.v.at(e.cur)
	if tok.IsEOF() {
		return nil, &UnexpectedEnd{At: e.cur}
	}

	e.cur++

	return tok, nil
}

// save captures a checkpoint of the current cursor position, node-stack
// depth, and the open parent's child count.
func (e *Engine) save() checkpoint {
	cp := checkpoint{
		cur:        e.cur,
		stackDepth: len(e.nodeStack),
	}

	if top := e.top(); top != nil {
		cp.childCount = len(top.Children)
	}

	e.saveStack = append(e.saveStack, cp)

	return cp
}

// restore rolls the engine back to the state captured by cp: the cursor is
// reset, any nodes pushed since the checkpoint are discarded, and the open
// parent's children are truncated back to the saved count.
func (e *Engine) restore(cp checkpoint) {
	e.popCheckpoint()

	e.noteReach()
	e.cur = cp.cur
	e.nodeStack = e.nodeStack[:cp.stackDepth]

	if top := e.top(); top != nil {
		top.Children = top.Children[:cp.childCount]
	}
}

// commit discards cp on the success path; no rollback is performed.
func (e *Engine) commit(_ checkpoint) {
	e.popCheckpoint()
}

func (e *Engine) popCheckpoint() {
	if len(e.saveStack) == 0 {
		return
	}

	e.saveStack = e.saveStack[:len(e.saveStack)-1]
}
