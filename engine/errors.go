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

import (
	"errors"
	"fmt"

	"github.com/ianlewis/esparse/token"
)

// TokenMismatch is returned by ConsumeTerminal when the token under the
// cursor does not match the expected terminal name. It is recoverable: Or,
// Option, Many, and FaultToleranceMany all catch it and backtrack.
type TokenMismatch struct {
	Expected token.Name
	Got      *token.MatchToken
	At       int
}

func (e *TokenMismatch) Error() string {
	return fmt.Sprintf("expected %s, got %s at token %d", e.Expected, e.Got, e.At)
}

// UnexpectedEnd is returned when ConsumeTerminal (or the cursor's consume)
// is asked to advance past the end of the token view. Recoverable.
type UnexpectedEnd struct {
	At int
}

func (e *UnexpectedEnd) Error() string {
	return fmt.Sprintf("unexpected end of input at token %d", e.At)
}

// NoAlternative is returned by Or when every alternative failed. Recoverable
// (an enclosing Or/Option/Many/FaultToleranceMany may still catch it).
type NoAlternative struct {
	At    int
	Tried []string
}

func (e *NoAlternative) Error() string {
	return fmt.Sprintf("no alternative matched at token %d (tried: %v)", e.At, e.Tried)
}

// NonProgressingRepetition is a fatal error: a Many or FaultToleranceMany
// body succeeded without consuming any input, which would loop forever.
// It indicates a grammar bug and is never caught by a combinator.
type NonProgressingRepetition struct {
	At   int
	Rule string
}

func (e *NonProgressingRepetition) Error() string {
	return fmt.Sprintf("rule %q matched zero tokens inside a repetition at token %d", e.Rule, e.At)
}

// ErrCheckpointImbalance is a fatal internal error: the save/restore/commit
// stack was left unbalanced at the end of a parse, indicating a grammar or
// engine bug.
var ErrCheckpointImbalance = errors.New("engine: checkpoint stack imbalance at end of parse")

// recoverable reports whether err is one a combinator should catch and
// backtrack from, rather than let propagate to the top of the parse.
func recoverable(err error) bool {
	var (
		tm *TokenMismatch
		ue *UnexpectedEnd
		na *NoAlternative
	)

	return errors.As(err, &tm) || errors.As(err, &ue) || errors.As(err, &na)
}

// ParseError is returned by Parse when the grammar failed to consume the
// entire input and no FaultToleranceMany recovered from the failure. It
// reports the "furthest-reach" position: the deepest cursor position any
// attempted rule or terminal reached, not merely the last one tried.
type ParseError struct {
	At       token.Position
	Index    int
	Expected []token.Name
	Got      *token.MatchToken
	Message  string
}

func (e *ParseError) Error() string {
	if len(e.Expected) > 0 {
		return fmt.Sprintf("parse error at %s: expected one of %v, got %s", e.At, e.Expected, e.Got)
	}

	return fmt.Sprintf("parse error at %s: %s", e.At, e.Message)
}
