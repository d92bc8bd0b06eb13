// Package span recomputes answer-span offsets after a paragraph's context
// has been perturbed. This is the one piece of easily-broken logic in the
// toolkit: every surviving answer must stay a verbatim substring of the new
// context at its recorded offset.
package span

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/kvasnov/perturbia/internal/model"
)

// ErrSpanNotFound means the answer text no longer occurs verbatim in the
// perturbed context. The caller's policy is to drop that QA pair rather
// than emit an invalid offset.
var ErrSpanNotFound = errors.New("answer span not found in context")

// Relocate returns the rune offset of the first occurrence of the answer
// text in the new context.
//
// The first-occurrence tie-break matches the pre-perturbation semantics for
// append-only strategies: the original in-context occurrence stays first no
// matter what the appended suffix repeats. A strategy that rewrites text
// before the answer can introduce an earlier spurious match; Check guards
// against stale offsets but cannot detect that case, so such strategies
// remain a correctness risk.
func Relocate(answer *model.Answer, newContext string) (int, error) {
	if answer == nil || answer.Text == "" {
		return 0, ErrSpanNotFound
	}

	byteIdx := strings.Index(newContext, answer.Text)
	if byteIdx < 0 {
		return 0, ErrSpanNotFound
	}

	return utf8.RuneCountInString(newContext[:byteIdx]), nil
}

// Check verifies the containment invariant: the context at the answer's
// recorded offset reads back exactly as the answer text. Run on every
// strategy's output, not just the append-only ones.
func Check(answer *model.Answer, context string) bool {
	if answer == nil || answer.Text == "" {
		return true
	}

	runes := []rune(context)
	length := utf8.RuneCountInString(answer.Text)
	if answer.Start < 0 || answer.Start+length > len(runes) {
		return false
	}

	return string(runes[answer.Start:answer.Start+length]) == answer.Text
}
