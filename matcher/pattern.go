// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package matcher

import (
	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/rule"
)

// matchPatterns scans doc for every patternEntry, trying an anchor at every
// token position. This is the generalization spec.md §4.1 describes as "a
// sequence of per-token attribute predicates of equal length to the matched
// span" once OP quantifiers are taken into account.
func (rs *RuleSet) matchPatterns(doc *gocontext.Document) []Match {
	var matches []Match
	for _, entry := range rs.patterns {
		for start := range doc.Tokens {
			if end, ok := matchPatternAt(doc, entry.compiled, start); ok {
				matches = append(matches, Match{
					Rule: entry.rule,
					Span: gocontext.Span{Start: gocontext.TokenIndex(start), End: gocontext.TokenIndex(end)},
				})
			}
		}
	}
	return matches
}

// matchPatternAt attempts to match compiled starting exactly at token index
// start, returning the exclusive end token index on success. Quantifiers
// ("?", "+", "*") are resolved greedily with backtracking: a predicate
// group that can consume zero tokens is allowed to if a fixed-length
// suffix of the pattern still has enough tokens remaining to match.
func matchPatternAt(doc *gocontext.Document, compiled rule.CompiledPattern, start int) (int, bool) {
	return matchGroup(doc, compiled, 0, start)
}

func matchGroup(doc *gocontext.Document, compiled rule.CompiledPattern, groupIdx, tokenIdx int) (int, bool) {
	if groupIdx == compiled.Len() {
		return tokenIdx, true
	}

	op := compiled.Op(groupIdx)
	switch op {
	case "?":
		// Try consuming one token first (greedy), then zero.
		if tokenIdx < len(doc.Tokens) && tokenMatchesGroup(doc, compiled, groupIdx, tokenIdx) {
			if end, ok := matchGroup(doc, compiled, groupIdx+1, tokenIdx+1); ok {
				return end, true
			}
		}
		return matchGroup(doc, compiled, groupIdx+1, tokenIdx)
	case "*":
		return matchRepeat(doc, compiled, groupIdx, tokenIdx, 0)
	case "+":
		return matchRepeat(doc, compiled, groupIdx, tokenIdx, 1)
	default:
		if tokenIdx >= len(doc.Tokens) || !tokenMatchesGroup(doc, compiled, groupIdx, tokenIdx) {
			return 0, false
		}
		return matchGroup(doc, compiled, groupIdx+1, tokenIdx+1)
	}
}

// matchRepeat greedily consumes as many tokens as match groupIdx's
// predicate, then backtracks down to minConsumed until the remainder of the
// pattern matches.
func matchRepeat(doc *gocontext.Document, compiled rule.CompiledPattern, groupIdx, tokenIdx, minConsumed int) (int, bool) {
	maxConsumed := 0
	for tokenIdx+maxConsumed < len(doc.Tokens) && tokenMatchesGroup(doc, compiled, groupIdx, tokenIdx+maxConsumed) {
		maxConsumed++
	}
	for consumed := maxConsumed; consumed >= minConsumed; consumed-- {
		if end, ok := matchGroup(doc, compiled, groupIdx+1, tokenIdx+consumed); ok {
			return end, true
		}
	}
	return 0, false
}

func tokenMatchesGroup(doc *gocontext.Document, compiled rule.CompiledPattern, groupIdx, tokenIdx int) bool {
	tok := doc.Tokens[tokenIdx]
	return compiled.TokenMatches(groupIdx, tok.Text, tok.Lower, tok.Lemma)
}
