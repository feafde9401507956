// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

// Package matcher scans a Document for modifier matches using a compiled
// RuleSet. Two match modes coexist per spec.md §4.1: literal phrase
// matching (rules without a Pattern) and pattern matching (rules with a
// Pattern, evaluated over per-token attribute predicates). The matcher does
// not deduplicate or resolve overlaps — that is ctxgraph's job.
package matcher

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/rule"
)

// Match is a raw modifier match: a rule reference plus the span of tokens
// it matched.
type Match struct {
	Rule *rule.Rule
	Span gocontext.Span
}

// literalEntry indexes one literal rule by the lower/raw form of its first
// token, mirroring index.SymbolIndex's secondary-map-by-key convention.
type literalEntry struct {
	rule   *rule.Rule
	tokens []string
}

type patternEntry struct {
	rule     *rule.Rule
	compiled rule.CompiledPattern
}

// RuleSet holds a compiled set of rules ready for repeated matching against
// documents. It is built once at engine construction and is safe for
// concurrent read-only use across goroutines thereafter (spec.md §5).
type RuleSet struct {
	// CaseSensitive selects matching against a token's raw Text attribute
	// instead of its Lower attribute for literal rules (spec.md §4.1,
	// "an option selects case-sensitive matching via the raw token text
	// attribute instead of the lower-case attribute").
	CaseSensitive bool

	rules        []*rule.Rule
	literalIndex map[string][]literalEntry
	patterns     []patternEntry
}

// NewRuleSet constructs an empty RuleSet.
func NewRuleSet(caseSensitive bool) *RuleSet {
	return &RuleSet{
		CaseSensitive: caseSensitive,
		literalIndex:  make(map[string][]literalEntry),
	}
}

// Add compiles and indexes a rule into the set. Pattern compilation errors
// (e.g. an invalid REGEX predicate) are returned immediately; the RuleSet is
// left unmodified on error.
func (rs *RuleSet) Add(r *rule.Rule) error {
	if len(r.Pattern) > 0 {
		compiled, err := r.Pattern.Compile()
		if err != nil {
			return err
		}
		rs.patterns = append(rs.patterns, patternEntry{rule: r, compiled: compiled})
		rs.rules = append(rs.rules, r)
		return nil
	}

	tokens := strings.Fields(r.Literal)
	if len(tokens) == 0 {
		return nil
	}
	key := tokens[0]
	rs.literalIndex[key] = append(rs.literalIndex[key], literalEntry{rule: r, tokens: tokens})
	rs.rules = append(rs.rules, r)
	return nil
}

// AddAll compiles and indexes every rule in rules.
func (rs *RuleSet) AddAll(rules []*rule.Rule) error {
	for _, r := range rules {
		if err := rs.Add(r); err != nil {
			return err
		}
	}
	return nil
}

// Rules returns every rule added to the set, in add order.
func (rs *RuleSet) Rules() []*rule.Rule {
	return rs.rules
}

// Match scans doc and returns every raw modifier match, sorted ascending by
// Span.Start (ties broken by Span.End), per spec.md §4.1.
func (rs *RuleSet) Match(doc *gocontext.Document) []Match {
	var matches []Match
	matches = append(matches, rs.matchLiteral(doc)...)
	matches = append(matches, rs.matchPatterns(doc)...)

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Span.Start != matches[j].Span.Start {
			return matches[i].Span.Start < matches[j].Span.Start
		}
		return matches[i].Span.End < matches[j].Span.End
	})

	slog.Debug("matcher scan complete", slog.String("document_id", doc.ID), slog.Int("match_count", len(matches)))
	return matches
}

func (rs *RuleSet) matchLiteral(doc *gocontext.Document) []Match {
	var matches []Match
	for i := range doc.Tokens {
		key := rs.tokenKey(doc.Tokens[i])
		candidates, ok := rs.literalIndex[key]
		if !ok {
			continue
		}
		for _, cand := range candidates {
			end := i + len(cand.tokens)
			if end > len(doc.Tokens) {
				continue
			}
			if rs.literalSequenceMatches(doc, i, cand.tokens) {
				matches = append(matches, Match{
					Rule: cand.rule,
					Span: gocontext.Span{Start: gocontext.TokenIndex(i), End: gocontext.TokenIndex(end)},
				})
			}
		}
	}
	return matches
}

func (rs *RuleSet) literalSequenceMatches(doc *gocontext.Document, start int, tokens []string) bool {
	for j, want := range tokens {
		if rs.tokenKey(doc.Tokens[start+j]) != want {
			return false
		}
	}
	return true
}

func (rs *RuleSet) tokenKey(tok gocontext.Token) string {
	if rs.CaseSensitive {
		return tok.Text
	}
	return tok.Lower
}
