// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package matcher

import (
	"strings"
	"testing"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/rule"
)

// buildDoc tokenizes text on whitespace, treating each "." as ending the
// preceding token's sentence, mirroring spec.md §8's scenario convention
// ("tokens are whitespace-split; sentence boundaries at '.'").
func buildDoc(t *testing.T, text string) *gocontext.Document {
	t.Helper()
	fields := strings.Fields(text)
	tokens := make([]gocontext.Token, len(fields))
	var sentences []gocontext.Sentence
	sentStart := 0
	for i, f := range fields {
		clean := strings.TrimSuffix(f, ".")
		tokens[i] = gocontext.Token{Text: clean, Lower: strings.ToLower(clean), Lemma: strings.ToLower(clean)}
		if strings.HasSuffix(f, ".") {
			sentences = append(sentences, gocontext.Sentence{Span: gocontext.Span{
				Start: gocontext.TokenIndex(sentStart), End: gocontext.TokenIndex(i + 1),
			}})
			sentStart = i + 1
		}
	}
	if sentStart < len(fields) {
		sentences = append(sentences, gocontext.Sentence{Span: gocontext.Span{
			Start: gocontext.TokenIndex(sentStart), End: gocontext.TokenIndex(len(fields)),
		}})
	}
	return gocontext.NewDocument(tokens, sentences)
}

func mustRule(t *testing.T, spec rule.Spec) *rule.Rule {
	t.Helper()
	r, err := rule.New(spec)
	if err != nil {
		t.Fatalf("rule.New returned error: %v", err)
	}
	return r
}

func TestMatch_LiteralPhraseFound(t *testing.T) {
	doc := buildDoc(t, "No evidence of pneumonia.")
	rs := NewRuleSet(false)
	if err := rs.Add(mustRule(t, rule.Spec{Literal: "no evidence of", Category: "NEGATED_EXISTENCE", Direction: "FORWARD"})); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	matches := rs.Match(doc)
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Span.Start != 0 || matches[0].Span.End != 3 {
		t.Errorf("match span = %+v, want [0,3)", matches[0].Span)
	}
}

func TestMatch_SortedByStartThenEnd(t *testing.T) {
	doc := buildDoc(t, "no history of afib but chf")
	rs := NewRuleSet(false)
	for _, spec := range []rule.Spec{
		{Literal: "no history of", Category: "HISTORICAL", Direction: "FORWARD"},
		{Literal: "history of", Category: "HISTORICAL", Direction: "FORWARD"},
		{Literal: "but", Category: "TERMINATE", Direction: "TERMINATE"},
	} {
		if err := rs.Add(mustRule(t, spec)); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	matches := rs.Match(doc)
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3 (no overlap resolution at matcher level)", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Span.Start > matches[i].Span.Start {
			t.Fatalf("matches not sorted ascending by start: %+v", matches)
		}
	}
}

func TestMatch_PatternWithOptionalToken(t *testing.T) {
	doc := buildDoc(t, "patient is very negative for flu")
	rs := NewRuleSet(false)
	r := mustRule(t, rule.Spec{
		Category:  "NEGATED_EXISTENCE",
		Direction: "FORWARD",
		Pattern: rule.Pattern{
			{Lower: "very", Op: "?"},
			{Lower: "negative"},
			{Lower: "for"},
		},
	})
	if err := rs.Add(r); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	// Both anchors match: "very negative for" at 2 and, with the optional
	// token consuming nothing, "negative for" at 3. The matcher does not
	// resolve overlaps.
	matches := rs.Match(doc)
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Span.Start != 2 || matches[0].Span.End != 5 {
		t.Errorf("match span = %+v, want [2,5)", matches[0].Span)
	}
	if matches[1].Span.Start != 3 || matches[1].Span.End != 5 {
		t.Errorf("match span = %+v, want [3,5)", matches[1].Span)
	}
}

func TestMatch_CaseSensitiveUsesRawText(t *testing.T) {
	doc := buildDoc(t, "NO EVIDENCE OF pneumonia")
	rs := NewRuleSet(true)
	if err := rs.Add(mustRule(t, rule.Spec{Literal: "no evidence of", Category: "NEGATED_EXISTENCE", Direction: "FORWARD"})); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	// The rule's literal is always normalized to lower-case, so in
	// case-sensitive mode it only matches tokens whose raw text already is
	// lower-case. Upper-case input should not match.
	if matches := rs.Match(doc); len(matches) != 0 {
		t.Errorf("expected no matches in case-sensitive mode against upper-case text, got %+v", matches)
	}
}
