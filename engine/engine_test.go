// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/gocontexterr"
	"github.com/fyrsmithlabs/gocontext/rule"
)

// buildDoc tokenizes text on whitespace, treating "." as ending the
// preceding token's sentence (spec.md §8's scenario convention).
func buildDoc(t *testing.T, text string, ents []gocontext.Target) *gocontext.Document {
	t.Helper()
	fields := strings.Fields(text)
	tokens := make([]gocontext.Token, len(fields))
	var sentences []gocontext.Sentence
	sentStart := 0
	for i, f := range fields {
		clean := strings.TrimSuffix(strings.TrimSuffix(f, "."), ",")
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
	doc := gocontext.NewDocument(tokens, sentences)
	doc.SetEnts(ents)
	return doc
}

func findAssertion(assertions []TargetAssertion, label string) (TargetAssertion, bool) {
	for _, a := range assertions {
		if a.Target.Label == label {
			return a, true
		}
	}
	return TargetAssertion{}, false
}

func TestNew_ValidatesUseContextWindowRequiresMaxScope(t *testing.T) {
	_, err := New(WithUseContextWindow(true))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := err.(*gocontexterr.ConfigurationError); !ok {
		t.Errorf("expected *gocontexterr.ConfigurationError, got %T", err)
	}
}

func TestNew_ValidatesMutualExclusiveTypeFilters(t *testing.T) {
	_, err := New(WithAllowedTypes("A"), WithExcludedTypes("B"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNew_ValidatesAddAttrsExplicitRequiresMap(t *testing.T) {
	_, err := New(WithAddAttrs(AddAttrsExplicit, nil))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestApply_NegationScenario(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	r, err := rule.New(rule.Spec{Literal: "no evidence of", Category: "NEGATED_EXISTENCE", Direction: "FORWARD"})
	if err != nil {
		t.Fatalf("rule.New returned error: %v", err)
	}
	if err := e.AddRule(r); err != nil {
		t.Fatalf("AddRule returned error: %v", err)
	}

	pneumonia := gocontext.Target{Span: gocontext.Span{Start: 3, End: 4}, Label: "PNEUMONIA"}
	doc := buildDoc(t, "No evidence of pneumonia.", []gocontext.Target{pneumonia})

	result, err := e.Apply(context.Background(), doc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	a, ok := findAssertion(result.Assertions, "PNEUMONIA")
	if !ok {
		t.Fatal("expected assertion for PNEUMONIA")
	}
	if !a.IsNegated {
		t.Error("expected pneumonia.IsNegated = true")
	}
}

func TestApply_HistoricalScenario(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	r, err := rule.New(rule.Spec{Literal: "history of", Category: "HISTORICAL", Direction: "FORWARD"})
	if err != nil {
		t.Fatalf("rule.New returned error: %v", err)
	}
	if err := e.AddRule(r); err != nil {
		t.Fatalf("AddRule returned error: %v", err)
	}

	pneumonia := gocontext.Target{Span: gocontext.Span{Start: 2, End: 3}, Label: "PNEUMONIA"}
	doc := buildDoc(t, "History of pneumonia.", []gocontext.Target{pneumonia})

	result, err := e.Apply(context.Background(), doc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	a, ok := findAssertion(result.Assertions, "PNEUMONIA")
	if !ok || !a.IsHistorical {
		t.Errorf("expected pneumonia.IsHistorical = true, got %+v (found=%v)", a, ok)
	}
}

func TestApply_FamilyScenario(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	r, err := rule.New(rule.Spec{Literal: "family history of", Category: "FAMILY", Direction: "FORWARD"})
	if err != nil {
		t.Fatalf("rule.New returned error: %v", err)
	}
	if err := e.AddRule(r); err != nil {
		t.Fatalf("AddRule returned error: %v", err)
	}

	breastCancer := gocontext.Target{Span: gocontext.Span{Start: 3, End: 5}, Label: "BREAST_CANCER"}
	doc := buildDoc(t, "Family history of breast cancer.", []gocontext.Target{breastCancer})

	result, err := e.Apply(context.Background(), doc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	a, ok := findAssertion(result.Assertions, "BREAST_CANCER")
	if !ok || !a.IsFamily {
		t.Errorf("expected breast_cancer.IsFamily = true, got %+v (found=%v)", a, ok)
	}
}

func TestApply_EngineDefaultMaxScopeAppliesWhenRuleLeavesItUnset(t *testing.T) {
	maxScope := 1
	e, err := New(WithMaxScope(maxScope))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	r, err := rule.New(rule.Spec{Literal: "vs", Category: "UNCERTAIN", Direction: "BIDIRECTIONAL"})
	if err != nil {
		t.Fatalf("rule.New returned error: %v", err)
	}
	if err := e.AddRule(r); err != nil {
		t.Fatalf("AddRule returned error: %v", err)
	}
	if e.Rules()[0].MaxScope == nil || *e.Rules()[0].MaxScope != 1 {
		t.Fatalf("expected engine default max_scope to propagate onto the rule")
	}

	pneumonia := gocontext.Target{Span: gocontext.Span{Start: 3, End: 4}, Label: "PNEUMONIA"}
	copd := gocontext.Target{Span: gocontext.Span{Start: 5, End: 6}, Label: "COPD"}
	diabetes := gocontext.Target{Span: gocontext.Span{Start: 0, End: 1}, Label: "DIABETES"}
	doc := buildDoc(t, "diabetes pt with pneumonia vs copd.", []gocontext.Target{diabetes, pneumonia, copd})

	result, err := e.Apply(context.Background(), doc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if a, ok := findAssertion(result.Assertions, "DIABETES"); ok && len(a.Modifiers) != 0 {
		t.Error("expected diabetes to not be bound: outside max_scope=1 window")
	}
	if a, ok := findAssertion(result.Assertions, "PNEUMONIA"); !ok || len(a.Modifiers) == 0 {
		t.Error("expected pneumonia bound within max_scope=1 window")
	}
	if a, ok := findAssertion(result.Assertions, "COPD"); !ok || len(a.Modifiers) == 0 {
		t.Error("expected copd bound within max_scope=1 window")
	}
}

func TestApply_RuleLevelTypeFilterWinsOverEngineDefault(t *testing.T) {
	e, err := New(WithExcludedTypes("CONDITION"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	r, err := rule.New(rule.Spec{
		Literal: "no evidence of", Category: "NEGATED_EXISTENCE", Direction: "FORWARD",
		AllowedTypes: []string{"CONDITION"},
	})
	if err != nil {
		t.Fatalf("rule.New returned error: %v", err)
	}
	if err := e.AddRule(r); err != nil {
		t.Fatalf("AddRule returned error: %v", err)
	}

	added := e.Rules()[0]
	if added.ExcludedTypes != nil {
		t.Error("expected rule-level AllowedTypes to win: engine ExcludedTypes default should not be backfilled")
	}
	if _, ok := added.AllowedTypes["CONDITION"]; !ok {
		t.Error("expected rule's own AllowedTypes to survive")
	}
}

func TestApply_UnsupportedTargetSource(t *testing.T) {
	e, err := New(WithTargetSource("nonexistent_attr"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	doc := buildDoc(t, "no evidence of pneumonia.", nil)

	_, err = e.Apply(context.Background(), doc)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := err.(*gocontexterr.UnsupportedTargetSource); !ok {
		t.Errorf("expected *gocontexterr.UnsupportedTargetSource, got %T", err)
	}
}

func TestApply_AddAttrsDisabledStillAttachesModifiers(t *testing.T) {
	e, err := New(WithAddAttrs(AddAttrsDisabled, nil))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	r, err := rule.New(rule.Spec{Literal: "no evidence of", Category: "NEGATED_EXISTENCE", Direction: "FORWARD"})
	if err != nil {
		t.Fatalf("rule.New returned error: %v", err)
	}
	if err := e.AddRule(r); err != nil {
		t.Fatalf("AddRule returned error: %v", err)
	}

	pneumonia := gocontext.Target{Span: gocontext.Span{Start: 3, End: 4}, Label: "PNEUMONIA"}
	doc := buildDoc(t, "No evidence of pneumonia.", []gocontext.Target{pneumonia})

	result, err := e.Apply(context.Background(), doc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	a, ok := findAssertion(result.Assertions, "PNEUMONIA")
	if !ok {
		t.Fatal("expected assertion record for pneumonia")
	}
	if a.IsNegated {
		t.Error("expected IsNegated = false when AddAttrs is disabled")
	}
	if len(a.Modifiers) == 0 {
		t.Error("expected modifiers to still be attached when AddAttrs is disabled")
	}
}
