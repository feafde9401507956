// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package rule

import (
	"testing"
)

func TestNew_CategoryAndDirectionUpperLiteralLower(t *testing.T) {
	r, err := New(Spec{Literal: "No Evidence Of", Category: "definite_negated_existence", Direction: "forward"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if r.Category != "DEFINITE_NEGATED_EXISTENCE" {
		t.Errorf("category = %q, want upper-cased", r.Category)
	}
	if r.Direction != Forward {
		t.Errorf("direction = %q, want FORWARD", r.Direction)
	}
	if r.Literal != "no evidence of" {
		t.Errorf("literal = %q, want lower-cased", r.Literal)
	}
}

func TestNew_DefaultsToBidirectional(t *testing.T) {
	r, err := New(Spec{Literal: "vs", Category: "UNCERTAIN"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if r.Direction != Bidirectional {
		t.Errorf("direction = %q, want BIDIRECTIONAL default", r.Direction)
	}
}

func TestNew_UnrecognizedDirectionErrors(t *testing.T) {
	_, err := New(Spec{Literal: "no evidence of", Category: "X", Direction: "asdf"})
	if err == nil {
		t.Fatal("expected a ConfigurationError for an unrecognized direction")
	}
}

func TestNew_RequiresCategory(t *testing.T) {
	_, err := New(Spec{Literal: "no evidence of"})
	if err == nil {
		t.Fatal("expected a ConfigurationError for a missing category")
	}
}

func TestNew_AllowedAndExcludedTypesMutuallyExclusive(t *testing.T) {
	_, err := New(Spec{
		Literal:       "no history of travel to",
		Category:      "NEGATED_EXISTENCE",
		AllowedTypes:  []string{"TRAVEL"},
		ExcludedTypes: []string{"CONDITION"},
	})
	if err == nil {
		t.Fatal("expected a ConfigurationError when both allowed_types and excluded_types are set")
	}
}

func TestNew_NonPositiveCapsRejected(t *testing.T) {
	zero := 0
	neg := -1
	if _, err := New(Spec{Literal: "vs", Category: "X", MaxTargets: &zero}); err == nil {
		t.Error("expected an error for max_targets = 0")
	}
	if _, err := New(Spec{Literal: "vs", Category: "X", MaxScope: &neg}); err == nil {
		t.Error("expected an error for max_scope < 0")
	}
}

func TestRoundTrip_ToMapFromMap(t *testing.T) {
	maxTargets := 2
	maxScope := 5
	original, err := New(Spec{
		Literal:       "vs",
		Category:      "uncertain",
		Direction:     "bidirectional",
		AllowedTypes:  []string{"condition"},
		MaxTargets:    &maxTargets,
		MaxScope:      &maxScope,
		TerminatedBy:  []string{"terminate"},
		Metadata:      map[string]any{"note": "example"},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	roundTripped, err := FromMap(original.ToMap())
	if err != nil {
		t.Fatalf("FromMap returned error: %v", err)
	}

	if roundTripped.Literal != original.Literal ||
		roundTripped.Category != original.Category ||
		roundTripped.Direction != original.Direction ||
		*roundTripped.MaxTargets != *original.MaxTargets ||
		*roundTripped.MaxScope != *original.MaxScope {
		t.Errorf("round trip mismatch: got %+v, want %+v", roundTripped, original)
	}
	if !roundTripped.AllowsType("CONDITION") {
		t.Error("round-tripped rule lost its allowed_types filter")
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	data := []byte(`{"item_data": [{"literal": "no evidence of", "category": "X", "bogus_key": true}]}`)
	_, err := Load(data)
	if err == nil {
		t.Fatal("expected a RuleFileError for an unknown key")
	}
}

func TestLoad_ValidJSON(t *testing.T) {
	data := []byte(`{"item_data": [
		{"literal": "no evidence of", "category": "NEGATED_EXISTENCE", "rule": "FORWARD"},
		{"literal": "history of", "category": "HISTORICAL", "rule": "FORWARD", "max_scope": 5}
	]}`)
	rules, err := Load(data)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}
	if rules[1].MaxScope == nil || *rules[1].MaxScope != 5 {
		t.Errorf("max_scope not decoded correctly: %+v", rules[1])
	}
}

func TestLoadYAML_ValidYAML(t *testing.T) {
	data := []byte(`
item_data:
  - literal: "no evidence of"
    category: NEGATED_EXISTENCE
    rule: FORWARD
  - literal: "vs"
    category: UNCERTAIN
    rule: BIDIRECTIONAL
    max_targets: 2
`)
	rules, err := LoadYAML(data)
	if err != nil {
		t.Fatalf("LoadYAML returned error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}
	if rules[1].MaxTargets == nil || *rules[1].MaxTargets != 2 {
		t.Errorf("max_targets not decoded correctly: %+v", rules[1])
	}
}

func TestDefaultRules_CoversCanonicalCategories(t *testing.T) {
	rules, err := DefaultRules()
	if err != nil {
		t.Fatalf("DefaultRules returned error: %v", err)
	}
	seen := map[string]bool{}
	for _, r := range rules {
		seen[r.Category] = true
	}
	for _, want := range []string{"NEGATED_EXISTENCE", "POSSIBLE_EXISTENCE", "HISTORICAL", "FAMILY", "HYPOTHETICAL"} {
		if !seen[want] {
			t.Errorf("default rules missing category %s", want)
		}
	}
}

func TestAllowsType_NoFilterAllowsEverything(t *testing.T) {
	r, _ := New(Spec{Literal: "vs", Category: "X"})
	if !r.AllowsType("ANYTHING") {
		t.Error("a rule with no allowed/excluded types should allow every label")
	}
}

func TestTerminatesCategory_SelfTerminatesUnrelatedDoesNot(t *testing.T) {
	r, _ := New(Spec{Literal: "no evidence of", Category: "negated_existence", Direction: "forward"})
	if !r.TerminatesCategory("NEGATED_EXISTENCE") {
		t.Error("same category should terminate")
	}
	if r.TerminatesCategory("HISTORICAL") {
		t.Error("unrelated category should not terminate without terminated_by")
	}
}
