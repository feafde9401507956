// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package rule

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fyrsmithlabs/gocontext/gocontexterr"
	"github.com/go-playground/validator/v10"
)

// allowedKeys mirrors ConTextItem._ALLOWED_KEYS in the original
// implementation: a rule object recognizes exactly these top-level keys.
var allowedKeys = map[string]bool{
	"literal":        true,
	"category":       true,
	"rule":           true,
	"pattern":        true,
	"allowed_types":  true,
	"excluded_types": true,
	"max_targets":    true,
	"max_scope":      true,
	"terminated_by":  true,
	"metadata":       true,
}

// ruleFile is the top-level JSON/YAML document shape: spec.md §6, "Top-level
// object with key item_data whose value is an array of rule objects."
type ruleFile struct {
	ItemData []map[string]any `json:"item_data" yaml:"item_data"`
}

var structValidator = validator.New()

// requiredSpec is validated via go-playground/validator before a raw map is
// decoded into a Rule: it enforces the "literal and category are required"
// contract from spec.md §6 independent of unknown-key checking.
type requiredSpec struct {
	Literal  string `validate:"required"`
	Category string `validate:"required"`
}

// Load parses data as a JSON rule file (spec.md §6) and constructs the
// resulting Rules. Unknown keys in any rule object, or a missing
// literal/category, return a *gocontexterr.RuleFileError listing the
// offending key set.
func Load(data []byte) ([]*Rule, error) {
	var file ruleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &gocontexterr.RuleFileError{Reason: "invalid JSON", Err: err}
	}
	return buildRules(file.ItemData)
}

func buildRules(items []map[string]any) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(items))
	for i, raw := range items {
		if unknown := unknownKeys(raw); len(unknown) > 0 {
			return nil, &gocontexterr.RuleFileError{
				Reason:      fmt.Sprintf("item_data[%d] contains invalid keys", i),
				UnknownKeys: unknown,
			}
		}

		spec, err := decodeSpec(raw)
		if err != nil {
			return nil, &gocontexterr.RuleFileError{Reason: fmt.Sprintf("item_data[%d]: decode failed", i), Err: err}
		}

		if err := structValidator.Struct(requiredSpec{Literal: spec.Literal, Category: spec.Category}); err != nil {
			return nil, &gocontexterr.RuleFileError{Reason: fmt.Sprintf("item_data[%d]: %s", i, err.Error()), Err: err}
		}

		r, err := New(spec)
		if err != nil {
			return nil, &gocontexterr.RuleFileError{Reason: fmt.Sprintf("item_data[%d]: invalid rule", i), Err: err}
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func unknownKeys(raw map[string]any) []string {
	var unknown []string
	for key := range raw {
		if !allowedKeys[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// decodeSpec re-marshals a validated raw map into Spec via JSON, which keeps
// field decoding (including nested Pattern tokens) consistent with Load's
// own encoding.
func decodeSpec(raw map[string]any) (Spec, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return Spec{}, err
	}
	var spec Spec
	if err := json.Unmarshal(buf, &spec); err != nil {
		return Spec{}, err
	}
	return spec, nil
}
