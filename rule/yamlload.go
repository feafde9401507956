// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package rule

import (
	"fmt"

	"github.com/fyrsmithlabs/gocontext/gocontexterr"
	"gopkg.in/yaml.v3"
)

// LoadYAML parses data as a YAML rule file, the same schema as Load's JSON
// form (spec.md §6).
func LoadYAML(data []byte) ([]*Rule, error) {
	var file struct {
		ItemData []map[string]any `yaml:"item_data"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &gocontexterr.RuleFileError{Reason: "invalid YAML", Err: err}
	}

	items := make([]map[string]any, len(file.ItemData))
	for i, raw := range file.ItemData {
		items[i] = normalizeYAMLMap(raw)
	}
	rules, err := buildRules(items)
	if err != nil {
		if rfe, ok := err.(*gocontexterr.RuleFileError); ok {
			rfe.Reason = fmt.Sprintf("YAML: %s", rfe.Reason)
		}
		return nil, err
	}
	return rules, nil
}

// normalizeYAMLMap converts yaml.v3's map[string]interface{} decoding
// (which, for nested maps, uses map[string]interface{} already in v3 unlike
// v2's map[interface{}]interface{}) into the map[string]any shape buildRules
// expects, recursing into nested pattern token maps.
func normalizeYAMLMap(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = normalizeYAMLValue(v)
	}
	return out
}

func normalizeYAMLValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeYAMLMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	default:
		return v
	}
}
