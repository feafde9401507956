// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package rule

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

var (
	cachedDefaultRules []*Rule
	defaultRulesOnce   sync.Once
	defaultRulesErr    error
)

// DefaultRules returns the bundled default rule set covering the canonical
// ConText categories (NEGATED_EXISTENCE, POSSIBLE_EXISTENCE, HISTORICAL,
// FAMILY, HYPOTHETICAL, TERMINATE). The result is parsed once and cached;
// callers must not mutate the returned Rules.
func DefaultRules() ([]*Rule, error) {
	defaultRulesOnce.Do(func() {
		cachedDefaultRules, defaultRulesErr = LoadYAML(defaultRulesYAML)
		if defaultRulesErr != nil {
			defaultRulesErr = fmt.Errorf("loading embedded default rules: %w", defaultRulesErr)
		}
	})
	return cachedDefaultRules, defaultRulesErr
}
