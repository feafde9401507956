// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fyrsmithlabs/gocontext/rule"
)

// loadRules loads rules from path according to its extension (.json or
// .yaml/.yml), or the bundled default rule set when path is empty or the
// literal string "default".
func loadRules(path string) ([]*rule.Rule, error) {
	if path == "" || path == "default" {
		return rule.DefaultRules()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return rule.LoadYAML(data)
	default:
		return rule.Load(data)
	}
}
