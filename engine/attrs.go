// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package engine

import (
	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/ctxgraph"
	"github.com/fyrsmithlabs/gocontext/tagobject"
)

// defaultCategoryAttrs is the canonical category->attribute map (spec.md
// §4.4).
func defaultCategoryAttrs() map[string]string {
	return map[string]string{
		"NEGATED_EXISTENCE":  "is_negated",
		"POSSIBLE_EXISTENCE": "is_uncertain",
		"HISTORICAL":         "is_historical",
		"HYPOTHETICAL":       "is_hypothetical",
		"FAMILY":             "is_family",
	}
}

// TargetAssertion is the per-target output record Engine.Apply produces:
// the bound modifiers plus the boolean assertions derived from their
// categories (spec.md §6, "per-document output attributes").
type TargetAssertion struct {
	Target    gocontext.Target
	Modifiers []*tagobject.TagObject

	IsNegated      bool
	IsUncertain    bool
	IsHistorical   bool
	IsHypothetical bool
	IsFamily       bool

	// CustomAttrs holds attribute names set by AddAttrsExplicit mode that
	// are not one of the five canonical booleans above.
	CustomAttrs map[string]bool
}

// buildAssertions groups g's edges by target and derives boolean
// assertions from each bound modifier's rule category, per the configured
// category->attribute map. categoryAttrs is nil when AddAttrs is
// AddAttrsDisabled.
func buildAssertions(g *ctxgraph.ContextGraph, categoryAttrs map[string]string) []TargetAssertion {
	byTarget := make(map[gocontext.Target][]*tagobject.TagObject)
	for _, e := range g.Edges() {
		byTarget[e.Target] = append(byTarget[e.Target], e.Modifier)
	}

	out := make([]TargetAssertion, 0, len(g.Targets()))
	for _, t := range g.Targets() {
		a := TargetAssertion{Target: t, Modifiers: byTarget[t]}
		if categoryAttrs != nil {
			applyAttrs(&a, categoryAttrs)
		}
		out = append(out, a)
	}
	return out
}

func applyAttrs(a *TargetAssertion, categoryAttrs map[string]string) {
	for _, m := range a.Modifiers {
		attr, ok := categoryAttrs[m.Rule.Category]
		if !ok {
			continue
		}
		switch attr {
		case "is_negated":
			a.IsNegated = true
		case "is_uncertain":
			a.IsUncertain = true
		case "is_historical":
			a.IsHistorical = true
		case "is_hypothetical":
			a.IsHypothetical = true
		case "is_family":
			a.IsFamily = true
		default:
			if a.CustomAttrs == nil {
				a.CustomAttrs = make(map[string]bool)
			}
			a.CustomAttrs[attr] = true
		}
	}
}
