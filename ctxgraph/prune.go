// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package ctxgraph

import (
	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/tagobject"
)

// prune runs a fixed-point sweep over modifiers (already sorted by
// (start, end)), discarding any modifier wholly dominated by an
// overlapping, wider adjacent match (spec.md §4.3 step 1). A single sweep
// handles adjacent pairs; cascading triples need the fixed-point repeat,
// since discarding the loser of one pair can expose a new overlap between
// its neighbors.
func prune(modifiers []*tagobject.TagObject) []*tagobject.TagObject {
	current := modifiers
	for {
		next := sweep(current)
		if len(next) == len(current) {
			return next
		}
		current = next
	}
}

// sweep performs one left-to-right pass, keeping the wider of any two
// overlapping adjacent modifiers (ties keep the earlier one).
func sweep(modifiers []*tagobject.TagObject) []*tagobject.TagObject {
	if len(modifiers) == 0 {
		return modifiers
	}

	var kept []*tagobject.TagObject
	cur := modifiers[0]
	for i := 1; i < len(modifiers); i++ {
		next := modifiers[i]
		if cur.Overlaps(next) {
			if next.Span.Width() > cur.Span.Width() {
				cur = next
			}
			continue
		}
		kept = append(kept, cur)
		cur = next
	}
	kept = append(kept, cur)
	return kept
}

// removeOverlappingModifiers discards any modifier whose span overlaps any
// target span (spec.md §4.3, the optional remove_overlapping_modifiers
// pass).
func removeOverlappingModifiers(modifiers []*tagobject.TagObject, targets []gocontext.Target) []*tagobject.TagObject {
	var kept []*tagobject.TagObject
	for _, m := range modifiers {
		overlaps := false
		for _, t := range targets {
			if m.Span.Overlaps(t.Span) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}
	return kept
}
