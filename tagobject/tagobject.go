// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

// Package tagobject implements TagObject: a located modifier match with a
// mutable scope window that may only shrink after construction, and the
// predicates (Overlaps, ModifiesTarget, LimitScope) that drive
// ctxgraph's pruning, scope-adjustment, and edge-assignment phases.
package tagobject

import (
	"sort"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/gocontexterr"
	"github.com/fyrsmithlabs/gocontext/rule"
	"github.com/google/uuid"
)

// TagObject is a located modifier: an immutable match span plus rule
// reference, and a mutable scope window that narrows over the lifetime of
// a single document's processing (spec.md §3, "thereafter it may only
// shrink").
type TagObject struct {
	id string

	Rule *rule.Rule
	Span gocontext.Span // immutable match span

	scopeStart gocontext.TokenIndex
	scopeEnd   gocontext.TokenIndex

	boundTargets []gocontext.Target
}

// New constructs a TagObject for a rule match [start, end) in doc.
//
// Scope is derived from r.Direction and the sentence containing start,
// then clipped to r.MaxScope if set (spec.md §4.2, steps 1-3). If
// useContextWindow is true, sentence boundaries are ignored and the scope
// is instead a symmetric token window of half-width r.MaxScope around the
// match span (step 4); callers must ensure r.MaxScope is set whenever
// useContextWindow is true (engine.New enforces this through
// Options.validate as a ConfigurationError, not here).
//
// Returns *gocontexterr.MissingSentenceBoundary if useContextWindow is
// false and doc has no sentence span containing start.
func New(r *rule.Rule, start, end gocontext.TokenIndex, doc *gocontext.Document, useContextWindow bool) (*TagObject, error) {
	t := &TagObject{
		id:   uuid.NewString(),
		Rule: r,
		Span: gocontext.Span{Start: start, End: end},
	}

	if r.Direction == rule.Terminate {
		t.scopeStart, t.scopeEnd = start, end
		return t, nil
	}

	if useContextWindow {
		t.scopeStart, t.scopeEnd = contextWindow(start, end, r.MaxScope, doc)
		return t, nil
	}

	sent, ok := doc.SentenceContaining(start)
	if !ok {
		return nil, &gocontexterr.MissingSentenceBoundary{TokenIndex: int(start)}
	}

	switch r.Direction {
	case rule.Forward:
		t.scopeStart, t.scopeEnd = end, sent.End
	case rule.Backward:
		t.scopeStart, t.scopeEnd = sent.Start, start
	case rule.Bidirectional:
		t.scopeStart, t.scopeEnd = sent.Start, sent.End
	}

	if r.MaxScope != nil {
		t.clipToMaxScope(*r.MaxScope)
	}
	return t, nil
}

// clipToMaxScope narrows the scope so its width does not exceed maxScope
// tokens, measured from the boundary nearest the match span: the end side
// for FORWARD, the start side for BACKWARD, and both sides independently
// for BIDIRECTIONAL (spec.md §4.2 step 3).
func (t *TagObject) clipToMaxScope(maxScope int) {
	width := gocontext.TokenIndex(maxScope)
	switch t.Rule.Direction {
	case rule.Forward:
		if t.scopeEnd > t.Span.End+width {
			t.scopeEnd = t.Span.End + width
		}
	case rule.Backward:
		if t.scopeStart < t.Span.Start-width {
			t.scopeStart = t.Span.Start - width
		}
	case rule.Bidirectional:
		if t.scopeStart < t.Span.Start-width {
			t.scopeStart = t.Span.Start - width
		}
		if t.scopeEnd > t.Span.End+width {
			t.scopeEnd = t.Span.End + width
		}
	}
}

func contextWindow(start, end gocontext.TokenIndex, maxScope *int, doc *gocontext.Document) (gocontext.TokenIndex, gocontext.TokenIndex) {
	width := gocontext.TokenIndex(0)
	if maxScope != nil {
		width = gocontext.TokenIndex(*maxScope)
	}
	s := start - width
	if s < 0 {
		s = 0
	}
	e := end + width
	if last := gocontext.TokenIndex(len(doc.Tokens)); e > last {
		e = last
	}
	return s, e
}

// ID returns a stable identifier for this TagObject, used for logging and
// tracing correlation.
func (t *TagObject) ID() string {
	return t.id
}

// Scope returns the TagObject's current scope window.
func (t *TagObject) Scope() gocontext.Span {
	return gocontext.Span{Start: t.scopeStart, End: t.scopeEnd}
}

// BoundTargets returns the targets this TagObject has been linked to during
// edge assignment. Empty until ctxgraph.Process runs.
func (t *TagObject) BoundTargets() []gocontext.Target {
	return t.boundTargets
}

// setBoundTargets replaces the bound-target list; called only by ctxgraph
// during edge assignment.
func (t *TagObject) setBoundTargets(targets []gocontext.Target) {
	t.boundTargets = targets
}

// SetBoundTargets is the exported form of setBoundTargets, used by ctxgraph
// (a separate package) to finalize edge assignment.
func (t *TagObject) SetBoundTargets(targets []gocontext.Target) {
	t.setBoundTargets(targets)
}

// Overlaps reports whether t and other's match spans share any token.
func (t *TagObject) Overlaps(other *TagObject) bool {
	return t.Span.Overlaps(other.Span)
}

// Less orders TagObjects by their match spans: lexicographic (Start, End),
// per spec.md §4.2 "Ordering".
func (t *TagObject) Less(other *TagObject) bool {
	if t.Span.Start != other.Span.Start {
		return t.Span.Start < other.Span.Start
	}
	return t.Span.End < other.Span.End
}

// ModifiesTarget reports whether target is within t's scope and passes t's
// Rule's direction/self-overlap/type filters (spec.md §4.2).
func (t *TagObject) ModifiesTarget(target gocontext.Target) bool {
	if t.Rule.Direction == rule.Terminate {
		return false
	}
	if t.Span.Overlaps(target.Span) {
		return false
	}
	if !t.Rule.AllowsType(target.Label) {
		return false
	}
	scope := t.Scope()
	if scope.Contains(target.Start) {
		return true
	}
	if target.End > target.Start && scope.Contains(target.End-1) {
		return true
	}
	return false
}

// LimitScope adjusts t's scope based on other, returning true iff t's scope
// shrank. See spec.md §4.2 for the exact algebra; summarized:
//
//   - the same-sentence precondition is not checked here, since TagObject
//     does not retain a sentence reference after construction; the caller
//     checks it (ctxgraph's updateScopes skips pairs whose match spans
//     start in different sentences)
//   - skip if t's direction is TERMINATE
//   - skip unless other is TERMINATE, shares t's category, or has a
//     category in t's TerminatedBy
//   - FORWARD/BIDIRECTIONAL: if other.Start > t.Start, scopeEnd shrinks to
//     min(scopeEnd, other.Start)
//   - BACKWARD/BIDIRECTIONAL: if other.Start < t.Start, scopeStart grows to
//     max(scopeStart, other.End)
func (t *TagObject) LimitScope(other *TagObject) bool {
	if t.Rule.Direction == rule.Terminate {
		return false
	}
	if other.Rule.Direction != rule.Terminate && !t.Rule.TerminatesCategory(other.Rule.Category) {
		return false
	}

	origStart, origEnd := t.scopeStart, t.scopeEnd

	if t.Rule.Direction == rule.Forward || t.Rule.Direction == rule.Bidirectional {
		if other.Span.Start > t.Span.Start && other.Span.Start < t.scopeEnd {
			t.scopeEnd = other.Span.Start
		}
	}
	if t.Rule.Direction == rule.Backward || t.Rule.Direction == rule.Bidirectional {
		if other.Span.Start < t.Span.Start && other.Span.End > t.scopeStart {
			t.scopeStart = other.Span.End
		}
	}

	return t.scopeStart != origStart || t.scopeEnd != origEnd
}

// distanceTo returns the token-gap distance between span and t's match
// span: zero if they overlap, else the gap between the nearest endpoints.
func (t *TagObject) distanceTo(target gocontext.Target) int {
	if t.Span.Overlaps(target.Span) {
		return 0
	}
	if target.End <= t.Span.Start {
		return int(t.Span.Start - target.End)
	}
	return int(target.Start - t.Span.End)
}

// ReduceToClosest retains at most maxTargets of targets, keeping those with
// the smallest token distance from t's match span (spec.md §4.2, "Target
// reduction"). Ties are broken by appearance order in targets, which
// callers must supply in document order.
func (t *TagObject) ReduceToClosest(targets []gocontext.Target, maxTargets int) []gocontext.Target {
	if maxTargets <= 0 || len(targets) <= maxTargets {
		return targets
	}

	type ranked struct {
		target gocontext.Target
		index  int
		dist   int
	}
	rs := make([]ranked, len(targets))
	for i, target := range targets {
		rs[i] = ranked{target: target, index: i, dist: t.distanceTo(target)}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].dist != rs[j].dist {
			return rs[i].dist < rs[j].dist
		}
		return rs[i].index < rs[j].index
	})

	out := make([]gocontext.Target, maxTargets)
	for i := 0; i < maxTargets; i++ {
		out[i] = rs[i].target
	}
	return out
}
