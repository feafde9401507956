// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

// Package ctxgraph implements ContextGraph: the per-document pipeline that
// prunes overlapping modifier matches, adjusts modifier scopes through
// pairwise interaction, and links surviving modifiers to the targets they
// modify. Graph entities are reconstructed fresh for every document call
// and never persist across calls (spec.md §3, "Lifecycle").
package ctxgraph

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/tagobject"
)

var tracer = otel.Tracer("github.com/fyrsmithlabs/gocontext/ctxgraph")

// Edge is a surviving (target, modifier) link: M.ModifiesTarget(T) held
// after pruning and scope adjustment, and T was not dropped from M's bound
// targets by a max_targets cap.
type Edge struct {
	Target   gocontext.Target
	Modifier *tagobject.TagObject
}

// ProcessOptions configures the per-document pipeline phases. These mirror
// engine-wide options (spec.md §4.4) one to one; Engine.Apply constructs
// them from its own Options before calling Process.
type ProcessOptions struct {
	// Prune enables the fixed-point overlapping-modifier sweep (step 1).
	Prune bool
	// RemoveOverlappingModifiers additionally discards any modifier whose
	// span overlaps any target span.
	RemoveOverlappingModifiers bool
	// UseContextWindow, when true, disables the same-sentence precondition
	// on pairwise scope adjustment: TagObjects constructed under a context
	// window do not carry a sentence reference, so every surviving pair is
	// eligible for LimitScope. This is not named explicitly in spec.md's
	// scope-update step; it follows directly from "ignore sentence
	// boundaries" (§4.2 step 4) applying symmetrically to pairwise scope
	// adjustment, not just initial scope derivation.
	UseContextWindow bool
}

// ContextGraph is the bipartite target/modifier structure built for one
// document call. A ContextGraph instance is not safe for concurrent use;
// callers process one document per goroutine (spec.md §5).
type ContextGraph struct {
	doc       *gocontext.Document
	targets   []gocontext.Target
	modifiers []*tagobject.TagObject
	edges     []Edge
}

// New constructs a ContextGraph over targets and modifiers already matched
// for doc. Process must be called before Edges/Modifiers reflect the
// pruned, scope-adjusted state.
func New(doc *gocontext.Document, targets []gocontext.Target, modifiers []*tagobject.TagObject) *ContextGraph {
	sortedTargets := append([]gocontext.Target(nil), targets...)
	sort.SliceStable(sortedTargets, func(i, j int) bool {
		if sortedTargets[i].Start != sortedTargets[j].Start {
			return sortedTargets[i].Start < sortedTargets[j].Start
		}
		return sortedTargets[i].End < sortedTargets[j].End
	})

	sortedModifiers := append([]*tagobject.TagObject(nil), modifiers...)
	sort.SliceStable(sortedModifiers, func(i, j int) bool {
		return sortedModifiers[i].Less(sortedModifiers[j])
	})

	return &ContextGraph{
		doc:       doc,
		targets:   sortedTargets,
		modifiers: sortedModifiers,
	}
}

// Targets returns the graph's target spans, sorted by (start, end). This
// is the read-only accessor a visualizer would consume (SPEC_FULL.md
// "viz.py" supplement); gocontext ships no renderer.
func (g *ContextGraph) Targets() []gocontext.Target {
	return g.targets
}

// Modifiers returns the graph's surviving modifiers, sorted by (start,
// end), after Process has run.
func (g *ContextGraph) Modifiers() []*tagobject.TagObject {
	return g.modifiers
}

// Edges returns the graph's (target, modifier) edges after Process has
// run.
func (g *ContextGraph) Edges() []Edge {
	return g.edges
}

// Process runs the three-phase pipeline: prune, scope-update, edge-assign.
// This ordering is a hard invariant and is not configurable (spec.md's
// pipeline order is fixed by §4.3; SPEC_FULL.md's supplemented-features
// section makes this explicit since the phases have no independent
// meaning out of order).
//
// # Thread Safety
//
// Process mutates g and the scopes of g's modifiers in place. It must not
// be called concurrently with itself or with any other method on g.
func (g *ContextGraph) Process(ctx context.Context, opts ProcessOptions) {
	_, span := tracer.Start(ctx, "ContextGraph.Process")
	defer span.End()

	span.SetAttributes(
		attribute.Int("gocontext.target_count", len(g.targets)),
		attribute.Int("gocontext.modifier_count_initial", len(g.modifiers)),
	)

	if opts.Prune {
		g.modifiers = prune(g.modifiers)
	}
	if opts.RemoveOverlappingModifiers {
		g.modifiers = removeOverlappingModifiers(g.modifiers, g.targets)
	}

	g.updateScopes(opts.UseContextWindow)
	g.assignEdges()

	span.SetAttributes(
		attribute.Int("gocontext.modifier_count_final", len(g.modifiers)),
		attribute.Int("gocontext.edge_count", len(g.edges)),
	)
	slog.Info("context graph processed",
		slog.String("document_id", g.doc.ID),
		slog.Int("target_count", len(g.targets)),
		slog.Int("modifier_count", len(g.modifiers)),
		slog.Int("edge_count", len(g.edges)),
	)
}

// updateScopes visits each unordered pair of surviving modifiers exactly
// once, invoking LimitScope in both directions per pair (spec.md §4.3 step
// 2; see DESIGN.md for why one visitation order suffices).
func (g *ContextGraph) updateScopes(useContextWindow bool) {
	for i := 0; i < len(g.modifiers); i++ {
		for j := i + 1; j < len(g.modifiers); j++ {
			a, b := g.modifiers[i], g.modifiers[j]
			if !useContextWindow && !g.sameSentence(a, b) {
				continue
			}
			a.LimitScope(b)
			b.LimitScope(a)
		}
	}
}

func (g *ContextGraph) sameSentence(a, b *tagobject.TagObject) bool {
	sentA, ok := g.doc.SentenceContaining(a.Span.Start)
	if !ok {
		return false
	}
	sentB, ok := g.doc.SentenceContaining(b.Span.Start)
	if !ok {
		return false
	}
	return sentA.Span == sentB.Span
}

// assignEdges gathers every (target, modifier) pair whose modifier's
// ModifiesTarget holds, then prunes each modifier's bound targets to its
// max_targets cap, dropping the corresponding edges (spec.md §4.3 step 3).
func (g *ContextGraph) assignEdges() {
	var edges []Edge
	for _, m := range g.modifiers {
		var candidates []gocontext.Target
		for _, t := range g.targets {
			if m.ModifiesTarget(t) {
				candidates = append(candidates, t)
			}
		}
		if m.Rule.MaxTargets != nil {
			candidates = m.ReduceToClosest(candidates, *m.Rule.MaxTargets)
		}
		m.SetBoundTargets(candidates)
		for _, t := range candidates {
			edges = append(edges, Edge{Target: t, Modifier: m})
		}
	}
	g.edges = edges
}
