// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

// Package engine implements Engine, the ContextComponent orchestrator:
// it owns the rule set and compiled matchers, propagates engine-wide
// defaults onto rules at add-time, and drives the per-document pipeline
// (match -> TagObject construction -> graph processing -> assertion
// writing) described by spec.md §4.4.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/ctxgraph"
	"github.com/fyrsmithlabs/gocontext/gocontexterr"
	"github.com/fyrsmithlabs/gocontext/matcher"
	"github.com/fyrsmithlabs/gocontext/rule"
	"github.com/fyrsmithlabs/gocontext/tagobject"
)

var tracer = otel.Tracer("github.com/fyrsmithlabs/gocontext/engine")

// Result is the per-document output of Engine.Apply: the populated context
// graph plus the per-target assertion records derived from it.
type Result struct {
	Graph      *ctxgraph.ContextGraph
	Assertions []TargetAssertion
}

// Engine owns an immutable rule set and compiled matcher indexes across
// many Apply calls; it is the long-lived object a caller constructs once
// per configuration (spec.md §5, "the rule set and compiled matchers are
// immutable after engine construction; safe to read concurrently").
type Engine struct {
	opts    Options
	ruleSet *matcher.RuleSet
	rules   []*rule.Rule
}

// New constructs an Engine. Validation failures return
// *gocontexterr.ConfigurationError.
func New(opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	registerMetrics()

	e := &Engine{
		opts:    o,
		ruleSet: matcher.NewRuleSet(o.PhraseMatcherAttr != LowerAttr),
	}
	slog.Info("engine constructed",
		slog.Bool("prune", o.Prune),
		slog.String("phrase_matcher_attr", o.PhraseMatcherAttr),
		slog.String("target_source", string(o.TargetSource)),
	)
	return e, nil
}

// AddRule propagates engine-wide defaults onto r (spec.md §4.4) and adds
// the resulting rule to the compiled rule set. r itself is never mutated;
// applyDefaults produces an independent copy.
func (e *Engine) AddRule(r *rule.Rule) error {
	augmented := e.applyDefaults(r)
	if err := e.ruleSet.Add(augmented); err != nil {
		return err
	}
	e.rules = append(e.rules, augmented)
	return nil
}

// AddRules adds every rule in rules, in order. On error, rules added
// before the failing one remain in the engine (spec.md does not require
// atomic rule-set construction, only atomic per-document processing).
func (e *Engine) AddRules(rules []*rule.Rule) error {
	for _, r := range rules {
		if err := e.AddRule(r); err != nil {
			return err
		}
	}
	return nil
}

// LoadDefaultRules adds the bundled default rule set (SPEC_FULL.md
// "Default rule set" supplement).
func (e *Engine) LoadDefaultRules() error {
	rules, err := rule.DefaultRules()
	if err != nil {
		return err
	}
	return e.AddRules(rules)
}

// Rules returns every rule added to the engine so far, with engine
// defaults already applied, in add order.
func (e *Engine) Rules() []*rule.Rule {
	return e.rules
}

// applyDefaults returns a copy of r with engine-wide AllowedTypes/
// ExcludedTypes/MaxScope/MaxTargets backfilled where r leaves them unset
// (rule-level values always win, per spec.md §9's Open Question
// resolution), and r's TerminatedBy unioned with the engine's
// Terminations map keyed by r's category.
func (e *Engine) applyDefaults(r *rule.Rule) *rule.Rule {
	out := *r

	if out.AllowedTypes == nil && out.ExcludedTypes == nil {
		if len(e.opts.AllowedTypes) > 0 {
			out.AllowedTypes = toUpperSet(e.opts.AllowedTypes)
		}
		if len(e.opts.ExcludedTypes) > 0 {
			out.ExcludedTypes = toUpperSet(e.opts.ExcludedTypes)
		}
	}
	if out.MaxScope == nil && e.opts.MaxScope != nil {
		maxScope := *e.opts.MaxScope
		out.MaxScope = &maxScope
	}
	if out.MaxTargets == nil && e.opts.MaxTargets != nil {
		maxTargets := *e.opts.MaxTargets
		out.MaxTargets = &maxTargets
	}

	if additional, ok := e.opts.Terminations[out.Category]; ok && len(additional) > 0 {
		merged := make(map[string]struct{}, len(out.TerminatedBy)+len(additional))
		for k := range out.TerminatedBy {
			merged[k] = struct{}{}
		}
		for _, c := range additional {
			merged[strings.ToUpper(c)] = struct{}{}
		}
		out.TerminatedBy = merged
	}

	return &out
}

// Apply runs the full per-document pipeline: fetch targets, scan for
// modifier matches, construct TagObjects, build and process the context
// graph, and derive per-target assertions.
//
// # Thread Safety
//
// Apply allocates all per-document state fresh and touches no shared
// mutable state; it is safe to call concurrently from multiple goroutines
// sharing the same Engine, one call per document (spec.md §5).
func (e *Engine) Apply(ctx context.Context, doc *gocontext.Document) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "Engine.Apply",
		trace.WithAttributes(
			attribute.String("gocontext.document_id", doc.ID),
			attribute.Int("gocontext.token_count", len(doc.Tokens)),
		),
	)
	defer span.End()

	targets, ok := doc.Targets(e.opts.TargetSource)
	if !ok {
		err := &gocontexterr.UnsupportedTargetSource{Source: string(e.opts.TargetSource)}
		span.RecordError(err)
		return nil, err
	}

	matches := e.ruleSet.Match(doc)
	documentsProcessedTotal.Inc()
	modifiersMatchedTotal.Add(float64(len(matches)))

	tags := make([]*tagobject.TagObject, 0, len(matches))
	for _, m := range matches {
		tag, err := tagobject.New(m.Rule, m.Span.Start, m.Span.End, doc, e.opts.UseContextWindow)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		tags = append(tags, tag)
	}

	graph := ctxgraph.New(doc, targets, tags)
	graph.Process(ctx, ctxgraph.ProcessOptions{
		Prune:                      e.opts.Prune,
		RemoveOverlappingModifiers: e.opts.RemoveOverlappingModifiers,
		UseContextWindow:           e.opts.UseContextWindow,
	})

	var assertions []TargetAssertion
	switch e.opts.AddAttrs {
	case AddAttrsDefaults:
		assertions = buildAssertions(graph, defaultCategoryAttrs())
	case AddAttrsExplicit:
		assertions = buildAssertions(graph, e.opts.CategoryAttrs)
	case AddAttrsDisabled:
		assertions = buildAssertions(graph, nil)
	}

	span.SetAttributes(
		attribute.Int("gocontext.match_count", len(matches)),
		attribute.Int("gocontext.edge_count", len(graph.Edges())),
	)
	pipelineDurationSeconds.Observe(time.Since(start).Seconds())
	slog.Info("document processed",
		slog.String("document_id", doc.ID),
		slog.Int("match_count", len(matches)),
		slog.Int("edge_count", len(graph.Edges())),
		slog.Duration("duration", time.Since(start)),
	)

	return &Result{Graph: graph, Assertions: assertions}, nil
}
