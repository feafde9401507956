// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package engine

import (
	"strings"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/gocontexterr"
)

// AddAttrsMode selects how Engine.Apply writes category-derived boolean
// assertions onto targets (spec.md §4.4, "add_attrs").
type AddAttrsMode int

const (
	// AddAttrsDisabled skips assertion writing entirely.
	AddAttrsDisabled AddAttrsMode = iota
	// AddAttrsDefaults uses the canonical category->attribute map
	// (NEGATED_EXISTENCE->is_negated, POSSIBLE_EXISTENCE->is_uncertain,
	// HISTORICAL->is_historical, HYPOTHETICAL->is_hypothetical,
	// FAMILY->is_family).
	AddAttrsDefaults
	// AddAttrsExplicit uses a caller-supplied category->attribute mapping.
	AddAttrsExplicit
)

const (
	// LowerAttr matches modifiers case-insensitively against a token's
	// lower-case form (the default).
	LowerAttr = "LOWER"
	// TextAttr matches modifiers case-sensitively against a token's raw
	// text.
	TextAttr = "TEXT"
	// OrthAttr is an alias for TextAttr, matching spaCy's ORTH attribute
	// name (spec.md §4.4 names both as acceptable case-sensitive options).
	OrthAttr = "ORTH"
)

// Options holds every engine-wide default and behavior switch (spec.md
// §4.4's enumerated configuration). Construct with DefaultOptions and
// apply Option values, the same convention as the teacher's
// DefaultSymbolIndexOptions/SymbolIndexOption pair.
type Options struct {
	AllowedTypes  []string
	ExcludedTypes []string
	MaxScope      *int
	MaxTargets    *int

	UseContextWindow bool
	Terminations     map[string][]string

	Prune                      bool
	RemoveOverlappingModifiers bool

	PhraseMatcherAttr string
	TargetSource      gocontext.TargetSource

	AddAttrs      AddAttrsMode
	CategoryAttrs map[string]string
}

// Option configures an Engine at construction time.
type Option func(*Options)

// DefaultOptions returns the engine defaults: pruning on, LOWER-attribute
// matching, targets read from the standard entity collection, default
// category->attribute assertions.
func DefaultOptions() Options {
	return Options{
		Prune:             true,
		PhraseMatcherAttr: LowerAttr,
		TargetSource:      gocontext.EntsSource,
		AddAttrs:          AddAttrsDefaults,
	}
}

// WithAllowedTypes sets the engine-wide target-type whitelist, backfilled
// onto any rule that sets neither AllowedTypes nor ExcludedTypes itself.
func WithAllowedTypes(types ...string) Option {
	return func(o *Options) { o.AllowedTypes = types }
}

// WithExcludedTypes sets the engine-wide target-type blacklist.
func WithExcludedTypes(types ...string) Option {
	return func(o *Options) { o.ExcludedTypes = types }
}

// WithMaxScope sets the engine-wide default scope-width cap.
func WithMaxScope(tokens int) Option {
	return func(o *Options) { o.MaxScope = &tokens }
}

// WithMaxTargets sets the engine-wide default max_targets cap.
func WithMaxTargets(n int) Option {
	return func(o *Options) { o.MaxTargets = &n }
}

// WithUseContextWindow enables symmetric-window scope derivation, ignoring
// sentence boundaries. Requires MaxScope to be set; enforced by Options.validate.
func WithUseContextWindow(enabled bool) Option {
	return func(o *Options) { o.UseContextWindow = enabled }
}

// WithTerminations sets the engine-wide category->terminating-categories
// map, unioned onto each rule's own TerminatedBy at add-time (spec.md §9,
// "terminated_by on a rule and engine-wide terminations combine by union").
func WithTerminations(terminations map[string][]string) Option {
	return func(o *Options) { o.Terminations = terminations }
}

// WithPrune toggles the overlapping-modifier pruning pass.
func WithPrune(enabled bool) Option {
	return func(o *Options) { o.Prune = enabled }
}

// WithRemoveOverlappingModifiers toggles the target-overlap pruning pass.
func WithRemoveOverlappingModifiers(enabled bool) Option {
	return func(o *Options) { o.RemoveOverlappingModifiers = enabled }
}

// WithPhraseMatcherAttr selects LOWER (default, case-insensitive), or TEXT
// / ORTH (case-sensitive) matching.
func WithPhraseMatcherAttr(attr string) Option {
	return func(o *Options) { o.PhraseMatcherAttr = strings.ToUpper(attr) }
}

// WithTargetSource selects which Document attribute Apply reads targets
// from.
func WithTargetSource(source gocontext.TargetSource) Option {
	return func(o *Options) { o.TargetSource = source }
}

// WithAddAttrs selects how category-derived boolean assertions are
// written. categoryAttrs is only used when mode is AddAttrsExplicit.
func WithAddAttrs(mode AddAttrsMode, categoryAttrs map[string]string) Option {
	return func(o *Options) {
		o.AddAttrs = mode
		o.CategoryAttrs = categoryAttrs
	}
}

// validate checks cross-field invariants that cannot be caught by a single
// With* constructor, failing fast per spec.md §7.
func (o Options) validate() error {
	if len(o.AllowedTypes) > 0 && len(o.ExcludedTypes) > 0 {
		return gocontexterr.NewConfigurationError("allowed_types/excluded_types",
			"engine defaults may set allowed_types or excluded_types, not both")
	}
	if o.MaxScope != nil && *o.MaxScope <= 0 {
		return gocontexterr.NewConfigurationError("max_scope", "must be a positive integer")
	}
	if o.MaxTargets != nil && *o.MaxTargets <= 0 {
		return gocontexterr.NewConfigurationError("max_targets", "must be a positive integer")
	}
	if o.UseContextWindow && o.MaxScope == nil {
		return gocontexterr.NewConfigurationError("use_context_window", "requires max_scope to be set")
	}
	switch o.PhraseMatcherAttr {
	case LowerAttr, TextAttr, OrthAttr:
	default:
		return gocontexterr.NewConfigurationError("phrase_matcher_attr",
			"must be one of LOWER, TEXT, ORTH, got "+o.PhraseMatcherAttr)
	}
	if o.AddAttrs == AddAttrsExplicit && len(o.CategoryAttrs) == 0 {
		return gocontexterr.NewConfigurationError("add_attrs", "explicit mode requires a non-empty category attribute map")
	}
	return nil
}

func toUpperSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = struct{}{}
	}
	return set
}
