// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

// Package rule defines ContextItem-equivalent modifier rules: a declarative
// literal-or-pattern phrase definition, its semantic category, its
// directional scope behavior, and the filters/limits that constrain which
// targets it can bind.
package rule

import (
	"sort"
	"strings"

	"github.com/fyrsmithlabs/gocontext/gocontexterr"
)

// Direction is the policy governing where a modifier's scope extends
// relative to its own match span.
type Direction string

const (
	// Forward extends the scope from the end of the match to the end of
	// the containing sentence.
	Forward Direction = "FORWARD"
	// Backward extends the scope from the start of the containing sentence
	// to the start of the match.
	Backward Direction = "BACKWARD"
	// Bidirectional extends the scope across the entire containing
	// sentence.
	Bidirectional Direction = "BIDIRECTIONAL"
	// Terminate gives the modifier no directional scope of its own; it
	// exists only to truncate the scope of other modifiers.
	Terminate Direction = "TERMINATE"
)

var validDirections = map[Direction]bool{
	Forward:       true,
	Backward:      true,
	Bidirectional: true,
	Terminate:     true,
}

// Spec is the declarative, JSON/YAML-shaped description of a Rule. It is
// the input to New and the output of Rule.ToMap, and is the shape a rule
// file's item_data entries are decoded into (via an intermediate
// map[string]any used for unknown-key checking).
type Spec struct {
	Literal       string         `json:"literal" yaml:"literal"`
	Category      string         `json:"category" yaml:"category"`
	Direction     string         `json:"rule" yaml:"rule"`
	Pattern       Pattern        `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	AllowedTypes  []string       `json:"allowed_types,omitempty" yaml:"allowed_types,omitempty"`
	ExcludedTypes []string       `json:"excluded_types,omitempty" yaml:"excluded_types,omitempty"`
	MaxTargets    *int           `json:"max_targets,omitempty" yaml:"max_targets,omitempty"`
	MaxScope      *int           `json:"max_scope,omitempty" yaml:"max_scope,omitempty"`
	TerminatedBy  []string       `json:"terminated_by,omitempty" yaml:"terminated_by,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Rule is a declarative modifier definition: a literal phrase or token
// pattern, its category, its directional scope rule, and its filters and
// limits. Rule is immutable after construction; category, direction, and
// literal normalization (upper/lower casing) happens once in New.
type Rule struct {
	Literal       string
	Category      string
	Direction     Direction
	Pattern       Pattern
	AllowedTypes  map[string]struct{}
	ExcludedTypes map[string]struct{}
	MaxTargets    *int
	MaxScope      *int
	TerminatedBy  map[string]struct{}
	Metadata      map[string]any
}

// New validates spec and constructs a Rule. Validation failures return a
// *gocontexterr.ConfigurationError.
//
// Invariants enforced (spec.md §3): Category and Direction are upper-cased;
// Literal is lower-cased; AllowedTypes/ExcludedTypes are mutually exclusive
// and upper-cased; MaxTargets/MaxScope, if set, are positive.
func New(spec Spec) (*Rule, error) {
	if spec.Category == "" {
		return nil, gocontexterr.NewConfigurationError("category", "category is required")
	}
	direction := Direction(strings.ToUpper(spec.Direction))
	if direction == "" {
		direction = Bidirectional
	}
	if !validDirections[direction] {
		return nil, gocontexterr.NewConfigurationError("rule", "unrecognized direction: "+spec.Direction)
	}

	if len(spec.AllowedTypes) > 0 && len(spec.ExcludedTypes) > 0 {
		return nil, gocontexterr.NewConfigurationError("allowed_types/excluded_types",
			"a rule may set allowed_types or excluded_types, not both")
	}

	if spec.MaxTargets != nil && *spec.MaxTargets <= 0 {
		return nil, gocontexterr.NewConfigurationError("max_targets", "must be a positive integer")
	}
	if spec.MaxScope != nil && *spec.MaxScope <= 0 {
		return nil, gocontexterr.NewConfigurationError("max_scope", "must be a positive integer")
	}

	r := &Rule{
		Literal:      strings.ToLower(spec.Literal),
		Category:     strings.ToUpper(spec.Category),
		Direction:    direction,
		Pattern:      spec.Pattern,
		MaxTargets:   spec.MaxTargets,
		MaxScope:     spec.MaxScope,
		TerminatedBy: toUpperSet(spec.TerminatedBy),
		Metadata:     spec.Metadata,
	}
	if len(spec.AllowedTypes) > 0 {
		r.AllowedTypes = toUpperSet(spec.AllowedTypes)
	}
	if len(spec.ExcludedTypes) > 0 {
		r.ExcludedTypes = toUpperSet(spec.ExcludedTypes)
	}
	return r, nil
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

func fromSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ToMap converts a Rule back into its declarative Spec shape, preserving
// Literal, Category, Direction, Pattern, AllowedTypes, ExcludedTypes,
// MaxTargets, MaxScope, TerminatedBy, and Metadata (spec.md §8 round-trip
// property).
func (r *Rule) ToMap() Spec {
	return Spec{
		Literal:       r.Literal,
		Category:      r.Category,
		Direction:     string(r.Direction),
		Pattern:       r.Pattern,
		AllowedTypes:  fromSet(r.AllowedTypes),
		ExcludedTypes: fromSet(r.ExcludedTypes),
		MaxTargets:    r.MaxTargets,
		MaxScope:      r.MaxScope,
		TerminatedBy:  fromSet(r.TerminatedBy),
		Metadata:      r.Metadata,
	}
}

// FromMap reconstructs a Rule from a previously exported Spec. It is
// equivalent to New(spec) and exists to make the round-trip contract
// (Rule -> Spec -> Rule) explicit at call sites and in tests.
func FromMap(spec Spec) (*Rule, error) {
	return New(spec)
}

// AllowsType reports whether label passes this rule's AllowedTypes /
// ExcludedTypes filter. A rule with neither set allows every type.
func (r *Rule) AllowsType(label string) bool {
	label = strings.ToUpper(label)
	if r.AllowedTypes != nil {
		_, ok := r.AllowedTypes[label]
		return ok
	}
	if r.ExcludedTypes != nil {
		_, excluded := r.ExcludedTypes[label]
		return !excluded
	}
	return true
}

// TerminatesCategory reports whether a modifier of otherCategory should
// truncate a modifier governed by r: true if otherCategory equals r's own
// Category, or appears in r.TerminatedBy.
func (r *Rule) TerminatesCategory(otherCategory string) bool {
	otherCategory = strings.ToUpper(otherCategory)
	if otherCategory == r.Category {
		return true
	}
	_, ok := r.TerminatedBy[otherCategory]
	return ok
}
