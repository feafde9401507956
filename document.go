// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package gocontext

import (
	"sort"

	"github.com/google/uuid"
)

// TargetSource names where an Engine should read target spans from for a
// given Document: the standard entity collection ("ents") or a named custom
// attribute registered via Document.SetCustomTargets.
type TargetSource string

// EntsSource is the standard target source: Document.Ents().
const EntsSource TargetSource = "ents"

// Document is the per-call input to the ConText engine. Tokenization,
// sentence segmentation, and target (entity) detection are performed by the
// host application before constructing a Document; gocontext only reads it.
//
// # Thread Safety
//
// A Document is built once by the caller and then treated as read-only by
// the engine (§5: "Token documents are borrowed read-only"). It is safe to
// share a single Document across goroutines as long as none of them mutate
// it concurrently with a call to Engine.Apply.
type Document struct {
	// ID is a stable identifier used for logging and tracing correlation.
	ID string

	Tokens    []Token
	Sentences []Sentence

	ents    []Target
	custom  map[string][]Target
}

// NewDocument creates a Document from a token sequence and its sentence
// boundaries. Sentences are sorted ascending by Start here; they must not
// overlap.
func NewDocument(tokens []Token, sentences []Sentence) *Document {
	sorted := make([]Sentence, len(sentences))
	copy(sorted, sentences)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	return &Document{
		ID:        uuid.NewString(),
		Tokens:    tokens,
		Sentences: sorted,
		custom:    make(map[string][]Target),
	}
}

// SetEnts installs the standard target collection for this document.
func (d *Document) SetEnts(targets []Target) {
	d.ents = targets
}

// Ents returns the standard target collection.
func (d *Document) Ents() []Target {
	return d.ents
}

// SetCustomTargets registers a named custom target attribute, mirroring the
// spaCy-era "Doc._.{attr}" extension this engine's configuration (§4.4,
// "targets") can select between.
func (d *Document) SetCustomTargets(name string, targets []Target) {
	if d.custom == nil {
		d.custom = make(map[string][]Target)
	}
	d.custom[name] = targets
}

// Targets resolves the configured TargetSource into a slice of Target
// spans. Returns false if source names an unregistered custom attribute.
func (d *Document) Targets(source TargetSource) ([]Target, bool) {
	if source == EntsSource {
		return d.ents, true
	}
	targets, ok := d.custom[string(source)]
	return targets, ok
}

// SentenceContaining returns the Sentence whose span contains idx.
func (d *Document) SentenceContaining(idx TokenIndex) (Sentence, bool) {
	// Sentences are sorted and non-overlapping, so a binary search for the
	// first sentence ending after idx followed by a containment check is
	// sufficient.
	i := sort.Search(len(d.Sentences), func(i int) bool {
		return d.Sentences[i].End > idx
	})
	if i >= len(d.Sentences) {
		return Sentence{}, false
	}
	if d.Sentences[i].Contains(idx) {
		return d.Sentences[i], true
	}
	return Sentence{}, false
}
