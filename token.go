// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

// Package gocontext implements the ConText algorithm for clinical text: it
// discovers modifier phrases ("no evidence of", "history of", "ruled out")
// near pre-identified target spans and determines whether each modifier
// applies to each target, producing a bipartite context graph plus a small
// set of boolean assertions per target.
//
// Tokenization, sentence segmentation, and target (entity) detection are
// external collaborators. gocontext consumes a Document that already carries
// tokens, sentence boundaries, and target spans, and runs the rule-driven
// matcher, scope algebra, and graph construction described in the
// rule, matcher, tagobject, ctxgraph, and engine subpackages.
package gocontext

// TokenIndex is a non-negative index of a token within a Document's token
// sequence.
type TokenIndex int

// Token is a single tokenized unit of a Document, carrying the attributes
// the pattern matcher and literal matcher need.
type Token struct {
	// Text is the raw, case-preserved token text.
	Text string

	// Lower is the lower-cased form of Text.
	Lower string

	// Lemma is the lemmatized form of Text. May equal Lower if the host
	// tokenizer does not provide lemmatization.
	Lemma string
}
