// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/gocontext"
)

// tokenizeDoc builds a Document from text by splitting on whitespace and
// treating a trailing "." on a token as ending that token's sentence,
// matching the convention spec.md §8's end-to-end scenarios use. This is a
// toy tokenizer for CLI demonstration only; gocontext itself never
// tokenizes (spec.md §1, tokenization is an external collaborator).
func tokenizeDoc(text string) *gocontext.Document {
	fields := strings.Fields(text)
	tokens := make([]gocontext.Token, len(fields))
	var sentences []gocontext.Sentence
	sentStart := 0
	for i, f := range fields {
		clean := strings.TrimSuffix(strings.TrimSuffix(f, "."), ",")
		tokens[i] = gocontext.Token{Text: clean, Lower: strings.ToLower(clean), Lemma: strings.ToLower(clean)}
		if strings.HasSuffix(f, ".") {
			sentences = append(sentences, gocontext.Sentence{Span: gocontext.Span{
				Start: gocontext.TokenIndex(sentStart), End: gocontext.TokenIndex(i + 1),
			}})
			sentStart = i + 1
		}
	}
	if sentStart < len(fields) {
		sentences = append(sentences, gocontext.Sentence{Span: gocontext.Span{
			Start: gocontext.TokenIndex(sentStart), End: gocontext.TokenIndex(len(fields)),
		}})
	}
	return gocontext.NewDocument(tokens, sentences)
}

// parseTargets parses "LABEL:start:end" specs into Target spans.
func parseTargets(specs []string) ([]gocontext.Target, error) {
	targets := make([]gocontext.Target, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --target %q: want LABEL:start:end", spec)
		}
		start, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid --target %q: start is not an integer: %w", spec, err)
		}
		end, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid --target %q: end is not an integer: %w", spec, err)
		}
		targets = append(targets, gocontext.Target{
			Span:  gocontext.Span{Start: gocontext.TokenIndex(start), End: gocontext.TokenIndex(end)},
			Label: strings.ToUpper(parts[0]),
		})
	}
	return targets, nil
}
