// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package rule

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/gocontext/gocontexterr"
)

// Pattern is a sequence of per-token attribute constraints, the same shape
// (at design level) as spaCy's rule-based Matcher pattern language:
// spec.md §4.1 and SPEC_FULL.md's "Pattern-matching attribute predicates".
type Pattern []PatternToken

// PatternToken constrains a single token. At most one of Text, Lower, Lemma
// should be set per predicate group; IN and Regex are alternate forms of
// the same attribute check, mutually exclusive with each other and with a
// bare exact-match value for that attribute.
type PatternToken struct {
	// Text matches the token's raw case-preserved text exactly.
	Text string `json:"TEXT,omitempty" yaml:"TEXT,omitempty"`
	// Lower matches the token's lower-cased form exactly.
	Lower string `json:"LOWER,omitempty" yaml:"LOWER,omitempty"`
	// Lemma matches the token's lemma exactly.
	Lemma string `json:"LEMMA,omitempty" yaml:"LEMMA,omitempty"`

	// LowerIn matches if the token's lower-cased form is a member of the set.
	LowerIn []string `json:"LOWER_IN,omitempty" yaml:"LOWER_IN,omitempty"`
	// LemmaIn matches if the token's lemma is a member of the set.
	LemmaIn []string `json:"LEMMA_IN,omitempty" yaml:"LEMMA_IN,omitempty"`

	// Regex, if set, matches the token's lower-cased form against a regular
	// expression.
	Regex string `json:"REGEX,omitempty" yaml:"REGEX,omitempty"`

	// Op is a single-token quantifier: "?" (0 or 1), "+" (1 or more),
	// "*" (0 or more), or "" (exactly 1, the default).
	Op string `json:"OP,omitempty" yaml:"OP,omitempty"`
}

// compiledToken caches a PatternToken's compiled regex, if any.
type compiledToken struct {
	PatternToken
	re *regexp.Regexp
}

// compile validates and pre-compiles p's regex predicates, returning a
// compiledPattern the pattern matcher can evaluate repeatedly without
// re-parsing regular expressions per token.
func (p Pattern) compile() (compiledPattern, error) {
	out := make(compiledPattern, 0, len(p))
	for i, tok := range p {
		ct := compiledToken{PatternToken: tok}
		if tok.Regex != "" {
			re, err := regexp.Compile(tok.Regex)
			if err != nil {
				return nil, gocontexterr.NewConfigurationError("pattern", "invalid REGEX at token "+strconv.Itoa(i)+": "+err.Error())
			}
			ct.re = re
		}
		out = append(out, ct)
	}
	return out, nil
}

type compiledPattern []compiledToken

// CompiledPattern is a Pattern whose REGEX predicates have already been
// parsed, ready for repeated evaluation by the matcher package.
type CompiledPattern struct {
	tokens compiledPattern
}

// Compile validates and pre-compiles p's regex predicates.
func (p Pattern) Compile() (CompiledPattern, error) {
	cp, err := p.compile()
	if err != nil {
		return CompiledPattern{}, err
	}
	return CompiledPattern{tokens: cp}, nil
}

// Len returns the number of predicate groups in the compiled pattern.
func (c CompiledPattern) Len() int {
	return len(c.tokens)
}

// Op returns the quantifier ("", "?", "+", "*") for predicate group i.
func (c CompiledPattern) Op(i int) string {
	return c.tokens[i].Op
}

// TokenMatches reports whether a single token's attributes satisfy
// predicate group i.
func (c CompiledPattern) TokenMatches(i int, text, lower, lemma string) bool {
	return c.tokens[i].matchesTokenAttrs(text, lower, lemma)
}

// matchesTokenAttrs reports whether a single token (via its lower/lemma/text
// attributes) satisfies ct's predicate. Quantifiers are handled by the
// pattern matcher, not here: matchesTokenAttrs answers "does this one token
// satisfy this one predicate group" only.
func (ct compiledToken) matchesTokenAttrs(text, lower, lemma string) bool {
	if ct.Text != "" && ct.Text != text {
		return false
	}
	if ct.Lower != "" && ct.Lower != lower {
		return false
	}
	if ct.Lemma != "" && ct.Lemma != lemma {
		return false
	}
	if len(ct.LowerIn) > 0 && !contains(ct.LowerIn, lower) {
		return false
	}
	if len(ct.LemmaIn) > 0 && !contains(ct.LemmaIn, lemma) {
		return false
	}
	if ct.re != nil && !ct.re.MatchString(lower) {
		return false
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

