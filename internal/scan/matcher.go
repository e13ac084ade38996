// Package scan segments extracted page text into search blocks and
// matches configured terms against them.
package scan

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options configures how terms are matched against a block
type Options struct {
	ExactWord   bool // word-boundary match instead of substring containment
	FoldAccents bool // compare with combining marks stripped
	RequireAll  bool // AND combinator; otherwise any term suffices
}

type term struct {
	original   string
	normalized string
	wordRe     *regexp.Regexp
}

// Matcher evaluates search terms against text under the configured
// rules. Matching is case-insensitive unconditionally.
type Matcher struct {
	terms []term
	opts  Options
}

// NewMatcher compiles the given terms. Blank terms are ignored; at
// least one non-blank term is required.
func NewMatcher(terms []string, opts Options) (*Matcher, error) {
	m := &Matcher{opts: opts}

	for _, raw := range terms {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		normalized := Normalize(raw, opts.FoldAccents)
		t := term{original: raw, normalized: normalized}

		if opts.ExactWord {
			// \b is ASCII-only in RE2; accented word characters need
			// explicit letter/digit boundary classes.
			pattern := `(?:\A|[^\p{L}\p{N}_])` + regexp.QuoteMeta(normalized) + `(?:\z|[^\p{L}\p{N}_])`
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("compile term %q: %w", raw, err)
			}
			t.wordRe = re
		}

		m.terms = append(m.terms, t)
	}

	if len(m.terms) == 0 {
		return nil, fmt.Errorf("at least one search term is required")
	}

	return m, nil
}

// Terms returns the original, non-blank terms in configured order
func (m *Matcher) Terms() []string {
	out := make([]string, len(m.terms))
	for i, t := range m.terms {
		out[i] = t.original
	}
	return out
}

// Match reports whether the text satisfies the configured combinator
func (m *Matcher) Match(text string) bool {
	normalized := Normalize(text, m.opts.FoldAccents)

	for _, t := range m.terms {
		found := m.matchOne(t, normalized)
		if m.opts.RequireAll && !found {
			return false
		}
		if !m.opts.RequireAll && found {
			return true
		}
	}

	return m.opts.RequireAll
}

// MatchAny reports whether any single term occurs in the text,
// regardless of the combinator. Windowed segmentation uses this to
// find hit lines before the combinator is applied to the whole block.
func (m *Matcher) MatchAny(text string) bool {
	normalized := Normalize(text, m.opts.FoldAccents)

	for _, t := range m.terms {
		if m.matchOne(t, normalized) {
			return true
		}
	}
	return false
}

func (m *Matcher) matchOne(t term, normalizedText string) bool {
	if t.wordRe != nil {
		return t.wordRe.MatchString(normalizedText)
	}
	return strings.Contains(normalizedText, t.normalized)
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text for comparison, additionally stripping
// combining marks when foldAccents is set. Applied symmetrically to
// terms and to the text being searched.
func Normalize(s string, foldAccents bool) string {
	s = strings.ToLower(s)
	if !foldAccents {
		return s
	}

	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return folded
}
