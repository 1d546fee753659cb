// Package search filters and orders dictionary entries by relevance to a
// free-text query.
package search

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/tinytelemetry/flipbook/internal/model"
)

// Tier is the relevance class of a matching entry. Lower tiers rank first.
type Tier int

const (
	TierExact    Tier = iota // word equals the query
	TierPrefix               // word starts with the query
	TierBoundary             // query starts a token inside the word
	TierContains             // word contains the query elsewhere
	TierOther                // matched on definition, example, category, ...
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierBoundary:
		return "boundary"
	case TierContains:
		return "contains"
	default:
		return "other"
	}
}

// Query is a normalised, compiled search query. The zero value matches
// everything.
type Query struct {
	text     string
	tokens   []string
	boundary *regexp.Regexp
}

// NewQuery trims and lower-cases raw. Regex metacharacters in raw are
// escaped before the boundary pattern is built.
func NewQuery(raw string) Query {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return Query{}
	}
	return Query{
		text:     text,
		tokens:   strings.Fields(text),
		boundary: regexp.MustCompile(`\b` + regexp.QuoteMeta(text)),
	}
}

// Empty reports whether the query matches every entry unfiltered.
func (q Query) Empty() bool { return q.text == "" }

// String returns the normalised query text.
func (q Query) String() string { return q.text }

// Match reports whether e satisfies any inclusion rule and, if so, its tier.
func (q Query) Match(e model.DictionaryEntry) (Tier, bool) {
	if q.Empty() {
		return TierOther, true
	}

	word := strings.ToLower(e.Word)
	switch {
	case word == q.text:
		return TierExact, true
	case strings.HasPrefix(word, q.text):
		return TierPrefix, true
	case q.boundary.MatchString(word):
		return TierBoundary, true
	case strings.Contains(word, q.text):
		return TierContains, true
	}

	definition := strings.ToLower(e.Definition)
	if len(q.tokens) >= 2 && containsAll(definition, q.tokens) {
		return TierOther, true
	}
	if strings.Contains(definition, q.text) ||
		strings.Contains(strings.ToLower(e.Example), q.text) ||
		strings.Contains(strings.ToLower(e.Category), q.text) ||
		strings.Contains(strings.ToLower(e.Phonetic), q.text) ||
		anyContains(e.Synonyms, q.text) ||
		anyContains(e.Antonyms, q.text) {
		return TierOther, true
	}
	return TierOther, false
}

// Result pairs a matching entry with its relevance tier.
type Result struct {
	Entry model.DictionaryEntry
	Tier  Tier
}

// Rank returns the entries matching raw, most relevant first. An empty or
// whitespace-only query returns a copy of entries in their original order.
// The input slice is never modified.
func Rank(raw string, entries []model.DictionaryEntry) []model.DictionaryEntry {
	results := RankResults(raw, entries)
	out := make([]model.DictionaryEntry, len(results))
	for i, r := range results {
		out[i] = r.Entry
	}
	return out
}

// RankResults is Rank but keeps the tier of every result.
func RankResults(raw string, entries []model.DictionaryEntry) []Result {
	q := NewQuery(raw)
	if q.Empty() {
		out := make([]Result, len(entries))
		for i, e := range entries {
			out[i] = Result{Entry: e, Tier: TierOther}
		}
		return out
	}

	type ranked struct {
		Result
		key string
		idx int
	}
	matches := make([]ranked, 0, len(entries))
	for i, e := range entries {
		tier, ok := q.Match(e)
		if !ok {
			continue
		}
		matches = append(matches, ranked{
			Result: Result{Entry: e, Tier: tier},
			key:    strings.ToLower(e.Word),
			idx:    i,
		})
	}

	slices.SortStableFunc(matches, func(a, b ranked) int {
		if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
			return c
		}
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Entry.Word, b.Entry.Word); c != 0 {
			return c
		}
		return cmp.Compare(a.idx, b.idx)
	})

	out := make([]Result, len(matches))
	for i, m := range matches {
		out[i] = m.Result
	}
	return out
}

func containsAll(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
