package assistant

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ynmsafety/ynmops/internal/dedupe"
)

const (
	// TopK documents are passed to the completer.
	TopK = 5
	// tokenMatch is the similarity at which two tokens count as overlapping.
	tokenMatch = 0.85
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "for": {}, "to": {}, "in": {}, "on": {},
	"and": {}, "or": {}, "is": {}, "are": {}, "do": {}, "does": {}, "what": {}, "which": {},
	"who": {}, "we": {}, "i": {}, "me": {}, "any": {}, "have": {}, "has": {}, "with": {},
}

// Tokens splits s into normalized words without punctuation or stopwords.
func Tokens(s string) []string {
	words := strings.FieldsFunc(dedupe.Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "-")
		if w == "" {
			continue
		}
		if _, skip := stopwords[w]; skip {
			continue
		}
		out = append(out, w)
	}
	return out
}

type scored struct {
	doc   Document
	score float64
	order int
}

// Rank scores docs against question and returns at most k with a positive
// score, best first. Ties keep catalog order.
func Rank(question string, docs []Document, k int) []Document {
	qTokens := Tokens(question)
	if len(qTokens) == 0 || k <= 0 {
		return nil
	}

	results := make([]scored, 0, len(docs))
	for i, doc := range docs {
		s := score(qTokens, doc)
		if s > 0 {
			results = append(results, scored{doc: doc, score: s, order: i})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].order < results[j].order
	})

	if len(results) > k {
		results = results[:k]
	}
	out := make([]Document, len(results))
	for i, r := range results {
		out[i] = r.doc
	}
	return out
}

// score is the share of question tokens found in the document, plus a title
// bonus so that name hits beat body hits.
func score(qTokens []string, doc Document) float64 {
	titleTokens := Tokens(doc.Title)
	bodyTokens := Tokens(doc.Body)

	var overlap, titleHits float64
	for _, q := range qTokens {
		if best(q, titleTokens) >= tokenMatch {
			titleHits++
			overlap++
			continue
		}
		if best(q, bodyTokens) >= tokenMatch {
			overlap++
		}
	}
	n := float64(len(qTokens))
	return overlap/n + 0.5*titleHits/n
}

func best(token string, candidates []string) float64 {
	var top float64
	for _, c := range candidates {
		// Similarity rates containment at 0.9, which would let "a" match
		// everything; short tokens must match exactly.
		if len(token) < 3 || len(c) < 3 {
			if token == c {
				return 1
			}
			continue
		}
		if s := dedupe.Similarity(token, c); s > top {
			top = s
		}
	}
	return top
}
