// Package index implements the in-process search engine core: a TF-IDF
// term weighting model over unigrams and bigrams, a cosine similarity
// ranker, and a context-window snippet extractor. A Model is built fresh
// per search call and discarded; nothing in this package holds state
// across calls.
package index

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/docsift/docsift/internal/domain"
)

// DefaultMaxFeatures caps the vocabulary at the highest
// document-frequency-ranked terms.
const DefaultMaxFeatures = 10000

// Vectorizer builds TF-IDF models. Immutable after construction, safe for
// concurrent use.
type Vectorizer struct {
	maxFeatures  int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewVectorizer creates a vectorizer with the default vocabulary cap.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		maxFeatures:  DefaultMaxFeatures,
		tokenPattern: regexp.MustCompile(`[\pL\pN_]{2,}`),
		stopwords:    englishStopwords,
	}
}

// WithMaxFeatures configures the vocabulary cap.
func (v *Vectorizer) WithMaxFeatures(n int) *Vectorizer {
	if n > 0 {
		v.maxFeatures = n
	}
	return v
}

// Model is a fitted term weighting model: a vocabulary, per-term smoothed
// IDF values, and one L2-normalized feature row per input text in the
// order the texts were given. Rows correspond only to the document list
// fitted here; never match them against a different fetch.
type Model struct {
	vec        *Vectorizer
	vocabulary map[string]int
	idf        []float64
	rows       [][]float64
}

// Fit builds a model over the given texts. One row per text, aligned by
// index. Fails on an empty input, on text that is not valid UTF-8, and on
// a corpus that yields no vocabulary (all stop words or no tokens). A
// single bad document fails the whole build, never a silent skip.
func (v *Vectorizer) Fit(texts []string) (*Model, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty corpus: %w", domain.ErrVectorization)
	}

	docTerms := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("document %d is not valid utf-8: %w", i, domain.ErrVectorization)
		}
		terms := v.terms(text)
		docTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(df) == 0 {
		return nil, fmt.Errorf("no terms found in corpus: %w", domain.ErrVectorization)
	}

	terms := capTerms(df, v.maxFeatures)
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	m := &Model{vec: v, vocabulary: vocabulary, idf: idf}
	m.rows = make([][]float64, len(texts))
	for i, terms := range docTerms {
		m.rows[i] = m.vectorize(terms)
	}
	return m, nil
}

// capTerms keeps the maxFeatures highest document-frequency terms,
// breaking ties lexicographically. Deterministic, never sampled.
func capTerms(df map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) <= maxFeatures {
		return terms
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms[:maxFeatures]
}

// Embed maps a query into the fitted vocabulary space. Terms unseen in
// the corpus contribute zero; a query with no known terms produces the
// zero vector (and therefore zero matches downstream).
func (m *Model) Embed(text string) []float64 {
	return m.vectorize(m.vec.terms(text))
}

// Rows returns the document-feature matrix, one row per fitted text.
func (m *Model) Rows() [][]float64 { return m.rows }

// Dimensions returns the vocabulary size.
func (m *Model) Dimensions() int { return len(m.idf) }

// vectorize computes a raw-count × IDF vector over the vocabulary and
// L2-normalizes it.
func (m *Model) vectorize(terms []string) []float64 {
	vec := make([]float64, len(m.idf))
	counts := make(map[int]int)
	for _, term := range terms {
		if idx, ok := m.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return vec
	}
	for idx, count := range counts {
		vec[idx] = float64(count) * m.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// terms tokenizes a text and returns its unigrams plus adjacent-pair
// bigrams, lowercased, stop words removed. Bigrams form after stop-word
// removal, so "quality of code" yields the bigram "quality code".
func (v *Vectorizer) terms(text string) []string {
	raw := v.tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, isStop := v.stopwords[tok]; isStop {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
