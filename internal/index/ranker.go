package index

import "sort"

// DefaultTopK is the result count when the caller does not specify one.
const DefaultTopK = 10

// Match is one ranked document: its row index in the fitted matrix and
// its cosine score against the query.
type Match struct {
	Index int
	Score float64
}

// Rank scores a query vector against every document row and returns the
// top-K matches in descending score order. Vectors must come from the
// same Model: pre-normalized and of equal dimension, so the dot product
// is cosine similarity. Rows scoring <= 0 are excluded entirely. Ties
// keep original document order; the sort is stable, so identical inputs
// always rank identically.
func Rank(query []float64, rows [][]float64, topK int) []Match {
	if topK <= 0 {
		topK = DefaultTopK
	}

	matches := make([]Match, 0, len(rows))
	for i, row := range rows {
		score := dot(query, row)
		if score > 0 {
			matches = append(matches, Match{Index: i, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i, v := range a {
		s += v * b[i]
	}
	return s
}
