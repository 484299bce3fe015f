package result

import "math"

// Result is a single search hit. Scores are rounded to 4 decimals at
// construction so every layer above sees the same values.
type Result struct {
	pdfID      string
	filename   string
	confidence float64
	sentiment  float64
	snippet    string
}

// New creates a search result. confidence is the cosine relevance in (0, 1],
// sentiment the compound polarity in [-1, 1].
func New(pdfID, filename string, confidence, sentiment float64, snippet string) Result {
	return Result{
		pdfID:      pdfID,
		filename:   filename,
		confidence: round4(confidence),
		sentiment:  round4(sentiment),
		snippet:    snippet,
	}
}

// PDFID returns the matched document identifier.
func (r *Result) PDFID() string { return r.pdfID }

// Filename returns the matched document's filename.
func (r *Result) Filename() string { return r.filename }

// Confidence returns the relevance score.
func (r *Result) Confidence() float64 { return r.confidence }

// Sentiment returns the snippet's compound polarity.
func (r *Result) Sentiment() float64 { return r.sentiment }

// Snippet returns the context excerpt around the best query match.
func (r *Result) Snippet() string { return r.snippet }

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
