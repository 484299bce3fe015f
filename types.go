package docsift

import "time"

// Document is a stored PDF with its extracted text.
type Document struct {
	ID         string
	Filename   string
	Text       string
	Size       int64
	UploadedAt time.Time
}

// UploadFile is one file in an UploadAll batch.
type UploadFile struct {
	Filename string
	Content  []byte
}

// UploadResult is the outcome of one file in an UploadAll batch.
type UploadResult struct {
	ID       string // stored document ID, empty on failure
	Filename string
	OK       bool
	Err      error
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID         string
	Filename   string
	Confidence float64 // relevance in (0, 1]
	Sentiment  float64 // snippet polarity in [-1, 1]
	Snippet    string
}

// SearchOptions tunes a single search call.
type SearchOptions struct {
	TopK int // maximum hits to return; 0 means the default of 10
}
