package docsift

import "github.com/docsift/docsift/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	ErrInvalidInput     = domain.ErrInvalidInput
	ErrInvalidPDF       = domain.ErrInvalidPDF
	ErrEmptyPDF         = domain.ErrEmptyPDF
	ErrFileTooLarge     = domain.ErrFileTooLarge
	ErrVectorization    = domain.ErrVectorization
	ErrSentiment        = domain.ErrSentiment
)
