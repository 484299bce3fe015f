package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidInput signals a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidPDF signals a file that is not a parseable PDF.
	ErrInvalidPDF = errors.New("invalid pdf")
	// ErrEmptyPDF signals a PDF with no extractable text.
	ErrEmptyPDF = errors.New("pdf contains no extractable text")
	// ErrFileTooLarge signals an upload above the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrVectorization signals a failed index build over the document texts.
	ErrVectorization = errors.New("vectorization failed")
	// ErrSentiment signals a failed sentiment scoring call.
	ErrSentiment = errors.New("sentiment scoring failed")
	// ErrSentimentQuota signals a rejected call after the provider token
	// budget ran out.
	ErrSentimentQuota = errors.New("sentiment token budget exceeded")
)

// FileTooLargeError wraps ErrFileTooLarge with the offending and maximum sizes.
type FileTooLargeError struct {
	Size int64
	Max  int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds maximum of %d", ErrFileTooLarge.Error(), e.Size, e.Max)
}

func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// NewFileTooLarge creates a file size limit error.
func NewFileTooLarge(size, maxSize int64) error {
	return &FileTooLargeError{Size: size, Max: maxSize}
}
