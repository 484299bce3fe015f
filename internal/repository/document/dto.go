package document

import (
	"fmt"
	"strconv"
	"time"

	domdoc "github.com/docsift/docsift/internal/domain/document"
)

// documentToHash converts a domain Document into a flat map[string]string
// for HSET.
func documentToHash(doc domdoc.Document) map[string]string {
	return map[string]string{
		"id":          doc.ID(),
		"filename":    doc.Filename(),
		"text":        doc.Text(),
		"size":        strconv.FormatInt(doc.Size(), 10),
		"uploaded_at": doc.UploadedAt().UTC().Format(time.RFC3339Nano),
	}
}

// documentFromHash hydrates a domain Document from an HGETALL result map.
func documentFromHash(m map[string]string) (domdoc.Document, error) {
	size, err := strconv.ParseInt(m["size"], 10, 64)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("invalid size: %w", err)
	}

	uploadedAt, err := time.Parse(time.RFC3339Nano, m["uploaded_at"])
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("invalid uploaded_at: %w", err)
	}

	return domdoc.Reconstruct(m["id"], m["filename"], m["text"], size, uploadedAt), nil
}
