// Package docsift provides an embeddable PDF search engine: upload PDF
// files, then run TF-IDF ranked full-text queries that return contextual
// snippets with sentiment scores.
//
// Documents live in an embedded Badger database (on disk or in memory)
// or in Redis. Sentiment defaults to the in-process VADER scorer, so the
// whole engine works without network access:
//
//	client, _ := docsift.New(docsift.WithBadger("/var/lib/docsift"))
//	defer client.Close()
//
//	raw, _ := os.ReadFile("report.pdf")
//	doc, _ := client.Documents().Upload(ctx, "report.pdf", raw)
//
//	hits, _ := client.Search().Search(ctx, "quarterly revenue", docsift.SearchOptions{TopK: 5})
//	for _, h := range hits {
//	    fmt.Printf("%.4f %s: %s\n", h.Confidence, h.Filename, h.Snippet)
//	}
//
// The same engine is exposed over HTTP by cmd/docsift.
package docsift
