package docsift

import "go.uber.org/zap"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver   string // "badger" or "redis"
	path     string
	inMemory bool
	addrs    []string
	password string

	scorer Scorer

	maxFeatures    int
	maxFileSize    int64
	maxUploadFiles int

	logger *zap.Logger
}

// WithBadger stores documents in an embedded Badger database at path.
// No external services are required.
func WithBadger(path string) Option {
	return func(c *clientConfig) {
		c.driver = "badger"
		c.path = path
	}
}

// WithBadgerInMemory keeps all documents in process memory.
// Data is lost on Close; intended for tests and short-lived tooling.
func WithBadgerInMemory() Option {
	return func(c *clientConfig) {
		c.driver = "badger"
		c.inMemory = true
	}
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithScorer sets the sentiment provider used for search snippets.
// Defaults to the built-in VADER scorer, which runs in-process.
func WithScorer(s Scorer) Option {
	return func(c *clientConfig) {
		c.scorer = s
	}
}

// WithMaxFeatures caps the ranking vocabulary size. Default: 10000.
func WithMaxFeatures(n int) Option {
	return func(c *clientConfig) {
		c.maxFeatures = n
	}
}

// WithMaxFileSize caps the size of a single uploaded PDF in bytes.
// Default: 10 MiB.
func WithMaxFileSize(n int64) Option {
	return func(c *clientConfig) {
		c.maxFileSize = n
	}
}

// WithMaxUploadFiles caps the number of files per UploadAll batch.
// Default: 20.
func WithMaxUploadFiles(n int) Option {
	return func(c *clientConfig) {
		c.maxUploadFiles = n
	}
}

// WithLogger enables structured logging for store internals.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
