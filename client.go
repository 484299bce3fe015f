package docsift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/db"
	dbBadger "github.com/docsift/docsift/internal/db/badger"
	dbRedis "github.com/docsift/docsift/internal/db/redis"
	"github.com/docsift/docsift/internal/domain"
	domdoc "github.com/docsift/docsift/internal/domain/document"
	"github.com/docsift/docsift/internal/domain/search/result"
	"github.com/docsift/docsift/internal/domain/upload"
	"github.com/docsift/docsift/internal/extract"
	documentrepo "github.com/docsift/docsift/internal/repository/document"
	"github.com/docsift/docsift/internal/sentiment"
	documentuc "github.com/docsift/docsift/internal/usecase/document"
	healthuc "github.com/docsift/docsift/internal/usecase/health"
	searchuc "github.com/docsift/docsift/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Narrow views of the internal services, swappable in tests.
type documentUseCase interface {
	Upload(ctx context.Context, filename string, data []byte) (domdoc.Document, error)
	UploadAll(ctx context.Context, files []documentuc.File) ([]upload.Result, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type searchUseCase interface {
	Search(ctx context.Context, query string, topK int) ([]result.Result, error)
}

// Client is the docsift SDK entry point.
type Client struct {
	store     db.Store
	docSvc    documentUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
}

// New creates a docsift Client over an embedded or remote document store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("docsift: storage required (use WithBadger, WithBadgerInMemory or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docsift: store not ready: %w", err)
	}

	return wireClient(store, cfg)
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "badger":
		logger := cfg.logger
		if logger == nil {
			logger = zap.NewNop()
		}
		s, err := dbBadger.NewStore(dbBadger.Config{
			Path:     cfg.path,
			InMemory: cfg.inMemory,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("docsift: create badger store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("docsift: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("docsift: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	docRepo := documentrepo.New(store)

	extractor := extract.NewExtractor()
	if cfg.maxFileSize > 0 {
		extractor = extractor.WithMaxFileSize(cfg.maxFileSize)
	}

	// Скоринг: VADER по умолчанию, работает без внешних сервисов.
	var scorer domain.SentimentScorer = sentiment.NewScorer()
	if cfg.scorer != nil {
		scorer = cfg.scorer
	}

	docSvc := documentuc.New(docRepo, extractor)
	if cfg.maxUploadFiles > 0 {
		docSvc = docSvc.WithMaxUploadFiles(cfg.maxUploadFiles)
	}

	searchSvc := searchuc.New(docRepo, scorer)
	if cfg.maxFeatures > 0 {
		searchSvc = searchSvc.WithMaxFeatures(cfg.maxFeatures)
	}

	// Custom providers that expose a health probe get wired into Health.
	var checker healthuc.SentimentChecker
	if hc, ok := scorer.(healthuc.SentimentChecker); ok {
		checker = hc
	}

	return &Client{
		store:     store,
		docSvc:    docSvc,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, checker),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks document store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Documents returns the document management service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.docSvc}
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc}
}
