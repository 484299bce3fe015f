package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/metrics"
)

// Scorer is a sentiment provider using an OpenAI-compatible chat API.
// It satisfies the same contract as the local VADER scorer and can be
// swapped in via config for corpora where a lexicon model falls short.
type Scorer struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the sentiment provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

const scorePrompt = "You are a sentiment rating function. Reply with a single number " +
	"between -1.0 (most negative) and 1.0 (most positive) for the overall sentiment " +
	"of the user text. No words, no explanation, only the number."

// NewScorer creates an OpenAI-compatible sentiment provider.
func NewScorer(cfg *Config) *Scorer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	return &Scorer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: provider,
		logger:   cfg.Logger,
	}
}

// Score implements domain.SentimentScorer over a chat completion. The model
// is asked for a bare number; any other reply is a provider error, never a
// silently substituted score.
func (s *Scorer) Score(ctx context.Context, text string) (float64, error) {
	score, _, err := s.ScoreWithUsage(ctx, text)
	return score, err
}

// ScoreWithUsage is Score plus the total token count the API reports for
// the call. The budget layer uses it to meter spend.
func (s *Scorer) ScoreWithUsage(ctx context.Context, text string) (float64, int, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scorePrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens: 8,
	}

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SentimentRequestsTotal.WithLabelValues(s.provider, "error").Inc()
		metrics.SentimentErrorsTotal.WithLabelValues(s.provider, "api_error").Inc()
		return 0, 0, parseAPIError(err)
	}

	tokens := resp.Usage.TotalTokens
	if tokens > 0 {
		metrics.SentimentTokensTotal.WithLabelValues(s.provider, s.model).Add(float64(tokens))
	}

	if len(resp.Choices) == 0 {
		metrics.SentimentRequestsTotal.WithLabelValues(s.provider, "error").Inc()
		metrics.SentimentErrorsTotal.WithLabelValues(s.provider, "empty_response").Inc()
		return 0, tokens, fmt.Errorf("empty completion response: %w", domain.ErrSentiment)
	}

	score, err := parseScore(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.SentimentRequestsTotal.WithLabelValues(s.provider, "error").Inc()
		metrics.SentimentErrorsTotal.WithLabelValues(s.provider, "bad_reply").Inc()
		return 0, tokens, err
	}

	metrics.SentimentRequestsTotal.WithLabelValues(s.provider, "success").Inc()
	metrics.SentimentRequestDuration.WithLabelValues(s.provider).Observe(duration.Seconds())

	return score, tokens, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Scorer) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseScore reads the model reply as one float in [-1, 1].
func parseScore(reply string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, fmt.Errorf("parse completion %q: %w", reply, domain.ErrSentiment)
	}
	if v < -1 || v > 1 {
		return 0, fmt.Errorf("score %v out of [-1, 1]: %w", v, domain.ErrSentiment)
	}
	return v, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All failures wrap domain.ErrSentiment so the search call fails typed.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("sentiment API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, domain.ErrSentiment)
		}
		return fmt.Errorf("sentiment API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrSentiment)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("sentiment API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrSentiment)
	}

	return fmt.Errorf("sentiment request failed: %w", domain.ErrSentiment)
}

// extractDetail extracts the "detail" field from a JSON error body (some
// OpenAI-compatible gateways use it instead of the standard error object).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
