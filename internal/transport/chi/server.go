package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
	domdoc "github.com/docsift/docsift/internal/domain/document"
	"github.com/docsift/docsift/internal/domain/search/result"
	"github.com/docsift/docsift/internal/domain/upload"
	domusage "github.com/docsift/docsift/internal/domain/usage"
	documentuc "github.com/docsift/docsift/internal/usecase/document"
	healthuc "github.com/docsift/docsift/internal/usecase/health"
	searchuc "github.com/docsift/docsift/internal/usecase/search"
	usageuc "github.com/docsift/docsift/internal/usecase/usage"
)

const (
	// defaultMaxTopK bounds the top_k search parameter unless overridden.
	defaultMaxTopK = 100

	// previewLimit caps the text preview in metadata responses, in runes.
	previewLimit = 500

	// maxUploadMemory bounds the in-memory portion of a multipart parse;
	// larger parts spill to temp files.
	maxUploadMemory = 32 << 20
)

// Error codes returned in the error envelope.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeDocumentNotFound = "document_not_found"
	codeInvalidPDF       = "invalid_pdf"
	codeEmptyPDF         = "empty_pdf"
	codeFileTooLarge     = "file_too_large"
	codeVectorization    = "vectorization_failed"
	codeSentiment        = "sentiment_failed"
	codeSentimentQuota   = "sentiment_quota_exceeded"
	codeUnauthorized     = "unauthorized"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the document search API over HTTP.
type Server struct {
	documents     *documentuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	usage         *usageuc.Service
	logger        *zap.Logger
	maxTopK       int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	usage *usageuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents: documents,
		search:    search,
		health:    health,
		usage:     usage,
		logger:    logger,
		maxTopK:   defaultMaxTopK,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidPDF, http.StatusBadRequest, codeInvalidPDF),
		sentinelHandler(domain.ErrEmptyPDF, http.StatusBadRequest, codeEmptyPDF),
		sentinelHandler(domain.ErrFileTooLarge, http.StatusBadRequest, codeFileTooLarge),
		sentinelHandler(domain.ErrVectorization, http.StatusInternalServerError, codeVectorization),
		sentinelHandler(domain.ErrSentimentQuota, http.StatusPaymentRequired, codeSentimentQuota),
		sentinelHandler(domain.ErrSentiment, http.StatusInternalServerError, codeSentiment),
	}
	return s
}

// WithMaxTopK overrides the upper bound accepted for the top_k parameter.
func (s *Server) WithMaxTopK(n int) *Server {
	if n > 0 {
		s.maxTopK = n
	}
	return s
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/upload", s.UploadDocuments)
	r.Post("/search", s.SearchDocuments)
	r.Get("/pdf/{id}", s.GetDocument)
	r.Delete("/pdf/{id}", s.DeleteDocument)
	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// UploadDocuments handles POST /upload. Files arrive as multipart parts under
// the "files" field; processing is per-file, so one bad file yields an error
// entry without aborting the rest of the batch.
func (s *Server) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		// Single-file clients send the part under "file".
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "No files provided")
		return
	}
	if limit := s.documents.MaxUploadFiles(); len(headers) > limit {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("too many files: got %d, maximum is %d", len(headers), limit))
		return
	}

	files := make([]documentuc.File, 0, len(headers))
	for _, h := range headers {
		data, err := readPart(h)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest,
				fmt.Sprintf("Read file %q: %s", h.Filename, err))
			return
		}
		files = append(files, documentuc.File{Filename: h.Filename, Data: data})
	}

	outcomes, err := s.documents.UploadAll(r.Context(), files)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := uploadResponseFromOutcomes(outcomes)
	status := http.StatusOK
	if len(resp.Uploaded) == 0 {
		// Nothing was stored; the batch as a whole is a client error.
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

// SearchDocuments handles POST /search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Search query cannot be empty")
		return
	}

	topK := 0
	if req.TopK != nil {
		if *req.TopK < 1 || *req.TopK > s.maxTopK {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				fmt.Sprintf("top_k must be between 1 and %d", s.maxTopK))
			return
		}
		topK = *req.TopK
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())

	results, err := s.search.Search(ctx, req.Query, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToDTO(&results[i])
	}

	setScoringHeaders(w, usage)
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Results: items,
		Count:   len(items),
	})
}

// GetDocument handles GET /pdf/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(&doc))
}

// DeleteDocument handles DELETE /pdf/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetUsage handles GET /usage. The period query parameter selects the
// aggregation window (day, month, total); month is the default.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := domusage.PeriodMonth
	switch r.URL.Query().Get("period") {
	case "", "month":
	case "day":
		period = domusage.PeriodDay
	case "total":
		period = domusage.PeriodTotal
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			`period must be "day", "month" or "total"`)
		return
	}

	report := s.usage.GetReport(r.Context(), period)

	resp := UsageResponse{
		Period: string(report.Period()),
		Usage: UsageMetrics{
			ScoringRequests: report.Metrics().ScoringRequests(),
			Tokens:          report.Metrics().Tokens(),
		},
		Budget: BudgetStatus{
			TokensLimit:     report.Budget().TokensLimit(),
			TokensRemaining: report.Budget().TokensRemaining(),
			IsExhausted:     report.Budget().IsExhausted(),
		},
	}

	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}

	if report.Budget().ResetsAt() > 0 {
		resetsAt := time.UnixMilli(report.Budget().ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read part: %w", err)
	}
	return data, nil
}

func setScoringHeaders(w http.ResponseWriter, usage *domain.ScoringUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Sentiment-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrInvalidInput,
		domain.ErrInvalidPDF,
		domain.ErrEmptyPDF,
		domain.ErrFileTooLarge,
		domain.ErrVectorization,
		domain.ErrSentimentQuota,
		domain.ErrSentiment,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// SearchResultItem is one ranked hit in a search response.
type SearchResultItem struct {
	PDFID           string  `json:"pdf_id"`
	Filename        string  `json:"filename"`
	ConfidenceScore float64 `json:"confidence_score"`
	SentimentScore  float64 `json:"sentiment_score"`
	Snippet         string  `json:"snippet"`
}

// SearchResponse is the POST /search reply. Results is always present, empty
// when nothing matched.
type SearchResponse struct {
	Query   string             `json:"query"`
	Results []SearchResultItem `json:"results"`
	Count   int                `json:"count"`
}

// UploadedItem reports one successfully stored file.
type UploadedItem struct {
	PDFID    string `json:"pdf_id"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// UploadErrorItem reports one rejected file.
type UploadErrorItem struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResponse is the POST /upload reply; partial success is normal.
type UploadResponse struct {
	Uploaded []UploadedItem    `json:"uploaded"`
	Errors   []UploadErrorItem `json:"errors"`
}

// DocumentResponse is the GET /pdf/{id} reply.
type DocumentResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	UploadTime  string `json:"upload_time"`
	FileSize    int64  `json:"file_size"`
	TextPreview string `json:"text_preview"`
}

// UsageMetrics reports request and token counts for one period.
type UsageMetrics struct {
	ScoringRequests int `json:"scoring_requests"`
	Tokens          int `json:"tokens"`
}

// BudgetStatus reports the sentiment provider token budget state.
type BudgetStatus struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// UsageResponse is the GET /usage reply. Period boundaries are omitted for
// the total period, which has none.
type UsageResponse struct {
	Period        string       `json:"period"`
	Usage         UsageMetrics `json:"usage"`
	Budget        BudgetStatus `json:"budget"`
	PeriodStartAt *time.Time   `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time   `json:"period_end_at,omitempty"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the envelope for all non-2xx replies.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func searchResultToDTO(r *result.Result) SearchResultItem {
	return SearchResultItem{
		PDFID:           r.PDFID(),
		Filename:        r.Filename(),
		ConfidenceScore: r.Confidence(),
		SentimentScore:  r.Sentiment(),
		Snippet:         r.Snippet(),
	}
}

func documentToDTO(doc *domdoc.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID(),
		Filename:    doc.Filename(),
		UploadTime:  doc.UploadedAt().UTC().Format(time.RFC3339),
		FileSize:    doc.Size(),
		TextPreview: textPreview(doc.Text(), previewLimit),
	}
}

func uploadResponseFromOutcomes(outcomes []upload.Result) UploadResponse {
	resp := UploadResponse{
		Uploaded: make([]UploadedItem, 0, len(outcomes)),
		Errors:   make([]UploadErrorItem, 0),
	}
	for _, o := range outcomes {
		if o.Status() == upload.StatusOK {
			resp.Uploaded = append(resp.Uploaded, UploadedItem{
				PDFID:    o.ID(),
				Filename: o.Filename(),
				Message:  "Successfully uploaded and processed",
			})
			continue
		}
		resp.Errors = append(resp.Errors, UploadErrorItem{
			Filename: o.Filename(),
			Error:    safeDomainMessage(o.Err()),
		})
	}
	return resp
}

// textPreview truncates s to at most limit runes, appending "..." when
// anything was cut.
func textPreview(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
