package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/criteria"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/logger"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
	"github.com/kailas-cloud/searchapi/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Searcher runs document searches.
type Searcher interface {
	Search(ctx context.Context, c criteria.Criteria) ([]result.Document, error)
}

// Suggester produces autocomplete suggestions.
type Suggester interface {
	Suggest(ctx context.Context, keyword, option string) ([]result.Suggestion, error)
}

// TopSearcher reports popular keywords.
type TopSearcher interface {
	Top(ctx context.Context, period string, n int) ([]result.Bucket, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Paging bounds the page size accepted from clients.
type Paging struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Server serves the search HTTP API.
type Server struct {
	search        Searcher
	autocomplete  Suggester
	topSearched   TopSearcher
	health        HealthChecker
	paging        Paging
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	autocomplete Suggester,
	topSearched TopSearcher,
	health HealthChecker,
	paging Paging,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if paging.MaxPageSize <= 0 || paging.MaxPageSize > criteria.MaxPageSize {
		paging.MaxPageSize = criteria.MaxPageSize
	}
	if paging.DefaultPageSize <= 0 {
		paging.DefaultPageSize = 10
	}
	s := &Server{
		search:       search,
		autocomplete: autocomplete,
		topSearched:  topSearched,
		health:       health,
		paging:       paging,
		logger:       log,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrForbiddenKeyword, http.StatusBadRequest, CodeForbiddenKeyword),
		sentinelHandler(domain.ErrInvalidKeyword, http.StatusBadRequest, CodeInvalidKeyword),
		sentinelHandler(domain.ErrInvalidPeriod, http.StatusBadRequest, CodeInvalidPeriod),
		sentinelHandler(domain.ErrInvalidPagination, http.StatusBadRequest, CodeInvalidPagination),
		sentinelHandler(domain.ErrInvalidOption, http.StatusBadRequest, CodeInvalidOption),
		sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, CodeInvalidCriteria),
		sentinelHandler(domain.ErrStoreRejected, http.StatusUnprocessableEntity, CodeQueryRejected),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable),
	}
	return s
}

// SearchDocuments handles GET /api/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	c, err := s.criteriaFromQuery(r)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	docs, err := s.search.Search(r.Context(), c)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse(newList(docs)))
}

// Autocomplete handles GET /api/autocomplete.
func (s *Server) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kw, err := bindString(q, paramKeyword, true)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}
	option, err := bindString(q, paramOption, true)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	suggestions, err := s.autocomplete.Suggest(r.Context(), kw, option)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, AutocompleteResponse(newList(suggestions)))
}

// TopSearched handles GET /api/topsearched.
func (s *Server) TopSearched(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := bindString(q, paramPeriod, false)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}
	n, err := bindInt(q, paramTopN, 0)
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	buckets, err := s.topSearched.Top(r.Context(), period, n)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, TopSearchedResponse(newList(buckets)))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:       string(report.Status),
		Checks:       checks,
		OpenCircuits: report.OpenCircuits,
		Version:      version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) criteriaFromQuery(r *http.Request) (criteria.Criteria, error) {
	q := r.URL.Query()

	fields, err := bindList[string](q, paramFields)
	if err != nil {
		return criteria.Criteria{}, err
	}
	categories, err := bindList[string](q, paramCategories)
	if err != nil {
		return criteria.Criteria{}, err
	}
	caps, err := bindList[int](q, paramCaps)
	if err != nil {
		return criteria.Criteria{}, err
	}
	pageSize, err := bindInt(q, paramPageSize, s.paging.DefaultPageSize)
	if err != nil {
		return criteria.Criteria{}, err
	}
	page, err := bindInt(q, paramPage, 1)
	if err != nil {
		return criteria.Criteria{}, err
	}
	if pageSize > s.paging.MaxPageSize {
		return criteria.Criteria{}, fmt.Errorf("%w: %s must be at most %d",
			domain.ErrInvalidPagination, paramPageSize, s.paging.MaxPageSize)
	}

	c, err := criteria.New(
		trimAll(fields),
		q.Get(paramPeriod),
		q.Get(paramKeyword),
		pageSize, page,
		strings.TrimSpace(q.Get(paramSort)),
		trimAll(categories),
		caps,
	)
	if err != nil {
		return criteria.Criteria{}, fmt.Errorf("build criteria: %w", err)
	}
	return c, nil
}

func trimAll(vs []string) []string {
	out := vs[:0]
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// clientSentinels are the errors whose message is safe to return verbatim.
var clientSentinels = []error{
	domain.ErrForbiddenKeyword,
	domain.ErrInvalidKeyword,
	domain.ErrInvalidPeriod,
	domain.ErrInvalidPagination,
	domain.ErrInvalidOption,
	domain.ErrInvalidCriteria,
	domain.ErrStoreRejected,
	domain.ErrStoreUnavailable,
}

// safeDomainMessage returns a client message without exposing internals. Validation
// failures keep their detail (positions, offending values); store failures do not.
func safeDomainMessage(err error) string {
	for _, s := range clientSentinels {
		if !errors.Is(err, s) {
			continue
		}
		if errors.Is(err, domain.ErrStoreRejected) || errors.Is(err, domain.ErrStoreUnavailable) {
			return s.Error()
		}
		return validationDetail(err, s)
	}
	return "internal error"
}

// validationDetail trims wrapping prefixes so the message starts at the sentinel.
func validationDetail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleRequestError(w http.ResponseWriter, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter "+pe.name)
		return
	}
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request")
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContextOr(ctx, s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
