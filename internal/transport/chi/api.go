package chi

import "github.com/kailas-cloud/searchapi/internal/domain/search/result"

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeInvalidKeyword    ErrorCode = "invalid_keyword"
	CodeForbiddenKeyword  ErrorCode = "forbidden_keyword"
	CodeInvalidPeriod     ErrorCode = "invalid_period"
	CodeInvalidPagination ErrorCode = "invalid_pagination"
	CodeInvalidOption     ErrorCode = "invalid_option"
	CodeInvalidCriteria   ErrorCode = "invalid_criteria"
	CodeQueryRejected     ErrorCode = "query_rejected"
	CodeStoreUnavailable  ErrorCode = "store_unavailable"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ListResponse wraps a result list with its length.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// SearchResponse is the body of GET /api/search.
type SearchResponse = ListResponse[result.Document]

// AutocompleteResponse is the body of GET /api/autocomplete.
type AutocompleteResponse = ListResponse[result.Suggestion]

// TopSearchedResponse is the body of GET /api/topsearched.
type TopSearchedResponse = ListResponse[result.Bucket]

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string            `json:"status"`
	Checks       map[string]string `json:"checks"`
	OpenCircuits string            `json:"open_circuits,omitempty"`
	Version      string            `json:"version"`
}
