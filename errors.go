package searchapi

import "github.com/kailas-cloud/searchapi/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidKeyword    = domain.ErrInvalidKeyword
	ErrInvalidPeriod     = domain.ErrInvalidPeriod
	ErrForbiddenKeyword  = domain.ErrForbiddenKeyword
	ErrInvalidPagination = domain.ErrInvalidPagination
	ErrInvalidOption     = domain.ErrInvalidOption
	ErrInvalidCriteria   = domain.ErrInvalidCriteria
	ErrStoreUnavailable  = domain.ErrStoreUnavailable
	ErrStoreRejected     = domain.ErrStoreRejected
)
