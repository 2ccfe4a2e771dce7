package domain

import "errors"

var (
	// ErrInvalidKeyword signals a malformed advanced-search keyword (e.g. an unterminated quote).
	ErrInvalidKeyword = errors.New("invalid keyword")
	// ErrInvalidPeriod signals an unparseable, malformed or future-dated period.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrForbiddenKeyword signals a keyword containing a banned word.
	ErrForbiddenKeyword = errors.New("keyword contains a forbidden word")
	// ErrInvalidPagination signals a non-positive page size or page number.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrInvalidOption signals an unknown autocomplete match option.
	ErrInvalidOption = errors.New("invalid option")
	// ErrInvalidCriteria signals structurally invalid search criteria.
	ErrInvalidCriteria = errors.New("invalid criteria")

	// ErrStoreUnavailable signals a transport failure or timeout talking to the document store.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrStoreRejected signals the document store refused the query plan.
	ErrStoreRejected = errors.New("document store rejected query")
)
