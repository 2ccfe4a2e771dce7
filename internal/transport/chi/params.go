package chi

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// Query parameter names.
const (
	paramFields     = "fieldDesignation"
	paramPeriod     = "period"
	paramKeyword    = "keyword"
	paramPageSize   = "maxDocument"
	paramPage       = "nowPage"
	paramSort       = "sortOption"
	paramCategories = "categories"
	paramCaps       = "categoryMaxCounts"
	paramOption     = "option"
	paramTopN       = "N"
)

// paramError is a query parameter that failed to bind.
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v", e.name, e.err)
}

func (e *paramError) Unwrap() error { return e.err }

// bindList binds a form list given either as repeated keys or as one comma-separated value.
func bindList[T any](q url.Values, name string) ([]T, error) {
	explode := len(q[name]) > 1
	var dest *[]T
	if err := runtime.BindQueryParameter("form", explode, false, name, q, &dest); err != nil {
		return nil, &paramError{name: name, err: err}
	}
	if dest == nil {
		return nil, nil
	}
	return *dest, nil
}

// bindInt binds an optional integer, returning def when absent.
func bindInt(q url.Values, name string, def int) (int, error) {
	var dest *int
	if err := runtime.BindQueryParameter("form", true, false, name, q, &dest); err != nil {
		return 0, &paramError{name: name, err: err}
	}
	if dest == nil {
		return def, nil
	}
	return *dest, nil
}

// bindString binds a string. A required parameter must be present but may be empty.
func bindString(q url.Values, name string, required bool) (string, error) {
	if required {
		if _, ok := q[name]; !ok {
			return "", &paramError{name: name, err: fmt.Errorf("query parameter is required")}
		}
	}
	var dest *string
	if err := runtime.BindQueryParameter("form", true, false, name, q, &dest); err != nil {
		return "", &paramError{name: name, err: err}
	}
	if dest == nil {
		return "", nil
	}
	return *dest, nil
}
