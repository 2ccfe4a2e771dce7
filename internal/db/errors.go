package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrIndexExists = errors.New("db: index already exists")
	ErrInvalidPlan = errors.New("db: plan cannot be compiled")
	ErrRejected    = errors.New("db: command rejected by server")
)

// Op constants map to Redis command names for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpHSet        = "HSET"
	OpPing        = "PING"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
