package health

import (
	"context"
	"strings"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the service answers but some requests will fail.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckEmpty indicates a component that works but has nothing loaded.
	CheckEmpty CheckResult = "empty"
)

// Check names.
const (
	CheckDatabase  = "database"
	CheckCircuits  = "circuits"
	CheckForbidden = "forbidden_words"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// OpenCircuits names the short-circuited operations, if any.
	OpenCircuits string
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	circuits CircuitReporter
	words    WordList
}

// New creates a Service. circuits and words can be nil.
func New(db DBPinger, circuits CircuitReporter, words WordList) *Service {
	return &Service{db: db, circuits: circuits, words: words}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult)}

	if err := s.db.Ping(ctx); err != nil {
		r.Checks[CheckDatabase] = CheckError
		r.Status = Unhealthy
	} else {
		r.Checks[CheckDatabase] = CheckOK
	}

	if s.circuits != nil {
		if open := s.circuits.OpenCircuits(); len(open) > 0 {
			r.Checks[CheckCircuits] = CheckError
			r.OpenCircuits = strings.Join(open, ",")
			r.degrade()
		} else {
			r.Checks[CheckCircuits] = CheckOK
		}
	}

	// An empty list lets every keyword through; it is reported, not failed.
	if s.words != nil {
		if s.words.Len() == 0 {
			r.Checks[CheckForbidden] = CheckEmpty
		} else {
			r.Checks[CheckForbidden] = CheckOK
		}
	}

	return r
}

func (r *Report) degrade() {
	if r.Status == Healthy {
		r.Status = Degraded
	}
}
