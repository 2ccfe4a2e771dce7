package resilience

import "time"

// Config tunes the per-operation circuit breakers.
type Config struct {
	Enabled bool

	// MinRequests is the number of calls in a window before the ratio is evaluated.
	MinRequests uint32
	// FailureRatio trips the breaker when failures/requests reaches it.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	// HalfOpenMaxCalls is the number of probes allowed while half-open.
	HalfOpenMaxCalls uint32
	// Interval clears closed-state counts periodically; 0 never clears.
	Interval time.Duration
}

// DefaultConfig returns the breaker settings used when config leaves them empty.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		MinRequests:      10,
		FailureRatio:     0.5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxCalls: 2,
		Interval:         60 * time.Second,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.MinRequests == 0 {
		out.MinRequests = def.MinRequests
	}
	if out.FailureRatio <= 0 || out.FailureRatio > 1 {
		out.FailureRatio = def.FailureRatio
	}
	if out.OpenTimeout <= 0 {
		out.OpenTimeout = def.OpenTimeout
	}
	if out.HalfOpenMaxCalls == 0 {
		out.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	if out.Interval < 0 {
		out.Interval = 0
	}

	return out
}
