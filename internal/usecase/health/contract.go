package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CircuitReporter lists store operations currently short-circuited.
type CircuitReporter interface {
	OpenCircuits() []string
}

// WordList reports the size of the loaded forbidden-word list.
type WordList interface {
	Len() int
}
