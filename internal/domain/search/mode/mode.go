package mode

// Mode is the result ranking strategy.
type Mode string

// Rank mode constants.
const (
	// Accuracy keeps relevance order and drops weakly matching documents.
	Accuracy Mode = "accuracy"
	// Latest orders by the date field, newest first.
	Latest Mode = "latest"
	// Earliest orders by the date field, oldest first.
	Earliest Mode = "earliest"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Accuracy || m == Latest || m == Earliest
}

// Parse maps a sort identifier to a Mode. Matching is exact, as sent by clients.
func Parse(s string) (Mode, bool) {
	m := Mode(s)
	return m, m.IsValid()
}
