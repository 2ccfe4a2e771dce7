package search

import (
	"strings"

	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Merge flattens a hit into a document: highlighted fields take their space-joined
// fragments, every other field keeps its stored value. Field order is preserved.
func Merge(h *result.Hit) result.Document {
	stored := h.Fields()
	fields := make([]result.Field, 0, len(stored))
	for _, f := range stored {
		if frags := h.Fragments(f.Name); len(frags) > 0 {
			f.Value = strings.Join(frags, " ")
		}
		fields = append(fields, f)
	}
	return result.NewDocument(fields)
}

// MergeAll merges every hit in order.
func MergeAll(hits []result.Hit) []result.Document {
	docs := make([]result.Document, 0, len(hits))
	for i := range hits {
		docs = append(docs, Merge(&hits[i]))
	}
	return docs
}
