package result

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Field is a single stored name/value pair.
type Field struct {
	Name  string
	Value string
}

// Hit is a single raw document returned by the store, fields in store order.
type Hit struct {
	id         string
	score      float64
	category   string
	fields     []Field
	highlights map[string][]string
}

// NewHit creates a hit. highlights maps a field name to its marked-up fragments.
func NewHit(id string, score float64, category string, fields []Field, highlights map[string][]string) Hit {
	return Hit{
		id:         id,
		score:      score,
		category:   category,
		fields:     fields,
		highlights: highlights,
	}
}

// ID returns the store key of the document.
func (h *Hit) ID() string { return h.id }

// Score returns the relevance score (0 when the store did not score).
func (h *Hit) Score() float64 { return h.score }

// Category returns the value of the category field.
func (h *Hit) Category() string { return h.category }

// Fields returns the stored fields in store order.
func (h *Hit) Fields() []Field { return h.fields }

// Fragments returns the highlighted fragments for a field.
func (h *Hit) Fragments(name string) []string { return h.highlights[name] }

// Document is a flattened, client-facing record. It marshals as a JSON object
// whose keys keep the insertion order.
type Document struct {
	fields []Field
}

// NewDocument creates a document from ordered fields.
func NewDocument(fields []Field) Document {
	return Document{fields: fields}
}

// Fields returns the document fields in order.
func (d Document) Fields() []Field { return slices.Clone(d.fields) }

// Get returns the value of the named field.
func (d Document) Get(name string) (string, bool) {
	for _, f := range d.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Len returns the number of fields.
func (d Document) Len() int { return len(d.fields) }

// MarshalJSON encodes the document as an ordered JSON object. Markup in values
// is kept literal so highlight tags survive.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(f.Name); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(f.Value); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// trimNewline drops the terminator json.Encoder appends after each value.
func trimNewline(buf *bytes.Buffer) {
	buf.Truncate(buf.Len() - 1)
}

// Suggestion is an autocomplete candidate with its match frequency.
type Suggestion struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Bucket is one aggregation bucket: a key and its document count.
type Bucket struct {
	Key   string `json:"keyword"`
	Count int64  `json:"count"`
}
