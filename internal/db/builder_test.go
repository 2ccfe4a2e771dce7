package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("category").
		Numeric("views").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "category" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want category TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "views" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want views NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_DocumentSchema(t *testing.T) {
	idx := NewIndex("articles").
		Prefix("article:").
		WeightedText("title", 2).
		Text("body").
		TagWithOpts("category", ",", true).
		SortableNumeric("writeDate").
		MustBuild()

	if len(idx.Fields) != 4 {
		t.Fatalf("fields count = %d, want 4", len(idx.Fields))
	}
	if idx.Fields[0].Weight != 2 {
		t.Errorf("title weight = %v, want 2", idx.Fields[0].Weight)
	}
	if !idx.Fields[2].TagCaseSensitive || idx.Fields[2].TagSeparator != "," {
		t.Errorf("category opts = %+v", idx.Fields[2])
	}
	if !idx.Fields[3].Sortable {
		t.Error("writeDate should be sortable")
	}
}

func TestIndexBuilder_EmptyName(t *testing.T) {
	_, err := NewIndex("").Tag("x").Build()
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestIndexBuilder_NoFields(t *testing.T) {
	_, err := NewIndex("idx").Build()
	if err == nil {
		t.Fatal("expected error for no fields")
	}
}

func TestIndexBuilder_DuplicateField(t *testing.T) {
	_, err := NewIndex("idx").Tag("a").Text("a").Build()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestIndexBuilder_NegativeWeight(t *testing.T) {
	_, err := NewIndex("idx").WeightedText("title", -1).Build()
	if err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("searchlog").
		Prefix("searchlog:").
		Tag("keyword").
		SortableNumeric("searchedDate").
		MustBuild()

	got := idx.String()
	want := "FT.CREATE searchlog ON HASH PREFIX searchlog: SCHEMA keyword TAG searchedDate NUMERIC SORTABLE"
	if got != want {
		t.Errorf("String() = %q\nwant       %q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"articles", true},
		{"idx:search-log_2", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.in); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
