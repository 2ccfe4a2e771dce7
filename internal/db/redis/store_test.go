package redis

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/domain/search/mode"
	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrRejected) {
		t.Error("transport failure must not be classified as rejection")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "searchlog:1"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "searchlog:1", map[string]string{"keyword": "go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "mykey", map[string]string{"f": "v"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestHSetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.Result(mock.RedisInt64(2)),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"f1": "v1"}},
		{Key: "k2", Fields: map[string]string{"f2": "v2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_RejectedItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.Result(mock.RedisError("OOM command not allowed")),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"f1": "v1"}},
		{Key: "k2", Fields: map[string]string{"f2": "v2"}},
	})
	if !errors.Is(err, db.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	def := db.NewIndex("articles").
		Prefix("article:").
		WeightedText("title", 2).
		Tag("category").
		SortableNumeric("writeDate").
		MustBuild()

	want := []string{
		"FT.CREATE", "articles", "ON", "HASH", "PREFIX", "1", "article:", "SCHEMA",
		"title", "TEXT", "WEIGHT", "2",
		"category", "TAG",
		"writeDate", "NUMERIC", "SORTABLE",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), db.NewIndex("idx").Text("body").MustBuild())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name    string
		reply   rueidis.RedisResult
		want    bool
		wantErr bool
	}{
		{"present", mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("idx"))), true, false},
		{"unknown", mock.Result(mock.RedisError("Unknown Index name")), false, false},
		{"transport", mock.ErrorResult(context.DeadlineExceeded), false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
				Return(tc.reply)

			s := NewStoreForTest(c)
			got, err := s.IndexExists(context.Background(), "idx")
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("exists = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildFieldArgs_TagOptions(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{
		Name: "keyword", Type: db.IndexFieldTag, TagSeparator: "|", TagCaseSensitive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"keyword", "TAG", "SEPARATOR", "|", "CASESENSITIVE"}
	if !slices.Equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

// --- search.go: query compilation ---

func TestCompileQuery_Empty(t *testing.T) {
	got, err := compileQuery(plan.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "*" {
		t.Errorf("query = %q, want *", got)
	}
}

func TestCompileQuery_Composite(t *testing.T) {
	p := plan.New().
		WithMust(plan.Clause{Fields: []string{"title"}, Text: "cat", Boost: 2}).
		WithShould(plan.Clause{Fields: []string{plan.AllFields}, Text: "bird", Boost: 2}).
		WithMustNot(plan.Clause{Fields: []string{"title"}, Text: "dog", Boost: 2}).
		WithDateFilter(plan.DateFilter{Field: "writeDate", From: "2024.01.01", To: "2024.01.31", Format: "yyyy.MM.dd"})

	got, err := compileQuery(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(@title:(cat)=>{$weight:2;}) ~((bird)=>{$weight:2;}) -(@title:(dog)) @writeDate:[20240101 20240131]`
	if got != want {
		t.Errorf("query =\n  %s\nwant\n  %s", got, want)
	}
}

func TestCompileQuery_ShouldOnlyIsDisjunction(t *testing.T) {
	p := plan.New().WithShould(
		plan.Clause{Fields: []string{"title"}, Text: "cat", Boost: 1},
		plan.Clause{Fields: []string{"body"}, Text: "cat", Boost: 1},
	)
	got, err := compileQuery(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `((@title:(cat)) | (@body:(cat)))`; got != want {
		t.Errorf("query = %s, want %s", got, want)
	}
}

func TestCompileQuery_DateFilterOnly(t *testing.T) {
	p := plan.New().WithDateFilter(plan.DateFilter{Field: "writeDate", From: "2024.06.03", To: "2024.06.10"})
	got, err := compileQuery(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `@writeDate:[20240603 20240610]`; got != want {
		t.Errorf("query = %s, want %s", got, want)
	}
}

func TestCompileQuery_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    plan.Plan
	}{
		{"bad field", plan.New().WithMust(plan.Clause{Fields: []string{"ti tle"}, Text: "x"})},
		{"empty text", plan.New().WithMust(plan.Clause{Text: "  "})},
		{"bad date", plan.New().WithDateFilter(plan.DateFilter{Field: "writeDate", From: "2024-01-01"})},
		{"bad format", plan.New().WithDateFilter(plan.DateFilter{Field: "writeDate", From: "2024.01.01", Format: "dd/MM"})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compileQuery(tc.p)
			if !errors.Is(err, db.ErrInvalidPlan) {
				t.Errorf("err = %v, want ErrInvalidPlan", err)
			}
		})
	}
}

func TestMatchExpr(t *testing.T) {
	tests := []struct {
		c    plan.Clause
		want string
	}{
		{plan.Clause{Text: "c++"}, `c\+\+`},
		{plan.Clause{Text: "e-mail"}, `e\-mail`},
		{plan.Clause{Text: `new "york"`, Match: plan.Phrase}, `"new \"york\""`},
		{plan.Clause{Text: "serch", Match: plan.Fuzzy}, `%serch%`},
		{plan.Clause{Text: "sea", Match: plan.Prefix}, `sea*`},
		{plan.Clause{Text: "rch", Match: plan.Suffix}, `*rch`},
		{plan.Clause{Text: "ear", Match: plan.Infix}, `*ear*`},
	}
	for _, tc := range tests {
		if got := matchExpr(tc.c); got != tc.want {
			t.Errorf("matchExpr(%q, %s) = %s, want %s", tc.c.Text, tc.c.Match, got, tc.want)
		}
	}
}

func TestBuildSearchArgs_FullPlan(t *testing.T) {
	p := plan.New().
		WithMust(plan.Clause{Fields: []string{plan.AllFields}, Text: "go", Boost: 2}).
		WithPage(10, 5).
		WithSort(plan.Sort{Field: "writeDate", Descending: true}).
		WithHighlight(plan.Highlight{
			Fields: []string{plan.AllFields}, PreTag: "<b>", PostTag: "</b>", FragmentSize: 10000,
		})

	args, err := buildSearchArgs(&db.PlanQuery{IndexName: "articles", Plan: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"articles", "((go)=>{$weight:2;})", "WITHSCORES",
		"HIGHLIGHT", "TAGS", "<b>", "</b>",
		"SORTBY", "writeDate", "DESC",
		"LIMIT", "10", "5",
		"DIALECT", "2",
	}
	if !slices.Equal(args, want) {
		t.Errorf("args =\n  %q\nwant\n  %q", args, want)
	}
}

func TestBuildSearchArgs_Fragments(t *testing.T) {
	p := plan.New().
		WithMust(plan.Clause{Fields: []string{"body"}, Text: "go"}).
		WithHighlight(plan.Highlight{Fragments: 3, FragmentSize: 20, RequireFieldMatch: true})

	args, err := buildSearchArgs(&db.PlanQuery{IndexName: "idx", Plan: p, ReturnFields: []string{"body"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"idx", "(@body:(go))", "WITHSCORES",
		"RETURN", "1", "body",
		"SUMMARIZE", "FIELDS", "1", "body", "FRAGS", "3", "LEN", "20", "SEPARATOR", fragmentSeparator,
		"HIGHLIGHT", "FIELDS", "1", "body", "TAGS", "<b>", "</b>",
		"DIALECT", "2",
	}
	if !slices.Equal(args, want) {
		t.Errorf("args =\n  %q\nwant\n  %q", args, want)
	}
}

func TestBuildSearchArgs_BadSortField(t *testing.T) {
	p := plan.New().WithSort(plan.Sort{Field: "write date"})
	if _, err := buildSearchArgs(&db.PlanQuery{IndexName: "idx", Plan: p}); !errors.Is(err, db.ErrInvalidPlan) {
		t.Errorf("err = %v, want ErrInvalidPlan", err)
	}
}

// --- search.go: round trip ---

func searchReply() rueidis.RedisResult {
	return mock.Result(mock.RedisArray(
		mock.RedisInt64(2),
		mock.RedisString("article:1"),
		mock.RedisString("3.5"),
		mock.RedisArray(
			mock.RedisString("title"), mock.RedisString("<b>Go</b> tips"),
			mock.RedisString("category"), mock.RedisString("news"),
		),
		mock.RedisString("article:2"),
		mock.RedisString("1.25"),
		mock.RedisArray(
			mock.RedisString("title"), mock.RedisString("Rust"),
			mock.RedisString("category"), mock.RedisString("blog"),
		),
	))
}

func TestSearch_ParsesHitsAndHighlights(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "articles"
		})).
		Return(searchReply())
	c.EXPECT().
		DoMulti(gomock.Any(), mock.Match("HMGET", "article:1", "title")).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisArray(mock.RedisString("Go tips")))})

	p := plan.New().
		WithMust(plan.Clause{Text: "go"}).
		WithHighlight(plan.Highlight{Fields: []string{plan.AllFields}, PreTag: "<b>", PostTag: "</b>"})

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "articles", Plan: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("total=%d entries=%d, want 2/2", res.Total, len(res.Entries))
	}

	first := res.Entries[0]
	if first.Key != "article:1" || first.Score != 3.5 {
		t.Errorf("first = %s/%v", first.Key, first.Score)
	}
	if first.Fields[0].Name != "title" || first.Fields[0].Value != "Go tips" {
		t.Errorf("title field not restored: %+v", first.Fields[0])
	}
	if first.Fields[1].Name != "category" {
		t.Errorf("field order not preserved: %+v", first.Fields)
	}
	if got := first.Highlights["title"]; len(got) != 1 || got[0] != "<b>Go</b> tips" {
		t.Errorf("title highlights = %v", got)
	}
	if res.Entries[1].Highlights != nil {
		t.Errorf("unmatched hit has highlights: %v", res.Entries[1].Highlights)
	}
}

func TestSearch_MinScoreFloor(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(searchReply())

	p := plan.New().
		WithMust(plan.Clause{Text: "go"}).
		WithRank(plan.Rank{Mode: mode.Accuracy, ScoreMode: plan.ScoreMultiply, MinScore: 2})

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "articles", Plan: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Key != "article:1" {
		t.Errorf("entries = %+v, want only article:1", res.Entries)
	}
}

func TestSearch_Summarized(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.RedisArray(
		mock.RedisInt64(1),
		mock.RedisString("a:1"),
		mock.RedisString("1"),
		mock.RedisArray(
			mock.RedisString("body"),
			mock.RedisString("first <b>go</b>"+fragmentSeparator+"second <b>go</b>"+fragmentSeparator),
		),
	)))
	c.EXPECT().
		DoMulti(gomock.Any(), mock.Match("HMGET", "a:1", "body")).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisArray(mock.RedisString("first go and more second go")))})

	p := plan.New().
		WithMust(plan.Clause{Text: "go"}).
		WithHighlight(plan.Highlight{Fragments: 2})

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "a", Plan: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frags := res.Entries[0].Highlights["body"]
	if !slices.Equal(frags, []string{"first <b>go</b>", "second <b>go</b>"}) {
		t.Errorf("fragments = %q", frags)
	}
	if got := res.Entries[0].Fields[0].Value; got != "first go and more second go" {
		t.Errorf("stored body = %q, want the full stored value", got)
	}
}

func TestSearch_StoredMarkupIsNotAHighlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	const body = "use <b>bold</b> tags in html"
	c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.RedisArray(
		mock.RedisInt64(1),
		mock.RedisString("a:1"),
		mock.RedisString("1"),
		mock.RedisArray(mock.RedisString("body"), mock.RedisString(body)),
	)))
	c.EXPECT().
		DoMulti(gomock.Any(), mock.Match("HMGET", "a:1", "body")).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisArray(mock.RedisString(body)))})

	p := plan.New().
		WithMust(plan.Clause{Fields: []string{"title"}, Text: "go"}).
		WithHighlight(plan.Highlight{Fields: []string{plan.AllFields}})

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "a", Plan: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := res.Entries[0]
	if e.Fields[0].Value != body {
		t.Errorf("stored body = %q, want %q", e.Fields[0].Value, body)
	}
	if e.Highlights != nil {
		t.Errorf("unmatched value reported as highlight: %v", e.Highlights)
	}
}

func TestSearch_HighlightWithoutStoredCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(searchReply())
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(context.DeadlineExceeded)})

	p := plan.New().
		WithMust(plan.Clause{Text: "go"}).
		WithHighlight(plan.Highlight{Fields: []string{plan.AllFields}})

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "articles", Plan: p})
	if err != nil {
		t.Fatalf("failed stored read must not fail the search: %v", err)
	}
	first := res.Entries[0]
	if first.Fields[0].Value != "Go tips" {
		t.Errorf("title = %q, want tags stripped", first.Fields[0].Value)
	}
	if got := first.Highlights["title"]; len(got) != 1 || got[0] != "<b>Go</b> tips" {
		t.Errorf("title highlights = %v", got)
	}
}

func TestSearch_MinScoreFloorAfterLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return slices.Contains(cmd, "LIMIT") && cmd[slices.Index(cmd, "LIMIT")+2] == "2"
		})).
		Return(searchReply())

	p := plan.New().
		WithMust(plan.Clause{Text: "go"}).
		WithPage(0, 2).
		WithRank(plan.Rank{Mode: mode.Accuracy, ScoreMode: plan.ScoreMultiply, MinScore: 2})

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "articles", Plan: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The page asked for two hits; the floor drops one after the store paged.
	if len(res.Entries) != 1 || res.Total != 2 {
		t.Errorf("entries = %d total = %d, want a short page of 1 out of 2", len(res.Entries), res.Total)
	}
}

func TestSearch_ZeroHits(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "idx", Plan: plan.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(res.Entries))
	}
}

func TestSearch_ErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		reply        rueidis.RedisResult
		wantRejected bool
	}{
		{"syntax error", mock.Result(mock.RedisError("Syntax error at offset 3")), true},
		{"timeout", mock.ErrorResult(context.DeadlineExceeded), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(tc.reply)

			s := NewStoreForTest(c)
			_, err := s.Search(context.Background(), &db.PlanQuery{IndexName: "idx", Plan: plan.New()})
			if err == nil {
				t.Fatal("expected error")
			}
			if !isDBError(err) {
				t.Errorf("expected db.Error, got %T", err)
			}
			if got := errors.Is(err, db.ErrRejected); got != tc.wantRejected {
				t.Errorf("rejected = %v, want %v", got, tc.wantRejected)
			}
		})
	}
}

func TestSearch_Validation(t *testing.T) {
	s := &Store{}
	if _, err := s.Search(context.Background(), &db.PlanQuery{Plan: plan.New()}); err == nil {
		t.Error("expected error for empty index name")
	}
}

// --- aggregate.go tests ---

func TestAggregate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := []string{
		"FT.AGGREGATE", "searchlog", "@searchedDate:[20240101 20240131]",
		"GROUPBY", "1", "@keyword",
		"REDUCE", "COUNT", "0", "AS", "count",
		"SORTBY", "2", "@count", "DESC",
		"LIMIT", "0", "3",
		"DIALECT", "2",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisArray(
				mock.RedisString("keyword"), mock.RedisString("go"),
				mock.RedisString("count"), mock.RedisString("5"),
			),
			mock.RedisArray(
				mock.RedisString("keyword"), mock.RedisString("rust"),
				mock.RedisString("count"), mock.RedisString("3"),
			),
		)))

	s := NewStoreForTest(c)
	rows, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		IndexName:  "searchlog",
		DateFilter: &plan.DateFilter{Field: "searchedDate", From: "2024.01.01", To: "2024.01.31"},
		GroupBy:    "keyword",
		Limit:      3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantRows := []db.AggregateRow{{Key: "go", Count: 5}, {Key: "rust", Count: 3}}
	if !slices.Equal(rows, wantRows) {
		t.Errorf("rows = %+v, want %+v", rows, wantRows)
	}
}

func TestAggregate_AllTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.AGGREGATE" && cmd[2] == "*"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	rows, err := s.Aggregate(context.Background(), &db.AggregateQuery{IndexName: "searchlog", GroupBy: "keyword", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}

func TestAggregate_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()
	if _, err := s.Aggregate(ctx, &db.AggregateQuery{GroupBy: "k", Limit: 1}); err == nil {
		t.Error("expected error for empty index")
	}
	if _, err := s.Aggregate(ctx, &db.AggregateQuery{IndexName: "i", GroupBy: "bad field", Limit: 1}); !errors.Is(err, db.ErrInvalidPlan) {
		t.Errorf("expected ErrInvalidPlan, got %v", err)
	}
	if _, err := s.Aggregate(ctx, &db.AggregateQuery{IndexName: "i", GroupBy: "k"}); err == nil {
		t.Error("expected error for zero limit")
	}
}

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
