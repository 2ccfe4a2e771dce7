package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Default highlight markers when the plan leaves them empty.
const (
	defaultPreTag  = "<b>"
	defaultPostTag = "</b>"
)

// fragmentSeparator joins SUMMARIZE fragments; it never occurs in indexed text.
const fragmentSeparator = "\x1e"

// Search compiles a query plan into FT.SEARCH and runs it.
func (s *Store) Search(ctx context.Context, q *db.PlanQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	args, err := buildSearchArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, wrapErr(db.OpSearch, err)
	}

	res, err := parseSearchResult(raw)
	if err != nil {
		return nil, err
	}

	// The floor runs after LIMIT: accuracy pages may come back short and
	// offsets keep counting unfiltered hits.
	if floor := q.Plan.Rank().MinScore; floor > 0 {
		res.Entries = applyMinScore(res.Entries, floor)
	}
	if h := q.Plan.Highlight(); h != nil {
		s.resolveHighlights(ctx, res.Entries, h)
	}
	return res, nil
}

func buildSearchArgs(q *db.PlanQuery) ([]string, error) {
	query, err := compileQuery(q.Plan)
	if err != nil {
		return nil, err
	}

	args := []string{q.IndexName, query, "WITHSCORES"}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	if h := q.Plan.Highlight(); h != nil {
		args = append(args, highlightArgs(h, clauseFields(q.Plan))...)
	}

	if srt := q.Plan.Sort(); srt != nil {
		if !isFieldName(srt.Field) {
			return nil, fmt.Errorf("%w: sort field %q", db.ErrInvalidPlan, srt.Field)
		}
		dir := "ASC"
		if srt.Descending {
			dir = "DESC"
		}
		args = append(args, "SORTBY", srt.Field, dir)
	}

	if page := q.Plan.Page(); page.Size > 0 {
		args = append(args, "LIMIT", strconv.Itoa(page.From), strconv.Itoa(page.Size))
	}

	args = append(args, "DIALECT", "2")
	return args, nil
}

// --- Query compilation ---

// compileQuery renders the boolean tree. Should clauses are optional (~) next
// to required clauses and form a disjunction when nothing is required.
func compileQuery(p plan.Plan) (string, error) {
	var parts []string

	must := p.Must()
	for _, c := range must {
		expr, err := compileClause(c, true)
		if err != nil {
			return "", err
		}
		parts = append(parts, expr)
	}

	should := p.Should()
	if len(should) > 0 {
		exprs := make([]string, 0, len(should))
		for _, c := range should {
			expr, err := compileClause(c, true)
			if err != nil {
				return "", err
			}
			exprs = append(exprs, expr)
		}
		if len(must) == 0 {
			parts = append(parts, "("+strings.Join(exprs, " | ")+")")
		} else {
			for _, e := range exprs {
				parts = append(parts, "~"+e)
			}
		}
	}

	for _, c := range p.MustNot() {
		expr, err := compileClause(c, false)
		if err != nil {
			return "", err
		}
		parts = append(parts, "-"+expr)
	}

	if df := p.DateFilter(); df != nil {
		expr, err := compileDateFilter(*df)
		if err != nil {
			return "", err
		}
		parts = append(parts, expr)
	}

	if len(parts) == 0 {
		return "*", nil
	}
	return strings.Join(parts, " "), nil
}

// compileClause renders one clause as a parenthesized group.
func compileClause(c plan.Clause, weighted bool) (string, error) {
	if strings.TrimSpace(c.Text) == "" {
		return "", fmt.Errorf("%w: empty clause text", db.ErrInvalidPlan)
	}

	expr := matchExpr(c)
	if !c.CrossField() {
		for _, f := range c.Fields {
			if !isFieldName(f) {
				return "", fmt.Errorf("%w: field %q", db.ErrInvalidPlan, f)
			}
		}
		expr = "@" + strings.Join(c.Fields, "|") + ":(" + expr + ")"
	} else {
		expr = "(" + expr + ")"
	}

	if weighted && c.Boost > 0 && c.Boost != 1 {
		expr += "=>{$weight:" + strconv.FormatFloat(c.Boost, 'f', -1, 64) + ";}"
	}
	return "(" + expr + ")", nil
}

func matchExpr(c plan.Clause) string {
	text := strings.TrimSpace(c.Text)
	switch c.Match {
	case plan.Phrase:
		return `"` + phraseEscaper.Replace(text) + `"`
	case plan.Fuzzy:
		return "%" + escapeQuery(text) + "%"
	case plan.Prefix:
		return escapeQuery(text) + "*"
	case plan.Suffix:
		return "*" + escapeQuery(text)
	case plan.Infix:
		return "*" + escapeQuery(text) + "*"
	default:
		return escapeQuery(text)
	}
}

// compileDateFilter renders an inclusive NUMERIC range over yyyymmdd values.
func compileDateFilter(df plan.DateFilter) (string, error) {
	if !isFieldName(df.Field) {
		return "", fmt.Errorf("%w: date field %q", db.ErrInvalidPlan, df.Field)
	}
	from, err := dateBound(df.From, df.Format, "-inf")
	if err != nil {
		return "", err
	}
	to, err := dateBound(df.To, df.Format, "+inf")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("@%s:[%s %s]", df.Field, from, to), nil
}

func highlightArgs(h *plan.Highlight, matched []string) []string {
	pre, post := tags(h)

	fields := concreteFields(h.Fields)
	if h.RequireFieldMatch && len(fields) == 0 {
		fields = matched
	}

	var args []string
	if h.Fragments > 0 {
		args = append(args, "SUMMARIZE")
		args = appendFieldList(args, fields)
		args = append(args, "FRAGS", strconv.Itoa(h.Fragments))
		if h.FragmentSize > 0 {
			// LEN counts words; a word is at least one character, so the bound holds.
			args = append(args, "LEN", strconv.Itoa(h.FragmentSize))
		}
		args = append(args, "SEPARATOR", fragmentSeparator)
	}

	args = append(args, "HIGHLIGHT")
	args = appendFieldList(args, fields)
	args = append(args, "TAGS", pre, post)
	return args
}

func appendFieldList(args, fields []string) []string {
	if len(fields) == 0 {
		return args
	}
	args = append(args, "FIELDS", strconv.Itoa(len(fields)))
	return append(args, fields...)
}

// concreteFields drops the all-fields sentinel; an empty result means every field.
func concreteFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != plan.AllFields {
			out = append(out, f)
		}
	}
	return out
}

// clauseFields collects the distinct fields named by positive clauses.
func clauseFields(p plan.Plan) []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]plan.Clause{p.Must(), p.Should()} {
		for _, c := range group {
			if c.CrossField() {
				continue
			}
			for _, f := range c.Fields {
				if !seen[f] {
					seen[f] = true
					out = append(out, f)
				}
			}
		}
	}
	return out
}

func tags(h *plan.Highlight) (string, string) {
	pre, post := h.PreTag, h.PostTag
	if pre == "" {
		pre = defaultPreTag
	}
	if post == "" {
		post = defaultPostTag
	}
	return pre, post
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{Key: key, Score: score, Fields: parseFieldPairs(fields)})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) []result.Field {
	out := make([]result.Field, 0, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		out = append(out, result.Field{Name: name, Value: value})
	}
	return out
}

// resolveHighlights separates highlighted renderings from stored values.
// FT.SEARCH returns only the marked-up text, so every value carrying the
// pre-tag is re-read with one pipelined HMGET: a value equal to its stored copy
// had no match.
func (s *Store) resolveHighlights(ctx context.Context, entries []db.SearchEntry, h *plan.Highlight) {
	pre, _ := tags(h)

	var (
		cmds   []rueidis.Completed
		owners []int
		marked [][]string
	)
	for i, e := range entries {
		names := markedFields(e.Fields, pre)
		if len(names) == 0 {
			continue
		}
		cmds = append(cmds, s.b().Hmget().Key(e.Key).Field(names...).Build())
		owners = append(owners, i)
		marked = append(marked, names)
	}
	if len(cmds) == 0 {
		return
	}

	for j, res := range s.client.DoMulti(ctx, cmds...) {
		e := &entries[owners[j]]
		e.Fields, e.Highlights = splitHighlights(e.Fields, storedValues(res, marked[j]), h)
	}
}

func markedFields(fields []result.Field, pre string) []string {
	var names []string
	for _, f := range fields {
		if strings.Contains(f.Value, pre) {
			names = append(names, f.Name)
		}
	}
	return names
}

// storedValues maps HMGET replies back to field names. Missing fields and
// failed reads are left out.
func storedValues(res rueidis.RedisResult, names []string) map[string]string {
	arr, err := res.ToArray()
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(arr))
	for i, m := range arr {
		if i >= len(names) {
			break
		}
		if v, err := m.ToString(); err == nil {
			out[names[i]] = v
		}
	}
	return out
}

// splitHighlights moves marked-up values into the highlight map and puts the
// stored value back in the field list. Without a stored copy the tags are
// stripped from the rendering instead.
func splitHighlights(fields []result.Field, stored map[string]string, h *plan.Highlight) ([]result.Field, map[string][]string) {
	pre, post := tags(h)
	strip := strings.NewReplacer(pre, "", post, "", fragmentSeparator, " ")

	var hl map[string][]string
	for i, f := range fields {
		if !strings.Contains(f.Value, pre) {
			continue
		}
		raw, known := stored[f.Name]
		if known && raw == f.Value {
			continue
		}
		if hl == nil {
			hl = make(map[string][]string)
		}
		hl[f.Name] = splitFragments(f.Value)
		if known {
			fields[i].Value = raw
		} else {
			fields[i].Value = strip.Replace(f.Value)
		}
	}
	return fields, hl
}

func splitFragments(v string) []string {
	parts := strings.Split(v, fragmentSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func applyMinScore(entries []db.SearchEntry, floor float64) []db.SearchEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Score >= floor {
			out = append(out, e)
		}
	}
	return out
}

// --- Query helpers ---

// isFieldName accepts attribute names safe to embed after @ without escaping.
func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isAlpha && r != '_' && (i == 0 || !isDigit) {
			return false
		}
	}
	return true
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	` `, `\ `,
)

var phraseEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
)
