// Package keyword parses the advanced-search keyword syntax.
//
// The grammar is small: whitespace separates tokens, a leading '+' marks a
// required term, a leading '-' an excluded term, and a double-quoted run
// (which may contain spaces and the sigils themselves) an exact phrase.
// Anything else is a plain, optional term.
package keyword

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

// Operator characters.
const (
	IncludeSigil = '+'
	ExcludeSigil = '-'
	Quote        = '"'
)

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	Plain Kind = iota
	Include
	Exclude
	Exact
)

func (k Kind) String() string {
	switch k {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	case Exact:
		return "exact"
	default:
		return "plain"
	}
}

// Token is one classified fragment of a keyword. Text never carries the sigil or quotes.
type Token struct {
	Kind Kind
	Text string
}

func (t Token) String() string {
	switch t.Kind {
	case Include:
		return string(IncludeSigil) + t.Text
	case Exclude:
		return string(ExcludeSigil) + t.Text
	case Exact:
		return string(Quote) + t.Text + string(Quote)
	default:
		return t.Text
	}
}

// Tokenize scans raw character by character and returns its tokens in order.
func Tokenize(raw string) ([]Token, error) {
	var (
		tokens []Token
		buf    strings.Builder
		kind   = Plain
	)

	flush := func() {
		if text := strings.TrimSpace(buf.String()); text != "" {
			tokens = append(tokens, Token{Kind: kind, Text: text})
		}
		buf.Reset()
		kind = Plain
	}

	runes := []rune(raw)
	for pos := 0; pos < len(runes); pos++ {
		c := runes[pos]
		switch {
		case unicode.IsSpace(c):
			flush()
		case (c == IncludeSigil || c == ExcludeSigil) && buf.Len() == 0:
			flush()
			if c == IncludeSigil {
				kind = Include
			} else {
				kind = Exclude
			}
		case c == Quote:
			flush()
			end := -1
			for i := pos + 1; i < len(runes); i++ {
				if runes[i] == Quote {
					end = i
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated quote at position %d", domain.ErrInvalidKeyword, pos)
			}
			if phrase := strings.TrimSpace(string(runes[pos+1 : end])); phrase != "" {
				tokens = append(tokens, Token{Kind: Exact, Text: phrase})
			}
			pos = end
			for pos+1 < len(runes) && unicode.IsSpace(runes[pos+1]) {
				pos++
			}
		default:
			buf.WriteRune(c)
		}
	}
	flush()

	return tokens, nil
}

// Reconstruct renders tokens back into keyword syntax, one space between tokens.
func Reconstruct(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Terms returns the payloads worth recording as searched terms: everything but exclusions.
func Terms(tokens []Token) []string {
	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == Exclude || t.Text == "" {
			continue
		}
		terms = append(terms, t.Text)
	}
	return terms
}
