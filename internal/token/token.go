package token

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength is the shortest token kept by Tokenize.
const MinLength = 3

// English function words dropped from every token set
var stopWords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "nor": true,
	"yet": true, "with": true, "from": true, "into": true, "onto": true,
	"over": true, "under": true, "about": true, "above": true, "below": true,
	"after": true, "before": true, "between": true, "through": true, "during": true,
	"upon": true, "via": true, "per": true, "off": true, "out": true,
	"are": true, "was": true, "were": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "shall": true,
	"may": true, "might": true, "must": true, "can": true, "not": true,
	"this": true, "that": true, "these": true, "those": true, "its": true,
	"than": true, "then": true, "also": true, "just": true, "very": true,
	"such": true, "each": true, "all": true, "any": true, "some": true,
	"you": true, "your": true, "our": true, "their": true, "they": true,
	"what": true, "which": true, "who": true, "whom": true, "how": true,
	"when": true, "where": true, "why": true, "there": true, "here": true,
}

// Set is an unordered collection of normalized tokens.
type Set map[string]struct{}

// NewSet builds a set from already normalized tokens.
func NewSet(tokens ...string) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func (s Set) Has(t string) bool {
	_, ok := s[t]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Union returns a new set holding the members of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

// Intersects reports whether any member of s is also in other.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for t := range small {
		if large.Has(t) {
			return true
		}
	}
	return false
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// IsStopWord reports whether word is dropped by Tokenize.
func IsStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// Tokenize lowercases text, turns every rune that is not a letter, digit,
// underscore or hyphen into a separator, and keeps the pieces of at least
// MinLength runes that are not stop words.
func Tokenize(text string) Set {
	tokens := make(Set)
	if text == "" {
		return tokens
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	for _, piece := range strings.Fields(cleaned) {
		piece = strings.TrimSpace(piece)
		if utf8.RuneCountInString(piece) < MinLength || stopWords[piece] {
			continue
		}
		tokens[piece] = struct{}{}
	}
	return tokens
}

// TokenizeAll tokenizes every element and returns the union.
func TokenizeAll(texts []string) Set {
	tokens := make(Set)
	for _, text := range texts {
		for t := range Tokenize(text) {
			tokens[t] = struct{}{}
		}
	}
	return tokens
}

// TokenizeJoined joins the elements with a space and tokenizes the result.
// Separators never survive tokenization, so it yields the same set as
// TokenizeAll.
func TokenizeJoined(texts []string) Set {
	return Tokenize(strings.Join(texts, " "))
}
