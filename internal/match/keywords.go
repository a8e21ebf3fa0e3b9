package match

import (
	"strings"
	"unicode/utf8"
)

// minTokenLength is the shortest token (in runes) that counts as a keyword;
// anything shorter is treated as noise.
const minTokenLength = 3

// stopWords are common function words stripped when building search queries
// from AI-derived descriptions. They still participate in overlap scoring.
var stopWords = map[string]bool{
	"the": true, "and": true, "with": true, "for": true, "near": true,
	"this": true, "that": true, "was": true, "has": true, "have": true,
	"its": true, "from": true, "are": true, "one": true, "some": true,
	"there": true, "here": true, "about": true, "very": true,
}

// Tokenize splits text on whitespace and drops tokens shorter than
// minTokenLength runes. Tokens are lowercased.
func Tokenize(text string) []string {
	var tokens []string
	for _, f := range strings.Fields(text) {
		f = strings.ToLower(f)
		if utf8.RuneCountInString(f) < minTokenLength {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// ExtractKeywords reduces a free-text description to its qualifying tokens
// with stop words removed, for building a search query against the item
// repository.
func ExtractKeywords(text string) []string {
	var keywords []string
	for _, tok := range Tokenize(text) {
		if stopWords[tok] {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// TokenOverlapRatio returns the fraction of text1's qualifying tokens that
// loosely match a token of text2. A token matches when either contains the
// other as a substring, which deliberately tolerates morphological variants
// ("backpack" matches "backpacks"). Returns 0 when text1 has no qualifying
// tokens.
func TokenOverlapRatio(text1, text2 string) float64 {
	t1 := Tokenize(text1)
	if len(t1) == 0 {
		return 0
	}
	t2 := Tokenize(text2)

	matched := 0
	for _, a := range t1 {
		for _, b := range t2 {
			if strings.Contains(a, b) || strings.Contains(b, a) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(t1))
}
