package redflag

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenSep joins the tokens of a normalized string.
const tokenSep = "_"

// minReverseTokenLen is the shortest symptom sub-token that may match a
// keyword by being contained in it.
const minReverseTokenLen = 4

// Normalize canonicalizes a symptom or keyword for matching. It lower-cases
// the input, folds accented letters to their base form (å→a, ö→o, é→e) and
// collapses every run of non-alphanumeric characters into a single "_".
func Normalize(text string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(text),
	)
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteString(tokenSep)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// tokens splits a normalized string into its sub-tokens.
func tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, tokenSep)
}

// Matches reports which keywords match the symptom, in keyword order.
//
// A keyword matches when the normalized symptom contains the normalized
// keyword, when any sub-token of the symptom contains it, or when a
// single-token keyword contains one of the symptom's sub-tokens. The last
// rule catches truncated input ("blodprop") and deliberately over-matches.
func Matches(symptom string, keywords []string) []string {
	s := Normalize(symptom)
	if s == "" {
		return nil
	}
	parts := tokens(s)

	var matched []string
	for _, kw := range keywords {
		k := Normalize(kw)
		if k == "" {
			continue
		}
		if matchNormalized(s, parts, k) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func matchNormalized(symptom string, parts []string, keyword string) bool {
	// A sub-token containing the keyword is already covered here.
	if strings.Contains(symptom, keyword) {
		return true
	}
	if strings.Contains(keyword, tokenSep) {
		return false
	}
	for _, p := range parts {
		if utf8.RuneCountInString(p) >= minReverseTokenLen && strings.Contains(keyword, p) {
			return true
		}
	}
	return false
}
