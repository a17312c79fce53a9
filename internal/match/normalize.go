package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds a field name for fuzzy comparison: CamelCase is
// split, everything is lowercased and separators are dropped, so
// "DateReadable", "date_readable" and "date-readable" all become
// "datereadable".
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits a field name into lowercase tokens on separators
// and CamelCase boundaries.
//
//   - "date_readable" -> ["date", "readable"]
//   - "amountEUR" -> ["amount", "eur"]
//   - "XMLPayload" -> ["xml", "payload"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(strings.TrimSpace(s))
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

// startsToken reports a CamelCase boundary before runes[i]: lower to upper
// ("dateReadable") or the last capital of an acronym ("XMLPayload").
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
