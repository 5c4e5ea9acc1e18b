// Package translit generates alternate spellings of a name query across the
// scripts client names are stored in (Latin, Hebrew, Arabic). The search
// matchers fan a name query out across every variant, so a clerk typing
// "yosef" also hits records stored as "יוסף".
//
// Transliteration is table-driven and greedy: multi-letter sequences are
// consumed before single letters. It is intentionally lossy: variants feed
// loose prefix predicates whose results are re-checked against the original
// query, so a wrong variant costs recall noise, never a false exact match.
package translit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinToHebrew maps Latin sequences to Hebrew letters. Longer keys win.
var latinToHebrew = []mapping{
	{"sh", "ש"}, {"ch", "ח"}, {"kh", "ח"}, {"tz", "צ"}, {"ts", "צ"},
	{"th", "ת"}, {"ph", "פ"},
	{"a", "א"}, {"b", "ב"}, {"c", "ק"}, {"d", "ד"}, {"e", "א"},
	{"f", "פ"}, {"g", "ג"}, {"h", "ה"}, {"i", "י"}, {"j", "ג'"},
	{"k", "ק"}, {"l", "ל"}, {"m", "מ"}, {"n", "נ"}, {"o", "ו"},
	{"p", "פ"}, {"q", "ק"}, {"r", "ר"}, {"s", "ס"}, {"t", "ט"},
	{"u", "ו"}, {"v", "ו"}, {"w", "ו"}, {"x", "קס"}, {"y", "י"},
	{"z", "ז"},
}

// latinToArabic maps Latin sequences to Arabic letters. Longer keys win.
var latinToArabic = []mapping{
	{"sh", "ش"}, {"ch", "تش"}, {"kh", "خ"}, {"th", "ث"}, {"gh", "غ"},
	{"dh", "ذ"}, {"aa", "ا"}, {"ee", "ي"}, {"oo", "و"},
	{"a", "ا"}, {"b", "ب"}, {"c", "ك"}, {"d", "د"}, {"e", "ي"},
	{"f", "ف"}, {"g", "ج"}, {"h", "ه"}, {"i", "ي"}, {"j", "ج"},
	{"k", "ك"}, {"l", "ل"}, {"m", "م"}, {"n", "ن"}, {"o", "و"},
	{"p", "ب"}, {"q", "ق"}, {"r", "ر"}, {"s", "س"}, {"t", "ت"},
	{"u", "و"}, {"v", "ف"}, {"w", "و"}, {"x", "كس"}, {"y", "ي"},
	{"z", "ز"},
}

// hebrewToLatin maps Hebrew letters back to a Latin rendering, including
// final-form letters.
var hebrewToLatin = []mapping{
	{"ש", "sh"}, {"צ", "tz"}, {"ץ", "tz"}, {"ח", "ch"},
	{"א", "a"}, {"ב", "b"}, {"ג", "g"}, {"ד", "d"}, {"ה", "h"},
	{"ו", "o"}, {"ז", "z"}, {"ט", "t"}, {"י", "y"}, {"כ", "k"},
	{"ך", "k"}, {"ל", "l"}, {"מ", "m"}, {"ם", "m"}, {"נ", "n"},
	{"ן", "n"}, {"ס", "s"}, {"ע", "a"}, {"פ", "p"}, {"ף", "f"},
	{"ק", "k"}, {"ר", "r"}, {"ת", "t"},
}

type mapping struct {
	from string
	to   string
}

var unaccenter = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases the input and strips combining accents, so "José" and
// "jose" generate the same variants.
func Fold(s string) string {
	folded, _, err := transform.String(unaccenter, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// Variants returns the query plus its cross-script spellings, original first,
// deduplicated. Non-name input (digits, symbols) yields only the original.
func Variants(query string) []string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	variants := []string{trimmed}
	seen := map[string]bool{trimmed: true}
	add := func(v string) {
		if v != "" && v != trimmed && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	folded := Fold(trimmed)
	add(folded)

	switch {
	case isLatin(folded):
		add(apply(folded, latinToHebrew))
		add(apply(folded, latinToArabic))
	case isHebrew(trimmed):
		add(apply(trimmed, hebrewToLatin))
	}

	return variants
}

// apply transliterates word characters through the table with greedy
// longest-sequence matching; anything unmapped passes through unchanged.
func apply(s string, table []mapping) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		matched := false
		for _, m := range table {
			if strings.HasPrefix(s[i:], m.from) {
				b.WriteString(m.to)
				i += len(m.from)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size
		}
	}
	return b.String()
}

func isLatin(s string) bool {
	sawLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.Is(unicode.Latin, r) {
				return false
			}
			sawLetter = true
		}
	}
	return sawLetter
}

func isHebrew(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hebrew, r) {
			return true
		}
	}
	return false
}
