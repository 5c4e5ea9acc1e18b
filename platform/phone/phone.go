// Package phone provides phone number utilities: E.164 canonicalization,
// digit-variant expansion for search matching, and the match validity gate.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IL"

// countryCode is the local country calling code. Stored numbers may carry it
// with or without a 00/+ international prefix.
const countryCode = "972"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Variants expands a digit string into the set of equivalent digit sequences
// used for comparison: the original, the 00 international prefix stripped,
// the country code stripped (with and without a reinstated leading zero), and
// a single leading zero stripped. The original digits always come first and
// the set contains no duplicates.
func Variants(digits string) []string {
	if digits == "" {
		return nil
	}

	variants := []string{digits}
	seen := map[string]bool{digits: true}
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	stripped := digits
	if strings.HasPrefix(stripped, "00") {
		stripped = stripped[2:]
		add(stripped)
	}
	if strings.HasPrefix(stripped, countryCode) {
		national := stripped[len(countryCode):]
		add(national)
		// Local format keeps a leading zero the international form drops.
		add("0" + national)
	}
	if strings.HasPrefix(digits, "0") && !strings.HasPrefix(digits, "00") {
		add(digits[1:])
	}

	return variants
}

// MatchKind classifies how a candidate number relates to a query number.
type MatchKind int

const (
	// MatchNone means no variant pair satisfied the validity gate.
	MatchNone MatchKind = iota
	// MatchExact means some variant pair compared equal.
	MatchExact
	// MatchPrefix means a variant of one side is a valid prefix of the other.
	MatchPrefix
	// MatchSuffix means a variant of the candidate validly ends with the query.
	MatchSuffix
)

// IsValidPrefixMatch gates a prefix relation between two digit strings. The
// shorter operand must be at least 6 digits, the longer may exceed it by at
// most 3 digits, and the shorter must be at least 80% of the longer's length.
// Rejects coincidental short-prefix collisions.
func IsValidPrefixMatch(a, b string) bool {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if !strings.HasPrefix(longer, shorter) {
		return false
	}
	if len(shorter) < 6 {
		return false
	}
	if len(longer)-len(shorter) > 3 {
		return false
	}
	return len(shorter)*10 >= len(longer)*8
}

// IsValidSuffixMatch gates a suffix relation: the query must be at least 7
// digits and the candidate must end with it. The length delta is capped at 2
// digits, or 4 when the candidate plausibly carries a country-code prefix.
func IsValidSuffixMatch(query, candidate string) bool {
	if len(query) < 7 {
		return false
	}
	if !strings.HasSuffix(candidate, query) {
		return false
	}
	delta := len(candidate) - len(query)
	if delta <= 2 {
		return true
	}
	if delta <= 4 {
		return strings.HasPrefix(candidate, countryCode) || strings.HasPrefix(candidate, "00")
	}
	return false
}

// Match compares a query digit string against a raw candidate phone field,
// expanding both sides into variants. Exact beats prefix beats suffix.
func Match(queryDigits, candidateRaw string) MatchKind {
	candidateDigits := Digits(candidateRaw)
	if queryDigits == "" || candidateDigits == "" {
		return MatchNone
	}

	best := MatchNone
	for _, qv := range Variants(queryDigits) {
		for _, cv := range Variants(candidateDigits) {
			switch {
			case qv == cv:
				return MatchExact
			case IsValidPrefixMatch(qv, cv):
				if best == MatchNone || best == MatchSuffix {
					best = MatchPrefix
				}
			case IsValidSuffixMatch(qv, cv):
				if best == MatchNone {
					best = MatchSuffix
				}
			}
		}
	}
	return best
}

// SearchPatterns returns the loose ILIKE patterns issued against stored phone
// fields for one digit variant: the bare digits plus dash, space, dot and
// plus-country-code formatting templates. Recall-oriented; the caller always
// re-derives exactness with Match against the live query.
func SearchPatterns(variant string) []string {
	patterns := []string{variant + "%"}
	if len(variant) > 3 {
		head, tail := variant[:3], variant[3:]
		patterns = append(patterns,
			head+"-"+tail+"%",
			head+" "+tail+"%",
			head+"."+tail+"%",
		)
	}
	patterns = append(patterns, "+"+variant+"%")
	return patterns
}

// SuffixPattern returns the trailing-match ILIKE pattern for variants long
// enough to catch country-code-prepended storage, or "" otherwise.
func SuffixPattern(variant string) string {
	if len(variant) < 7 {
		return ""
	}
	return "%" + variant
}
