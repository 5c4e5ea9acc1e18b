// Package query classifies raw search input and derives the attributes the
// per-source matchers key off. Classification never fails: every non-empty
// string resolves to exactly one Kind.
package query

import (
	"strings"
)

// Kind is the routing class of a search query.
type Kind string

const (
	// KindEmail routes to the email matchers.
	KindEmail Kind = "email"
	// KindPhone routes to the phone matchers.
	KindPhone Kind = "phone"
	// KindLeadNumber routes to the lead-number lookup.
	KindLeadNumber Kind = "lead_number"
	// KindName is the fallback name search for input of length >= 2.
	KindName Kind = "name"
	// KindTooShort means the input is too short to search at all.
	KindTooShort Kind = "too_short"
)

// Query is a trimmed search string plus its derived attributes, computed once
// per keystroke.
type Query struct {
	Raw    string
	Lower  string
	Digits string

	IsEmail          bool
	IsPhoneLike      bool
	IsLeadNumberLike bool

	// LeadNumber is the digit residue after stripping a leading L/C prefix.
	// Meaningful only when IsLeadNumberLike is true.
	LeadNumber string

	Kind Kind
}

// Classify inspects a raw search string and derives its attributes.
// Resolution order on conflict: email, lead number, phone, name.
// A digit residue with a leading zero is never a lead number (lead numbers
// never start with "0"), so such input routes to phone matching.
func Classify(raw string) Query {
	trimmed := strings.TrimSpace(raw)
	q := Query{
		Raw:    trimmed,
		Lower:  strings.ToLower(trimmed),
		Digits: stripNonDigits(trimmed),
	}

	if trimmed == "" {
		q.Kind = KindTooShort
		return q
	}

	q.IsEmail = strings.Contains(trimmed, "@")
	q.IsPhoneLike = len(q.Digits) >= 3 && isPhoneCharset(trimmed)

	residue := leadNumberResidue(trimmed)
	if isDigits(residue) && len(residue) >= 1 && len(residue) <= 6 && residue[0] != '0' {
		q.IsLeadNumberLike = true
		q.LeadNumber = residue
	}

	switch {
	case q.IsEmail:
		q.Kind = KindEmail
	case q.IsLeadNumberLike:
		q.Kind = KindLeadNumber
	case q.IsPhoneLike:
		q.Kind = KindPhone
	case len([]rune(trimmed)) >= 2:
		q.Kind = KindName
	default:
		q.Kind = KindTooShort
	}

	return q
}

// IsExtensionOf reports whether q is a compatible extension of prev: same
// kind, strictly longer, and prev is a case-insensitive prefix of q.
// Email extensions additionally require prev's domain portion to already
// contain a dot: an incomplete domain may match contacts a pure client-side
// filter would miss, so it forces a fresh search. Phone extensions require
// prev to already carry at least 6 digits to avoid premature over-filtering.
func (q Query) IsExtensionOf(prev Query) bool {
	if prev.Raw == "" || q.Kind != prev.Kind {
		return false
	}
	if len(q.Raw) <= len(prev.Raw) {
		return false
	}
	if !strings.HasPrefix(q.Lower, prev.Lower) {
		return false
	}

	switch q.Kind {
	case KindEmail:
		return domainHasDot(prev.Lower)
	case KindPhone:
		return len(prev.Digits) >= 6
	case KindLeadNumber, KindName:
		return true
	default:
		return false
	}
}

func domainHasDot(email string) bool {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// leadNumberResidue keeps digits and the letters L/C, then strips a single
// leading L or C. Lead numbers are displayed as "L123" / "C123".
func leadNumberResidue(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'l' || r == 'L':
			b.WriteRune('L')
		case r == 'c' || r == 'C':
			b.WriteRune('C')
		}
	}
	residue := b.String()
	if len(residue) > 0 && (residue[0] == 'L' || residue[0] == 'C') {
		residue = residue[1:]
	}
	return residue
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isPhoneCharset(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
		default:
			return false
		}
	}
	return true
}
