package service

import (
	"strings"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
	"lawdesk_backend/platform/phone"
	"lawdesk_backend/platform/translit"
)

// matchQuery re-derives, against the live query, whether a candidate still
// matches and on which confidence tier. The store predicates are recall-loose;
// this is the authoritative gate, and it is the same gate the extension filter
// applies to cached candidates.
func matchQuery(q query.Query, c domain.Candidate) (ok, fuzzy bool) {
	switch q.Kind {
	case query.KindEmail:
		return matchEmail(q, c)
	case query.KindPhone:
		return matchPhone(q, c)
	case query.KindLeadNumber:
		return matchLeadNumber(q, c)
	case query.KindName:
		return matchName(q, c)
	default:
		return false, false
	}
}

func matchEmail(q query.Query, c domain.Candidate) (bool, bool) {
	email := strings.ToLower(c.Email)
	if email == "" {
		return false, false
	}
	switch {
	case email == q.Lower, strings.HasPrefix(email, q.Lower):
		return true, false
	case strings.Contains(email, q.Lower):
		return true, true
	}
	return false, false
}

func matchPhone(q query.Query, c domain.Candidate) (bool, bool) {
	if q.Digits == "" {
		return false, false
	}
	kind := phone.Match(q.Digits, c.Phone)
	if k := phone.Match(q.Digits, c.Mobile); k > kind {
		kind = k
	}
	// A suffix hit that survived the validity gate is the same subscriber
	// number under a country-code spelling, so it is not demoted to fuzzy.
	return kind != phone.MatchNone, false
}

func matchLeadNumber(q query.Query, c domain.Candidate) (bool, bool) {
	display := strings.ToLower(c.LeadNumber)
	display = strings.TrimPrefix(strings.TrimPrefix(display, "l"), "c")
	residue := strings.ToLower(q.LeadNumber)
	if residue == "" || display == "" {
		return false, false
	}
	// A sublead's display number is rewritten to "<master>/<n>" (or
	// "<master>/?"), so its own row id is matched alongside the display:
	// searching a child by its real number must still find it.
	rowID := ""
	if c.MasterID != nil {
		rowID = strings.ToLower(c.ID)
	}
	switch {
	case display == residue, rowID != "" && rowID == residue:
		// Only the lead record itself can be exact on a number search; a
		// contact reached through the relationship rides along as fuzzy.
		return true, c.IsContact
	case strings.Contains(display, residue),
		rowID != "" && strings.Contains(rowID, residue):
		return true, true
	}
	return false, false
}

func matchName(q query.Query, c domain.Candidate) (bool, bool) {
	name := strings.ToLower(c.Name)
	if name == "" {
		return false, false
	}
	switch {
	case strings.HasPrefix(name, q.Lower):
		return true, false
	case strings.Contains(name, q.Lower):
		return true, true
	}
	// Cross-script spellings keep the candidate, but only the original
	// query string can grant the exact tier.
	for _, v := range translit.Variants(q.Raw) {
		if strings.Contains(name, strings.ToLower(v)) {
			return true, true
		}
	}
	return false, false
}
