package service

import (
	"strings"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
)

// relevance scores a fuzzy candidate against the query text. A field prefix
// scores 50. A substring scores 30 minus the match offset (offset capped at
// 20), never below 10. The earlier hit of name and email wins. Anything that
// matched only through a side path scores zero and sorts last.
func relevance(c domain.Candidate, q query.Query) int {
	name := strings.ToLower(c.Name)
	email := strings.ToLower(c.Email)

	if strings.HasPrefix(name, q.Lower) || strings.HasPrefix(email, q.Lower) {
		return 50
	}

	idx := -1
	if i := strings.Index(name, q.Lower); i >= 0 {
		idx = i
	}
	if i := strings.Index(email, q.Lower); i >= 0 && (idx < 0 || i < idx) {
		idx = i
	}
	if idx < 0 {
		return 0
	}
	if idx > 20 {
		idx = 20
	}
	score := 30 - idx
	if score < 10 {
		score = 10
	}
	return score
}
