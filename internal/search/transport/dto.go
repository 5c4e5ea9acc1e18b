package transport

import (
	"lawdesk_backend/internal/search/domain"
)

// SearchRequest is the keystroke payload. An empty query clears the session.
type SearchRequest struct {
	Query   string `form:"q" validate:"max=100"`
	Session string `form:"session" validate:"omitempty,alphanum,max=64"`
}

// SearchResponse mirrors the engine's settled signal for one keystroke.
// Exact matches render first, then the capped fuzzy bucket.
type SearchResponse struct {
	Query        string             `json:"query"`
	State        string             `json:"state"`
	ExactMatches []domain.Candidate `json:"exactMatches"`
	FuzzyMatches []domain.Candidate `json:"fuzzyMatches"`
	Total        int                `json:"total"`
}
