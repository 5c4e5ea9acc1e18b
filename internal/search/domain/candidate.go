// Package domain holds the search engine's core types: the normalized
// candidate record every source matcher produces, and its identity key.
package domain

import (
	"strings"
	"time"
)

// LeadType identifies which source a candidate came from.
type LeadType string

const (
	// LeadTypeNew is the current-schema leads table.
	LeadTypeNew LeadType = "new"
	// LeadTypeLegacy is the older leads_lead table.
	LeadTypeLegacy LeadType = "legacy"
	// LeadTypeContact marks a lead surfaced through a contact match.
	LeadTypeContact LeadType = "contact"
)

// Candidate is a normalized projection of a matched row from any source.
// LeadNumber is the display identifier, possibly carrying a sublead suffix
// ("<master>/<n>").
type Candidate struct {
	ID          string    `json:"id"`
	LeadNumber  string    `json:"leadNumber"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Mobile      string    `json:"mobile"`
	Topic       string    `json:"topic"`
	Stage       string    `json:"stage"`
	CreatedAt   time.Time `json:"createdAt"`
	LeadType    LeadType  `json:"leadType"`
	IsContact   bool      `json:"isContact"`
	ContactName string    `json:"contactName,omitempty"`

	// IsFuzzyMatch is false for exact/prefix-confident matches only.
	// Substring and contact-indirect matches are fuzzy.
	IsFuzzyMatch bool `json:"isFuzzyMatch"`

	// MasterID links a legacy sublead row to its master. Internal to the
	// display-number formatter, never serialized.
	MasterID *int64 `json:"-"`
}

// Key returns the composite identity of the candidate. The merger never
// emits two records sharing this key.
func (c Candidate) Key() string {
	return strings.ToLower(string(c.LeadType) + "|" + c.ID + "|" + c.LeadNumber)
}

// EntityKey identifies the underlying lead regardless of whether it was
// reached directly or through a contact. Used when a non-contact record
// replaces a contact view of the same lead.
func (c Candidate) EntityKey() string {
	return strings.ToLower(c.ID + "|" + c.LeadNumber)
}
