package repository

import (
	"context"
)

const contactColumns = `id, name, email, phone, mobile, lead_id, created_at`

// ContactsByEmailEqual returns contacts whose email equals the query.
func (r *Repository) ContactsByEmailEqual(ctx context.Context, email string, fold bool) ([]ContactRow, error) {
	if fold {
		return r.queryContacts(ctx, `
			SELECT `+contactColumns+`
			FROM leads_contact
			WHERE lower(email) = lower($1)
			LIMIT $2
		`, email, branchLimit)
	}
	return r.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM leads_contact
		WHERE email = $1
		LIMIT $2
	`, email, branchLimit)
}

// ContactsByEmailPrefix returns contacts whose email starts with the query.
func (r *Repository) ContactsByEmailPrefix(ctx context.Context, prefix string) ([]ContactRow, error) {
	return r.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM leads_contact
		WHERE email ILIKE $1 || '%'
		LIMIT $2
	`, escapeLike(prefix), branchLimit)
}

// ContactsByPhonePatterns returns contacts whose phone or mobile field
// matches any of the given ILIKE patterns.
func (r *Repository) ContactsByPhonePatterns(ctx context.Context, patterns []string) ([]ContactRow, error) {
	if len(patterns) == 0 {
		return []ContactRow{}, nil
	}
	return r.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM leads_contact
		WHERE phone ILIKE ANY($1) OR mobile ILIKE ANY($1)
		LIMIT $2
	`, patterns, branchLimit)
}

// ContactsByNamePrefix returns contacts whose name starts with any of the
// spelling variants.
func (r *Repository) ContactsByNamePrefix(ctx context.Context, variants []string) ([]ContactRow, error) {
	if len(variants) == 0 {
		return []ContactRow{}, nil
	}
	return r.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM leads_contact
		WHERE name ILIKE ANY($1)
		LIMIT $2
	`, prefixPatterns(variants), branchLimit)
}

// ContactsByNameSubstring backs the secondary fuzzy name search.
func (r *Repository) ContactsByNameSubstring(ctx context.Context, needle string) ([]ContactRow, error) {
	return r.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM leads_contact
		WHERE name ILIKE '%' || $1 || '%'
		LIMIT $2
	`, escapeLike(needle), branchLimit)
}

// ContactsByLegacyLeadNumber returns contacts related to a legacy lead whose
// numeric id starts with the digit residue. Backs the contacts-via-relationship
// resolution of a lead-number search.
func (r *Repository) ContactsByLegacyLeadNumber(ctx context.Context, residue string) ([]ContactRow, error) {
	return r.queryContacts(ctx, `
		SELECT DISTINCT c.id, c.name, c.email, c.phone, c.mobile, c.lead_id, c.created_at
		FROM leads_contact c
		JOIN leads_contact_leads rel ON rel.contact_id = c.id
		WHERE CAST(rel.leadslead_id AS TEXT) LIKE $1 || '%'
		LIMIT $2
	`, residue, branchLimit)
}

// ContactLegacyLinks returns the relationship rows joining the given contacts
// to legacy leads, ordered so the first-linked lead is stable per contact.
func (r *Repository) ContactLegacyLinks(ctx context.Context, contactIDs []int64) ([]ContactLink, error) {
	if len(contactIDs) == 0 {
		return []ContactLink{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT contact_id, leadslead_id
		FROM leads_contact_leads
		WHERE contact_id = ANY($1)
		ORDER BY contact_id ASC, leadslead_id ASC
	`, contactIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]ContactLink, 0)
	for rows.Next() {
		var link ContactLink
		if err := rows.Scan(&link.ContactID, &link.LegacyLeadID); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
