package repository

import (
	"context"
)

const newLeadColumns = `id, lead_number, name, email, phone, mobile, topic, stage, created_at`

// NewLeadsByEmailEqual returns current-schema leads whose email equals the
// query, case-sensitively or case-folded. Both variants run concurrently in
// the matcher so a complete address surfaces as exact even while the prefix
// branch is still arriving.
func (r *Repository) NewLeadsByEmailEqual(ctx context.Context, email string, fold bool) ([]NewLeadRow, error) {
	if fold {
		return r.queryNewLeads(ctx, `
			SELECT `+newLeadColumns+`
			FROM leads
			WHERE lower(email) = lower($1)
			LIMIT $2
		`, email, branchLimit)
	}
	return r.queryNewLeads(ctx, `
		SELECT `+newLeadColumns+`
		FROM leads
		WHERE email = $1
		LIMIT $2
	`, email, branchLimit)
}

// NewLeadsByEmailPrefix returns current-schema leads whose email starts with
// the query.
func (r *Repository) NewLeadsByEmailPrefix(ctx context.Context, prefix string) ([]NewLeadRow, error) {
	return r.queryNewLeads(ctx, `
		SELECT `+newLeadColumns+`
		FROM leads
		WHERE email ILIKE $1 || '%'
		LIMIT $2
	`, escapeLike(prefix), branchLimit)
}

// NewLeadsByPhonePatterns returns current-schema leads whose phone or mobile
// field matches any of the given ILIKE patterns.
func (r *Repository) NewLeadsByPhonePatterns(ctx context.Context, patterns []string) ([]NewLeadRow, error) {
	if len(patterns) == 0 {
		return []NewLeadRow{}, nil
	}
	return r.queryNewLeads(ctx, `
		SELECT `+newLeadColumns+`
		FROM leads
		WHERE phone ILIKE ANY($1) OR mobile ILIKE ANY($1)
		LIMIT $2
	`, patterns, branchLimit)
}

// NewLeadsByLeadNumber returns current-schema leads whose displayed number
// contains the digit residue.
func (r *Repository) NewLeadsByLeadNumber(ctx context.Context, residue string) ([]NewLeadRow, error) {
	return r.queryNewLeads(ctx, `
		SELECT `+newLeadColumns+`
		FROM leads
		WHERE lead_number ILIKE '%' || $1 || '%'
		ORDER BY id ASC
		LIMIT $2
	`, escapeLike(residue), branchLimit)
}

// NewLeadsByNamePrefix returns current-schema leads whose name starts with
// any of the spelling variants.
func (r *Repository) NewLeadsByNamePrefix(ctx context.Context, variants []string) ([]NewLeadRow, error) {
	if len(variants) == 0 {
		return []NewLeadRow{}, nil
	}
	return r.queryNewLeads(ctx, `
		SELECT `+newLeadColumns+`
		FROM leads
		WHERE name ILIKE ANY($1)
		LIMIT $2
	`, prefixPatterns(variants), branchLimit)
}

// NewLeadsByNameSubstring backs the secondary fuzzy name search.
func (r *Repository) NewLeadsByNameSubstring(ctx context.Context, needle string) ([]NewLeadRow, error) {
	return r.queryNewLeads(ctx, `
		SELECT `+newLeadColumns+`
		FROM leads
		WHERE name ILIKE '%' || $1 || '%'
		LIMIT $2
	`, escapeLike(needle), branchLimit)
}

// NewLeadsByIDs resolves contact links onto their current-schema leads.
func (r *Repository) NewLeadsByIDs(ctx context.Context, ids []int64) ([]NewLeadRow, error) {
	if len(ids) == 0 {
		return []NewLeadRow{}, nil
	}
	return r.queryNewLeads(ctx, `
		SELECT `+newLeadColumns+`
		FROM leads
		WHERE id = ANY($1)
	`, ids)
}
