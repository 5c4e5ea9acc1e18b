package repository

import (
	"context"
	"strconv"
)

const legacyLeadColumns = `id, master_id, name, email, phone, mobile, topic, stage, created_at`

// LegacyLeadsByEmailEqual returns legacy leads whose email equals the query.
func (r *Repository) LegacyLeadsByEmailEqual(ctx context.Context, email string, fold bool) ([]LegacyLeadRow, error) {
	if fold {
		return r.queryLegacyLeads(ctx, `
			SELECT `+legacyLeadColumns+`
			FROM leads_lead
			WHERE lower(email) = lower($1)
			LIMIT $2
		`, email, branchLimit)
	}
	return r.queryLegacyLeads(ctx, `
		SELECT `+legacyLeadColumns+`
		FROM leads_lead
		WHERE email = $1
		LIMIT $2
	`, email, branchLimit)
}

// LegacyLeadsByEmailPrefix returns legacy leads whose email starts with the query.
func (r *Repository) LegacyLeadsByEmailPrefix(ctx context.Context, prefix string) ([]LegacyLeadRow, error) {
	return r.queryLegacyLeads(ctx, `
		SELECT `+legacyLeadColumns+`
		FROM leads_lead
		WHERE email ILIKE $1 || '%'
		LIMIT $2
	`, escapeLike(prefix), branchLimit)
}

// LegacyLeadsByPhonePatterns returns legacy leads whose phone or mobile field
// matches any of the given ILIKE patterns.
func (r *Repository) LegacyLeadsByPhonePatterns(ctx context.Context, patterns []string) ([]LegacyLeadRow, error) {
	if len(patterns) == 0 {
		return []LegacyLeadRow{}, nil
	}
	return r.queryLegacyLeads(ctx, `
		SELECT `+legacyLeadColumns+`
		FROM leads_lead
		WHERE phone ILIKE ANY($1) OR mobile ILIKE ANY($1)
		LIMIT $2
	`, patterns, branchLimit)
}

// LegacyLeadsByNumber returns legacy leads whose numeric id starts with the
// digit residue, plus the children of an exactly-referenced master so a
// sublead chain surfaces alongside its master.
func (r *Repository) LegacyLeadsByNumber(ctx context.Context, residue string) ([]LegacyLeadRow, error) {
	exact, err := strconv.ParseInt(residue, 10, 64)
	if err != nil {
		exact = -1
	}
	return r.queryLegacyLeads(ctx, `
		SELECT `+legacyLeadColumns+`
		FROM leads_lead
		WHERE CAST(id AS TEXT) LIKE $1 || '%' OR master_id = $2
		ORDER BY id ASC
		LIMIT $3
	`, residue, exact, branchLimit)
}

// LegacyLeadsByNamePrefix returns legacy leads whose name starts with any of
// the spelling variants.
func (r *Repository) LegacyLeadsByNamePrefix(ctx context.Context, variants []string) ([]LegacyLeadRow, error) {
	if len(variants) == 0 {
		return []LegacyLeadRow{}, nil
	}
	return r.queryLegacyLeads(ctx, `
		SELECT `+legacyLeadColumns+`
		FROM leads_lead
		WHERE name ILIKE ANY($1)
		LIMIT $2
	`, prefixPatterns(variants), branchLimit)
}

// LegacyLeadsByNameSubstring backs the secondary fuzzy name search.
func (r *Repository) LegacyLeadsByNameSubstring(ctx context.Context, needle string) ([]LegacyLeadRow, error) {
	return r.queryLegacyLeads(ctx, `
		SELECT `+legacyLeadColumns+`
		FROM leads_lead
		WHERE name ILIKE '%' || $1 || '%'
		LIMIT $2
	`, escapeLike(needle), branchLimit)
}

// LegacyLeadsByIDs resolves contact relationship rows onto their legacy leads.
func (r *Repository) LegacyLeadsByIDs(ctx context.Context, ids []int64) ([]LegacyLeadRow, error) {
	if len(ids) == 0 {
		return []LegacyLeadRow{}, nil
	}
	return r.queryLegacyLeads(ctx, `
		SELECT `+legacyLeadColumns+`
		FROM leads_lead
		WHERE id = ANY($1)
	`, ids)
}
