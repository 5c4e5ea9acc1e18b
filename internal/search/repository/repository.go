// Package repository issues the per-source predicate queries the search
// matchers fan out. Predicates are intentionally loose (recall-oriented);
// the service layer re-derives exactness against the live query string.
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// branchLimit caps each predicate branch. The merger trims further; this
// only bounds per-branch transfer.
const branchLimit = 25

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NewLeadRow is a row of the current-schema leads table.
type NewLeadRow struct {
	ID         int64
	LeadNumber string
	Name       string
	Email      string
	Phone      string
	Mobile     string
	Topic      string
	Stage      string
	CreatedAt  time.Time
}

// LegacyLeadRow is a row of the legacy leads_lead table. MasterID is set on
// subleads and references another leads_lead row.
type LegacyLeadRow struct {
	ID        int64
	MasterID  *int64
	Name      string
	Email     string
	Phone     string
	Mobile    string
	Topic     string
	Stage     string
	CreatedAt time.Time
}

// ContactRow is a row of the detached contacts table. NewLeadID is the
// optional direct foreign key onto the current-schema leads table; links to
// legacy leads go through the leads_contact_leads relationship table.
type ContactRow struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Mobile    string
	NewLeadID *int64
	CreatedAt time.Time
}

// ContactLink is one relationship row joining a contact to a legacy lead.
type ContactLink struct {
	ContactID    int64
	LegacyLeadID int64
}

func scanNewLeads(rows pgx.Rows) ([]NewLeadRow, error) {
	defer rows.Close()
	items := make([]NewLeadRow, 0)
	for rows.Next() {
		var item NewLeadRow
		if err := rows.Scan(
			&item.ID, &item.LeadNumber, &item.Name, &item.Email,
			&item.Phone, &item.Mobile, &item.Topic, &item.Stage, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanLegacyLeads(rows pgx.Rows) ([]LegacyLeadRow, error) {
	defer rows.Close()
	items := make([]LegacyLeadRow, 0)
	for rows.Next() {
		var item LegacyLeadRow
		if err := rows.Scan(
			&item.ID, &item.MasterID, &item.Name, &item.Email,
			&item.Phone, &item.Mobile, &item.Topic, &item.Stage, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanContacts(rows pgx.Rows) ([]ContactRow, error) {
	defer rows.Close()
	items := make([]ContactRow, 0)
	for rows.Next() {
		var item ContactRow
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Email, &item.Phone,
			&item.Mobile, &item.NewLeadID, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) queryNewLeads(ctx context.Context, sql string, args ...any) ([]NewLeadRow, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanNewLeads(rows)
}

func (r *Repository) queryLegacyLeads(ctx context.Context, sql string, args ...any) ([]LegacyLeadRow, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanLegacyLeads(rows)
}

func (r *Repository) queryContacts(ctx context.Context, sql string, args ...any) ([]ContactRow, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}
