// Package repository reads lead records for the detail and recent views.
package repository

import (
	"context"
	"errors"
	"time"

	"lawdesk_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewLead struct {
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

type LegacyLead struct {
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

type Contact struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Mobile    string
	CreatedAt time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) NewLeadByID(ctx context.Context, id int64) (*NewLead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, lead_number, name, email, phone, mobile, topic, stage, created_at
		FROM leads
		WHERE id = $1
	`, id)

	var lead NewLead
	err := row.Scan(&lead.ID, &lead.LeadNumber, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Mobile, &lead.Topic, &lead.Stage, &lead.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("lead not found")
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *Repository) LegacyLeadByID(ctx context.Context, id int64) (*LegacyLead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, master_id, name, email, phone, mobile, topic, stage, created_at
		FROM leads_lead
		WHERE id = $1
	`, id)

	var lead LegacyLead
	err := row.Scan(&lead.ID, &lead.MasterID, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Mobile, &lead.Topic, &lead.Stage, &lead.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("lead not found")
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// LegacySiblings returns all legacy rows referencing the given master,
// ordered by ascending id. Used for sublead display numbering.
func (r *Repository) LegacySiblings(ctx context.Context, masterID int64) ([]LegacyLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, master_id, name, email, phone, mobile, topic, stage, created_at
		FROM leads_lead
		WHERE master_id = $1
		ORDER BY id ASC
	`, masterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]LegacyLead, 0)
	for rows.Next() {
		var lead LegacyLead
		if err := rows.Scan(&lead.ID, &lead.MasterID, &lead.Name, &lead.Email,
			&lead.Phone, &lead.Mobile, &lead.Topic, &lead.Stage, &lead.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// ContactsByLegacyLead returns the contacts related to a legacy lead.
func (r *Repository) ContactsByLegacyLead(ctx context.Context, leadID int64) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.email, c.phone, c.mobile, c.created_at
		FROM leads_contact c
		JOIN leads_contact_leads rel ON rel.contact_id = c.id
		WHERE rel.leadslead_id = $1
		ORDER BY c.id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Mobile, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *Repository) RecentNewLeads(ctx context.Context, limit int) ([]NewLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_number, name, email, phone, mobile, topic, stage, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]NewLead, 0)
	for rows.Next() {
		var lead NewLead
		if err := rows.Scan(&lead.ID, &lead.LeadNumber, &lead.Name, &lead.Email,
			&lead.Phone, &lead.Mobile, &lead.Topic, &lead.Stage, &lead.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// CountCreatedSince supports the daily digest.
func (r *Repository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM leads WHERE created_at >= $1) +
			(SELECT COUNT(*) FROM leads_lead WHERE created_at >= $1)
	`, since).Scan(&count)
	return count, err
}
