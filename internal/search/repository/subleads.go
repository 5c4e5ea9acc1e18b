package repository

import (
	"context"
)

// SubleadChild is one child row of a master legacy lead, used for suffix
// assignment.
type SubleadChild struct {
	ID       int64
	MasterID int64
}

// SubleadChildren batch-fetches, for every distinct master id, all legacy
// rows whose master reference equals it, ordered by ascending row id. Suffix
// assignment walks this ordering, so it is stable only within one batch.
func (r *Repository) SubleadChildren(ctx context.Context, masterIDs []int64) ([]SubleadChild, error) {
	if len(masterIDs) == 0 {
		return []SubleadChild{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, master_id
		FROM leads_lead
		WHERE master_id = ANY($1)
		ORDER BY id ASC
	`, masterIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := make([]SubleadChild, 0)
	for rows.Next() {
		var child SubleadChild
		if err := rows.Scan(&child.ID, &child.MasterID); err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, rows.Err()
}
