package service

import (
	"context"
	"strconv"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
	"lawdesk_backend/internal/search/repository"
)

// resolveContacts turns the collected rows into candidates. Lead rows map
// straight through; contact rows are resolved onto their underlying lead
// (direct lead_id first, then the first legacy relationship link) and the
// contact's own name, email and phone are overlaid on the lead record. A
// contact with no resolvable lead is dropped, it has nothing to open.
func (s *Service) resolveContacts(ctx context.Context, q query.Query, col *collector) ([]domain.Candidate, error) {
	col.mu.Lock()
	newRows := col.newRows
	legRows := col.legRows
	contacts := col.contacts
	col.mu.Unlock()

	candidates := make([]domain.Candidate, 0, len(newRows)+len(legRows)+len(contacts))
	for _, row := range newRows {
		candidates = append(candidates, newLeadCandidate(row))
	}
	for _, row := range legRows {
		candidates = append(candidates, legacyLeadCandidate(row))
	}

	if len(contacts) == 0 {
		return candidates, nil
	}

	directIDs := make([]int64, 0, len(contacts))
	unlinked := make([]int64, 0, len(contacts))
	for _, c := range contacts {
		if c.NewLeadID != nil {
			directIDs = append(directIDs, *c.NewLeadID)
		} else {
			unlinked = append(unlinked, c.ID)
		}
	}

	var firstLegacy map[int64]int64
	legacyIDs := make([]int64, 0, len(unlinked))
	if len(unlinked) > 0 {
		links, err := s.store.ContactLegacyLinks(ctx, unlinked)
		if err != nil {
			return candidates, err
		}
		firstLegacy = make(map[int64]int64, len(links))
		for _, link := range links {
			// Links arrive ordered, so the first one per contact wins.
			if _, ok := firstLegacy[link.ContactID]; !ok {
				firstLegacy[link.ContactID] = link.LegacyLeadID
				legacyIDs = append(legacyIDs, link.LegacyLeadID)
			}
		}
	}

	newByID := make(map[int64]repository.NewLeadRow, len(directIDs))
	if len(directIDs) > 0 {
		rows, err := s.store.NewLeadsByIDs(ctx, directIDs)
		if err != nil {
			return candidates, err
		}
		for _, row := range rows {
			newByID[row.ID] = row
		}
	}

	legacyByID := make(map[int64]repository.LegacyLeadRow, len(legacyIDs))
	if len(legacyIDs) > 0 {
		rows, err := s.store.LegacyLeadsByIDs(ctx, legacyIDs)
		if err != nil {
			return candidates, err
		}
		for _, row := range rows {
			legacyByID[row.ID] = row
		}
	}

	for _, c := range contacts {
		var base domain.Candidate
		switch {
		case c.NewLeadID != nil:
			row, ok := newByID[*c.NewLeadID]
			if !ok {
				continue
			}
			base = newLeadCandidate(row)
		default:
			leadID, ok := firstLegacy[c.ID]
			if !ok {
				continue
			}
			row, ok := legacyByID[leadID]
			if !ok {
				continue
			}
			base = legacyLeadCandidate(row)
		}
		candidates = append(candidates, contactCandidate(c, base))
	}

	return candidates, nil
}

// contactCandidate overlays a contact row on its resolved lead. Identity
// stays the lead's so the dedup pass can collapse it against a direct hit on
// the same lead.
func contactCandidate(c repository.ContactRow, base domain.Candidate) domain.Candidate {
	out := base
	out.LeadType = domain.LeadTypeContact
	out.IsContact = true
	out.ContactName = c.Name
	if c.Name != "" {
		out.Name = c.Name
	}
	if c.Email != "" {
		out.Email = c.Email
	}
	if c.Phone != "" {
		out.Phone = c.Phone
	}
	if c.Mobile != "" {
		out.Mobile = c.Mobile
	}
	return out
}

// formatSubleads rewrites the display number of every legacy child candidate
// to "<master>/<n>". The suffix is the child's 1-based position among the
// master's children ordered by row id, offset so the first child reads "/2".
// When the sibling fetch fails the child still renders, with a "?" suffix.
func (s *Service) formatSubleads(ctx context.Context, candidates []domain.Candidate) []domain.Candidate {
	masterIDs := make([]int64, 0)
	seen := map[int64]bool{}
	for _, c := range candidates {
		if c.MasterID != nil && !seen[*c.MasterID] {
			seen[*c.MasterID] = true
			masterIDs = append(masterIDs, *c.MasterID)
		}
	}
	if len(masterIDs) == 0 {
		return candidates
	}

	suffixes := map[int64]int{}
	children, err := s.store.SubleadChildren(ctx, masterIDs)
	if err != nil {
		s.log.SearchBranchError("leads_lead", "sublead_children", err)
	} else {
		position := map[int64]int{}
		for _, child := range children {
			position[child.MasterID]++
			suffixes[child.ID] = position[child.MasterID] + 1
		}
	}

	for i, c := range candidates {
		if c.MasterID == nil {
			continue
		}
		id, err := strconv.ParseInt(c.ID, 10, 64)
		if err != nil {
			continue
		}
		master := strconv.FormatInt(*c.MasterID, 10)
		if n, ok := suffixes[id]; ok {
			candidates[i].LeadNumber = master + "/" + strconv.Itoa(n)
		} else {
			candidates[i].LeadNumber = master + "/?"
		}
	}
	return candidates
}
