// Package service assembles the lead detail and recent views, including
// sublead display numbering for legacy records.
package service

import (
	"context"
	"strconv"

	"lawdesk_backend/internal/leads/repository"
	"lawdesk_backend/platform/logger"
)

type LegacyLeadDetail struct {
	Lead     repository.LegacyLead
	Display  string
	Subleads []SubleadRef
	Contacts []repository.Contact
}

// SubleadRef is one row of a master's sublead chain.
type SubleadRef struct {
	ID      int64
	Display string
}

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) NewLead(ctx context.Context, id int64) (*repository.NewLead, error) {
	return s.repo.NewLeadByID(ctx, id)
}

// LegacyLead fetches a legacy lead with its display number, sublead chain,
// and related contacts. For a child the display is "<master>/<n>"; a sibling
// fetch failure degrades to the "<master>/?" placeholder.
func (s *Service) LegacyLead(ctx context.Context, id int64) (*LegacyLeadDetail, error) {
	lead, err := s.repo.LegacyLeadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &LegacyLeadDetail{Lead: *lead, Display: strconv.FormatInt(lead.ID, 10)}

	masterID := lead.ID
	if lead.MasterID != nil {
		masterID = *lead.MasterID
	}

	siblings, err := s.repo.LegacySiblings(ctx, masterID)
	if err != nil {
		s.log.SearchBranchError("leads_lead", "sublead_siblings", err)
		if lead.MasterID != nil {
			detail.Display = strconv.FormatInt(masterID, 10) + "/?"
		}
	} else {
		master := strconv.FormatInt(masterID, 10)
		for i, sibling := range siblings {
			display := master + "/" + strconv.Itoa(i+2)
			detail.Subleads = append(detail.Subleads, SubleadRef{ID: sibling.ID, Display: display})
			if sibling.ID == lead.ID {
				detail.Display = display
			}
		}
	}

	contacts, err := s.repo.ContactsByLegacyLead(ctx, lead.ID)
	if err != nil {
		s.log.SearchBranchError("leads_contact", "related_contacts", err)
		contacts = []repository.Contact{}
	}
	detail.Contacts = contacts

	return detail, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]repository.NewLead, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.RecentNewLeads(ctx, limit)
}
