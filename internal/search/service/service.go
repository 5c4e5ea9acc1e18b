// Package service implements the multi-source search pipeline: per-source
// matchers fan out against the store, contacts are resolved onto their leads,
// legacy results get sublead display numbers, and the merger produces the
// exact and fuzzy buckets.
package service

import (
	"context"
	"strconv"
	"sync"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
	"lawdesk_backend/internal/search/repository"
	"lawdesk_backend/platform/logger"
	"lawdesk_backend/platform/phone"
	"lawdesk_backend/platform/translit"

	"golang.org/x/sync/errgroup"
)

// DefaultFuzzyLimit caps the fuzzy bucket when no override is configured.
const DefaultFuzzyLimit = 5

// Store is the slice of the repository the search pipeline needs.
type Store interface {
	NewLeadsByEmailEqual(ctx context.Context, email string, fold bool) ([]repository.NewLeadRow, error)
	NewLeadsByEmailPrefix(ctx context.Context, prefix string) ([]repository.NewLeadRow, error)
	NewLeadsByPhonePatterns(ctx context.Context, patterns []string) ([]repository.NewLeadRow, error)
	NewLeadsByLeadNumber(ctx context.Context, residue string) ([]repository.NewLeadRow, error)
	NewLeadsByNamePrefix(ctx context.Context, variants []string) ([]repository.NewLeadRow, error)
	NewLeadsByNameSubstring(ctx context.Context, needle string) ([]repository.NewLeadRow, error)
	NewLeadsByIDs(ctx context.Context, ids []int64) ([]repository.NewLeadRow, error)

	LegacyLeadsByEmailEqual(ctx context.Context, email string, fold bool) ([]repository.LegacyLeadRow, error)
	LegacyLeadsByEmailPrefix(ctx context.Context, prefix string) ([]repository.LegacyLeadRow, error)
	LegacyLeadsByPhonePatterns(ctx context.Context, patterns []string) ([]repository.LegacyLeadRow, error)
	LegacyLeadsByNumber(ctx context.Context, residue string) ([]repository.LegacyLeadRow, error)
	LegacyLeadsByNamePrefix(ctx context.Context, variants []string) ([]repository.LegacyLeadRow, error)
	LegacyLeadsByNameSubstring(ctx context.Context, needle string) ([]repository.LegacyLeadRow, error)
	LegacyLeadsByIDs(ctx context.Context, ids []int64) ([]repository.LegacyLeadRow, error)

	ContactsByEmailEqual(ctx context.Context, email string, fold bool) ([]repository.ContactRow, error)
	ContactsByEmailPrefix(ctx context.Context, prefix string) ([]repository.ContactRow, error)
	ContactsByPhonePatterns(ctx context.Context, patterns []string) ([]repository.ContactRow, error)
	ContactsByNamePrefix(ctx context.Context, variants []string) ([]repository.ContactRow, error)
	ContactsByNameSubstring(ctx context.Context, needle string) ([]repository.ContactRow, error)
	ContactsByLegacyLeadNumber(ctx context.Context, residue string) ([]repository.ContactRow, error)
	ContactLegacyLinks(ctx context.Context, contactIDs []int64) ([]repository.ContactLink, error)

	SubleadChildren(ctx context.Context, masterIDs []int64) ([]repository.SubleadChild, error)
}

// Result is one settled search outcome plus the undivided master list the
// extension filter re-walks on later keystrokes.
type Result struct {
	Exact []domain.Candidate
	Fuzzy []domain.Candidate
	// All is the deduplicated union before partitioning, the master cache.
	All []domain.Candidate
}

type Service struct {
	store      Store
	log        *logger.Logger
	fuzzyLimit int
}

func New(store Store, log *logger.Logger, fuzzyLimit int) *Service {
	if fuzzyLimit <= 0 {
		fuzzyLimit = DefaultFuzzyLimit
	}
	return &Service{store: store, log: log, fuzzyLimit: fuzzyLimit}
}

// Search runs the full multi-source pipeline for a classified query.
// Individual branch failures are logged and degrade to empty results; only a
// completely unusable query yields an empty Result with no error.
func (s *Service) Search(ctx context.Context, q query.Query) (Result, error) {
	col := newCollector()

	switch q.Kind {
	case query.KindEmail:
		s.searchEmail(ctx, q, col)
	case query.KindPhone:
		s.searchPhone(ctx, q, col)
	case query.KindLeadNumber:
		s.searchLeadNumber(ctx, q, col)
	case query.KindName:
		s.searchName(ctx, q, col)
	default:
		return Result{All: []domain.Candidate{}, Exact: []domain.Candidate{}, Fuzzy: []domain.Candidate{}}, nil
	}

	candidates, err := s.resolveContacts(ctx, q, col)
	if err != nil {
		// The contact hop is a required path: without it contact rows
		// cannot be displayed. Degrade to the lead-only candidates.
		s.log.SearchBranchError("contacts", "resolve", err)
	}

	candidates = s.formatSubleads(ctx, candidates)

	result := s.finalize(q, candidates)
	s.log.SearchEvent("search_settled", string(q.Kind), len(result.Exact), len(result.Fuzzy))
	return result, nil
}

// SecondaryFuzzy is the delayed name-only substring pass kicked off for
// queries with no exact match. Everything it returns is fuzzy by definition.
func (s *Service) SecondaryFuzzy(ctx context.Context, q query.Query) ([]domain.Candidate, error) {
	if len([]rune(q.Raw)) < 3 {
		return []domain.Candidate{}, nil
	}

	col := newCollector()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(s.branch("leads", "name_substring", func() error {
		rows, err := s.store.NewLeadsByNameSubstring(gctx, q.Raw)
		if err != nil {
			return err
		}
		col.addNewLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_lead", "name_substring", func() error {
		rows, err := s.store.LegacyLeadsByNameSubstring(gctx, q.Raw)
		if err != nil {
			return err
		}
		col.addLegacyLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_contact", "name_substring", func() error {
		rows, err := s.store.ContactsByNameSubstring(gctx, q.Raw)
		if err != nil {
			return err
		}
		col.addContacts(rows)
		return nil
	}))
	_ = g.Wait()

	candidates, err := s.resolveContacts(ctx, q, col)
	if err != nil {
		s.log.SearchBranchError("contacts", "resolve_secondary", err)
	}
	candidates = s.formatSubleads(ctx, candidates)

	for i := range candidates {
		candidates[i].IsFuzzyMatch = true
	}
	return candidates, nil
}

// Refilter re-applies the per-type matching and exactness rules to a cached
// master list for a compatible query extension, with no store round-trip.
func (s *Service) Refilter(cached []domain.Candidate, q query.Query) Result {
	return s.finalize(q, cached)
}

// FuzzyLimit exposes the configured fuzzy bucket cap.
func (s *Service) FuzzyLimit() int {
	return s.fuzzyLimit
}

// branch wraps one predicate branch: any failure is logged and swallowed so
// sibling branches are never aborted.
func (s *Service) branch(source, name string, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			s.log.SearchBranchError(source, name, err)
		}
		return nil
	}
}

func (s *Service) searchEmail(ctx context.Context, q query.Query, col *collector) {
	g, gctx := errgroup.WithContext(ctx)

	// Equality runs apart from the prefix predicates so a complete address
	// always surfaces as exact even while prefix results arrive partially
	// ordered.
	for _, fold := range []bool{false, true} {
		fold := fold
		g.Go(s.branch("leads", "email_equal", func() error {
			rows, err := s.store.NewLeadsByEmailEqual(gctx, q.Raw, fold)
			if err != nil {
				return err
			}
			col.addNewLeads(rows)
			return nil
		}))
		g.Go(s.branch("leads_lead", "email_equal", func() error {
			rows, err := s.store.LegacyLeadsByEmailEqual(gctx, q.Raw, fold)
			if err != nil {
				return err
			}
			col.addLegacyLeads(rows)
			return nil
		}))
		g.Go(s.branch("leads_contact", "email_equal", func() error {
			rows, err := s.store.ContactsByEmailEqual(gctx, q.Raw, fold)
			if err != nil {
				return err
			}
			col.addContacts(rows)
			return nil
		}))
	}

	g.Go(s.branch("leads", "email_prefix", func() error {
		rows, err := s.store.NewLeadsByEmailPrefix(gctx, q.Raw)
		if err != nil {
			return err
		}
		col.addNewLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_lead", "email_prefix", func() error {
		rows, err := s.store.LegacyLeadsByEmailPrefix(gctx, q.Raw)
		if err != nil {
			return err
		}
		col.addLegacyLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_contact", "email_prefix", func() error {
		rows, err := s.store.ContactsByEmailPrefix(gctx, q.Raw)
		if err != nil {
			return err
		}
		col.addContacts(rows)
		return nil
	}))

	_ = g.Wait()
}

func (s *Service) searchPhone(ctx context.Context, q query.Query, col *collector) {
	patterns := phonePatterns(q.Digits)
	if len(patterns) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.branch("leads", "phone", func() error {
		rows, err := s.store.NewLeadsByPhonePatterns(gctx, patterns)
		if err != nil {
			return err
		}
		col.addNewLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_lead", "phone", func() error {
		rows, err := s.store.LegacyLeadsByPhonePatterns(gctx, patterns)
		if err != nil {
			return err
		}
		col.addLegacyLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_contact", "phone", func() error {
		rows, err := s.store.ContactsByPhonePatterns(gctx, patterns)
		if err != nil {
			return err
		}
		col.addContacts(rows)
		return nil
	}))
	_ = g.Wait()
}

func (s *Service) searchLeadNumber(ctx context.Context, q query.Query, col *collector) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.branch("leads", "lead_number", func() error {
		rows, err := s.store.NewLeadsByLeadNumber(gctx, q.LeadNumber)
		if err != nil {
			return err
		}
		col.addNewLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_lead", "lead_number", func() error {
		rows, err := s.store.LegacyLeadsByNumber(gctx, q.LeadNumber)
		if err != nil {
			return err
		}
		col.addLegacyLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_contact", "lead_number", func() error {
		rows, err := s.store.ContactsByLegacyLeadNumber(gctx, q.LeadNumber)
		if err != nil {
			return err
		}
		col.addContacts(rows)
		return nil
	}))
	_ = g.Wait()
}

func (s *Service) searchName(ctx context.Context, q query.Query, col *collector) {
	variants := translit.Variants(q.Raw)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.branch("leads", "name_prefix", func() error {
		rows, err := s.store.NewLeadsByNamePrefix(gctx, variants)
		if err != nil {
			return err
		}
		col.addNewLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_lead", "name_prefix", func() error {
		rows, err := s.store.LegacyLeadsByNamePrefix(gctx, variants)
		if err != nil {
			return err
		}
		col.addLegacyLeads(rows)
		return nil
	}))
	g.Go(s.branch("leads_contact", "name_prefix", func() error {
		rows, err := s.store.ContactsByNamePrefix(gctx, variants)
		if err != nil {
			return err
		}
		col.addContacts(rows)
		return nil
	}))
	_ = g.Wait()
}

// phonePatterns expands the query digits into the loose ILIKE patterns of
// every normalization variant: prefix templates always, a suffix pattern for
// variants long enough to catch country-code-prepended storage.
func phonePatterns(digits string) []string {
	seen := map[string]bool{}
	patterns := make([]string, 0, 16)
	for _, variant := range phone.Variants(digits) {
		for _, p := range phone.SearchPatterns(variant) {
			if !seen[p] {
				seen[p] = true
				patterns = append(patterns, p)
			}
		}
		if p := phone.SuffixPattern(variant); p != "" && !seen[p] {
			seen[p] = true
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// collector accumulates raw rows from concurrently running branches.
type collector struct {
	mu       sync.Mutex
	newRows  []repository.NewLeadRow
	legRows  []repository.LegacyLeadRow
	contacts []repository.ContactRow
}

func newCollector() *collector {
	return &collector{}
}

func (c *collector) addNewLeads(rows []repository.NewLeadRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newRows = append(c.newRows, rows...)
}

func (c *collector) addLegacyLeads(rows []repository.LegacyLeadRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.legRows = append(c.legRows, rows...)
}

func (c *collector) addContacts(rows []repository.ContactRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contacts = append(c.contacts, rows...)
}

func newLeadCandidate(row repository.NewLeadRow) domain.Candidate {
	return domain.Candidate{
		ID:         strconv.FormatInt(row.ID, 10),
		LeadNumber: row.LeadNumber,
		Name:       row.Name,
		Email:      row.Email,
		Phone:      row.Phone,
		Mobile:     row.Mobile,
		Topic:      row.Topic,
		Stage:      row.Stage,
		CreatedAt:  row.CreatedAt,
		LeadType:   domain.LeadTypeNew,
	}
}

func legacyLeadCandidate(row repository.LegacyLeadRow) domain.Candidate {
	return domain.Candidate{
		ID:         strconv.FormatInt(row.ID, 10),
		LeadNumber: strconv.FormatInt(row.ID, 10),
		Name:       row.Name,
		Email:      row.Email,
		Phone:      row.Phone,
		Mobile:     row.Mobile,
		Topic:      row.Topic,
		Stage:      row.Stage,
		CreatedAt:  row.CreatedAt,
		LeadType:   domain.LeadTypeLegacy,
		MasterID:   row.MasterID,
	}
}
