package service

import (
	"context"
	"testing"
	"time"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
	"lawdesk_backend/internal/search/repository"
	"lawdesk_backend/platform/logger"
)

type fakeStore struct {
	newLeads    []repository.NewLeadRow
	legacyLeads []repository.LegacyLeadRow
	contacts    []repository.ContactRow
	links       []repository.ContactLink
	children    []repository.SubleadChild
	childrenErr error

	newByID    []repository.NewLeadRow
	legacyByID []repository.LegacyLeadRow
}

func (f *fakeStore) NewLeadsByEmailEqual(_ context.Context, email string, fold bool) ([]repository.NewLeadRow, error) {
	return f.newLeads, nil
}
func (f *fakeStore) NewLeadsByEmailPrefix(_ context.Context, _ string) ([]repository.NewLeadRow, error) {
	return f.newLeads, nil
}
func (f *fakeStore) NewLeadsByPhonePatterns(_ context.Context, _ []string) ([]repository.NewLeadRow, error) {
	return f.newLeads, nil
}
func (f *fakeStore) NewLeadsByLeadNumber(_ context.Context, _ string) ([]repository.NewLeadRow, error) {
	return f.newLeads, nil
}
func (f *fakeStore) NewLeadsByNamePrefix(_ context.Context, _ []string) ([]repository.NewLeadRow, error) {
	return f.newLeads, nil
}
func (f *fakeStore) NewLeadsByNameSubstring(_ context.Context, _ string) ([]repository.NewLeadRow, error) {
	return f.newLeads, nil
}
func (f *fakeStore) NewLeadsByIDs(_ context.Context, _ []int64) ([]repository.NewLeadRow, error) {
	return f.newByID, nil
}

func (f *fakeStore) LegacyLeadsByEmailEqual(_ context.Context, _ string, _ bool) ([]repository.LegacyLeadRow, error) {
	return f.legacyLeads, nil
}
func (f *fakeStore) LegacyLeadsByEmailPrefix(_ context.Context, _ string) ([]repository.LegacyLeadRow, error) {
	return f.legacyLeads, nil
}
func (f *fakeStore) LegacyLeadsByPhonePatterns(_ context.Context, _ []string) ([]repository.LegacyLeadRow, error) {
	return f.legacyLeads, nil
}
func (f *fakeStore) LegacyLeadsByNumber(_ context.Context, _ string) ([]repository.LegacyLeadRow, error) {
	return f.legacyLeads, nil
}
func (f *fakeStore) LegacyLeadsByNamePrefix(_ context.Context, _ []string) ([]repository.LegacyLeadRow, error) {
	return f.legacyLeads, nil
}
func (f *fakeStore) LegacyLeadsByNameSubstring(_ context.Context, _ string) ([]repository.LegacyLeadRow, error) {
	return f.legacyLeads, nil
}
func (f *fakeStore) LegacyLeadsByIDs(_ context.Context, _ []int64) ([]repository.LegacyLeadRow, error) {
	return f.legacyByID, nil
}

func (f *fakeStore) ContactsByEmailEqual(_ context.Context, _ string, _ bool) ([]repository.ContactRow, error) {
	return f.contacts, nil
}
func (f *fakeStore) ContactsByEmailPrefix(_ context.Context, _ string) ([]repository.ContactRow, error) {
	return f.contacts, nil
}
func (f *fakeStore) ContactsByPhonePatterns(_ context.Context, _ []string) ([]repository.ContactRow, error) {
	return f.contacts, nil
}
func (f *fakeStore) ContactsByNamePrefix(_ context.Context, _ []string) ([]repository.ContactRow, error) {
	return f.contacts, nil
}
func (f *fakeStore) ContactsByNameSubstring(_ context.Context, _ string) ([]repository.ContactRow, error) {
	return f.contacts, nil
}
func (f *fakeStore) ContactsByLegacyLeadNumber(_ context.Context, _ string) ([]repository.ContactRow, error) {
	return f.contacts, nil
}
func (f *fakeStore) ContactLegacyLinks(_ context.Context, _ []int64) ([]repository.ContactLink, error) {
	return f.links, nil
}
func (f *fakeStore) SubleadChildren(_ context.Context, _ []int64) ([]repository.SubleadChild, error) {
	return f.children, f.childrenErr
}

func newTestService(store Store) *Service {
	return New(store, logger.New("test"), DefaultFuzzyLimit)
}

func int64Ptr(v int64) *int64 { return &v }

func TestSearchEmailPartitionsExactAndFuzzy(t *testing.T) {
	store := &fakeStore{
		newLeads: []repository.NewLeadRow{
			{ID: 1, LeadNumber: "L100", Name: "Dana", Email: "dana@example.com"},
			{ID: 2, LeadNumber: "L101", Name: "Support", Email: "help.dana@example.com"},
			{ID: 3, LeadNumber: "L102", Name: "Other", Email: "unrelated@example.com"},
		},
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), query.Classify("dana@example.com"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Exact) != 1 || res.Exact[0].ID != "1" {
		t.Fatalf("exact = %+v, want single lead 1", res.Exact)
	}
	if len(res.Fuzzy) != 1 || res.Fuzzy[0].ID != "2" {
		t.Fatalf("fuzzy = %+v, want single lead 2", res.Fuzzy)
	}
}

func TestSearchPhoneCountryCodeVariantIsExact(t *testing.T) {
	store := &fakeStore{
		newLeads: []repository.NewLeadRow{
			{ID: 7, LeadNumber: "L700", Name: "Noa", Mobile: "+972-50-782-5939"},
		},
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), query.Classify("0507825939"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Exact) != 1 {
		t.Fatalf("exact = %+v, want the stored country-code spelling", res.Exact)
	}
	if len(res.Fuzzy) != 0 {
		t.Fatalf("fuzzy = %+v, want empty", res.Fuzzy)
	}
}

func TestSearchLeadNumberDirectLeadBeatsContactView(t *testing.T) {
	store := &fakeStore{
		legacyLeads: []repository.LegacyLeadRow{
			{ID: 343, Name: "Master"},
		},
		contacts: []repository.ContactRow{
			{ID: 50, Name: "Ron Levi"},
		},
		links:      []repository.ContactLink{{ContactID: 50, LegacyLeadID: 343}},
		legacyByID: []repository.LegacyLeadRow{{ID: 343, Name: "Master"}},
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), query.Classify("343"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// The contact reached via the relationship is forced fuzzy, so the
	// exact direct hit on the same lead removes it outright.
	if len(res.Exact) != 1 || res.Exact[0].LeadType != domain.LeadTypeLegacy {
		t.Fatalf("exact = %+v, want the legacy lead itself", res.Exact)
	}
	if len(res.Fuzzy) != 0 {
		t.Fatalf("fuzzy = %+v, want the contact view deduplicated away", res.Fuzzy)
	}
	if len(res.All) != 1 {
		t.Fatalf("All = %+v, want one record for the lead", res.All)
	}
}

func TestSearchContactEmailExactOnSublead(t *testing.T) {
	store := &fakeStore{
		contacts: []repository.ContactRow{
			{ID: 61, Name: "Jona", Email: "j@x.com"},
		},
		links:      []repository.ContactLink{{ContactID: 61, LegacyLeadID: 501}},
		legacyByID: []repository.LegacyLeadRow{{ID: 501, MasterID: int64Ptr(500), Topic: "Estate"}},
		children:   []repository.SubleadChild{{ID: 501, MasterID: 500}},
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), query.Classify("j@x.com"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Exact) != 1 {
		t.Fatalf("exact = %+v, want the contact-resolved lead", res.Exact)
	}
	got := res.Exact[0]
	if got.LeadNumber != "500/2" {
		t.Fatalf("display number = %q, want sublead form 500/2", got.LeadNumber)
	}
	if !got.IsContact || got.ContactName != "Jona" || got.IsFuzzyMatch {
		t.Fatalf("candidate = %+v, want exact contact overlay", got)
	}
	if got.Topic != "Estate" {
		t.Fatalf("topic = %q, lead fields must survive the overlay", got.Topic)
	}
}

func TestSearchSubleadDisplayNumbers(t *testing.T) {
	store := &fakeStore{
		legacyLeads: []repository.LegacyLeadRow{
			{ID: 343, Name: "Master"},
			{ID: 410, MasterID: int64Ptr(343), Name: "Child A"},
			{ID: 512, MasterID: int64Ptr(343), Name: "Child B"},
		},
		children: []repository.SubleadChild{
			{ID: 410, MasterID: 343},
			{ID: 512, MasterID: 343},
		},
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), query.Classify("343"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	got := map[string]string{}
	for _, c := range res.All {
		got[c.ID] = c.LeadNumber
	}
	want := map[string]string{"343": "343", "410": "343/2", "512": "343/3"}
	for id, number := range want {
		if got[id] != number {
			t.Fatalf("display number for %s = %q, want %q", id, got[id], number)
		}
	}
}

func TestSearchSubleadByOwnNumberSurvivesDisplayRewrite(t *testing.T) {
	store := &fakeStore{
		legacyLeads: []repository.LegacyLeadRow{
			{ID: 410, MasterID: int64Ptr(343), Name: "Child A"},
		},
		children: []repository.SubleadChild{
			{ID: 410, MasterID: 343},
		},
	}
	svc := newTestService(store)

	// The display number becomes 343/2 before the match tier is derived;
	// the child must still be an exact hit on its own number.
	res, err := svc.Search(context.Background(), query.Classify("410"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Exact) != 1 || res.Exact[0].ID != "410" {
		t.Fatalf("exact = %+v, want the sublead itself", res.Exact)
	}
	if res.Exact[0].LeadNumber != "343/2" {
		t.Fatalf("display number = %q, want 343/2", res.Exact[0].LeadNumber)
	}
}

func TestSearchSubleadPlaceholderOnSiblingFetchFailure(t *testing.T) {
	store := &fakeStore{
		legacyLeads: []repository.LegacyLeadRow{
			{ID: 410, MasterID: int64Ptr(343), Name: "Child A"},
		},
		childrenErr: context.DeadlineExceeded,
	}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), query.Classify("410"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.All) != 1 || res.All[0].LeadNumber != "343/?" {
		t.Fatalf("All = %+v, want the placeholder display number", res.All)
	}
}

func TestDedupeNonContactReplacesContact(t *testing.T) {
	direct := domain.Candidate{ID: "9", LeadNumber: "L900", LeadType: domain.LeadTypeNew}
	viaContact := domain.Candidate{
		ID: "9", LeadNumber: "L900", LeadType: domain.LeadTypeContact,
		IsContact: true, ContactName: "Ron",
	}

	merged := dedupe([]domain.Candidate{viaContact, direct})
	if len(merged) != 1 {
		t.Fatalf("merged = %+v, want one record", merged)
	}
	if merged[0].IsContact {
		t.Fatal("direct lead record must replace the contact view")
	}
}

func TestDedupeExactReplacesFuzzyTwin(t *testing.T) {
	fuzzy := domain.Candidate{ID: "4", LeadNumber: "L400", LeadType: domain.LeadTypeNew, IsFuzzyMatch: true}
	exact := domain.Candidate{ID: "4", LeadNumber: "L400", LeadType: domain.LeadTypeNew}

	merged := dedupe([]domain.Candidate{fuzzy, exact})
	if len(merged) != 1 || merged[0].IsFuzzyMatch {
		t.Fatalf("merged = %+v, want the exact record only", merged)
	}
}

func TestFinalizeCapsFuzzyBucket(t *testing.T) {
	rows := make([]repository.NewLeadRow, 0, 8)
	for i := int64(1); i <= 8; i++ {
		rows = append(rows, repository.NewLeadRow{
			ID: i, LeadNumber: "L10" + string(rune('0'+i)),
			Name: "Office of dana", CreatedAt: time.Now(),
		})
	}
	store := &fakeStore{newLeads: rows}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), query.Classify("dana"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Fuzzy) != DefaultFuzzyLimit {
		t.Fatalf("fuzzy bucket has %d records, want cap %d", len(res.Fuzzy), DefaultFuzzyLimit)
	}
	if len(res.All) != 8 {
		t.Fatalf("master cache has %d records, want all 8", len(res.All))
	}
}

func TestRefilterNarrowsCachedResults(t *testing.T) {
	svc := newTestService(&fakeStore{})
	cached := []domain.Candidate{
		{ID: "1", LeadNumber: "L1", Name: "Dana Levi", LeadType: domain.LeadTypeNew},
		{ID: "2", LeadNumber: "L2", Name: "Danielle", LeadType: domain.LeadTypeNew},
		{ID: "3", LeadNumber: "L3", Name: "Ron", LeadType: domain.LeadTypeNew},
	}

	res := svc.Refilter(cached, query.Classify("dani"))
	if len(res.All) != 1 || res.All[0].ID != "2" {
		t.Fatalf("refiltered = %+v, want only Danielle", res.All)
	}
	if len(res.Exact) != 1 {
		t.Fatalf("exact = %+v, want the name-prefix record", res.Exact)
	}
}

func TestMergeSecondaryNeverTouchesExact(t *testing.T) {
	svc := newTestService(&fakeStore{})
	base := Result{
		Exact: []domain.Candidate{{ID: "1", LeadNumber: "L1", LeadType: domain.LeadTypeNew}},
		All:   []domain.Candidate{{ID: "1", LeadNumber: "L1", LeadType: domain.LeadTypeNew}},
	}
	extra := []domain.Candidate{
		{ID: "1", LeadNumber: "L1", LeadType: domain.LeadTypeNew, Name: "Duplicate"},
		{ID: "2", LeadNumber: "L2", LeadType: domain.LeadTypeNew, Name: "Fresh"},
	}

	merged := svc.MergeSecondary(base, extra, query.Classify("fresh"))
	if len(merged.Exact) != 1 || merged.Exact[0].Name != "" {
		t.Fatalf("exact = %+v, the secondary pass must not overwrite it", merged.Exact)
	}
	if len(merged.Fuzzy) != 1 || merged.Fuzzy[0].ID != "2" {
		t.Fatalf("fuzzy = %+v, want only the new record", merged.Fuzzy)
	}
	if !merged.Fuzzy[0].IsFuzzyMatch {
		t.Fatal("secondary results are fuzzy by definition")
	}
}

func TestRelevanceOrdersPrefixBeforeSubstring(t *testing.T) {
	q := query.Classify("dana")
	prefix := domain.Candidate{Name: "Dana Levi"}
	early := domain.Candidate{Name: "Adv. Dana"}
	late := domain.Candidate{Name: "The office of counsel dana"}

	if relevance(prefix, q) != 50 {
		t.Fatalf("prefix score = %d, want 50", relevance(prefix, q))
	}
	if relevance(early, q) <= relevance(late, q) {
		t.Fatalf("earlier substring must outrank later: %d vs %d",
			relevance(early, q), relevance(late, q))
	}
	if relevance(late, q) < 10 {
		t.Fatalf("substring floor violated: %d", relevance(late, q))
	}
	// A candidate matched through a side path (phone, transliterated name)
	// carries no name or email substring and sorts after every text hit.
	side := domain.Candidate{Name: "Ron", Phone: "0501234567"}
	if relevance(side, q) != 0 {
		t.Fatalf("side-path score = %d, want 0", relevance(side, q))
	}
}
