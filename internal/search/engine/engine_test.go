package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
	"lawdesk_backend/internal/search/service"
	"lawdesk_backend/platform/logger"
)

type fakeConfig struct {
	ttl       time.Duration
	noExact   time.Duration
	secondary time.Duration
}

func (c fakeConfig) GetSearchSessionTTL() time.Duration          { return c.ttl }
func (c fakeConfig) GetSearchNoExactDelay() time.Duration        { return c.noExact }
func (c fakeConfig) GetSearchSecondaryFuzzyDelay() time.Duration { return c.secondary }

// fakeSearcher serves canned results per query string and delegates the pure
// in-memory operations to the real service implementation.
type fakeSearcher struct {
	svc *service.Service

	mu        sync.Mutex
	calls     int
	results   map[string]service.Result
	blockers  map[string]chan struct{}
	secondary []domain.Candidate
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		svc:      service.New(nil, logger.New("test"), service.DefaultFuzzyLimit),
		results:  map[string]service.Result{},
		blockers: map[string]chan struct{}{},
	}
}

func (f *fakeSearcher) Search(_ context.Context, q query.Query) (service.Result, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockers[q.Raw]
	res := f.results[q.Raw]
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return res, nil
}

func (f *fakeSearcher) SecondaryFuzzy(_ context.Context, _ query.Query) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secondary, nil
}

func (f *fakeSearcher) Refilter(cached []domain.Candidate, q query.Query) service.Result {
	return f.svc.Refilter(cached, q)
}

func (f *fakeSearcher) MergeSecondary(base service.Result, extra []domain.Candidate, q query.Query) service.Result {
	return f.svc.MergeSecondary(base, extra, q)
}

func (f *fakeSearcher) searchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func lead(id, name string) domain.Candidate {
	return domain.Candidate{ID: id, LeadNumber: "L" + id, Name: name, LeadType: domain.LeadTypeNew}
}

func resultOf(candidates ...domain.Candidate) service.Result {
	exact := make([]domain.Candidate, 0)
	fuzzy := make([]domain.Candidate, 0)
	for _, c := range candidates {
		if c.IsFuzzyMatch {
			fuzzy = append(fuzzy, c)
		} else {
			exact = append(exact, c)
		}
	}
	return service.Result{Exact: exact, Fuzzy: fuzzy, All: candidates}
}

func newTestManager(searcher Searcher) *Manager {
	cfg := fakeConfig{ttl: time.Minute, noExact: 20 * time.Millisecond, secondary: 30 * time.Millisecond}
	return NewManager(searcher, logger.New("test"), cfg)
}

func TestExtensionRefiltersCacheWithoutRefetch(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["dan"] = resultOf(lead("1", "Danielle"), lead("2", "Dana Levi"))
	m := newTestManager(searcher)
	s := m.Session("s1")

	first := s.Keystroke(context.Background(), "dan")
	if first.State != StateSettled || len(first.Exact) != 2 {
		t.Fatalf("first settle = %+v", first)
	}

	second := s.Keystroke(context.Background(), "dani")
	if got := searcher.searchCalls(); got != 1 {
		t.Fatalf("extension keystroke hit the store: %d calls", got)
	}
	if len(second.Exact) != 1 || second.Exact[0].ID != "1" {
		t.Fatalf("refiltered = %+v, want only Danielle", second.Exact)
	}

	// Extension monotonicity: nothing absent from the first result may appear.
	for _, c := range append(second.Exact, second.Fuzzy...) {
		if c.ID != "1" && c.ID != "2" {
			t.Fatalf("extension introduced new entity %+v", c)
		}
	}
}

func TestSameQueryTwiceIsIdempotent(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["dana"] = resultOf(lead("1", "Dana"), lead("2", "Dana Levi"))
	m := newTestManager(searcher)
	s := m.Session("s1")

	first := s.Keystroke(context.Background(), "dana")
	second := s.Keystroke(context.Background(), "dana")

	if len(first.Exact) != len(second.Exact) {
		t.Fatalf("memberships differ: %d vs %d", len(first.Exact), len(second.Exact))
	}
	for i := range first.Exact {
		if first.Exact[i].Key() != second.Exact[i].Key() {
			t.Fatalf("ordering differs at %d: %s vs %s",
				i, first.Exact[i].Key(), second.Exact[i].Key())
		}
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	searcher := newFakeSearcher()
	release := make(chan struct{})
	searcher.blockers["ron"] = release
	searcher.results["ron"] = resultOf(lead("1", "Ron"))
	searcher.results["dana"] = resultOf(lead("2", "Dana"))
	m := newTestManager(searcher)
	s := m.Session("s1")

	staleDone := make(chan Signal, 1)
	go func() {
		staleDone <- s.Keystroke(context.Background(), "ron")
	}()

	// Wait until the slow search is in flight, then overtake it.
	deadline := time.Now().Add(time.Second)
	for searcher.searchCalls() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow search never started")
		}
		time.Sleep(time.Millisecond)
	}
	fresh := s.Keystroke(context.Background(), "dana")
	if len(fresh.Exact) != 1 || fresh.Exact[0].ID != "2" {
		t.Fatalf("fresh settle = %+v", fresh)
	}

	close(release)
	<-staleDone

	snap := s.Snapshot()
	if len(snap.Exact) != 1 || snap.Exact[0].ID != "2" {
		t.Fatalf("stale response overwrote the newer query: %+v", snap.Exact)
	}
}

func TestNoExactSignalAfterDebounce(t *testing.T) {
	searcher := newFakeSearcher()
	fuzzyOnly := lead("1", "Office of dana")
	fuzzyOnly.IsFuzzyMatch = true
	searcher.results["zz"] = resultOf(fuzzyOnly)
	m := newTestManager(searcher)
	s := m.Session("s1")

	sig := s.Keystroke(context.Background(), "zz")
	if len(sig.Exact) != 0 {
		t.Fatalf("settle = %+v, want no exact matches", sig)
	}

	select {
	case got := <-s.Signals():
		if got.Type != SignalNoExact {
			t.Fatalf("signal type = %q, want %q", got.Type, SignalNoExact)
		}
	case <-time.After(time.Second):
		t.Fatal("no_exact signal never fired")
	}
}

func TestSecondaryFuzzyMergesWithoutTouchingExact(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["dana"] = resultOf()
	searcher.secondary = []domain.Candidate{lead("9", "Adv. Dana Office")}
	m := newTestManager(searcher)
	s := m.Session("s1")

	s.Keystroke(context.Background(), "dana")

	var merged Signal
	deadline := time.After(time.Second)
	for merged.Type != SignalSecondary {
		select {
		case merged = <-s.Signals():
		case <-deadline:
			t.Fatal("secondary merge signal never fired")
		}
	}
	if len(merged.Exact) != 0 {
		t.Fatalf("exact = %+v, secondary pass must not create exact matches", merged.Exact)
	}
	if len(merged.Fuzzy) != 1 || merged.Fuzzy[0].ID != "9" {
		t.Fatalf("fuzzy = %+v, want the secondary result", merged.Fuzzy)
	}
}

func TestKeystrokeClearResetsSession(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["dana"] = resultOf(lead("1", "Dana"))
	m := newTestManager(searcher)
	s := m.Session("s1")

	s.Keystroke(context.Background(), "dana")
	sig := s.Keystroke(context.Background(), "   ")
	if sig.Type != SignalCleared || sig.State != StateIdle {
		t.Fatalf("clear signal = %+v", sig)
	}
	if snap := s.Snapshot(); len(snap.Exact) != 0 || len(snap.Fuzzy) != 0 {
		t.Fatalf("session kept results after clear: %+v", snap)
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	searcher := newFakeSearcher()
	cfg := fakeConfig{ttl: 10 * time.Millisecond, noExact: time.Minute, secondary: time.Minute}
	m := NewManager(searcher, logger.New("test"), cfg)

	m.Session("old")
	time.Sleep(25 * time.Millisecond)
	m.Session("fresh")

	if evicted := m.Sweep(); evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if m.Len() != 1 {
		t.Fatalf("sessions left = %d, want 1", m.Len())
	}
}
