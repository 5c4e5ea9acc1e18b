// Package engine drives the incremental search session: extension-filter vs
// fresh-search decisions, the stale-response guard, and the two debounced
// follow-ups (the no-exact notice and the secondary fuzzy name pass).
package engine

import (
	"context"
	"sync"
	"time"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
	"lawdesk_backend/internal/search/service"
	"lawdesk_backend/platform/logger"
)

// State is the lifecycle phase of a search session.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateSettled   State = "settled"
)

// Signal event types pushed to the session's subscriber.
const (
	SignalResults   = "results"
	SignalNoExact   = "no_exact"
	SignalSecondary = "secondary_merged"
	SignalCleared   = "cleared"
)

// Signal is one observable engine transition. The synchronous settle of a
// keystroke is returned directly; debounced follow-ups arrive on the
// session's signal channel.
type Signal struct {
	Type  string             `json:"type"`
	Query string             `json:"query"`
	State State              `json:"state"`
	Exact []domain.Candidate `json:"exactMatches"`
	Fuzzy []domain.Candidate `json:"fuzzyMatches"`
}

// Searcher is the slice of the search service the engine drives.
type Searcher interface {
	Search(ctx context.Context, q query.Query) (service.Result, error)
	SecondaryFuzzy(ctx context.Context, q query.Query) ([]domain.Candidate, error)
	Refilter(cached []domain.Candidate, q query.Query) service.Result
	MergeSecondary(base service.Result, extra []domain.Candidate, q query.Query) service.Result
}

// Session holds one user's incremental search state. The master cache is
// replaced wholesale on a fresh search and filtered-and-replaced wholesale on
// an extension, never patched in place.
type Session struct {
	ID string

	searcher Searcher
	log      *logger.Logger

	noExactDelay   time.Duration
	secondaryDelay time.Duration

	mu         sync.Mutex
	state      State
	current    query.Query
	generation uint64
	cache      []domain.Candidate
	result     service.Result
	lastSeen   time.Time

	noExact   slot
	secondary slot

	signals chan Signal
}

func newSession(id string, searcher Searcher, log *logger.Logger, noExactDelay, secondaryDelay time.Duration) *Session {
	return &Session{
		ID:             id,
		searcher:       searcher,
		log:            log,
		noExactDelay:   noExactDelay,
		secondaryDelay: secondaryDelay,
		state:          StateIdle,
		lastSeen:       time.Now(),
		signals:        make(chan Signal, 16),
	}
}

// Signals is the channel debounced follow-up signals are delivered on.
// Delivery is best-effort: a slow subscriber drops signals rather than
// blocking the engine.
func (s *Session) Signals() <-chan Signal {
	return s.signals
}

// Keystroke processes one input change and returns the resulting signal.
// Extension keystrokes settle synchronously from the cache; fresh searches
// run the full pipeline in the calling goroutine and settle unless a newer
// keystroke overtook them meanwhile.
func (s *Session) Keystroke(ctx context.Context, raw string) Signal {
	q := query.Classify(raw)

	s.mu.Lock()
	s.lastSeen = time.Now()

	if q.Kind == query.KindTooShort {
		s.clearLocked()
		sig := Signal{Type: SignalCleared, Query: q.Raw, State: StateIdle,
			Exact: []domain.Candidate{}, Fuzzy: []domain.Candidate{}}
		s.mu.Unlock()
		return sig
	}

	if s.state == StateSettled && len(s.cache) > 0 && q.IsExtensionOf(s.current) {
		s.generation++
		s.current = q
		s.result = s.searcher.Refilter(s.cache, q)
		s.cache = s.result.All
		gen := s.generation
		s.scheduleFollowupsLocked(q, gen)
		sig := s.settledSignalLocked()
		s.mu.Unlock()
		return sig
	}

	// Fresh search. The generation bump invalidates every in-flight
	// request and pending timer result at once.
	s.generation++
	gen := s.generation
	s.current = q
	s.state = StateSearching
	s.cache = nil
	s.noExact.Cancel()
	s.secondary.Cancel()
	s.mu.Unlock()

	res, err := s.searcher.Search(ctx, q)
	if err != nil {
		s.log.SearchBranchError("engine", "search", err)
		res = service.Result{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		// A newer keystroke owns the session. A forward-extension of the
		// completed query can still use this response, filtered down to
		// the live query; anything else is stale and discarded wholesale.
		if !(s.state == StateSearching && s.current.IsExtensionOf(q)) {
			return Signal{Type: SignalResults, Query: q.Raw, State: s.state,
				Exact: []domain.Candidate{}, Fuzzy: []domain.Candidate{}}
		}
		res = s.searcher.Refilter(res.All, s.current)
		gen = s.generation
	}

	s.state = StateSettled
	s.result = res
	s.cache = res.All
	s.scheduleFollowupsLocked(s.current, gen)
	return s.settledSignalLocked()
}

// Clear resets the session to idle and invalidates in-flight work.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.generation++
	s.state = StateIdle
	s.current = query.Query{}
	s.cache = nil
	s.result = service.Result{}
	s.noExact.Cancel()
	s.secondary.Cancel()
}

// Snapshot returns the session's current settled view.
func (s *Session) Snapshot() Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settledSignalLocked()
}

// LastSeen is the time of the session's last keystroke, used for eviction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) settledSignalLocked() Signal {
	exact := s.result.Exact
	if exact == nil {
		exact = []domain.Candidate{}
	}
	fuzzy := s.result.Fuzzy
	if fuzzy == nil {
		fuzzy = []domain.Candidate{}
	}
	return Signal{Type: SignalResults, Query: s.current.Raw, State: s.state,
		Exact: exact, Fuzzy: fuzzy}
}

// scheduleFollowupsLocked arms the two debounced follow-ups after a settle
// with no exact match. Each fires only if the session generation is still the
// one that armed it.
func (s *Session) scheduleFollowupsLocked(q query.Query, gen uint64) {
	if len(s.result.Exact) > 0 {
		s.noExact.Cancel()
		s.secondary.Cancel()
		return
	}

	s.noExact.Schedule(s.noExactDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return
		}
		s.emit(s.signalLocked(SignalNoExact))
	})

	if len([]rune(q.Raw)) >= 3 {
		s.secondary.Schedule(s.secondaryDelay, func() {
			s.runSecondary(q, gen)
		})
	}
}

func (s *Session) runSecondary(q query.Query, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	extra, err := s.searcher.SecondaryFuzzy(ctx, q)
	if err != nil {
		s.log.SearchBranchError("engine", "secondary_fuzzy", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	// Re-checked under the lock: an exact match that landed meanwhile is
	// never overwritten, the merge only appends fuzzy rows.
	s.result = s.searcher.MergeSecondary(s.result, extra, q)
	s.cache = s.result.All
	s.emit(s.signalLocked(SignalSecondary))
}

func (s *Session) signalLocked(typ string) Signal {
	sig := s.settledSignalLocked()
	sig.Type = typ
	return sig
}

func (s *Session) emit(sig Signal) {
	select {
	case s.signals <- sig:
	default:
	}
}
