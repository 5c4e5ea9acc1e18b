package engine

import (
	"sync"
	"time"
)

// slot is a single-slot deferred task: scheduling always cancels whatever was
// pending first, so at most one timer per slot ever exists.
type slot struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (s *slot) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, fn)
}

func (s *slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
