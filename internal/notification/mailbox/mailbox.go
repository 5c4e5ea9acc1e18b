// Package mailbox reports the unread count of the shared office mailbox over
// IMAP. Counts are cached briefly so the header badge poll does not hammer
// the mail server.
package mailbox

import (
	"sync"
	"time"

	"lawdesk_backend/platform/config"
	"lawdesk_backend/platform/logger"

	imap "github.com/BrianLeishman/go-imap"
)

const cacheTTL = 5 * time.Minute

type Service struct {
	host     string
	port     int
	username string
	password string
	enabled  bool
	log      *logger.Logger

	mu        sync.Mutex
	cached    int
	fetchedAt time.Time
}

func New(cfg config.MailboxConfig, log *logger.Logger) *Service {
	return &Service{
		host:     cfg.GetIMAPHost(),
		port:     cfg.GetIMAPPort(),
		username: cfg.GetIMAPUsername(),
		password: cfg.GetIMAPPassword(),
		enabled:  cfg.IsMailboxEnabled(),
		log:      log,
	}
}

func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// UnreadCount returns the INBOX unseen count, serving a cached value for up
// to five minutes. A fetch failure serves the last known count.
func (s *Service) UnreadCount() int {
	if !s.Enabled() {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.fetchedAt) < cacheTTL {
		return s.cached
	}

	count, err := s.fetch()
	if err != nil {
		s.log.Warn("mailbox unread fetch failed", "error", err)
		return s.cached
	}

	s.cached = count
	s.fetchedAt = time.Now()
	return count
}

func (s *Service) fetch() (int, error) {
	im, err := imap.New(s.username, s.password, s.host, s.port)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = im.Close()
	}()

	if err := im.SelectFolder("INBOX"); err != nil {
		return 0, err
	}

	uids, err := im.GetUIDs("UNSEEN")
	if err != nil {
		return 0, err
	}
	return len(uids), nil
}
