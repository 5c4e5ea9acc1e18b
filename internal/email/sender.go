// Package email delivers transactional mail over the office SMTP server.
package email

import (
	"context"

	"lawdesk_backend/platform/config"
)

// DigestData feeds the nightly digest template.
type DigestData struct {
	Date          string
	NewLeads      int
	MailboxUnread int
}

// Sender abstracts mail delivery so the scheduler can be tested with a fake.
type Sender interface {
	SendDailyDigest(ctx context.Context, toEmail string, data DigestData) error
}

// NewSender returns the configured sender, or a no-op when SMTP is not set up.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.IsEmailEnabled() {
		return noopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}

type noopSender struct{}

func (noopSender) SendDailyDigest(context.Context, string, DigestData) error {
	return nil
}
