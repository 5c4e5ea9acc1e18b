// Package events defines the domain events exchanged between modules over
// the in-memory bus.
package events

import (
	"lawdesk_backend/platform/events"

	"github.com/google/uuid"
)

const (
	UserLoggedInName = "auth.user_logged_in"
)

// UserLoggedInEvent fires after a successful sign-in. The notification module
// records it as an in-app security notice.
type UserLoggedInEvent struct {
	events.BaseEvent
	UserID   uuid.UUID
	Email    string
	ClientIP string
}

func (e UserLoggedInEvent) EventName() string {
	return UserLoggedInName
}
