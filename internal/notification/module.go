// Package notification wires the in-app notification store, the office
// mailbox badge, and the event-bus handlers that record cross-module events.
package notification

import (
	"context"

	appevents "lawdesk_backend/internal/events"
	apphttp "lawdesk_backend/internal/http"
	"lawdesk_backend/internal/notification/handler"
	"lawdesk_backend/internal/notification/inapp"
	"lawdesk_backend/internal/notification/mailbox"
	"lawdesk_backend/internal/whatsapp"
	"lawdesk_backend/platform/config"
	"lawdesk_backend/platform/events"
	"lawdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	repo    *inapp.Repository
	mailbox *mailbox.Service
	handler *handler.Handler
	log     *logger.Logger
}

func NewModule(pool *pgxpool.Pool, cfg config.MailboxConfig, wa *whatsapp.Client, log *logger.Logger) *Module {
	repo := inapp.NewRepository(pool)
	mbox := mailbox.New(cfg, log)

	chats := func(c *gin.Context) int {
		return wa.UnreadChats(c.Request.Context())
	}
	h := handler.New(repo, mbox, chats)

	return &Module{repo: repo, mailbox: mbox, handler: h, log: log}
}

func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes the module to cross-module domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(appevents.UserLoggedInName, events.HandlerFunc(m.onUserLoggedIn))
}

func (m *Module) onUserLoggedIn(ctx context.Context, event events.Event) error {
	login, ok := event.(appevents.UserLoggedInEvent)
	if !ok {
		return nil
	}

	_, err := m.repo.Create(ctx, inapp.CreateParams{
		UserID:   login.UserID,
		Title:    "New sign-in",
		Content:  "Your account signed in from " + login.ClientIP,
		Category: "security",
	})
	return err
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/notifications")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
