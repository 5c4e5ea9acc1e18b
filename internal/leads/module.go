// Package leads exposes the lead read API over both schemas.
package leads

import (
	apphttp "lawdesk_backend/internal/http"
	"lawdesk_backend/internal/leads/handler"
	"lawdesk_backend/internal/leads/repository"
	"lawdesk_backend/internal/leads/service"
	"lawdesk_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	repo    *repository.Repository
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{repo: repo, handler: h}
}

func (m *Module) Name() string {
	return "leads"
}

// Repository is shared with the scheduler's digest task.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
