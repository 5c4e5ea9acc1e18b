// Package search wires the unified lead/contact search: classifier, per-source
// matchers, incremental session engine, and the HTTP surface.
package search

import (
	apphttp "lawdesk_backend/internal/http"
	"lawdesk_backend/internal/search/engine"
	"lawdesk_backend/internal/search/handler"
	"lawdesk_backend/internal/search/repository"
	"lawdesk_backend/internal/search/service"
	"lawdesk_backend/platform/config"
	"lawdesk_backend/platform/logger"
	"lawdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	manager *engine.Manager
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, cfg config.SearchConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log, cfg.GetSearchFuzzyLimit())
	manager := engine.NewManager(svc, log, cfg)
	h := handler.New(manager, val, log)

	return &Module{manager: manager, handler: h}
}

func (m *Module) Name() string {
	return "search"
}

// Sessions exposes the session manager so the scheduler can sweep idle state.
func (m *Module) Sessions() *engine.Manager {
	return m.manager
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/search")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
