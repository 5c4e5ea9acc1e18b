// Package auth wires authentication: bcrypt credential checks, JWT issuance,
// and refresh-token rotation backed by Postgres.
package auth

import (
	apphttp "lawdesk_backend/internal/http"

	"lawdesk_backend/internal/auth/handler"
	"lawdesk_backend/internal/auth/repository"
	"lawdesk_backend/internal/auth/service"
	"lawdesk_backend/platform/config"
	"lawdesk_backend/platform/events"
	"lawdesk_backend/platform/logger"
	"lawdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{svc: svc, handler: h}
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) Service() *service.Service {
	return m.svc
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)

	protected := ctx.Protected.Group("/auth")
	m.handler.RegisterProtectedRoutes(protected)
}

var _ apphttp.Module = (*Module)(nil)
