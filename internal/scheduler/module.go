package scheduler

import (
	"net/http"

	apphttp "lawdesk_backend/internal/http"
	"lawdesk_backend/platform/config"
	"lawdesk_backend/platform/httpkit"
	"lawdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module exposes the admin trigger for the daily digest. The worker process
// runs the cron schedule; this endpoint lets an admin queue an extra run
// without waiting for it.
type Module struct {
	client *Client
	digest config.DigestConfig
	log    *logger.Logger
}

// NewModule accepts a nil client: without Redis the endpoint stays mounted
// and reports the queue as unavailable.
func NewModule(client *Client, digest config.DigestConfig, log *logger.Logger) *Module {
	return &Module{client: client, digest: digest, log: log}
}

func (m *Module) Name() string {
	return "scheduler"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/digest/run", m.triggerDigest)
}

func (m *Module) triggerDigest(c *gin.Context) {
	if m.client == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "digest queue is not configured", nil)
		return
	}

	payload := DailyDigestPayload{Recipient: m.digest.GetDigestRecipient()}
	if err := m.client.EnqueueDailyDigest(c.Request.Context(), payload); err != nil {
		m.log.Error("failed to enqueue digest run", "error", err)
		httpkit.Error(c, http.StatusBadGateway, "failed to queue the digest run", nil)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

var _ apphttp.Module = (*Module)(nil)
