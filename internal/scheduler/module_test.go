package scheduler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "lawdesk_backend/internal/http"
	"lawdesk_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
)

type fakeDigestConfig struct {
	recipient string
	cron      string
}

func (c fakeDigestConfig) GetDigestRecipient() string    { return c.recipient }
func (c fakeDigestConfig) GetDigestScheduleCron() string { return c.cron }

func newDigestTestRouter(m *Module) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	m.RegisterRoutes(&apphttp.RouterContext{Admin: engine.Group("/api/v1/admin")})
	return engine
}

func TestTriggerDigestEnqueuesRun(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(fakeSchedulerConfig{
		redisURL: "redis://" + mr.Addr(),
		queue:    "digest",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	m := NewModule(client, fakeDigestConfig{recipient: "office@example.com"}, logger.New("test"))
	engine := newDigestTestRouter(m)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/digest/run", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if !mr.Exists("asynq:{digest}:pending") {
		t.Fatal("digest run was not enqueued")
	}
}

func TestTriggerDigestWithoutQueue(t *testing.T) {
	m := NewModule(nil, fakeDigestConfig{}, logger.New("test"))
	engine := newDigestTestRouter(m)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/digest/run", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
