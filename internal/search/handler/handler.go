// Package handler exposes the incremental search engine over HTTP: a
// keystroke endpoint that settles synchronously, an SSE stream carrying the
// debounced follow-up signals, and session teardown.
package handler

import (
	"net/http"

	"lawdesk_backend/internal/search/engine"
	"lawdesk_backend/internal/search/transport"
	"lawdesk_backend/platform/httpkit"
	"lawdesk_backend/platform/logger"
	"lawdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	defaultSessionSlot = "default"
)

type Handler struct {
	manager *engine.Manager
	val     *validator.Validator
	log     *logger.Logger
}

func New(manager *engine.Manager, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{manager: manager, val: val, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Keystroke)
	rg.GET("/events", h.Events)
	rg.DELETE("/session", h.DropSession)
}

// Keystroke feeds one input change into the caller's search session and
// returns the settled view. Debounced follow-ups arrive on the event stream.
func (h *Handler) Keystroke(c *gin.Context) {
	req, identity, ok := h.bind(c)
	if !ok {
		return
	}

	session := h.manager.Session(sessionKey(identity, req.Session))
	sig := session.Keystroke(c.Request.Context(), req.Query)

	httpkit.OK(c, transport.SearchResponse{
		Query:        sig.Query,
		State:        string(sig.State),
		ExactMatches: sig.Exact,
		FuzzyMatches: sig.Fuzzy,
		Total:        len(sig.Exact) + len(sig.Fuzzy),
	})
}

// Events streams the session's asynchronous signals (no-exact notice,
// secondary fuzzy merges) as server-sent events until the client goes away.
func (h *Handler) Events(c *gin.Context) {
	req, identity, ok := h.bind(c)
	if !ok {
		return
	}

	session := h.manager.Session(sessionKey(identity, req.Session))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.SSEvent("connected", gin.H{"session": req.Session})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case sig, open := <-session.Signals():
			if !open {
				return
			}
			c.SSEvent(sig.Type, sig)
			c.Writer.Flush()
		}
	}
}

// DropSession discards the caller's session state.
func (h *Handler) DropSession(c *gin.Context) {
	req, identity, ok := h.bind(c)
	if !ok {
		return
	}
	h.manager.Drop(sessionKey(identity, req.Session))
	httpkit.OK(c, gin.H{"status": "cleared"})
}

func (h *Handler) bind(c *gin.Context) (transport.SearchRequest, httpkit.Identity, bool) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, nil, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return req, nil, false
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return req, nil, false
	}
	return req, identity, true
}

// sessionKey scopes a client-chosen session slot to the authenticated user,
// so one user's keystrokes can never refilter another's cache.
func sessionKey(identity httpkit.Identity, slot string) string {
	if slot == "" {
		slot = defaultSessionSlot
	}
	return identity.UserID().String() + ":" + slot
}
