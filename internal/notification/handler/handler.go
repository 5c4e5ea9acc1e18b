package handler

import (
	"net/http"
	"strconv"

	"lawdesk_backend/internal/notification/inapp"
	"lawdesk_backend/internal/notification/mailbox"
	"lawdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	repo    *inapp.Repository
	mailbox *mailbox.Service
	chats   func(c *gin.Context) int
}

func New(repo *inapp.Repository, mbox *mailbox.Service, chats func(c *gin.Context) int) *Handler {
	return &Handler{repo: repo, mailbox: mbox, chats: chats}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/badges", h.Badges)
	rg.POST("/:id/read", h.MarkRead)
	rg.POST("/read-all", h.MarkAllRead)
}

func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.repo.List(c.Request.Context(), identity.UserID(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": items, "total": total})
}

// Badges aggregates the header counters: unread in-app notifications, unseen
// office mailbox messages, and unread WhatsApp chats.
func (h *Handler) Badges(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	unread, err := h.repo.CountUnread(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	chats := 0
	if h.chats != nil {
		chats = h.chats(c)
	}

	httpkit.OK(c, gin.H{
		"notifications": unread,
		"mailbox":       h.mailbox.UnreadCount(),
		"whatsapp":      chats,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	if err := h.repo.MarkRead(c.Request.Context(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "read"})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.repo.MarkAllRead(c.Request.Context(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "read"})
}
