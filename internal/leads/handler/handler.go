package handler

import (
	"net/http"
	"strconv"

	"lawdesk_backend/internal/leads/repository"
	"lawdesk_backend/internal/leads/service"
	"lawdesk_backend/internal/leads/transport"
	"lawdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recent", h.Recent)
	rg.GET("/:id", h.NewLead)
	rg.GET("/legacy/:id", h.LegacyLead)
}

func (h *Handler) NewLead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	lead, err := h.svc.NewLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, newLeadResponse(*lead))
}

func (h *Handler) LegacyLead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.svc.LegacyLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.LegacyLeadResponse{
		LeadResponse: transport.LeadResponse{
			ID:         strconv.FormatInt(detail.Lead.ID, 10),
			LeadNumber: detail.Display,
			Name:       detail.Lead.Name,
			Email:      detail.Lead.Email,
			Phone:      detail.Lead.Phone,
			Mobile:     detail.Lead.Mobile,
			Topic:      detail.Lead.Topic,
			Stage:      detail.Lead.Stage,
			CreatedAt:  detail.Lead.CreatedAt,
		},
		Subleads: make([]transport.SubleadResponse, 0, len(detail.Subleads)),
		Contacts: make([]transport.ContactResponse, 0, len(detail.Contacts)),
	}
	for _, sub := range detail.Subleads {
		resp.Subleads = append(resp.Subleads, transport.SubleadResponse{
			ID:      strconv.FormatInt(sub.ID, 10),
			Display: sub.Display,
		})
	}
	for _, contact := range detail.Contacts {
		resp.Contacts = append(resp.Contacts, transport.ContactResponse{
			ID:        strconv.FormatInt(contact.ID, 10),
			Name:      contact.Name,
			Email:     contact.Email,
			Phone:     contact.Phone,
			Mobile:    contact.Mobile,
			CreatedAt: contact.CreatedAt,
		})
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	leads, err := h.svc.Recent(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, newLeadResponse(lead))
	}
	httpkit.OK(c, transport.RecentLeadsResponse{Items: items, Total: len(items)})
}

func newLeadResponse(lead repository.NewLead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:         strconv.FormatInt(lead.ID, 10),
		LeadNumber: lead.LeadNumber,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Mobile:     lead.Mobile,
		Topic:      lead.Topic,
		Stage:      lead.Stage,
		CreatedAt:  lead.CreatedAt,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return 0, false
	}
	return id, true
}
