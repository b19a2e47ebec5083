package events

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/middleware"
	"github.com/sponsorlane/backend/pkg/response"
)

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	EventType   string `json:"event_type" binding:"required"`
	AmountCents int64  `json:"amount_cents"`
	City        string `json:"city" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
}

// UpdateRequest is the body for PATCH /events/:id.
type UpdateRequest struct {
	Name        *string `json:"name"`
	EventType   *string `json:"event_type"`
	AmountCents *int64  `json:"amount_cents"`
	City        *string `json:"city"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an event handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /events. The new event is always attributed to the
// caller; there is no organizer_id in the request body to impersonate
// with.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date, err := parseTime(req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date")
		return
	}
	principal := middleware.Principal(c)
	params := CreateParams{
		Name:        req.Name,
		EventType:   req.EventType,
		AmountCents: req.AmountCents,
		City:        req.City,
		Description: req.Description,
		Date:        date,
	}
	if principal != nil {
		params.OrganizerID = *principal
	}
	ev, err := h.svc.Create(c.Request.Context(), principal, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ev)
}

// Get handles GET /events/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ev, err := h.svc.Get(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ev)
}

// List handles GET /events. Supports ?organizer_id=, ?event_type= and
// ?city= filters; ?mine=1 narrows to the caller's own events.
func (h *Handler) List(c *gin.Context) {
	var f Filter
	if s := c.Query("organizer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid organizer_id")
			return
		}
		f.OrganizerID = &id
	}
	principal := middleware.Principal(c)
	if c.Query("mine") == "1" && principal != nil {
		f.OrganizerID = principal
	}
	f.EventType = c.Query("event_type")
	f.City = c.Query("city")
	list, err := h.svc.List(c.Request.Context(), principal, f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /events/:id (owner only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	params := UpdateParams{
		Name:        req.Name,
		EventType:   req.EventType,
		AmountCents: req.AmountCents,
		City:        req.City,
		Description: req.Description,
	}
	if req.Date != nil {
		t, err := parseTime(*req.Date)
		if err != nil {
			response.BadRequest(c, "invalid date")
			return
		}
		params.Date = &t
	}
	ev, err := h.svc.Update(c.Request.Context(), middleware.Principal(c), id, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ev)
}
