package offers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/middleware"
	"github.com/sponsorlane/backend/pkg/response"
)

// CreateRequest is the body for POST /sponsor-offers.
type CreateRequest struct {
	AmountCents int64   `json:"amount_cents"`
	Description *string `json:"description"`
}

// UpdateRequest is the body for PATCH /sponsor-offers/:id.
type UpdateRequest struct {
	AmountCents *int64  `json:"amount_cents"`
	Description *string `json:"description"`
}

// CreateEventTypeRequest is the body for POST /sponsor-offers/:id/event-types.
type CreateEventTypeRequest struct {
	EventType string `json:"event_type" binding:"required"`
}

// Handler handles sponsor-offer HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a sponsor-offer handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /sponsor-offers. The offer is always attributed to
// the caller.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	principal := middleware.Principal(c)
	params := CreateParams{AmountCents: req.AmountCents, Description: req.Description}
	if principal != nil {
		params.ProfileID = *principal
	}
	o, err := h.svc.Create(c.Request.Context(), principal, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, o)
}

// Get handles GET /sponsor-offers/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer id")
		return
	}
	o, err := h.svc.Get(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, o)
}

// List handles GET /sponsor-offers. Supports ?profile_id= and ?mine=1.
func (h *Handler) List(c *gin.Context) {
	var f Filter
	if s := c.Query("profile_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid profile_id")
			return
		}
		f.ProfileID = &id
	}
	principal := middleware.Principal(c)
	if c.Query("mine") == "1" && principal != nil {
		f.ProfileID = principal
	}
	list, err := h.svc.List(c.Request.Context(), principal, f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /sponsor-offers/:id (owner only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	o, err := h.svc.Update(c.Request.Context(), middleware.Principal(c), id, UpdateParams{
		AmountCents: req.AmountCents,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, o)
}

// CreateEventType handles POST /sponsor-offers/:id/event-types (owner of
// the offer only, via the offer's profile).
func (h *Handler) CreateEventType(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer id")
		return
	}
	var req CreateEventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	t, err := h.svc.CreateEventType(c.Request.Context(), middleware.Principal(c), offerID, req.EventType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, t)
}

// ListEventTypes handles GET /sponsor-offers/:id/event-types.
func (h *Handler) ListEventTypes(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer id")
		return
	}
	list, err := h.svc.ListEventTypes(c.Request.Context(), middleware.Principal(c), offerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
