package profiles

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/middleware"
	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/pkg/response"
)

// ProvisionRequest is the body for POST /profiles.
type ProvisionRequest struct {
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name"`
	Role        string `json:"role" binding:"required"`
}

// UpdateRequest is the body for PATCH /profiles/:id.
type UpdateRequest struct {
	Name        *string `json:"name"`
	CompanyName *string `json:"company_name"`
	Role        *string `json:"role"`
}

// Handler handles profile HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a profile handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Provision handles POST /profiles. The profile ID is always the caller's
// principal identifier.
func (h *Handler) Provision(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	principal := middleware.Principal(c)
	p, err := h.svc.Provision(c.Request.Context(), principal, req.Name, req.CompanyName, models.Role(req.Role))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// Get handles GET /profiles/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid profile id")
		return
	}
	p, err := h.svc.Get(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// Update handles PATCH /profiles/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid profile id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	params := UpdateParams{Name: req.Name, CompanyName: req.CompanyName}
	if req.Role != nil {
		role := models.Role(*req.Role)
		params.Role = &role
	}
	p, err := h.svc.Update(c.Request.Context(), middleware.Principal(c), id, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}
