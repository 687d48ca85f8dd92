package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/payment-portal-api/internal/dto"
	"github.com/noah-isme/payment-portal-api/internal/models"
	"github.com/noah-isme/payment-portal-api/internal/service"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/response"
)

type portalService interface {
	List(ctx context.Context, q service.PortalQuery) ([]models.Portal, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Portal, error)
	Create(ctx context.Context, req dto.CreatePortalRequest, actorID string) (*models.Portal, error)
	Update(ctx context.Context, id string, req dto.UpdatePortalRequest, actorID string) (*models.Portal, error)
	BulkUpdateVisibility(ctx context.Context, req dto.BulkVisibilityRequest, actorID string) error
}

// PortalHandler exposes payment portal endpoints.
type PortalHandler struct {
	portals portalService
}

// NewPortalHandler constructs PortalHandler.
func NewPortalHandler(portals portalService) *PortalHandler {
	return &PortalHandler{portals: portals}
}

// List godoc
// @Summary List payment portals
// @Tags Portals
// @Produce json
// @Param month query int false "Portal month (1-12)"
// @Param year query int false "Portal year"
// @Param isPublished query bool false "Filter by publish state"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /portals [get]
func (h *PortalHandler) List(c *gin.Context) {
	var q dto.PortalListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	portals, pagination, err := h.portals.List(c.Request.Context(), service.PortalQuery{
		Month:       q.Month,
		Year:        q.Year,
		IsPublished: q.IsPublished,
		Limit:       intOrZero(q.Limit),
		Offset:      intOrZero(q.Offset),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.PortalResponse, 0, len(portals))
	for i := range portals {
		items = append(items, dto.NewPortalResponse(&portals[i]))
	}
	response.JSON(c, http.StatusOK, dto.PageResponse[dto.PortalResponse]{Items: items, Total: pagination.TotalCount}, pagination)
}

// Get godoc
// @Summary Get payment portal
// @Tags Portals
// @Produce json
// @Param id path string true "Portal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /portals/{id} [get]
func (h *PortalHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	portal, err := h.portals.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewPortalResponse(portal), nil)
}

// Create godoc
// @Summary Create payment portal
// @Tags Portals
// @Accept json
// @Produce json
// @Param payload body dto.CreatePortalRequest true "Portal payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /portals [post]
func (h *PortalHandler) Create(c *gin.Context) {
	var req dto.CreatePortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	portal, err := h.portals.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewPortalResponse(portal))
}

// Update godoc
// @Summary Update payment portal
// @Tags Portals
// @Accept json
// @Produce json
// @Param id path string true "Portal ID"
// @Param payload body dto.UpdatePortalRequest true "Portal changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /portals/{id} [patch]
func (h *PortalHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdatePortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	portal, err := h.portals.Update(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewPortalResponse(portal), nil)
}

// BulkVisibility godoc
// @Summary Publish or hide several portals
// @Tags Portals
// @Accept json
// @Param payload body dto.BulkVisibilityRequest true "Portal ids and target state"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /portals/bulk-visibility [patch]
func (h *PortalHandler) BulkVisibility(c *gin.Context) {
	var req dto.BulkVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	if err := h.portals.BulkUpdateVisibility(c.Request.Context(), req, actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
