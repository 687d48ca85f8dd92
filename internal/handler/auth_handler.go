package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/payment-portal-api/internal/models"
	"github.com/noah-isme/payment-portal-api/pkg/response"
)

type devAuthService interface {
	DevLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	DevUsers() []models.User
}

// AuthHandler wires the development login endpoints.
type AuthHandler struct {
	service devAuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc devAuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Issue a development token
// @Description Authenticates one of the fixed development users. Disabled in production.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dev/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	res, err := h.service.DevLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Users godoc
// @Summary List development users
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dev/auth/users [get]
func (h *AuthHandler) Users(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.DevUsers(), nil)
}
