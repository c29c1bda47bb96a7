package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
	"github.com/noah-isme/centerkech-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

type userService interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, req dto.CreateUserRequest, actorID string) (*models.UserInfo, error)
}

// AdminHandler serves the dashboard and account management.
type AdminHandler struct {
	dashboard dashboardService
	users     userService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(dashboard dashboardService, users userService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, users: users}
}

// DashboardStats godoc
// @Summary Dashboard counters and recent submissions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard/stats [get]
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", stats)
}

// ListUsers godoc
// @Summary All accounts, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", users)
}

// CreateUser godoc
// @Summary Create an account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateUserRequest true "Account"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, "All fields are required"))
		return
	}
	user, err := h.users.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "User created successfully", user)
}
