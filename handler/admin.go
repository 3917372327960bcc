package handler

import (
	"errors"
	"net/http"

	"github.com/AllanSJoseph/AlgoHub/data/repository"
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/AllanSJoseph/AlgoHub/net/cookie"
	"github.com/AllanSJoseph/AlgoHub/net/resp"
	"github.com/AllanSJoseph/AlgoHub/service"
	"github.com/AllanSJoseph/AlgoHub/structs"
	"github.com/AllanSJoseph/AlgoHub/validation/validator"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin registration and user management.
type AdminHandler struct {
	authService *service.Service
	logger      *logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(authService *service.Service, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates an admin account and issues a session immediately. The
// route is trusted at the deployment boundary, not authenticated here.
func (h *AdminHandler) Register(c *gin.Context) {
	var req structs.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("validation failed", validator.Messages(err)))
		return
	}

	user, token, err := h.authService.AdminRegister(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			resp.Fail(c.Writer, resp.BadRequest("email already registered"))
			return
		}
		resp.Fail(c.Writer, resp.BadRequest("registration failed"))
		return
	}

	cookie.SetToken(c.Writer, token)
	resp.WithStatusCode(c.Writer, http.StatusCreated, map[string]any{
		"user":    user,
		"message": "User registered successfully",
	})
}

// ListUsers lists all users, newest first, without password hashes.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to list users", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("internal server error"))
		return
	}

	resp.Success(c.Writer, users)
}

// DeleteUser deletes a user by id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		resp.Fail(c.Writer, resp.BadRequest("User ID is required"))
		return
	}

	if err := h.authService.DeleteUserByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.Fail(c.Writer, resp.NotFound("User not found"))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to delete user", "user_id", userID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("internal server error"))
		return
	}

	resp.Success(c.Writer, "User deleted successfully")
}
