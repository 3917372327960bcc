// Package handler exposes the identity and session HTTP endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/AllanSJoseph/AlgoHub/data/repository"
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/AllanSJoseph/AlgoHub/middleware"
	"github.com/AllanSJoseph/AlgoHub/net/cookie"
	"github.com/AllanSJoseph/AlgoHub/net/resp"
	"github.com/AllanSJoseph/AlgoHub/service"
	"github.com/AllanSJoseph/AlgoHub/structs"
	"github.com/AllanSJoseph/AlgoHub/validation/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login, logout and self-service operations.
type AuthHandler struct {
	authService *service.Service
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.Service, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles user registration. No session is issued; the user is
// expected to log in afterwards.
func (h *AuthHandler) Register(c *gin.Context) {
	var req structs.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("validation failed", validator.Messages(err)))
		return
	}

	if err := h.authService.Register(c.Request.Context(), &req); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			resp.Fail(c.Writer, resp.BadRequest("email already registered"))
			return
		}
		resp.Fail(c.Writer, resp.BadRequest("registration failed"))
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, "Registered successfully")
}

// Login verifies credentials, sets the session cookie and returns the public
// profile. All failure modes share one generic response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req structs.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.UnAuthorized("invalid credentials"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		resp.Fail(c.Writer, resp.UnAuthorized("invalid credentials"))
		return
	}

	cookie.SetToken(c.Writer, token)
	resp.WithStatusCode(c.Writer, http.StatusCreated, map[string]any{
		"user":    user,
		"message": "Login successful",
	})
}

// Logout revokes the presented token (best-effort) and unconditionally clears
// the cookie. Repeating it on an already-cleared session still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := cookie.GetToken(c.Request)
	h.authService.Logout(c.Request.Context(), token)

	cookie.ClearToken(c.Writer)
	resp.Success(c.Writer, "Logged out successfully")
}

// Check returns the current user's profile for a valid session.
func (h *AuthHandler) Check(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.Fail(c.Writer, resp.NotFound("user not found"))
			return
		}
		resp.Fail(c.Writer, resp.InternalServer("internal server error"))
		return
	}

	resp.Success(c.Writer, user)
}

// DeleteProfile deletes the caller's own user record.
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized("unauthorized"))
		return
	}

	if err := h.authService.DeleteAccount(c.Request.Context(), identity.ID); err != nil {
		h.logger.Error(c.Request.Context(), "failed to delete profile", "user_id", identity.ID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("internal server error"))
		return
	}

	resp.Success(c.Writer, "Deleted successfully")
}
