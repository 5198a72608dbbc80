package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/auth/domain"
	"github.com/lojaweb/storefront-api/internal/logging"
)

// Login exchanges email and password for a session
func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// SignUp registers a password account
func (h *Handler) SignUp(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	sess, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// Google accepts either CREDENTIAL (ID token) or CODE (popup authorization code)
func (h *Handler) Google(c *gin.Context) {
	var req domain.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	switch {
	case req.Credential == "" && req.Code == "":
		respond.Fields(c, map[string]string{"CREDENTIAL": "is required"})
		return
	case req.Credential != "" && req.Code != "":
		respond.Fields(c, map[string]string{"CODE": "must be empty when CREDENTIAL is sent"})
		return
	}

	sess, err := h.authService.LoginWithGoogle(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Me returns the current user
func (h *Handler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword replaces the current user's password
func (h *Handler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), auth.UserID(c), &req); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "email already registered")
	case errors.Is(err, domain.ErrAccountNotFound):
		respond.Error(c, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrGoogleNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "google sign-in is not available")
	case errors.Is(err, domain.ErrGoogleRejected):
		respond.Error(c, http.StatusUnauthorized, "google sign-in failed")
	default:
		logging.FromContext(c.Request.Context()).Error("auth request failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
