package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/server/middleware"
	authsvc "github.com/metung95-cpu/ajet-stock/internal/service/auth"
)

// AuthService is the subset of the auth service used over HTTP.
type AuthService interface {
	Login(ctx context.Context, username, password string) (models.Session, string, error)
	Logout(ctx context.Context, sessionID string)
	TokenTTL() time.Duration
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler serves login, logout and the current session.
type AuthHandler struct {
	svc          AuthService
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(svc AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, secureCookie: secureCookie, logger: logger}
}

// Login verifies credentials and issues the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "아이디와 비밀번호를 입력하세요."})
		return
	}

	sess, token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			h.logger.Info("login rejected", zap.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "아이디 또는 비밀번호가 올바르지 않습니다."})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.svc.TokenTTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"username":     sess.Username,
		"role":         sess.Role,
		"capabilities": sess.Role.Capabilities(),
		"token":        token,
		"expires_at":   sess.ExpiresAt,
	})
}

// Logout drops the server-side session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		h.svc.Logout(c.Request.Context(), sess.ID)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

// Me describes the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":      sess.Username,
		"role":          sess.Role,
		"capabilities":  sess.Role.Capabilities(),
		"last_activity": sess.LastActivity,
	})
}
