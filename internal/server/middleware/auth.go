package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "ajet_session"

	sessionContextKey = "session"
)

// Authenticator resolves a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

// RequireSession rejects requests without a live session and stores the session in
// the gin context.
func RequireSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := auth.Authenticate(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다.", "reason": err.Error()})
			return
		}
		SetSession(c, sess)
		c.Next()
	}
}

// RequireCapability rejects sessions whose role lacks the capability.
func RequireCapability(allowed func(models.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok || !allowed(sess.Role.Capabilities()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "권한이 없습니다."})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return models.Session{}, false
	}
	sess, ok := val.(models.Session)
	return sess, ok
}

// SetSession stores sess for the rest of the request.
func SetSession(c *gin.Context, sess models.Session) {
	c.Set(sessionContextKey, sess)
}

// TokenFromRequest reads a Bearer token, falling back to the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}
