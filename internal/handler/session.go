package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mbs-pricing-ui/internal/config"
)

const sessionIDKey = "session_id"

// SessionMiddleware makes sure every request carries a form session id cookie
func SessionMiddleware(cfg *config.SessionConfig, cookiePath string) gin.HandlerFunc {
	maxAge := int(cfg.SessionTTL().Seconds())

	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}

		// Refresh the cookie so it expires together with the stored session
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, maxAge, cookiePath, "", cfg.CookieSecure, true)

		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// SessionID returns the session id set by SessionMiddleware
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
