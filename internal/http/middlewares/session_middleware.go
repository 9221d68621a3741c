package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sisuapp/sisu/internal/session"
)

const sessionCookie = "sisu_session"

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*session.Claims, error)
}

// SessionAuth resolves the caller's session token — bearer header first,
// cookie second — and stashes the session email on the context. It never
// blocks the request: the API's read endpoints also accept a plain userId
// header, matching the original client contract.
func SessionAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ""

		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			raw = strings.TrimSpace(strings.TrimPrefix(h, "Bearer"))
		} else if cookie, err := c.Cookie(sessionCookie); err == nil {
			raw = cookie
		}

		if raw != "" {
			if claims, err := verifier.Verify(raw); err == nil {
				c.Set(CtxEmail, claims.Email)
			}
		}

		c.Next()
	}
}

// EmailFromContext returns the session email resolved by SessionAuth.
func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxEmail)
	if !ok {
		return "", false
	}

	email, ok := v.(string)
	return email, ok && email != ""
}
