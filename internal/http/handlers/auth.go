package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sisuapp/sisu/internal/gateway"
	"github.com/sisuapp/sisu/internal/session"
)

const sessionCookie = "sisu_session"

type LoginGateway interface {
	LoginUser(ctx context.Context, req gateway.Request) gateway.Response
}

type TokenIssuer interface {
	Issue(email string, now time.Time) (string, error)
}

type AuthHandler struct {
	gw       LoginGateway
	sessions TokenIssuer
}

func NewAuthHandler(gw LoginGateway, sessions TokenIssuer) *AuthHandler {
	return &AuthHandler{gw: gw, sessions: sessions}
}

// Login handles POST /api/auth/login. On success a session token with the
// same one-month lifetime as the client-held session record is set as a
// cookie and echoed in the X-Session-Token header; the envelope itself is
// unchanged.
func (h *AuthHandler) Login(ctx *gin.Context) {
	raw, err := ctx.GetRawData()

	if err != nil {
		RespondEnvelope(ctx, gateway.ValidationErrorResponse())
		return
	}

	if fields, ok := bindCredentials(raw); !ok {
		slog.Debug("login rejected before dispatch", "fields", fields)
		RespondEnvelope(ctx, gateway.ValidationErrorResponse())
		return
	}

	resp := h.gw.LoginUser(ctx.Request.Context(), gateway.Request{Body: raw})

	if resp.Status == gateway.StatusSuccess && resp.User != nil {
		now := time.Now()
		token, err := h.sessions.Issue(resp.User.Email, now)

		if err != nil {
			slog.Error("issue session token", "error", err)
		} else {
			maxAge := int(now.AddDate(0, 1, 0).Sub(now).Seconds())

			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
			ctx.Header("X-Session-Token", token)
		}
	}

	RespondEnvelope(ctx, resp)
}

// Logout handles POST /api/auth/logout: it just clears the session cookie.
// The backend holds no session state to destroy.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(sessionCookie, "", -1, "/", "", false, true)

	ctx.Status(http.StatusNoContent)
}

var _ TokenIssuer = (*session.Manager)(nil)
