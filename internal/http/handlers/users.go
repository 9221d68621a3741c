package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sisuapp/sisu/internal/gateway"
	"github.com/sisuapp/sisu/internal/http/middlewares"
)

// UserGateway is the slice of the gateway the user endpoints need. Kept as
// an interface so handler tests can fake it.
type UserGateway interface {
	CreateUser(ctx context.Context, req gateway.Request) gateway.Response
	GetUser(ctx context.Context, req gateway.Request) gateway.Response
	UpdateUser(ctx context.Context, req gateway.Request) gateway.Response
}

type UsersHandler struct {
	gw UserGateway
}

func NewUsersHandler(gw UserGateway) *UsersHandler {
	return &UsersHandler{gw: gw}
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(ctx *gin.Context) {
	raw, err := ctx.GetRawData()

	if err != nil {
		RespondEnvelope(ctx, gateway.ValidationErrorResponse())
		return
	}

	if fields, ok := bindCredentials(raw); !ok {
		slog.Debug("create_user rejected before dispatch", "fields", fields)
		RespondEnvelope(ctx, gateway.ValidationErrorResponse())
		return
	}

	resp := h.gw.CreateUser(ctx.Request.Context(), gateway.Request{Body: raw})

	RespondEnvelopeCreated(ctx, resp)
}

// Get handles GET /api/users. The record to fetch comes from the userId
// header, or from the caller's session when the header is absent.
func (h *UsersHandler) Get(ctx *gin.Context) {
	email := ctx.GetHeader("userId")

	if email == "" {
		email, _ = middlewares.EmailFromContext(ctx)
	}

	resp := h.gw.GetUser(ctx.Request.Context(), gateway.Request{UserID: email})

	RespondEnvelope(ctx, resp)
}

// Update handles PUT /api/users.
func (h *UsersHandler) Update(ctx *gin.Context) {
	raw, err := ctx.GetRawData()

	if err != nil {
		RespondEnvelope(ctx, gateway.ValidationErrorResponse())
		return
	}

	if fields, ok := bindCredentials(raw); !ok {
		slog.Debug("update_user rejected before dispatch", "fields", fields)
		RespondEnvelope(ctx, gateway.ValidationErrorResponse())
		return
	}

	resp := h.gw.UpdateUser(ctx.Request.Context(), gateway.Request{Body: raw})

	RespondEnvelope(ctx, resp)
}
