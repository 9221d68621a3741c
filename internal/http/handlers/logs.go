package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sisuapp/sisu/internal/gateway"
	"github.com/sisuapp/sisu/internal/http/middlewares"
)

type LogsGateway interface {
	GetLogs(ctx context.Context, req gateway.Request) gateway.Response
}

type LogsHandler struct {
	gw LogsGateway
}

func NewLogsHandler(gw LogsGateway) *LogsHandler {
	return &LogsHandler{gw: gw}
}

// Get handles GET /api/logs, resolving the target user the same way as
// GET /api/users.
func (h *LogsHandler) Get(ctx *gin.Context) {
	email := ctx.GetHeader("userId")

	if email == "" {
		email, _ = middlewares.EmailFromContext(ctx)
	}

	resp := h.gw.GetLogs(ctx.Request.Context(), gateway.Request{UserID: email})

	RespondEnvelope(ctx, resp)
}
