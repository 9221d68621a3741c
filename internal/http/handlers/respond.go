package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sisuapp/sisu/internal/directory"
	"github.com/sisuapp/sisu/internal/gateway"
)

// RespondEnvelope writes the gateway envelope as the response body, with the
// HTTP status derived from the business error class. The envelope itself is
// the contract; the status code is a convenience for HTTP clients.
func RespondEnvelope(ctx *gin.Context, resp gateway.Response) {
	ctx.JSON(statusFor(resp, http.StatusOK), resp)
}

// RespondEnvelopeCreated is RespondEnvelope with 201 on success.
func RespondEnvelopeCreated(ctx *gin.Context, resp gateway.Response) {
	ctx.JSON(statusFor(resp, http.StatusCreated), resp)
}

func statusFor(resp gateway.Response, success int) int {
	if resp.Status == gateway.StatusSuccess {
		return success
	}

	switch {
	case errors.Is(resp.Err, directory.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(resp.Err, directory.ErrConflict):
		return http.StatusConflict
	case errors.Is(resp.Err, directory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(resp.Err, directory.ErrAuth):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
