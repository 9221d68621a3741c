package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// credentialsPayload is the fast-fail shape for create and login bodies.
// Only presence is enforced here — the gateway owns the real validation, so
// the tags must not be stricter than its rules.
type credentialsPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindCredentials checks a raw body against credentialsPayload. On failure
// the flattened field errors are returned for logging; the response the
// caller sends is the gateway's own validation envelope either way.
func bindCredentials(raw []byte) (fields []string, ok bool) {
	var creds credentialsPayload

	if err := binding.JSON.BindBody(raw, &creds); err != nil {
		return fieldErrors(err), false
	}

	return nil, true
}

func fieldErrors(err error) []string {
	var verr validator.ValidationErrors

	if !errors.As(err, &verr) {
		return []string{"body: " + err.Error()}
	}

	out := make([]string, 0, len(verr))

	for _, fe := range verr {
		out = append(out, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}

	return out
}
