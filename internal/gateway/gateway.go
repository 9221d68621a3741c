package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sisuapp/sisu/internal/directory"
	"github.com/sisuapp/sisu/internal/domain/audit"
	"github.com/sisuapp/sisu/internal/domain/user"
	"github.com/sisuapp/sisu/internal/observability"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is the caller-facing request shape: a raw JSON body for writes, a
// userId header value for reads.
type Request struct {
	Body   json.RawMessage
	UserID string
}

// Response is the envelope every operation resolves to. Business failures
// are carried as {status:"error"} payloads, never as returned errors; Err
// holds the classifying sentinel for transports that map it to a status
// code, and stays out of the serialized payload.
type Response struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	User    *user.User    `json:"user,omitempty"`
	Logs    audit.History `json:"logs,omitempty"`
	Err     error         `json:"-"`
}

// Gateway dispatches typed operations to the user directory and shapes the
// results into response envelopes. It performs no business logic of its own;
// it is the seam where a real network client could replace the in-process
// call without touching the core.
type Gateway struct {
	dir   *directory.Directory
	delay func() time.Duration
	prom  *observability.Prom
}

type Option func(*Gateway)

// WithLatency replaces the artificial network delay. Use a zero-returning
// hook to disable it.
func WithLatency(delay func() time.Duration) Option {
	return func(g *Gateway) { g.delay = delay }
}

// WithProm records per-operation counters and latency.
func WithProm(p *observability.Prom) Option {
	return func(g *Gateway) { g.prom = p }
}

func New(dir *directory.Directory, opts ...Option) *Gateway {
	g := &Gateway{
		dir: dir,
		// emulate a random network delay of up to two seconds
		delay: func() time.Duration {
			return time.Duration(rand.IntN(2001)) * time.Millisecond
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Gateway) CreateUser(ctx context.Context, req Request) Response {
	return g.run("create-user", func() Response {
		var candidate user.User

		if err := json.Unmarshal(req.Body, &candidate); err != nil {
			return errResponse(directory.ErrValidation)
		}

		created, err := g.dir.Create(ctx, candidate)

		if err != nil {
			return errResponse(err)
		}

		return okResponse("User successfully created", &created, nil)
	})
}

func (g *Gateway) GetUser(ctx context.Context, req Request) Response {
	return g.run("get-user", func() Response {
		found, err := g.dir.Get(ctx, req.UserID)

		if err != nil {
			return errResponse(err)
		}

		return okResponse("User found", &found, nil)
	})
}

func (g *Gateway) UpdateUser(ctx context.Context, req Request) Response {
	return g.run("update-user", func() Response {
		var incoming user.User

		if err := json.Unmarshal(req.Body, &incoming); err != nil {
			return errResponse(directory.ErrValidation)
		}

		updated, err := g.dir.Update(ctx, directory.UpdateInput{
			User:   incoming,
			Fields: payloadFields(req.Body),
		})

		if err != nil {
			return errResponse(err)
		}

		return okResponse("User data successfully updated", &updated, nil)
	})
}

func (g *Gateway) LoginUser(ctx context.Context, req Request) Response {
	return g.run("login", func() Response {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		if err := json.Unmarshal(req.Body, &creds); err != nil {
			return errResponse(directory.ErrValidation)
		}

		found, err := g.dir.Login(ctx, creds.Email, creds.Password)

		if err != nil {
			return errResponse(err)
		}

		return okResponse("User successfully authorized", &found, nil)
	})
}

func (g *Gateway) GetLogs(ctx context.Context, req Request) Response {
	return g.run("get-logs", func() Response {
		history, err := g.dir.Logs(ctx, req.UserID)

		if err != nil {
			return errResponse(err)
		}

		return okResponse("Logs found", nil, history)
	})
}

// run applies the artificial latency and records op metrics. An operation,
// once dispatched, always resolves to an envelope — there is no cancelled
// outcome.
func (g *Gateway) run(op string, fn func() Response) Response {
	var resp Response

	body := func() string {
		if d := g.delay(); d > 0 {
			time.Sleep(d)
		}

		resp = fn()
		return resp.Status
	}

	if g.prom != nil {
		g.prom.ObserveOp(op, body)
	} else {
		body()
	}

	return resp
}

// payloadFields lists the top-level field names present in a JSON body. The
// diff engine needs the raw field set to tell an omitted field from a blank
// one.
func payloadFields(body json.RawMessage) []string {
	var raw map[string]json.RawMessage

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	fields := make([]string, 0, len(raw))

	for k := range raw {
		fields = append(fields, k)
	}

	return fields
}

// ValidationErrorResponse is the envelope for a request rejected before
// dispatch (unreadable or incomplete payload). Transports use it to
// fast-fail without paying the artificial latency.
func ValidationErrorResponse() Response {
	return errResponse(directory.ErrValidation)
}

func okResponse(message string, u *user.User, history audit.History) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		User:    u,
		Logs:    history,
	}
}

func errResponse(err error) Response {
	return Response{
		Status:  StatusError,
		Message: messageFor(err),
		Err:     err,
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, directory.ErrValidation):
		return "Request error. The required data is missing"
	case errors.Is(err, directory.ErrConflict):
		return "Unable to create user. A user with this email already exists"
	case errors.Is(err, directory.ErrNotFound):
		return "User not found"
	case errors.Is(err, directory.ErrAuth):
		return "Authorization error. Email or password is not correct"
	default:
		return "Internal server error"
	}
}
