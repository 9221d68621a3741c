package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sisuapp/sisu/internal/directory"
	"github.com/sisuapp/sisu/internal/gateway"
	httpx "github.com/sisuapp/sisu/internal/http"
	"github.com/sisuapp/sisu/internal/observability"
	"github.com/sisuapp/sisu/internal/session"
	"github.com/sisuapp/sisu/internal/store"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	User    map[string]any  `json:"user"`
	Logs    json.RawMessage `json:"logs"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	dir := directory.New(store.NewMemoryStore())

	gw := gateway.New(dir,
		gateway.WithProm(prom),
		gateway.WithLatency(func() time.Duration { return 0 }),
	)

	return httpx.NewRouter(httpx.RouterDeps{
		Gateway:  gw,
		Sessions: session.NewManager("test-secret"),
		Prom:     prom,
		Registry: reg,
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf *bytes.Buffer

	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope

	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
	}

	return w, env
}

func TestCreateUserFlow(t *testing.T) {
	r := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"ann@example.com","password":"pw1"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	if env.Status != "success" || env.Message != "User successfully created" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	if _, ok := env.User["password"]; ok {
		t.Fatalf("password leaked in response: %+v", env.User)
	}

	// a second create for the same email must conflict
	w, env = doJSON(t, r, http.MethodPost, "/api/users", `{"email":"ann@example.com","password":"other"}`, nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusConflict)
	}

	if env.Message != "Unable to create user. A user with this email already exists" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestCreateUserMissingPasswordFastFails(t *testing.T) {
	r := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"ann@example.com"}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	if env.Message != "Request error. The required data is missing" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestGetUserByHeader(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/users", `{"email":"ann@example.com","password":"pw1"}`, nil)

	w, env := doJSON(t, r, http.MethodGet, "/api/users", "", map[string]string{"userId": "ann@example.com"})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if env.Message != "User found" || env.User["email"] != "ann@example.com" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/users", "", map[string]string{"userId": "nobody@example.com"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
	}

	if env.Message != "User not found" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestUpdateUserWritesAuditLog(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/users", `{"email":"ann@example.com","password":"pw1"}`, nil)

	body := `{"email":"ann@example.com","password":"pw1","firstName":"Ann","lastName":"","gender":"","phone":""}`
	w, env := doJSON(t, r, http.MethodPut, "/api/users", body, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if env.Message != "User data successfully updated" || env.User["firstName"] != "Ann" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/logs", "", map[string]string{"userId": "ann@example.com"})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if env.Message != "Logs found" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	if !strings.Contains(string(env.Logs), `"firstName"`) {
		t.Fatalf("expected a firstName change in the logs: %s", env.Logs)
	}
}

func TestGetLogsUnknownUser(t *testing.T) {
	r := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/api/logs", "", map[string]string{"userId": "nobody@example.com"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
	}

	if env.Message != "User not found" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestLoginSetsSessionAndResolvesIt(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/users", `{"email":"ann@example.com","password":"pw1"}`, nil)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"wrong"}`, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}

	if env.Message != "Authorization error. Email or password is not correct" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"pw1"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if env.Message != "User successfully authorized" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	token := w.Header().Get("X-Session-Token")

	if token == "" {
		t.Fatal("expected a session token header on successful login")
	}

	var sessionCookie *http.Cookie

	for _, c := range w.Result().Cookies() {
		if c.Name == "sisu_session" {
			sessionCookie = c
		}
	}

	if sessionCookie == nil || sessionCookie.Value != token {
		t.Fatalf("expected a sisu_session cookie carrying the token, got %+v", sessionCookie)
	}

	// the session should resolve the user without a userId header
	w, env = doJSON(t, r, http.MethodGet, "/api/users", "", map[string]string{"Authorization": "Bearer " + token})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if env.User["email"] != "ann@example.com" {
		t.Fatalf("session did not resolve the caller: %+v", env)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/logout", "", nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusNoContent)
	}

	cleared := false

	for _, c := range w.Result().Cookies() {
		if c.Name == "sisu_session" && c.MaxAge < 0 {
			cleared = true
		}
	}

	if !cleared {
		t.Fatal("expected the session cookie to be expired")
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/healthz", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("healthz: got status %d, want %d", w.Code, http.StatusOK)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/readyz", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("readyz: got status %d, want %d", w.Code, http.StatusOK)
	}
}
