package http

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sisuapp/sisu/internal/gateway"
	"github.com/sisuapp/sisu/internal/http/handlers"
	"github.com/sisuapp/sisu/internal/http/middlewares"
	"github.com/sisuapp/sisu/internal/observability"
	"github.com/sisuapp/sisu/internal/session"
)

type RouterDeps struct {
	Gateway  *gateway.Gateway
	Sessions *session.Manager
	Prom     *observability.Prom
	Registry *prometheus.Registry

	// Ping probes the record store's backing service; nil when the store
	// has nothing to probe (memory, file).
	Ping func() error
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfgEnv := os.Getenv("APP_ENV")

	if cfgEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("sisu"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health + metrics

	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// wire up the account API

	usersHandler := handlers.NewUsersHandler(deps.Gateway)
	authHandler := handlers.NewAuthHandler(deps.Gateway, deps.Sessions)
	logsHandler := handlers.NewLogsHandler(deps.Gateway)

	api := r.Group("/api")
	api.Use(middlewares.SessionAuth(deps.Sessions))

	api.POST("/users", usersHandler.Create)
	api.GET("/users", usersHandler.Get)
	api.PUT("/users", usersHandler.Update)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/logs", logsHandler.Get)

	return r
}
