package http

import (
	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/cache"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/config"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/http/handlers"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/http/middlewares"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UsersStore is everything the API asks of the user repository.
type UsersStore interface {
	handlers.UsersRepo
	handlers.UserLookup
}

type Deps struct {
	Config   config.Config
	Users    UsersStore
	WorkLogs handlers.WorkLogsRepo

	// optional
	Cache    cache.Store
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Checks   map[string]handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.AllowedOrigins))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// probes and metrics stay outside tracing

	h := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(observability.Handler(d.Gatherer)))
	}

	var readCache *handlers.ReadCache
	if d.Cache != nil {
		readCache = handlers.NewReadCache(d.Cache, d.Prom)
	}

	adminUsers := handlers.NewAdminUsersHandler(d.Users, readCache, d.Config.BcryptCost)
	dashboard := handlers.NewDashboardHandler(d.WorkLogs, readCache)
	workLogs := handlers.NewWorkLogsHandler(d.WorkLogs, d.Users, readCache)

	api := r.Group("/api")
	api.Use(otelgin.Middleware(observability.ServiceName))
	api.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))

	admin := api.Group("/admin")
	{
		admin.GET("/dashboard", dashboard.Admin)
		admin.GET("/users", adminUsers.List)
		admin.POST("/users", adminUsers.Create)
		admin.PUT("/users/:userId", adminUsers.Update)
	}

	users := api.Group("/users/:userId")
	{
		users.GET("/dashboard", dashboard.User)
		users.GET("/workLogs", workLogs.List)
		users.POST("/workLogs", workLogs.Create)
		users.PUT("/workLogs/:workLogId", workLogs.Update)
		users.DELETE("/workLogs/:workLogId", workLogs.Delete)
	}

	return r
}
