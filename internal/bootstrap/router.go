package bootstrap

import (
	"net/http"

	httpapi "github.com/proyectos-app/proyectos-backend/internal/api/http"
	"github.com/proyectos-app/proyectos-backend/internal/api/http/middleware"
	"github.com/proyectos-app/proyectos-backend/internal/api/http/routes"
	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Store       docstore.Store
	AllowList   *middleware.AllowList
	Metrics     *middleware.Metrics
	Logger      *zap.Logger
}

// BuildRouter wires the middleware chain and mounts every route. Health and
// metrics sit outside the CORS gate so probes without an Origin still work.
func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Logger == nil {
		dep.Logger = zap.NewNop()
	}
	if dep.AllowList == nil {
		dep.AllowList = middleware.NewAllowList(nil, false)
	}
	if dep.Metrics == nil {
		dep.Metrics = middleware.NewMetrics("proyectos")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger.Named("http")))
	r.Use(dep.Metrics.Middleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))

	api := r.Group("")
	api.Use(middleware.CORSGate(dep.AllowList, dep.Logger.Named("cors")))
	// group middleware only runs on matched routes, so preflights need one
	api.OPTIONS("/app/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	routes.RegisterApp(api, routes.AppDeps{
		Store:  dep.Store,
		Logger: dep.Logger,
	})

	return r
}
