package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/proyectos-app/proyectos-backend/internal/pieces"
	projecthttp "github.com/proyectos-app/proyectos-backend/internal/projects/http"
	projectrepo "github.com/proyectos-app/proyectos-backend/internal/projects/repository"
	projectservice "github.com/proyectos-app/proyectos-backend/internal/projects/service"
	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

type AppDeps struct {
	Store  docstore.Store
	Logger *zap.Logger
}

// RegisterApp mounts the resource routers under /app.
func RegisterApp(r gin.IRouter, dep AppDeps) {
	if dep.Logger == nil {
		dep.Logger = zap.NewNop()
	}
	app := r.Group("/app")

	projectRepo := projectrepo.NewProjectRepository(dep.Store)
	projectSvc := projectservice.NewProjectService(projectRepo)
	projecthttp.New(projectSvc, dep.Logger.Named("proyectos")).Register(app.Group("/proyecto"))

	pieces.Register(app.Group("/pieza"), pieces.NewRepo(dep.Store), dep.Logger.Named("piezas"))
}
