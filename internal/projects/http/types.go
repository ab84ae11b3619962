package http

import (
	"github.com/proyectos-app/proyectos-backend/internal/projects/service"
	"go.uber.org/zap"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
	log *zap.Logger
}

func New(svc *service.ProjectService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

type searchReq struct {
	TienePiezas *bool   `json:"tienePiezas"`
	Fecha       *string `json:"fecha"`
}

type appendReq struct {
	Piezas *[]interface{} `json:"piezas"`
}
