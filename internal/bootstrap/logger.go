package bootstrap

import (
	"github.com/proyectos-app/proyectos-backend/config"
	"github.com/proyectos-app/proyectos-backend/internal/logging"

	"go.uber.org/zap"
)

func NewLogger(app config.AppConfig) (*zap.Logger, error) {
	log, err := logging.New(app.Environment, app.LogLevel, app.LogFormat)
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", app.ServiceName)), nil
}
