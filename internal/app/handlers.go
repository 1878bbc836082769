package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/http"
	httpH "github.com/yungbote/academy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/academy-backend/internal/http/middleware"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Quiz         *httpH.QuizHandler
	Certificate  *httpH.CertificateHandler
	Catalog      *httpH.CatalogHandler
	Notification *httpH.NotificationHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:       httpH.NewHealthHandler(pinger),
		Quiz:         httpH.NewQuizHandler(log, services.Quiz),
		Certificate:  httpH.NewCertificateHandler(log, services.Certificates),
		Catalog:      httpH.NewCatalogHandler(log, services.Catalog),
		Notification: httpH.NewNotificationHandler(log, services.Inbox),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, httpMW.NewTokenVerifier(cfg.JWTKey)),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.Tracing.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		AllowOrigins:        cfg.Origins,
		AuthMiddleware:      middleware.Auth,
		QuizHandler:         handlers.Quiz,
		CertificateHandler:  handlers.Certificate,
		CatalogHandler:      handlers.Catalog,
		NotificationHandler: handlers.Notification,
		HealthHandler:       handlers.Health,
	})
}
