package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/academy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/academy-backend/internal/http/middleware"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowOrigins   []string
	AuthMiddleware *httpMW.AuthMiddleware

	QuizHandler         *httpH.QuizHandler
	CertificateHandler  *httpH.CertificateHandler
	CatalogHandler      *httpH.CatalogHandler
	NotificationHandler *httpH.NotificationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Certificate verification (public). The root path is the one printed on certificates.
		if cfg.CertificateHandler != nil {
			r.GET("/certificates/verify/:certificate_id", cfg.CertificateHandler.Verify)
			api.GET("/certificates/verify/:certificate_id", cfg.CertificateHandler.Verify)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Enrollment + lesson progress
		if cfg.CatalogHandler != nil {
			protected.POST("/courses/:id/enroll", cfg.CatalogHandler.Enroll)
			protected.POST("/lessons/:id/toggle-complete", cfg.CatalogHandler.ToggleLessonCompletion)
		}

		// Quizzes
		if cfg.QuizHandler != nil {
			protected.GET("/courses/:id/quizzes", cfg.QuizHandler.ListCourseQuizzes)
			protected.GET("/quizzes/:id", cfg.QuizHandler.GetQuiz)
			protected.POST("/quizzes/:id/attempts", cfg.QuizHandler.StartAttempt)
			protected.POST("/attempts/:id/submit", cfg.QuizHandler.SubmitAttempt)
			protected.GET("/attempts/:id/results", cfg.QuizHandler.GetResults)
			protected.GET("/attempts/:id/review", cfg.QuizHandler.GetReview)
		}

		// Certificates
		if cfg.CertificateHandler != nil {
			protected.GET("/courses/:id/certificate/eligibility", cfg.CertificateHandler.GetEligibility)
			protected.POST("/courses/:id/certificate", cfg.CertificateHandler.Issue)
			protected.GET("/certificates", cfg.CertificateHandler.ListMine)
			protected.GET("/certificates/:certificate_id/pdf", cfg.CertificateHandler.DownloadPDF)
			protected.GET("/certificates/:certificate_id/image", cfg.CertificateHandler.DownloadImage)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
		}
	}

	return r
}
