package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/caretaker-backend/internal/http/handlers"
	httpMW "github.com/yungbote/caretaker-backend/internal/http/middleware"
	"github.com/yungbote/caretaker-backend/internal/observability"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	CheckInHandler  *httpH.CheckInHandler
	InsightsHandler *httpH.InsightsHandler
	SettingsHandler *httpH.SettingsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Check-ins
		if cfg.CheckInHandler != nil {
			protected.POST("/checkins", cfg.CheckInHandler.Submit)
			protected.GET("/checkins", cfg.CheckInHandler.List)
			protected.GET("/checkins/:day", cfg.CheckInHandler.Get)
		}

		// Insights
		if cfg.InsightsHandler != nil {
			protected.GET("/insights", cfg.InsightsHandler.Summary)
			protected.GET("/insights/patterns", cfg.InsightsHandler.Patterns)
			protected.GET("/insights/recovery", cfg.InsightsHandler.Recovery)
			protected.GET("/insights/correlations", cfg.InsightsHandler.Correlations)
			protected.GET("/patterns", cfg.InsightsHandler.Findings)
		}

		// Settings
		if cfg.SettingsHandler != nil {
			protected.GET("/settings", cfg.SettingsHandler.Get)
			protected.PATCH("/settings", cfg.SettingsHandler.Update)
		}
	}

	return r
}
