package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/data/repos"
	httpx "github.com/yungbote/caretaker-backend/internal/http"
	httpH "github.com/yungbote/caretaker-backend/internal/http/handlers"
	httpMW "github.com/yungbote/caretaker-backend/internal/http/middleware"
	"github.com/yungbote/caretaker-backend/internal/observability"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
	"github.com/yungbote/caretaker-backend/internal/services"
)

type Repos struct {
	CheckIn        repos.CheckInRepo
	PatternFinding repos.PatternFindingRepo
	Settings       repos.SettingsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		CheckIn:        repos.NewCheckInRepo(db, log),
		PatternFinding: repos.NewPatternFindingRepo(db, log),
		Settings:       repos.NewSettingsRepo(db, log),
	}
}

type Services struct {
	CheckIns services.CheckInService
	Insights services.InsightsService
	Settings services.SettingsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, m *observability.Metrics) Services {
	log.Info("Wiring services...")
	opts := services.Options{WindowDays: cfg.InsightsWindowDays}
	return Services{
		CheckIns: services.NewCheckInService(db, log, r.CheckIn, r.PatternFinding, r.Settings, c.InsightsCache, m, opts),
		Insights: services.NewInsightsService(log, r.CheckIn, r.PatternFinding, c.InsightsCache, m, opts),
		Settings: services.NewSettingsService(log, r.Settings),
	}
}

type Handlers struct {
	Health   *httpH.HealthHandler
	CheckIn  *httpH.CheckInHandler
	Insights *httpH.InsightsHandler
	Settings *httpH.SettingsHandler
}

func wireHandlers(log *logger.Logger, s Services, health httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(health),
		CheckIn:  httpH.NewCheckInHandler(s.CheckIns),
		Insights: httpH.NewInsightsHandler(s.Insights),
		Settings: httpH.NewSettingsHandler(s.Settings),
	}
}

func wireServer(log *logger.Logger, cfg Config, h Handlers, m *observability.Metrics) *httpx.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpx.NewServer(httpx.RouterConfig{
		Log:             log,
		Metrics:         m,
		ServiceName:     serviceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
		HealthHandler:   h.Health,
		CheckInHandler:  h.CheckIn,
		InsightsHandler: h.Insights,
		SettingsHandler: h.Settings,
	})
}
