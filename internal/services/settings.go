package services

import (
	"context"

	"github.com/yungbote/caretaker-backend/internal/analytics"
	"github.com/yungbote/caretaker-backend/internal/data/repos"
	types "github.com/yungbote/caretaker-backend/internal/domain/wellness"
	"github.com/yungbote/caretaker-backend/internal/platform/apierr"
	"github.com/yungbote/caretaker-backend/internal/platform/dbctx"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

type SettingsService interface {
	Get(ctx context.Context) (*types.UserSettings, error)
	SetOperatingMode(ctx context.Context, raw string) (*types.UserSettings, error)
}

type settingsService struct {
	log      *logger.Logger
	settings repos.SettingsRepo
}

func NewSettingsService(log *logger.Logger, settings repos.SettingsRepo) SettingsService {
	return &settingsService{log: log.With("service", "SettingsService"), settings: settings}
}

// Get never fails for a user without stored settings; it reports the
// defaults instead.
func (s *settingsService) Get(ctx context.Context) (*types.UserSettings, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.settings.Get(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &types.UserSettings{UserID: userID, OperatingMode: string(analytics.OperatingDefault)}
	}
	return row, nil
}

func (s *settingsService) SetOperatingMode(ctx context.Context, raw string) (*types.UserSettings, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	mode, err := analytics.ParseOperatingMode(raw)
	if err != nil {
		return nil, apierr.BadRequest("invalid_operating_mode", err)
	}
	row, err := s.settings.SetOperatingMode(dbctx.Context{Ctx: ctx}, userID, string(mode))
	if err != nil {
		return nil, err
	}
	s.log.Info("Operating mode updated", "user_id", userID, "operating_mode", mode)
	return row, nil
}
