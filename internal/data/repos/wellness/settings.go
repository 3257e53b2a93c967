package wellness

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/caretaker-backend/internal/domain/wellness"
	"github.com/yungbote/caretaker-backend/internal/platform/dbctx"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

type SettingsRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserSettings, error)
	SetOperatingMode(dbc dbctx.Context, userID uuid.UUID, mode string) (*types.UserSettings, error)
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{db: db, log: baseLog.With("repo", "SettingsRepo")}
}

// Get returns nil, nil for a user who never saved settings.
func (r *settingsRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserSettings, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserSettings
	if err := dbc.Handle(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *settingsRepo) SetOperatingMode(dbc dbctx.Context, userID uuid.UUID, mode string) (*types.UserSettings, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	now := time.Now().UTC()
	row := &types.UserSettings{UserID: userID, OperatingMode: mode, CreatedAt: now, UpdatedAt: now}
	if err := dbc.Handle(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"operating_mode", "updated_at"}),
	}).Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID)
}
