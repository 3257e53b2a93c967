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

type CheckInRepo interface {
	Upsert(dbc dbctx.Context, row *types.CheckIn) (*types.CheckIn, error)
	GetByDay(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.CheckIn, error)
	ListBefore(dbc dbctx.Context, userID uuid.UUID, day time.Time, limit int) ([]*types.CheckIn, error)
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CheckIn, error)
}

type checkInRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCheckInRepo(db *gorm.DB, baseLog *logger.Logger) CheckInRepo {
	return &checkInRepo{db: db, log: baseLog.With("repo", "CheckInRepo")}
}

// Upsert writes the row for (user_id, day), replacing the signals and the
// decision of an existing row. The stored row is returned.
func (r *checkInRepo) Upsert(dbc dbctx.Context, row *types.CheckIn) (*types.CheckIn, error) {
	if row == nil || row.UserID == uuid.Nil {
		return nil, nil
	}
	row.Day = types.DayOf(row.Day)
	t := dbc.Handle(r.db)
	err := t.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"water", "food", "sleep", "exercise", "mental_load",
			"capacity", "system_mode", "confidence", "decision", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByDay(dbc, row.UserID, row.Day)
}

func (r *checkInRepo) GetByDay(dbc dbctx.Context, userID uuid.UUID, day time.Time) (*types.CheckIn, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.CheckIn
	if err := dbc.Handle(r.db).
		Where("user_id = ? AND day = ?", userID, types.DayOf(day)).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// ListBefore returns up to limit check-ins strictly before day, newest first.
func (r *checkInRepo) ListBefore(dbc dbctx.Context, userID uuid.UUID, day time.Time, limit int) ([]*types.CheckIn, error) {
	results := []*types.CheckIn{}
	if userID == uuid.Nil || limit <= 0 {
		return results, nil
	}
	if err := dbc.Handle(r.db).
		Where("user_id = ? AND day < ?", userID, types.DayOf(day)).
		Order("day DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListRecent returns the newest limit check-ins, newest first.
func (r *checkInRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CheckIn, error) {
	results := []*types.CheckIn{}
	if userID == uuid.Nil || limit <= 0 {
		return results, nil
	}
	if err := dbc.Handle(r.db).
		Where("user_id = ?", userID).
		Order("day DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
