package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/data/repos/wellness"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

type CheckInRepo = wellness.CheckInRepo
type PatternFindingRepo = wellness.PatternFindingRepo
type SettingsRepo = wellness.SettingsRepo

func NewCheckInRepo(db *gorm.DB, baseLog *logger.Logger) CheckInRepo {
	return wellness.NewCheckInRepo(db, baseLog)
}
func NewPatternFindingRepo(db *gorm.DB, baseLog *logger.Logger) PatternFindingRepo {
	return wellness.NewPatternFindingRepo(db, baseLog)
}
func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return wellness.NewSettingsRepo(db, baseLog)
}
