package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/domain/wellness"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(wellness.Models()...)
}
