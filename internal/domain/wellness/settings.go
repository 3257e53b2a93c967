package wellness

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/caretaker-backend/internal/analytics"
)

type UserSettings struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	OperatingMode string    `gorm:"not null;default:'default';column:operating_mode" json:"operating_mode"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }

// Mode returns the stored operating mode, treating anything unparseable as
// the default.
func (s *UserSettings) Mode() analytics.OperatingMode {
	if s == nil {
		return analytics.OperatingDefault
	}
	m, err := analytics.ParseOperatingMode(s.OperatingMode)
	if err != nil {
		return analytics.OperatingDefault
	}
	return m
}
