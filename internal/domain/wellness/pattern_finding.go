package wellness

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/analytics"
)

// PatternFinding is a pattern that has already been surfaced to the user.
// Chronic findings leave DayOfWeek empty.
type PatternFinding struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pattern_finding_identity,priority:1;column:user_id" json:"user_id"`
	Kind            string    `gorm:"not null;uniqueIndex:idx_pattern_finding_identity,priority:2;column:kind" json:"kind"`
	DayOfWeek       string    `gorm:"not null;default:'';uniqueIndex:idx_pattern_finding_identity,priority:3;column:day_of_week" json:"day_of_week,omitempty"`
	Type            string    `gorm:"not null;uniqueIndex:idx_pattern_finding_identity,priority:4;column:type" json:"type"`
	Frequency       int       `gorm:"column:frequency" json:"frequency,omitempty"`
	ConsecutiveDays int       `gorm:"column:consecutive_days" json:"consecutive_days,omitempty"`
	Severity        string    `gorm:"column:severity" json:"severity,omitempty"`
	DetectedAt      time.Time `gorm:"not null;column:detected_at" json:"detected_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (PatternFinding) TableName() string { return "pattern_finding" }

func (p *PatternFinding) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func NewPatternFinding(userID uuid.UUID, p analytics.Pattern, at time.Time) *PatternFinding {
	return &PatternFinding{
		UserID:          userID,
		Kind:            string(p.Kind),
		DayOfWeek:       p.Day,
		Type:            p.Type,
		Frequency:       p.Frequency,
		ConsecutiveDays: p.ConsecutiveDays,
		Severity:        p.Severity,
		DetectedAt:      at.UTC(),
	}
}

func (p *PatternFinding) Pattern() analytics.Pattern {
	return analytics.Pattern{
		Kind:            analytics.PatternKind(p.Kind),
		Type:            p.Type,
		Day:             p.DayOfWeek,
		Frequency:       p.Frequency,
		ConsecutiveDays: p.ConsecutiveDays,
		Severity:        p.Severity,
	}
}

func Patterns(rows []*PatternFinding) []analytics.Pattern {
	out := make([]analytics.Pattern, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, r.Pattern())
		}
	}
	return out
}
