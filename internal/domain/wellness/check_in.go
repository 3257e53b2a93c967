package wellness

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/analytics"
)

// CheckIn is one user's signals for one calendar day plus the decision that
// was computed when it was submitted. (user_id, day) is unique.
type CheckIn struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_check_in_user_day,priority:1;column:user_id" json:"user_id"`
	Day    time.Time `gorm:"type:date;not null;uniqueIndex:idx_check_in_user_day,priority:2;column:day" json:"day"`

	Water      string `gorm:"column:water" json:"water,omitempty"`
	Food       string `gorm:"column:food" json:"food,omitempty"`
	Sleep      string `gorm:"column:sleep" json:"sleep,omitempty"`
	Exercise   string `gorm:"column:exercise" json:"exercise,omitempty"`
	MentalLoad string `gorm:"column:mental_load" json:"mental_load,omitempty"`

	Capacity   int            `gorm:"not null;default:100;column:capacity" json:"capacity"`
	SystemMode string         `gorm:"not null;default:'NORMAL';column:system_mode" json:"system_mode"`
	Confidence float64        `gorm:"not null;default:1;column:confidence" json:"confidence"`
	Decision   datatypes.JSON `gorm:"column:decision" json:"decision,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CheckIn) TableName() string { return "check_in" }

func (c *CheckIn) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DayOf truncates t to its UTC calendar day, the key check-ins are stored
// under.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c *CheckIn) Observation() analytics.Observation {
	return analytics.Observation{
		Date:       DayOf(c.Day),
		Water:      c.Water,
		Food:       c.Food,
		Sleep:      c.Sleep,
		Exercise:   c.Exercise,
		MentalLoad: c.MentalLoad,
	}
}

// ApplyDecision stores d on the row, both as the queryable summary columns
// and as the full JSON document.
func (c *CheckIn) ApplyDecision(d *analytics.Decision) error {
	if d == nil {
		c.Decision = nil
		return nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	c.Capacity = d.Capacity
	c.SystemMode = string(d.SystemMode)
	c.Confidence = d.Confidence
	c.Decision = datatypes.JSON(raw)
	return nil
}

// StoredDecision decodes the persisted decision; nil when none was stored.
func (c *CheckIn) StoredDecision() (*analytics.Decision, error) {
	if len(c.Decision) == 0 || string(c.Decision) == "null" {
		return nil, nil
	}
	var d analytics.Decision
	if err := json.Unmarshal(c.Decision, &d); err != nil {
		return nil, fmt.Errorf("decode decision for check-in %s: %w", c.ID, err)
	}
	return &d, nil
}

// HistoryWindow converts newest-first rows into the analytics window. Rows
// with an undecodable decision are kept without one.
func HistoryWindow(rows []*CheckIn) analytics.HistoryWindow {
	out := make(analytics.HistoryWindow, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		d, _ := r.StoredDecision()
		out = append(out, analytics.HistoryEntry{Observation: r.Observation(), Decision: d})
	}
	return out
}
