package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/analytics"
	types "github.com/yungbote/caretaker-backend/internal/domain/wellness"
)

// Day returns a UTC calendar day in January 2024 (Monday the 1st).
func Day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func SeedCheckIn(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, o analytics.Observation, d *analytics.Decision) *types.CheckIn {
	tb.Helper()
	row := &types.CheckIn{
		UserID:     userID,
		Day:        types.DayOf(o.Date),
		Water:      o.Water,
		Food:       o.Food,
		Sleep:      o.Sleep,
		Exercise:   o.Exercise,
		MentalLoad: o.MentalLoad,
	}
	if err := row.ApplyDecision(d); err != nil {
		tb.Fatalf("seed check-in decision: %v", err)
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed check-in: %v", err)
	}
	return row
}

func SeedPatternFinding(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, p analytics.Pattern) *types.PatternFinding {
	tb.Helper()
	row := types.NewPatternFinding(userID, p, time.Now())
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed pattern finding: %v", err)
	}
	return row
}
