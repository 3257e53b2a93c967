package wellness

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/analytics"
	types "github.com/yungbote/caretaker-backend/internal/domain/wellness"
	"github.com/yungbote/caretaker-backend/internal/platform/dbctx"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

const pgUniqueViolation = "23505"

type PatternFindingRepo interface {
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.PatternFinding, error)
	Insert(dbc dbctx.Context, rows []*types.PatternFinding) ([]*types.PatternFinding, error)
	DeleteChronicExcept(dbc dbctx.Context, userID uuid.UUID, activeTypes []string) error
}

type patternFindingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatternFindingRepo(db *gorm.DB, baseLog *logger.Logger) PatternFindingRepo {
	return &patternFindingRepo{db: db, log: baseLog.With("repo", "PatternFindingRepo")}
}

func (r *patternFindingRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.PatternFinding, error) {
	results := []*types.PatternFinding{}
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Handle(r.db).
		Where("user_id = ?", userID).
		Order("detected_at DESC, kind, day_of_week, type").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Insert stores each finding in its own savepoint. A finding that already
// exists (a concurrent submit got there first) is skipped; only rows that
// were actually written are returned.
func (r *patternFindingRepo) Insert(dbc dbctx.Context, rows []*types.PatternFinding) ([]*types.PatternFinding, error) {
	inserted := make([]*types.PatternFinding, 0, len(rows))
	t := dbc.Handle(r.db)
	for _, row := range rows {
		if row == nil {
			continue
		}
		err := t.Transaction(func(tx *gorm.DB) error {
			return tx.Create(row).Error
		})
		switch {
		case err == nil:
			inserted = append(inserted, row)
		case IsUniqueViolation(err):
			r.log.Debug("Pattern finding already recorded", "user_id", row.UserID, "kind", row.Kind, "type", row.Type)
		default:
			return nil, err
		}
	}
	return inserted, nil
}

// DeleteChronicExcept forgets chronic findings whose streak is no longer
// active, so the next streak of the same type is surfaced again.
func (r *patternFindingRepo) DeleteChronicExcept(dbc dbctx.Context, userID uuid.UUID, activeTypes []string) error {
	if userID == uuid.Nil {
		return nil
	}
	q := dbc.Handle(r.db).Where("user_id = ? AND kind = ?", userID, string(analytics.PatternChronic))
	if len(activeTypes) > 0 {
		q = q.Where("type NOT IN ?", activeTypes)
	}
	return q.Delete(&types.PatternFinding{}).Error
}

// IsUniqueViolation recognizes duplicate-key failures from postgres (pgx) and
// sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
