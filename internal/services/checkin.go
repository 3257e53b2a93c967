package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/analytics"
	"github.com/yungbote/caretaker-backend/internal/clients/redis"
	"github.com/yungbote/caretaker-backend/internal/data/repos"
	types "github.com/yungbote/caretaker-backend/internal/domain/wellness"
	"github.com/yungbote/caretaker-backend/internal/observability"
	"github.com/yungbote/caretaker-backend/internal/platform/apierr"
	"github.com/yungbote/caretaker-backend/internal/platform/dbctx"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

const (
	dayLayout         = "2006-01-02"
	DefaultListDays   = 7
	MaxListDays       = 90
	decisionPriorDays = analytics.DebtReplayDays - 1
)

type CheckInRequest struct {
	// Day is YYYY-MM-DD; empty means today.
	Day        string `json:"day"`
	Water      string `json:"water"`
	Food       string `json:"food"`
	Sleep      string `json:"sleep"`
	Exercise   string `json:"exercise"`
	MentalLoad string `json:"mental_load"`
}

type CheckInResult struct {
	CheckIn     *types.CheckIn      `json:"check_in"`
	Decision    *analytics.Decision `json:"decision"`
	NewPatterns []analytics.Pattern `json:"new_patterns"`
}

type CheckInService interface {
	Submit(ctx context.Context, req CheckInRequest) (*CheckInResult, error)
	List(ctx context.Context, days int) ([]*types.CheckIn, error)
	Get(ctx context.Context, day string) (*types.CheckIn, error)
}

type checkInService struct {
	db       *gorm.DB
	log      *logger.Logger
	checkIns repos.CheckInRepo
	patterns repos.PatternFindingRepo
	settings repos.SettingsRepo
	cache    redis.InsightsCache
	metrics  *observability.Metrics
	opts     Options
}

// NewCheckInService wires the submit pipeline. cache and metrics may be nil.
func NewCheckInService(
	db *gorm.DB,
	log *logger.Logger,
	checkIns repos.CheckInRepo,
	patterns repos.PatternFindingRepo,
	settings repos.SettingsRepo,
	cache redis.InsightsCache,
	metrics *observability.Metrics,
	opts Options,
) CheckInService {
	return &checkInService{
		db:       db,
		log:      log.With("service", "CheckInService"),
		checkIns: checkIns,
		patterns: patterns,
		settings: settings,
		cache:    cache,
		metrics:  metrics,
		opts:     opts,
	}
}

func (s *checkInService) parseDay(raw string) (time.Time, error) {
	today := s.opts.today()
	if raw == "" {
		return today, nil
	}
	day, err := time.Parse(dayLayout, raw)
	if err != nil {
		return time.Time{}, apierr.BadRequest("invalid_day", fmt.Errorf("day must be YYYY-MM-DD: %q", raw))
	}
	if day.After(today) {
		return time.Time{}, apierr.BadRequest("future_day", fmt.Errorf("day %s is in the future", raw))
	}
	return day, nil
}

// Submit scores the day's check-in against the stored history, persists it
// together with its decision, and records any pattern the user has not been
// shown before. Resubmitting a day replaces that day's check-in.
func (s *checkInService) Submit(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "checkin.submit")
	defer span.End()

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	day, err := s.parseDay(req.Day)
	if err != nil {
		return nil, err
	}
	obs := analytics.Normalize(analytics.Observation{
		Date:       day,
		Water:      req.Water,
		Food:       req.Food,
		Sleep:      req.Sleep,
		Exercise:   req.Exercise,
		MentalLoad: req.MentalLoad,
	})

	var (
		result  CheckInResult
		history analytics.HistoryWindow
		mode    analytics.OperatingMode
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		settings, err := s.settings.Get(dbc, userID)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		mode = settings.Mode()

		prior, err := s.checkIns.ListBefore(dbc, userID, day, decisionPriorDays)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		history = types.HistoryWindow(prior)

		decision, err := analytics.ComputeDecision(&obs, history, mode)
		if err != nil {
			return err
		}

		row := &types.CheckIn{
			UserID:     userID,
			Day:        day,
			Water:      obs.Water,
			Food:       obs.Food,
			Sleep:      obs.Sleep,
			Exercise:   obs.Exercise,
			MentalLoad: obs.MentalLoad,
		}
		if err := row.ApplyDecision(decision); err != nil {
			return err
		}
		stored, err := s.checkIns.Upsert(dbc, row)
		if err != nil {
			return fmt.Errorf("store check-in: %w", err)
		}

		fresh, err := s.recordPatterns(dbc, userID)
		if err != nil {
			return err
		}
		result = CheckInResult{CheckIn: stored, Decision: decision, NewPatterns: fresh}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, analytics.ErrInvalidOperatingMode) {
			return nil, apierr.BadRequest("invalid_operating_mode", err)
		}
		s.log.Error("Check-in submit failed", "user_id", userID, "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("Insights cache invalidation failed", "user_id", userID, "error", err)
		}
	}

	d := result.Decision
	s.metrics.ObserveDecision(string(d.SystemMode), string(mode), d.Capacity, d.Confidence)
	if d.ViolationPenalty > 0 && len(history) > 0 && history[0].Decision != nil {
		s.metrics.IncViolation(string(history[0].Decision.SystemMode))
	}
	for _, p := range result.NewPatterns {
		s.metrics.IncNewPattern(string(p.Kind), p.Type)
	}
	span.SetAttributes(
		attribute.String("checkin.day", day.Format(dayLayout)),
		attribute.String("decision.system_mode", string(d.SystemMode)),
		attribute.Int("decision.capacity", d.Capacity),
		attribute.Int("patterns.new", len(result.NewPatterns)),
	)
	s.log.Info("Check-in scored",
		"user_id", userID,
		"day", day.Format(dayLayout),
		"system_mode", d.SystemMode,
		"capacity", d.Capacity,
		"confidence", d.Confidence,
		"new_patterns", len(result.NewPatterns),
	)
	return &result, nil
}

// recordPatterns runs detection over the user's newest check-ins, whichever
// day was submitted, and stores the findings that are new. Chronic findings
// that are no longer active are cleared so a later streak is surfaced again.
func (s *checkInService) recordPatterns(dbc dbctx.Context, userID uuid.UUID) ([]analytics.Pattern, error) {
	rows, err := s.checkIns.ListRecent(dbc, userID, s.opts.window())
	if err != nil {
		return nil, fmt.Errorf("load pattern window: %w", err)
	}
	found := analytics.DetectPatterns(types.HistoryWindow(rows))

	var active []string
	for _, p := range found {
		if p.Kind == analytics.PatternChronic {
			active = append(active, p.Type)
		}
	}
	if err := s.patterns.DeleteChronicExcept(dbc, userID, active); err != nil {
		return nil, fmt.Errorf("clear inactive streaks: %w", err)
	}

	knownRows, err := s.patterns.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load known patterns: %w", err)
	}
	candidates := analytics.NewPatterns(found, types.Patterns(knownRows))
	if len(candidates) == 0 {
		return candidates, nil
	}

	now := time.Now()
	if s.opts.Now != nil {
		now = s.opts.Now()
	}
	toInsert := make([]*types.PatternFinding, 0, len(candidates))
	for _, p := range candidates {
		toInsert = append(toInsert, types.NewPatternFinding(userID, p, now))
	}
	inserted, err := s.patterns.Insert(dbc, toInsert)
	if err != nil {
		return nil, fmt.Errorf("store patterns: %w", err)
	}
	return types.Patterns(inserted), nil
}

func (s *checkInService) List(ctx context.Context, days int) ([]*types.CheckIn, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case days <= 0:
		days = DefaultListDays
	case days > MaxListDays:
		days = MaxListDays
	}
	return s.checkIns.ListRecent(dbctx.Context{Ctx: ctx}, userID, days)
}

func (s *checkInService) Get(ctx context.Context, day string) (*types.CheckIn, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	d, err := time.Parse(dayLayout, day)
	if err != nil {
		return nil, apierr.BadRequest("invalid_day", fmt.Errorf("day must be YYYY-MM-DD: %q", day))
	}
	row, err := s.checkIns.GetByDay(dbctx.Context{Ctx: ctx}, userID, d)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("check_in_not_found", fmt.Errorf("no check-in for %s", day))
	}
	return row, nil
}
