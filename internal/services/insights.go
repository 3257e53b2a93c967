package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/caretaker-backend/internal/analytics"
	"github.com/yungbote/caretaker-backend/internal/clients/redis"
	"github.com/yungbote/caretaker-backend/internal/data/repos"
	types "github.com/yungbote/caretaker-backend/internal/domain/wellness"
	"github.com/yungbote/caretaker-backend/internal/observability"
	"github.com/yungbote/caretaker-backend/internal/platform/dbctx"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

const (
	insightPatterns     = "patterns"
	insightRecovery     = "recovery"
	insightCorrelations = "correlations"
	insightSummary      = "summary"
)

type Summary struct {
	WindowDays     int                           `json:"window_days"`
	Entries        int                           `json:"entries"`
	LatestDecision *analytics.Decision           `json:"latest_decision,omitempty"`
	Patterns       []analytics.Pattern           `json:"patterns"`
	Recovery       analytics.RecoveryScoreResult `json:"recovery"`
	Correlations   []analytics.Correlation       `json:"correlations"`
}

type InsightsService interface {
	Patterns(ctx context.Context) ([]analytics.Pattern, error)
	Recovery(ctx context.Context) (analytics.RecoveryScoreResult, error)
	Correlations(ctx context.Context) ([]analytics.Correlation, error)
	Summary(ctx context.Context) (*Summary, error)
	// Findings returns the patterns already surfaced to the user.
	Findings(ctx context.Context) ([]*types.PatternFinding, error)
}

type insightsService struct {
	log      *logger.Logger
	checkIns repos.CheckInRepo
	patterns repos.PatternFindingRepo
	cache    redis.InsightsCache
	metrics  *observability.Metrics
	opts     Options
	loads    singleflight.Group
}

// NewInsightsService computes rolling-window insights. A nil cache means
// every call recomputes.
func NewInsightsService(
	log *logger.Logger,
	checkIns repos.CheckInRepo,
	patterns repos.PatternFindingRepo,
	cache redis.InsightsCache,
	metrics *observability.Metrics,
	opts Options,
) InsightsService {
	return &insightsService{
		log:      log.With("service", "InsightsService"),
		checkIns: checkIns,
		patterns: patterns,
		cache:    cache,
		metrics:  metrics,
		opts:     opts,
	}
}

// window loads the user's newest check-ins once per burst of concurrent
// callers. The shared load is detached from any one caller's cancellation;
// each caller stops waiting when its own ctx is done.
func (s *insightsService) window(ctx context.Context, userID uuid.UUID) (analytics.HistoryWindow, error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(userID.String(), func() (any, error) {
		rows, err := s.checkIns.ListRecent(dbctx.Context{Ctx: loadCtx}, userID, s.opts.window())
		if err != nil {
			return nil, fmt.Errorf("load insights window: %w", err)
		}
		return types.HistoryWindow(rows), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(analytics.HistoryWindow), nil
	}
}

// cached serves field from the cache or computes and stores it.
func cached[T any](ctx context.Context, s *insightsService, field string, compute func(context.Context, uuid.UUID) (T, error)) (T, error) {
	var zero T
	ctx, span := observability.Tracer().Start(ctx, "insights."+field)
	defer span.End()

	userID, err := requireUser(ctx)
	if err != nil {
		return zero, err
	}
	start := time.Now()
	if s.cache != nil {
		var hit T
		ok, err := s.cache.Get(ctx, userID, field, &hit)
		if err != nil {
			s.log.Warn("Insights cache read failed", "user_id", userID, "insight", field, "error", err)
		}
		s.metrics.IncCacheResult(ok)
		if ok {
			span.SetAttributes(attribute.Bool("insights.cache_hit", true))
			s.metrics.ObserveInsights(field, "cache", time.Since(start))
			return hit, nil
		}
	}

	out, err := compute(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	s.metrics.ObserveInsights(field, "compute", time.Since(start))
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, field, out); err != nil {
			s.log.Warn("Insights cache write failed", "user_id", userID, "insight", field, "error", err)
		}
	}
	return out, nil
}

func (s *insightsService) Patterns(ctx context.Context) ([]analytics.Pattern, error) {
	return cached(ctx, s, insightPatterns, func(ctx context.Context, userID uuid.UUID) ([]analytics.Pattern, error) {
		h, err := s.window(ctx, userID)
		if err != nil {
			return nil, err
		}
		return analytics.DetectPatterns(h), nil
	})
}

func (s *insightsService) Recovery(ctx context.Context) (analytics.RecoveryScoreResult, error) {
	return cached(ctx, s, insightRecovery, func(ctx context.Context, userID uuid.UUID) (analytics.RecoveryScoreResult, error) {
		h, err := s.window(ctx, userID)
		if err != nil {
			return analytics.RecoveryScoreResult{}, err
		}
		return analytics.ComputeRecoveryScore(h), nil
	})
}

func (s *insightsService) Correlations(ctx context.Context) ([]analytics.Correlation, error) {
	return cached(ctx, s, insightCorrelations, func(ctx context.Context, userID uuid.UUID) ([]analytics.Correlation, error) {
		h, err := s.window(ctx, userID)
		if err != nil {
			return nil, err
		}
		return analytics.FindCorrelations(h), nil
	})
}

// Summary evaluates every insight over one shared window.
func (s *insightsService) Summary(ctx context.Context) (*Summary, error) {
	return cached(ctx, s, insightSummary, func(ctx context.Context, userID uuid.UUID) (*Summary, error) {
		h, err := s.window(ctx, userID)
		if err != nil {
			return nil, err
		}
		out := &Summary{WindowDays: s.opts.window(), Entries: len(h)}
		if len(h) > 0 {
			out.LatestDecision = h[0].Decision
		}

		// Plain parallel fan-out over the loaded window; none of these fail.
		var g errgroup.Group
		g.Go(func() error {
			out.Patterns = analytics.DetectPatterns(h)
			return nil
		})
		g.Go(func() error {
			out.Recovery = analytics.ComputeRecoveryScore(h)
			return nil
		})
		g.Go(func() error {
			out.Correlations = analytics.FindCorrelations(h)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (s *insightsService) Findings(ctx context.Context) ([]*types.PatternFinding, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.patterns.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}
