package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/caretaker-backend/internal/platform/apierr"
	"github.com/yungbote/caretaker-backend/internal/platform/ctxutil"
)

const (
	MinInsightsWindowDays     = 7
	MaxInsightsWindowDays     = 30
	DefaultInsightsWindowDays = 30
)

// Options are shared by the wellness services.
type Options struct {
	// WindowDays is how many of the newest check-ins feed pattern, recovery
	// and correlation analysis. Clamped to [7, 30].
	WindowDays int
	// Now is the clock used to resolve "today"; defaults to time.Now.
	Now func() time.Time
}

func (o Options) window() int {
	switch {
	case o.WindowDays == 0:
		return DefaultInsightsWindowDays
	case o.WindowDays < MinInsightsWindowDays:
		return MinInsightsWindowDays
	case o.WindowDays > MaxInsightsWindowDays:
		return MaxInsightsWindowDays
	default:
		return o.WindowDays
	}
}

func (o Options) today() time.Time {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.GetUserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized("unauthorized", nil)
	}
	return id, nil
}
