package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

const defaultScrapeInterval = 10 * time.Second

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	decisions        *CounterVec
	capacity         *HistogramVec
	confidence       *HistogramVec
	violations       *CounterVec
	newPatterns      *CounterVec
	insightsLatency  *HistogramVec
	insightsCache    *CounterVec
	dbStats          *GaugeVec
	redisUp          *Gauge
	redisPingSeconds *Gauge

	scrapeInterval time.Duration
	all            []collector
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. It returns nil when metrics are
// disabled; every method on a nil *Metrics is a no-op.
func Init(enabled bool, scrapeInterval time.Duration) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New(scrapeInterval)
	})
	return instance
}

// New returns a standalone registry, used directly by tests.
func New(scrapeInterval time.Duration) *Metrics {
	if scrapeInterval <= 0 {
		scrapeInterval = defaultScrapeInterval
	}
	m := &Metrics{
		apiRequests: NewCounterVec("ct_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"ct_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("ct_api_inflight_requests", "In-flight API requests."),

		decisions: NewCounterVec("ct_decisions_total", "Decisions computed by system mode and operating mode.", []string{"system_mode", "operating_mode"}),
		capacity: NewHistogramVec(
			"ct_decision_capacity",
			"Capacity of computed decisions.",
			[]string{"system_mode"},
			[]float64{10, 20, 30, 40, 45, 50, 60, 70, 80, 90, 100},
		),
		confidence: NewHistogramVec(
			"ct_decision_confidence",
			"Confidence of computed decisions.",
			nil,
			[]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		),
		violations:  NewCounterVec("ct_recovery_violations_total", "Recovery violations by the prior day's mode.", []string{"prior_mode"}),
		newPatterns: NewCounterVec("ct_new_patterns_total", "Newly surfaced patterns by kind and type.", []string{"kind", "type"}),
		insightsLatency: NewHistogramVec(
			"ct_insights_duration_seconds",
			"Insight computation latency by insight and source.",
			[]string{"insight", "source"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		),
		insightsCache:    NewCounterVec("ct_insights_cache_total", "Insights cache lookups by result.", []string{"result"}),
		dbStats:          NewGaugeVec("ct_db_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:          NewGauge("ct_redis_up", "1 when the last redis ping succeeded."),
		redisPingSeconds: NewGauge("ct_redis_ping_seconds", "Latency of the last redis ping."),
		scrapeInterval:   scrapeInterval,
	}
	m.all = []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.decisions, m.capacity, m.confidence, m.violations, m.newPatterns,
		m.insightsLatency, m.insightsCache,
		m.dbStats, m.redisUp, m.redisPingSeconds,
	}
	return m
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.all {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

// ObserveDecision records one computed decision.
func (m *Metrics) ObserveDecision(systemMode, operatingMode string, capacity int, confidence float64) {
	if m == nil {
		return
	}
	m.decisions.Inc(systemMode, operatingMode)
	m.capacity.Observe(float64(capacity), systemMode)
	m.confidence.Observe(confidence)
}

func (m *Metrics) IncViolation(priorMode string) {
	if m != nil {
		m.violations.Inc(priorMode)
	}
}

func (m *Metrics) IncNewPattern(kind, patternType string) {
	if m != nil {
		m.newPatterns.Inc(kind, patternType)
	}
}

// ObserveInsights records how long an insight took; source is "cache" or
// "compute".
func (m *Metrics) ObserveInsights(insight, source string, dur time.Duration) {
	if m != nil {
		m.insightsLatency.Observe(dur.Seconds(), insight, source)
	}
}

func (m *Metrics) IncCacheResult(hit bool) {
	if m == nil {
		return
	}
	m.insightsCache.Inc(strconv.FormatBool(hit))
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings through the caller's client; it never closes it.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPingSeconds.Set(time.Since(start).Seconds())
			}
		}
	}()
}
