package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/caretaker-backend/internal/data/repos"
	"github.com/yungbote/caretaker-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/caretaker-backend/internal/http/handlers"
	httpMW "github.com/yungbote/caretaker-backend/internal/http/middleware"
	"github.com/yungbote/caretaker-backend/internal/observability"
	"github.com/yungbote/caretaker-backend/internal/services"
)

const testSecret = "router-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *observability.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.New(0)
	opts := services.Options{
		Now: func() time.Time { return time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC) },
	}

	checkInRepo := repos.NewCheckInRepo(db, log)
	patternRepo := repos.NewPatternFindingRepo(db, log)
	settingsRepo := repos.NewSettingsRepo(db, log)

	return NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, testSecret),
		HealthHandler:   httpH.NewHealthHandler(nil),
		CheckInHandler:  httpH.NewCheckInHandler(services.NewCheckInService(db, log, checkInRepo, patternRepo, settingsRepo, nil, metrics, opts)),
		InsightsHandler: httpH.NewInsightsHandler(services.NewInsightsService(log, checkInRepo, patternRepo, nil, metrics, opts)),
		SettingsHandler: httpH.NewSettingsHandler(services.NewSettingsService(log, settingsRepo)),
	}), metrics
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok
}

func do(t *testing.T, r *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterCheckInFlow(t *testing.T) {
	r, metrics := newTestRouter(t)
	auth := bearer(t, uuid.New())

	rec := do(t, r, http.MethodPost, "/api/checkins", auth, map[string]string{
		"day": "2024-01-15", "water": "LOW", "food": "OK", "sleep": "OK", "mental_load": "LOW",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: status %d body=%s", rec.Code, rec.Body.String())
	}
	var submitted struct {
		Decision struct {
			Capacity   int    `json:"capacity"`
			SystemMode string `json:"system_mode"`
			ActionKey  string `json:"action_key"`
		} `json:"decision"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if submitted.Decision.Capacity != 85 || submitted.Decision.SystemMode != "NORMAL" || submitted.Decision.ActionKey != "hydrate" {
		t.Fatalf("unexpected decision: %+v", submitted.Decision)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}

	rec = do(t, r, http.MethodGet, "/api/checkins/2024-01-15", auth, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/api/checkins?days=0", auth, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("list with bad days: status %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/api/insights", auth, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("insights: status %d", rec.Code)
	}
	var sum services.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Entries != 1 || sum.Recovery.Score != 50 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	var out bytes.Buffer
	if err := metrics.WritePrometheus(&out); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if !strings.Contains(out.String(), `ct_api_requests_total{method="POST",route="/api/checkins",status="201"} 1`) {
		t.Fatalf("request metric missing:\n%s", out.String())
	}
}

func TestRouterErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := bearer(t, uuid.New())

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		body   any
		status int
		code   string
	}{
		{name: "no token", method: http.MethodGet, path: "/api/insights", status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "future day", method: http.MethodPost, path: "/api/checkins", auth: auth, body: map[string]string{"day": "2030-01-01"}, status: http.StatusBadRequest, code: "future_day"},
		{name: "missing check-in", method: http.MethodGet, path: "/api/checkins/2024-01-02", auth: auth, status: http.StatusNotFound, code: "check_in_not_found"},
		{name: "bad mode", method: http.MethodPatch, path: "/api/settings", auth: auth, body: map[string]string{"operating_mode": "turbo"}, status: http.StatusBadRequest, code: "invalid_operating_mode"},
		{name: "empty settings body", method: http.MethodPatch, path: "/api/settings", auth: auth, body: map[string]string{}, status: http.StatusBadRequest, code: "invalid_request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.path, tc.auth, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			var env struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode error envelope: %v", err)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("code: got=%q want=%q", env.Error.Code, tc.code)
			}
		})
	}
}

func TestRouterSettings(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := bearer(t, uuid.New())

	rec := do(t, r, http.MethodPatch, "/api/settings", auth, map[string]string{"operating_mode": "observer"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodGet, "/api/settings", auth, nil)
	if !strings.Contains(rec.Body.String(), `"operating_mode":"observer"`) {
		t.Fatalf("settings not persisted: %s", rec.Body.String())
	}
	rec = do(t, r, http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: %d", rec.Code)
	}
}
