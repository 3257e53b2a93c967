package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/caretaker-backend/internal/platform/ctxutil"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: userID.String(), ExpiresAt: future}), status: http.StatusOK},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: userID.String()}), status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: userID.String(), ExpiresAt: past}), status: http.StatusUnauthorized},
		{name: "subject not uuid", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice"}), status: http.StatusUnauthorized},
		{name: "wrong alg", header: "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{Subject: userID.String()}), status: http.StatusUnauthorized},
	}

	am := NewAuthMiddleware(logger.Nop(), testSecret)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen uuid.UUID
			r := gin.New()
			r.GET("/api/me", am.RequireAuth(), func(c *gin.Context) {
				seen = ctxutil.GetUserID(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && seen != userID {
				t.Fatalf("user id not attached: got=%s want=%s", seen, userID)
			}
		})
	}
}
