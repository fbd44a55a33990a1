package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/middleware"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(middleware.UserID(r.Context())))
	})
}

func TestAuthWithoutSecretStillRequiresTokens(t *testing.T) {
	auth := middleware.NewAuthenticator(config.AuthConfig{})
	require.True(t, auth.Ephemeral())

	rec := httptest.NewRecorder()
	auth.Middleware(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	first, err := auth.IssueAnonymous()
	require.NoError(t, err)
	second, err := auth.IssueAnonymous()
	require.NoError(t, err)
	assert.NotEqual(t, first.UserID, second.UserID)
	assert.NotEqual(t, middleware.AnonymousUser, first.UserID)

	for _, token := range []middleware.Token{first, second} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		rec := httptest.NewRecorder()
		auth.Middleware(echoUser()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, token.UserID, rec.Body.String())
	}
}

func TestGeneratedSecretsDiffer(t *testing.T) {
	token, err := middleware.NewAuthenticator(config.AuthConfig{}).IssueAnonymous()
	require.NoError(t, err)

	_, err = middleware.NewAuthenticator(config.AuthConfig{}).Parse(token.AccessToken)
	assert.Error(t, err)
	assert.False(t, middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "secret"}).Ephemeral())
}

func TestAuthIssueAndVerify(t *testing.T) {
	auth := middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour})

	token, err := auth.IssueAnonymous()
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.UserID)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	rec := httptest.NewRecorder()
	auth.Middleware(echoUser()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, token.UserID, rec.Body.String())
}

func TestAuthRejectsBadTokens(t *testing.T) {
	auth := middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "secret"})
	other := middleware.NewAuthenticator(config.AuthConfig{JWTSecret: "other"})
	forged, err := other.IssueAnonymous()
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"garbage":      "Bearer not-a-token",
		"wrong secret": "Bearer " + forged.AccessToken,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			auth.Middleware(echoUser()).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001").Code)
	blocked := call("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "1", blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000").Code)
}

func TestRequestLoggerWritesStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := middleware.RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/brew", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestCORSPreflight(t *testing.T) {
	handler := middleware.CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/messages", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
