package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/config"
	"github.com/sangkips/bonos-api/internal/infrastructure/database"
	"github.com/sangkips/bonos-api/internal/infrastructure/repository"
	"github.com/sangkips/bonos-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": c.GetString(UserEmailKey)})
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Minute, time.Hour)
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), ok)

	token, err := jwtManager.GenerateAccessToken(uuid.New(), "ana@example.com", "user")
	require.NoError(t, err)
	refresh, err := jwtManager.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": token}).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer " + refresh}).Code)

	w := perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@example.com")
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(UserRoleKey, c.GetHeader("X-Role"))
	}, RequireRole("admin"), ok)

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/admin", "", map[string]string{"X-Role": "user"}).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/admin", "", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/admin", "", map[string]string{"X-Role": "admin"}).Code)
}

func TestRateLimiterByIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	r := gin.New()
	r.GET("/", rl.ByIP(), ok)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "", nil).Code)

	w := perform(r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimiterByUserKeepsUsersApart(t *testing.T) {
	rl := NewRateLimiter(context.Background(), RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-User")); err == nil {
			c.Set(UserIDKey, id)
		}
	}, rl.ByUser(), ok)

	alice := map[string]string{"X-User": uuid.NewString()}
	bob := map[string]string{"X-User": uuid.NewString()}

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "", alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodGet, "/", "", alice).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "", bob).Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiterCleanupDropsStaleEntries(t *testing.T) {
	rl := NewRateLimiter(context.Background(), RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("ip:1")
	now = now.Add(2 * time.Minute)
	rl.getLimiter("ip:2")
	rl.cleanup()

	assert.Equal(t, 1, rl.Len())
}

func TestNewRateLimiterConfig(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 60)
	assert.InDelta(t, 2.0, cfg.RequestsPerSecond, 1e-9)
	assert.Equal(t, 120, cfg.BurstSize)

	cfg = NewRateLimiterConfig(0, 0)
	assert.Equal(t, 1, cfg.BurstSize)
}

func TestLoggerMiddlewareRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/", ok)

	w := perform(r, http.MethodGet, "/", "", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = perform(r, http.MethodGet, "/", "", nil)
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestCORSExposesIdempotencyHeaders(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}))
	r.POST("/", ok)

	w := perform(r, http.MethodOptions, "/", "", map[string]string{
		"Origin":                         "http://localhost:3000",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": IdempotencyKeyHeader,
	})
	assert.Less(t, w.Code, 300)
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), strings.ToLower(IdempotencyKeyHeader))
}

func newIdempotencyRouter(t *testing.T, required bool) (*gin.Engine, *int) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB("file:"+name+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	calls := 0
	userID := uuid.New()
	r := gin.New()
	r.POST("/invoices", func(c *gin.Context) {
		c.Set(UserIDKey, userID)
	}, Idempotency(IdempotencyConfig{
		Repo:     repository.NewIdempotencyRepository(db),
		Required: required,
	}), func(c *gin.Context) {
		calls++
		if c.GetHeader("X-Fail") != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "bad"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	return r, &calls
}

func TestIdempotencyReplaysSuccessfulResponse(t *testing.T) {
	r, calls := newIdempotencyRouter(t, false)
	key := map[string]string{IdempotencyKeyHeader: "k-1"}

	first := perform(r, http.MethodPost, "/invoices", `{"fees":100}`, key)
	require.Equal(t, http.StatusCreated, first.Code)

	second := perform(r, http.MethodPost, "/invoices", `{"fees":100}`, key)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls)
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	r, calls := newIdempotencyRouter(t, false)
	key := map[string]string{IdempotencyKeyHeader: "k-1"}

	require.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/invoices", `{"fees":100}`, key).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, perform(r, http.MethodPost, "/invoices", `{"fees":200}`, key).Code)
	assert.Equal(t, 1, *calls)
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	r, calls := newIdempotencyRouter(t, false)

	failing := map[string]string{IdempotencyKeyHeader: "k-1", "X-Fail": "1"}
	assert.Equal(t, http.StatusUnprocessableEntity, perform(r, http.MethodPost, "/invoices", `{}`, failing).Code)
	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/invoices", `{}`, map[string]string{IdempotencyKeyHeader: "k-1"}).Code)
	assert.Equal(t, 2, *calls)
}

func TestIdempotencyKeyHeader(t *testing.T) {
	optional, calls := newIdempotencyRouter(t, false)
	assert.Equal(t, http.StatusCreated, perform(optional, http.MethodPost, "/invoices", `{}`, nil).Code)
	assert.Equal(t, http.StatusCreated, perform(optional, http.MethodPost, "/invoices", `{}`, nil).Code)
	assert.Equal(t, 2, *calls)

	required, _ := newIdempotencyRouter(t, true)
	assert.Equal(t, http.StatusBadRequest, perform(required, http.MethodPost, "/invoices", `{}`, nil).Code)

	long := map[string]string{IdempotencyKeyHeader: strings.Repeat("k", 256)}
	assert.Equal(t, http.StatusBadRequest, perform(required, http.MethodPost, "/invoices", `{}`, long).Code)
}
