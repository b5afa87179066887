package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/config"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/database/dbtest"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/repository"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), RequirePermission("manage-clients"), func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.String(http.StatusOK, id.(uuid.UUID).String())
	})

	get := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		return serve(r, req)
	}

	assert.Equal(t, http.StatusUnauthorized, get("").Code)
	assert.Equal(t, http.StatusUnauthorized, get("Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get("Bearer not-a-jwt").Code)

	refresh, err := jwtManager.GenerateRefreshToken(userID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get("Bearer "+refresh).Code, "refresh tokens are not access tokens")

	staff, err := jwtManager.GenerateAccessToken(userID, "luis@sparta.pe", []string{"staff"}, []string{"manage-clients"})
	require.NoError(t, err)
	w := get("bearer " + staff)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	viewer, err := jwtManager.GenerateAccessToken(userID, "luis@sparta.pe", []string{"staff"}, []string{"view-dashboard"})
	require.NoError(t, err)
	w = get("Bearer " + viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "do not have permission")
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{Requests: 2, Per: time.Minute})
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	login := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		return serve(r, req)
	}

	assert.Equal(t, http.StatusNoContent, login("10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, login("10.0.0.1").Code)
	w := login("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, login("10.0.0.2").Code, "each IP has its own bucket")
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimiter_PerUser(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{Requests: 1, Per: time.Hour})
	ana, luis := uuid.New(), uuid.New()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		switch c.GetHeader("X-User") {
		case "ana":
			c.Set("user_id", ana)
		case "luis":
			c.Set("user_id", luis)
		}
	}, rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	as := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-User", user)
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, as("ana"))
	assert.Equal(t, http.StatusTooManyRequests, as("ana"))
	assert.Equal(t, http.StatusOK, as("luis"), "users behind the same IP are limited separately")
	assert.Equal(t, http.StatusOK, as(""))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{Requests: 5, EntryTTL: time.Minute})
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.getLimiter("ip:1")
	now = now.Add(30 * time.Second)
	rl.getLimiter("ip:2")

	now = now.Add(45 * time.Second)
	rl.cleanup()
	assert.Equal(t, 1, rl.Size())

	done := make(chan struct{})
	close(done)
	rl.RunCleanup(done)
}

func TestIdempotencyRequired(t *testing.T) {
	repo := repository.NewIdempotencyRepository(dbtest.NewDB(t))
	userID := uuid.New()
	now := time.Now()
	calls := 0

	r := gin.New()
	r.POST("/sales",
		func(c *gin.Context) { c.Set("user_id", userID) },
		IdempotencyRequired(IdempotencyConfig{Repo: repo, Now: func() time.Time { return now }}),
		func(c *gin.Context) {
			calls++
			var body struct {
				Quantity int `json:"quantity"`
			}
			if err := c.ShouldBindJSON(&body); err != nil || body.Quantity < 1 {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"success": true, "call": calls})
		})

	post := func(key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return serve(r, req)
	}

	w := post("", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusBadRequest, post(strings.Repeat("k", 256), `{"quantity":1}`).Code)
	assert.Zero(t, calls)

	first := post("venta-1", `{"quantity":1}`)
	require.Equal(t, http.StatusCreated, first.Code)

	replay := post("venta-1", `{"quantity":1}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls, "a replay does not run the handler")

	conflict := post("venta-1", `{"quantity":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, conflict.Code)
	assert.Equal(t, 1, calls)

	assert.Equal(t, http.StatusUnprocessableEntity, post("venta-2", `{"quantity":0}`).Code)
	assert.Equal(t, http.StatusCreated, post("venta-2", `{"quantity":3}`).Code, "failed attempts are not stored")
	assert.Equal(t, 3, calls)

	now = now.Add(IdempotencyKeyTTL + time.Minute)
	w = post("venta-1", `{"quantity":1}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"), "expired keys run the handler again")
	assert.Equal(t, 4, calls)

	w = post("venta-1", `{"quantity":1}`)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"), "the renewed key protects retries again")
	assert.Equal(t, 4, calls)
}

func TestIdempotencyRequired_ConcurrentRetries(t *testing.T) {
	repo := repository.NewIdempotencyRepository(dbtest.NewDB(t))
	userID := uuid.New()
	var calls atomic.Int32

	r := gin.New()
	r.POST("/sales",
		func(c *gin.Context) { c.Set("user_id", userID) },
		IdempotencyRequired(IdempotencyConfig{Repo: repo}),
		func(c *gin.Context) {
			calls.Add(1)
			time.Sleep(50 * time.Millisecond)
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

	const n = 4
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"quantity":1}`))
			req.Header.Set(IdempotencyKeyHeader, "venta-x")
			codes[i] = serve(r, req).Code
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "the handler runs once per key")
	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
			continue
		}
		assert.Equal(t, http.StatusConflict, code)
	}
	assert.GreaterOrEqual(t, created, 1)
}

func TestIdempotencyRequired_InProgress(t *testing.T) {
	db := dbtest.NewDB(t)
	repo := repository.NewIdempotencyRepository(db)
	userID := uuid.New()
	now := time.Now()

	require.NoError(t, db.Create(&entity.IdempotencyKey{
		Key: "venta-1", UserID: userID, Endpoint: "POST /sales", RequestHash: sha256Hex(`{"quantity":1}`),
		ExpiresAt: now.Add(idempotencyPendingTTL),
	}).Error)

	r := gin.New()
	r.POST("/sales",
		func(c *gin.Context) { c.Set("user_id", userID) },
		IdempotencyRequired(IdempotencyConfig{Repo: repo, Now: func() time.Time { return now }}),
		func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"success": true}) })

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"quantity":1}`))
		req.Header.Set(IdempotencyKeyHeader, "venta-1")
		return serve(r, req)
	}

	assert.Equal(t, http.StatusConflict, post().Code)

	now = now.Add(idempotencyPendingTTL + time.Second)
	assert.Equal(t, http.StatusCreated, post().Code, "an abandoned reservation expires")
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Idempotency-Key"},
	}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	w := serve(r, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
}
