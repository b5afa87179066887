package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour

	// idempotencyPendingTTL bounds how long a request that never finished
	// keeps its key reserved
	idempotencyPendingTTL = time.Minute

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Now  func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyRequired rejects POSTs without an Idempotency-Key and replays
// the stored response when a key is reused by the same user. The key is
// reserved before the handler runs, so a concurrent retry gets 409 instead
// of running twice. Reusing a key with a different body is refused. Only
// 2xx responses are stored, so a failed attempt can be retried.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key header is too long")
			c.Abort()
			return
		}

		userIDValue, _ := c.Get("user_id")
		userID, ok := userIDValue.(uuid.UUID)
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Invalid request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		hash := hex.EncodeToString(sum[:])

		reservation := &entity.IdempotencyKey{
			Key:         key,
			UserID:      userID,
			Endpoint:    c.Request.Method + " " + c.FullPath(),
			RequestHash: hash,
			ExpiresAt:   now().Add(idempotencyPendingTTL),
		}
		reserved, err := config.Repo.Reserve(c.Request.Context(), reservation, now())
		if err != nil {
			response.Error(c, apperror.Internal("idempotency reserve", err))
			c.Abort()
			return
		}
		if !reserved {
			replayIdempotent(c, config.Repo, key, userID, hash)
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// The request context may already be cancelled by the client.
		ctx := context.WithoutCancel(c.Request.Context())
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Release(ctx, reservation.ID); err != nil {
				log.Printf("idempotency: release key %q: %v", key, err)
			}
			return
		}
		if err := config.Repo.Complete(ctx, reservation.ID, status, blw.body.String(), now().Add(IdempotencyKeyTTL)); err != nil {
			log.Printf("idempotency: store key %q: %v", key, err)
		}
	}
}

// replayIdempotent answers a request whose key is already taken
func replayIdempotent(c *gin.Context, repo repository.IdempotencyRepository, key string, userID uuid.UUID, hash string) {
	defer c.Abort()

	existing, err := repo.GetByKey(c.Request.Context(), key, userID)
	if err != nil {
		response.Error(c, apperror.Internal("idempotency lookup", err))
		return
	}
	if existing != nil && existing.RequestHash != "" && existing.RequestHash != hash {
		response.Error(c, apperror.NewUnprocessableError("Idempotency-Key was already used with a different request"))
		return
	}
	if existing == nil || existing.ResponseCode == 0 {
		response.Error(c, apperror.NewConflictError("A request with this Idempotency-Key is still in progress"))
		return
	}
	c.Header("X-Idempotency-Replayed", "true")
	c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
}
