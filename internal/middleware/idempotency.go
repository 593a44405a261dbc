package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	idempotencyCacheKey = "idempotency_cache_key"
	idempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

// Idempotency replays the stored response of a POST that already completed
// with the same Idempotency-Key, and rejects a duplicate while the first
// request is still in flight. Handlers finish the cycle with
// IdempotencyStore and IdempotencyRelease.
func Idempotency(rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString(ContextUserID), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached json.RawMessage = []byte(val)
			response.Success(c, http.StatusOK, cached, nil)
			c.Abort()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// redis unavailable: serve the request without replay protection
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(idempotencyCacheKey, cacheKey)
		c.Set(idempotencyLockKey, lockKey)

		c.Next()
	}
}

// IdempotencyStore caches a successful response body for replay.
func IdempotencyStore(c *gin.Context, rdb redis.Cmdable, payload any) {
	cacheKey := c.GetString(idempotencyCacheKey)
	if rdb == nil || cacheKey == "" {
		return
	}
	if b, err := json.Marshal(payload); err == nil {
		_ = rdb.Set(c.Request.Context(), cacheKey, b, idempotencyCacheTTL).Err()
	}
}

// IdempotencyRelease drops the in-flight lock so a failed request can be retried.
func IdempotencyRelease(c *gin.Context, rdb redis.Cmdable) {
	lockKey := c.GetString(idempotencyLockKey)
	if rdb == nil || lockKey == "" {
		return
	}
	_ = rdb.Del(c.Request.Context(), lockKey).Err()
}
