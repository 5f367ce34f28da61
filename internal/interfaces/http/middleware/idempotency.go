package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time the lock is held while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a completed response is replayable
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type replayWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w replayWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes requests carrying an Idempotency-Key safe
// to retry: the first attempt takes a Redis lock, a concurrent duplicate
// gets 409, and a retry after completion replays the stored response
// body instead of re-executing the handler. Failed attempts release the
// key so the client can retry for real.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Scope the key to the authenticated wallet so two users cannot
		// collide on the same client-chosen key.
		owner, _ := GetWalletAddress(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s", owner, key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		if err == nil {
			if val == processingMarker {
				response409(c, "Request already in progress")
				return
			}
			c.Header("Content-Type", "application/json")
			c.Header("X-Idempotency-Replay", "true")
			c.String(http.StatusOK, val)
			c.Abort()
			return
		}

		locked, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil {
			// Redis outage: better to process than to block every retry.
			c.Next()
			return
		}
		if !locked {
			response409(c, "Request already in progress")
			return
		}

		w := &replayWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			_ = redisSet(ctx, storageKey, w.body.String(), RetentionDuration)
		} else {
			_ = redisDel(ctx, storageKey)
		}
	}
}

func response409(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{
		"code":    domainerrors.CodeConflict,
		"message": message,
	})
}
