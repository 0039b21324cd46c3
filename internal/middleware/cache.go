package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"marketing-api/pkg/logger"
	"marketing-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// captureWriter captures the response body while forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

func cacheKey(tenantID string, c echo.Context) string {
	// The concrete URL path, not the route pattern, so path parameters
	// like the campaign ID partition the cache.
	sum := sha1.Sum([]byte(tenantID + ":" + c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("analytics:%x", sum[:])
}

// AnalyticsCache serves repeated tenant-scoped analytics reads from Redis
// for a short TTL. A nil client disables the middleware entirely. Only
// successful GET responses are cached; every aggregate read is idempotent,
// so a stale entry within the TTL is an equally valid snapshot.
func AnalyticsCache(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	if rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			auth, ok := GetAuthContext(c)
			if !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(auth.TenantID, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
				prometheus.RecordCacheLookup(true)
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}
			prometheus.RecordCacheLookup(false)

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				if err := rdb.Set(ctx, key, cw.buf.Bytes(), ttl).Err(); err != nil {
					logger.FromContext(c).Warn("Failed to store analytics cache entry", zap.Error(err))
				}
			}
			return nil
		}
	}
}
