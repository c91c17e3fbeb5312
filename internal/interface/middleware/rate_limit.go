package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-management/pkg/response"
)

const msgRateLimited = "rate limit exceeded"

// KeyFunc derives the counter key a request is charged against.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request bypasses the limiter.
type AllowFunc func(c *gin.Context) bool

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + ipFromCtx(c) }
}

// KeyByIPAndPath charges each route pattern separately.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string { return "rl:path:" + routeOf(c) + ":ip:" + ipFromCtx(c) }
}

// hitScript increments the window counter, starts the window on the first
// hit and returns {count, pttl} in one round trip.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// window is the state of one key after a hit.
type window struct {
	count int
	reset time.Duration
}

func (w window) remaining(max int) int {
	if r := max - w.count; r > 0 {
		return r
	}
	return 0
}

func (w window) resetSeconds() int {
	if w.reset <= 0 {
		return 0
	}
	return int((w.reset + time.Second - 1) / time.Second)
}

type fixedWindow struct {
	rdb    *redis.Client
	max    int
	period time.Duration
}

func (f fixedWindow) hit(ctx context.Context, key string) (window, error) {
	res, err := hitScript.Run(ctx, f.rdb, []string{key}, f.period.Milliseconds()).Int64Slice()
	if err != nil {
		return window{}, err
	}
	return parseWindow(res), nil
}

func parseWindow(res []int64) window {
	var w window
	if len(res) > 0 {
		w.count = int(res[0])
	}
	if len(res) > 1 && res[1] > 0 {
		w.reset = time.Duration(res[1]) * time.Millisecond
	}
	return w
}

// RateLimit allows max requests per period for each key. Preflight and
// allow-listed requests are not counted. A nil client disables limiting and
// Redis failures let the request through.
func RateLimit(rdb *redis.Client, max int, period time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || period <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	fw := fixedWindow{rdb: rdb, max: max, period: period}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		w, err := fw.hit(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}

		reset := strconv.Itoa(w.resetSeconds())
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(w.remaining(max)))
		c.Header("X-RateLimit-Reset", reset)
		if w.count > max {
			c.Header("Retry-After", reset)
			response.Error[any](c, http.StatusTooManyRequests, msgRateLimited, nil)
			return
		}
		c.Next()
	}
}
