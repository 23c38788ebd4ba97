package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"churchdir/internal/logger"
	helpers "churchdir/internal/utils/helpers"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Fixed window: первый INCR ставит срок окна, PTTL даёт остаток для Retry-After.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {current, ttl}
`)

// RateLimiter: лимит запросов с одного IP на группу эндпоинтов.
// При недоступном Redis запросы пропускаются.
type RateLimiter struct {
	rdb    *redis.Client
	name   string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, name: name, limit: limit, window: window}
}

// Allow возвращает разрешение и сколько секунд ждать, если отказано.
func (l *RateLimiter) Allow(ctx context.Context, identifier string) (bool, int, error) {
	key := fmt.Sprintf("rate:fw:%s:%s", l.name, identifier)
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return true, 0, err
	}
	if len(res) != 2 {
		return true, 0, fmt.Errorf("unexpected script result: %v", res)
	}

	if res[0] <= int64(l.limit) {
		return true, 0, nil
	}
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl <= 0 {
		ttl = l.window
	}
	return false, int(math.Ceil(ttl.Seconds())), nil
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		allowed, retryAfter, err := l.Allow(r.Context(), ip)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("RateLimiter: Redis недоступен, пропускаем", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		if !allowed {
			logger.WithCtx(r.Context()).Warn("RateLimiter: запрос заблокирован",
				zap.String("rule", l.name),
				zap.String("ip", ip),
				zap.Int("retry_after", retryAfter),
			)
			helpers.RateLimited(w, retryAfter, "Too many requests, please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
