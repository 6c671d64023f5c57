package middleware

import (
	"net/http"
	"sync"
	"time"

	"file-server/backend/common"
	fserrors "file-server/backend/common/errors"
	"file-server/backend/common/i18n"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
	}
}

// Allow reports whether ip may make a request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		l.evictIdle(now)
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *IPRateLimiter) evictIdle(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, ip)
		}
	}
}

func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			common.RespErrorStr(c, http.StatusTooManyRequests, i18n.Translate(fserrors.ErrRateLimited, Lang(c)))
			return
		}
		c.Next()
	}
}

// GlobalAPIRateLimit limits /api requests with the configured rate.
// A non-positive rate disables limiting.
func GlobalAPIRateLimit() gin.HandlerFunc {
	if common.RateLimitRPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return NewIPRateLimiter(common.RateLimitRPS, common.RateLimitBurst).Middleware()
}
