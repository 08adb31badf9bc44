package middleware

import (
	"net/http"
	"sync"
	"time"

	"detailbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	perMinute int
	visitors  map[string]*visitor
	mu        sync.Mutex
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 100
	}
	return &rateLimiterStore{perMinute: perMinute, visitors: make(map[string]*visitor)}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep forgets visitors that have been idle for a while.
func (s *rateLimiterStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, v := range s.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(s.visitors, ip)
		}
	}
}

// RateLimitMiddleware limits requests per IP address to perMinute, with the
// same burst.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute)
	var requests uint64
	var mu sync.Mutex

	return func(c *gin.Context) {
		now := time.Now()
		mu.Lock()
		requests++
		sweep := requests%1000 == 0
		mu.Unlock()
		if sweep {
			store.sweep(now)
		}

		ip := getClientIP(c)
		if !store.getLimiter(ip, now).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Envelope{
				Error: models.NewAPIError(models.CodeRateLimited, "Rate limit exceeded. Try again later."),
			})
			return
		}
		c.Next()
	}
}
