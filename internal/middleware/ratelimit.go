package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/servicefinder/internal/config"
)

// maxTrackedClients bounds the per-client limiter table. When it fills up the
// table is reset, which at worst hands every client a fresh burst.
const maxTrackedClients = 10000

// RateLimiter applies a token bucket per client IP to the routes it wraps.
// A zero config disables limiting.
func RateLimiter(cfg config.RateLimitConfig, message string) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[key]; ok {
			return l
		}
		if len(limiters) >= maxTrackedClients {
			limiters = make(map[string]*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
		limiters[key] = l
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiterFor(c.RealIP()).Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"status": "error", "message": message})
			}
			return next(c)
		}
	}
}
