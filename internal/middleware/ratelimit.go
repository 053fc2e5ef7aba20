package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/contactdesk/internal/config"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SubmissionRateLimiter applies a per-client token bucket to POST requests.
// Other methods pass through.
func SubmissionRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
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
		mu        sync.Mutex
		clients   = make(map[string]*clientLimiter)
		lastSweep = time.Now()
	)

	allow := func(key string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > limiterIdleTTL {
			for k, cl := range clients {
				if now.Sub(cl.lastSeen) > limiterIdleTTL {
					delete(clients, k)
				}
			}
			lastSweep = now
		}

		cl, ok := clients[key]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(perRequest), cfg.Requests)}
			clients[key] = cl
		}
		cl.lastSeen = now
		return cl.limiter.AllowN(now, 1)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodPost {
				return next(c)
			}

			if !allow(c.RealIP(), time.Now()) {
				c.Response().Header().Set("Retry-After", retryAfterSeconds(perRequest))
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many submissions, please try again later"})
			}

			return next(c)
		}
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
