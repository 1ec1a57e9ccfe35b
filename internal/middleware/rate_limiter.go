package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/viktorhino/gestor-cupos-sub001/internal/apierror"
)

// ventana tracks request counts per client IP inside a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// limiter is a per-IP fixed-window counter shared by the login and general
// API limiters. Entries self-expire through the purge goroutine.
type limiter struct {
	ventanas map[string]*ventana
	mu       sync.Mutex
	limit    int
	window   time.Duration
}

func newLimiter(limit int, window time.Duration) *limiter {
	l := &limiter{ventanas: make(map[string]*ventana), limit: limit, window: window}
	go l.purgar()
	return l
}

// permitir counts one request for the IP and reports whether it is within the
// window limit.
func (l *limiter) permitir(ip string) bool {
	l.mu.Lock()
	v, ok := l.ventanas[ip]
	if !ok {
		v = &ventana{}
		l.ventanas[ip] = v
	}
	l.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.After(v.windowEnd) {
		v.count = 0
		v.windowEnd = now.Add(l.window)
	}
	v.count++
	return v.count <= l.limit
}

const purgeInterval = 5 * time.Minute

// purgar drops expired windows so IPs that never return do not accumulate.
func (l *limiter) purgar() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, v := range l.ventanas {
			v.mu.Lock()
			if now.After(v.windowEnd) {
				delete(l.ventanas, ip)
				purged++
			}
			v.mu.Unlock()
		}
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().Int("purged", purged).Msg("rate_limiter: expired windows purged")
		}
	}
}

// LoginRateLimiter caps login attempts per IP per minute. A low limit here
// slows credential stuffing without touching the rest of the API.
func LoginRateLimiter(limitPerMinute int) gin.HandlerFunc {
	l := newLimiter(limitPerMinute, time.Minute)
	return func(c *gin.Context) {
		if !l.permitir(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter caps total API requests per IP inside the window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, window)
	return func(c *gin.Context) {
		if !l.permitir(c.ClientIP()) {
			c.Header("Retry-After", window.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
