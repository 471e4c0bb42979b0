package handlers

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
)

type requestIDKey struct{}

// RequestIDFrom returns the ID assigned by LoggingMiddleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LoggingMiddleware tags each request with an ID (reusing X-Request-ID when
// the caller sent one) and logs it once finished.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		slog.Info("HTTP Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.statusCode,
			"duration", time.Since(start),
			"ip", r.RemoteAddr,
			"request_id", id,
		)
	})
}

// Custom ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack is needed by the websocket upgrade.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// SecurityHeadersMiddleware adds standard security headers. Responses are
// JSON or avatar images, so nothing may be framed or run as script.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter allows one request per window for each client IP.
type RateLimiter struct {
	visitors sync.Map
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter starts a cleanup goroutine that lives until ctx is done.
func NewRateLimiter(ctx context.Context, window time.Duration) *RateLimiter {
	rl := &RateLimiter{window: window, now: time.Now}
	go rl.cleanup(ctx)
	return rl
}

// cleanup removes old entries to prevent memory leaks
func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := rl.now()
			rl.visitors.Range(func(key, value any) bool {
				if now.Sub(value.(time.Time)) > rl.window {
					rl.visitors.Delete(key)
				}
				return true
			})
		}
	}
}

// Middleware enforces the rate limit
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		now := rl.now()

		if lastSeen, ok := rl.visitors.Load(ip); ok {
			if now.Sub(lastSeen.(time.Time)) < rl.window {
				slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests, try again later"})
				return
			}
		}

		rl.visitors.Store(ip, now)
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Authenticator guards routes with bearer tokens.
type Authenticator struct {
	Issuer *auth.Issuer
	// AllowQueryToken also accepts ?token=, for websocket handshakes where
	// browsers cannot set headers.
	AllowQueryToken bool
}

// Require rejects the request with 401 before next runs unless it carries
// a valid token.
func (a Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.FromHeader(r)
		if token == "" && a.AllowQueryToken {
			token = r.URL.Query().Get("token")
		}
		claims, err := a.Issuer.Verify(token)
		if err != nil {
			slog.Info("Rejected unauthenticated request", "path", r.URL.Path, "reason", apperr.Message(err), "request_id", RequestIDFrom(r.Context()))
			writeError(w, r, err)
			return
		}
		next(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	}
}

// RequireAdmin is Require plus a 403 for non-admin tokens.
func (a Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.Require(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.MustClaims(r.Context())
		if err := auth.RequireAdmin(claims); err != nil {
			slog.Warn("Rejected non-admin request", "path", r.URL.Path, "user_id", claims.ID)
			writeError(w, r, err)
			return
		}
		next(w, r)
	})
}
