package httpapi

import (
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/logging"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
)

// authBypassPrefix marks routes reachable without a token.
const authBypassPrefix = "/auth"

// statusRecorder remembers whether a response has been started, so a late
// rejection can detect the double write instead of corrupting the stream.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wrote {
		return
	}
	r.status = code
	r.wrote = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.status = http.StatusOK
		r.wrote = true
	}
	return r.ResponseWriter.Write(b)
}

// Authenticator resolves the bearer token on every request outside the /auth
// prefix. All rejections are an identical 401 with a deliberately generic
// message; the actual failure mode is only logged.
type Authenticator struct {
	codec       *auth.Codec
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewAuthenticator constructs the request authenticator.
func NewAuthenticator(codec *auth.Codec, db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *Authenticator {
	return &Authenticator{codec: codec, db: db, repomanager: m, logger: logger}
}

// Middleware is the http.Handler wrapper form of the authenticator.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, authBypassPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			a.reject(w, r, "missing or malformed authorization header")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := a.codec.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenExpired):
				a.reject(w, r, "access token expired")
			default:
				a.reject(w, r, "access token malformed or badly signed")
			}
			return
		}
		if claims.Kind != auth.TokenKindAccess {
			a.reject(w, r, "token is not an access token")
			return
		}

		// Another identity source already resolved this request: the
		// credential still had to be valid, but skip the lookup and keep the
		// existing principal.
		if auth.PrincipalFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.repomanager.Users(a.db).GetByEmail(r.Context(), claims.Subject)
		if err != nil {
			a.reject(w, r, "token subject resolves to no user")
			return
		}

		ctx := auth.WithPrincipal(r.Context(), &auth.Principal{UserID: user.ID, Email: user.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// reject writes the fixed 401 envelope, unless the response has already been
// started, in which case the attempt is logged and dropped.
func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, reason string) {
	a.logger.Info(r.Context(), "request rejected", "path", r.URL.Path, "reason", reason)

	if rec, ok := w.(*statusRecorder); ok && rec.wrote {
		a.logger.Warn(r.Context(), "response already written, dropping unauthorized reply", "path", r.URL.Path)
		return
	}
	writeError(w, http.StatusUnauthorized, msgAccessTokenExpired)
}

// CORS allows the configured origins, with credentials, and short-circuits
// preflight requests.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				for _, o := range allowedOrigins {
					if o == origin || o == "*" {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						break
					}
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter keeps a token bucket per client IP for the /auth routes.
type RateLimiter struct {
	limiters       map[string]*rate.Limiter
	mu             sync.RWMutex
	limitPerMinute int
}

// NewRateLimiter constructs a RateLimiter allowing limitPerMinute requests
// per client.
func NewRateLimiter(limitPerMinute int) *RateLimiter {
	return &RateLimiter{
		limiters:       make(map[string]*rate.Limiter),
		limitPerMinute: limitPerMinute,
	}
}

func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[clientIP]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Double-check after acquiring write lock
		limiter, exists = rl.limiters[clientIP]
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(rl.limitPerMinute)/60, rl.limitPerMinute)
			rl.limiters[clientIP] = limiter
		}
		rl.mu.Unlock()
	}

	return limiter
}

// Middleware throttles credential endpoints only; authenticated routes are
// already gated by a valid token.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, authBypassPrefix) {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.getLimiter(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later")
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

// Logging wraps the response writer to record the status and logs one line
// per request.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			status := rec.status
			if !rec.wrote {
				status = http.StatusOK
			}
			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start).String(),
			)
		})
	}
}
