package httpapi

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wardenbot/warden/internal/infra/storage"
	"github.com/wardenbot/warden/internal/snowflake"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

type guildHandler func(w http.ResponseWriter, r *http.Request, guildID string)

// withAuth resolves the bearer token before the handler runs. Every
// rejection is a bare 401.
func (s *Server) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := s.auth.ValidateToken(r.Context(), token)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next(w, r, userID)
	}
}

// withGuild additionally verifies the bearer's user owns the guild in
// the path: 400 on a malformed ID, 403 on an ownership mismatch.
func (s *Server) withGuild(next guildHandler) http.HandlerFunc {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request, userID string) {
		guildID := r.PathValue("guild_id")

		if !snowflake.Valid(guildID) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		owner, err := s.guilds.OwnerID(r.Context(), guildID)
		if err == storage.ErrNotFound || (err == nil && owner != userID) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if err != nil {
			s.logger.Error("guild owner lookup failed", "guild", guildID, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		next(w, r, guildID)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// clientLimiters keeps one token bucket per remote address.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func newClientLimiters() *clientLimiters {
	return &clientLimiters{clients: make(map[string]*rate.Limiter)}
}

func (l *clientLimiters) get(addr string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.clients[addr]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(10), 30)
		l.clients[addr] = limiter
	}
	return limiter
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !s.limiters.get(host).Allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
