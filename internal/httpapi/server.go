// Package httpapi serves the /api/v1 surface and the static frontend.
package httpapi

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/wardenbot/warden/internal/app/service"
)

type Server struct {
	auth       *service.AuthService
	guilds     *service.GuildService
	moderation *service.ModerationService
	staticDir  string
	logger     *log.Logger

	mux      *http.ServeMux
	limiters *clientLimiters
}

func New(auth *service.AuthService, guilds *service.GuildService, moderation *service.ModerationService, staticDir string, logger *log.Logger) *Server {
	s := &Server{
		auth:       auth,
		guilds:     guilds,
		moderation: moderation,
		staticDir:  staticDir,
		logger:     logger,
		mux:        http.NewServeMux(),
		limiters:   newClientLimiters(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/v1/auth/token", s.handleToken)
	s.mux.HandleFunc("GET /api/v1/guilds", s.withAuth(s.handleGuilds))
	s.mux.HandleFunc("GET /api/v1/guilds/{guild_id}/moderation/cases", s.withGuild(s.handleCases))
	s.mux.HandleFunc("GET /api/v1/guilds/{guild_id}/moderation/cases/{number}", s.withGuild(s.handleCase))

	if s.staticDir != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	}
}

// Handler returns the mux wrapped in rate limiting and request
// logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.rateLimit(s.mux))
}
