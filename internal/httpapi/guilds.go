package httpapi

import (
	"net/http"
)

type guildResponse struct {
	GuildID  string  `json:"guild_id"`
	Name     string  `json:"name"`
	IconHash *string `json:"icon_hash"`
}

func (s *Server) handleGuilds(w http.ResponseWriter, r *http.Request, userID string) {
	owned, err := s.guilds.OwnedBy(r.Context(), userID)
	if err != nil {
		s.logger.Error("guild list failed", "user", userID, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	out := make([]guildResponse, 0, len(owned))
	for _, g := range owned {
		out = append(out, guildResponse{GuildID: g.GuildID, Name: g.Name, IconHash: g.IconHash})
	}
	writeJSON(w, out)
}
