package httpapi

import (
	"encoding/json"
	"net/http"
)

type loginRequest struct {
	Code string `json:"code"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
		http.Error(w, "Missing code", http.StatusBadRequest)
		return
	}

	token, expiresAt, err := s.auth.Login(r.Context(), body.Code)
	if err != nil {
		s.logger.Error("login failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, loginResponse{Token: token, ExpiresAt: expiresAt.UnixMilli()})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.withAuth(func(w http.ResponseWriter, r *http.Request, userID string) {
		writeJSON(w, map[string]string{"user_id": userID})
	})(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
