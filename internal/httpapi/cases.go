package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wardenbot/warden/internal/infra/storage"
	"github.com/wardenbot/warden/internal/snowflake"
)

type caseResponse struct {
	Number               int32   `json:"number"`
	Type                 string  `json:"type"`
	CreatedAt            int64   `json:"created_at"`
	ExpiresAt            *int64  `json:"expires_at"`
	ActorID              string  `json:"actor_id"`
	TargetID             string  `json:"target_id"`
	Reason               *string `json:"reason"`
	DeleteMessageSeconds *int32  `json:"delete_message_seconds"`
	DMSent               *bool   `json:"dm_sent"`
}

func serializeCase(c storage.Case) caseResponse {
	var expiresAt *int64
	if c.ExpiresAt != nil {
		ms := c.ExpiresAt.UnixMilli()
		expiresAt = &ms
	}
	return caseResponse{
		Number:               c.Number,
		Type:                 c.Type.String(),
		CreatedAt:            c.CreatedAt.UnixMilli(),
		ExpiresAt:            expiresAt,
		ActorID:              c.ActorID,
		TargetID:             c.TargetID,
		Reason:               c.Reason,
		DeleteMessageSeconds: c.DeleteMessageSeconds,
		DMSent:               c.DMSent,
	}
}

func (s *Server) handleCase(w http.ResponseWriter, r *http.Request, guildID string) {
	number, err := strconv.ParseInt(r.PathValue("number"), 10, 32)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	info, err := s.moderation.GetCase(r.Context(), guildID, int32(number))
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("case fetch failed", "guild", guildID, "number", number, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, serializeCase(info))
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request, guildID string) {
	filter, ok := parseCaseFilter(r.URL.Query())
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	list, err := s.moderation.ListCases(r.Context(), guildID, filter)
	if err != nil {
		s.logger.Error("case list failed", "guild", guildID, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	out := make([]caseResponse, 0, len(list))
	for _, c := range list {
		out = append(out, serializeCase(c))
	}
	writeJSON(w, out)
}

// parseCaseFilter maps the query string onto a storage filter. Any
// malformed value rejects the whole request. An explicit limit of 0
// fetches everything; an absent limit defaults to 1000.
func parseCaseFilter(query url.Values) (storage.CaseFilter, bool) {
	filter := storage.CaseFilter{Limit: 1000}

	if v := query.Get("before"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return filter, false
		}
		before := int32(n)
		filter.NumberLessThan = &before
	}

	if v := query.Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return filter, false
		}
		after := int32(n)
		filter.NumberGreaterThan = &after
	}

	for _, name := range query["type"] {
		t, ok := storage.ParseCaseType(name)
		if !ok {
			return filter, false
		}
		filter.Types = append(filter.Types, t)
	}

	if v := query.Get("created_before"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, false
		}
		t := time.UnixMilli(ms)
		filter.CreatedBefore = &t
	}

	if v := query.Get("created_after"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, false
		}
		t := time.UnixMilli(ms)
		filter.CreatedAfter = &t
	}

	for _, id := range query["actor"] {
		if !snowflake.Valid(id) {
			return filter, false
		}
		filter.ActorIDs = append(filter.ActorIDs, id)
	}

	for _, id := range query["target"] {
		if !snowflake.Valid(id) {
			return filter, false
		}
		filter.TargetIDs = append(filter.TargetIDs, id)
	}

	if v := query.Get("delete_message_seconds_less_than"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return filter, false
		}
		lt := int32(n)
		filter.DeleteMessageSecondsLessThan = &lt
	}

	if v := query.Get("delete_message_seconds_greater_than"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return filter, false
		}
		gt := int32(n)
		filter.DeleteMessageSecondsGreaterThan = &gt
	}

	if v := query.Get("dm_sent"); v != "" {
		switch v {
		case "true":
			sent := true
			filter.DMSent = &sent
		case "false":
			sent := false
			filter.DMSent = &sent
		default:
			return filter, false
		}
	}

	if v := query.Get("order"); v != "" {
		switch v {
		case "asc", "ascending":
			filter.Reversed = false
		case "desc", "descending":
			filter.Reversed = true
		default:
			return filter, false
		}
	}

	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, false
		}
		filter.Limit = n
	}

	return filter, true
}
