package service

import (
	"context"

	"github.com/wardenbot/warden/internal/infra/storage"
)

// GuildService keeps the stored guild mirror in sync with the gateway
// and answers ownership questions for the HTTP API.
type GuildService struct {
	guilds GuildStore
}

func NewGuildService(guilds GuildStore) *GuildService {
	return &GuildService{guilds: guilds}
}

func (s *GuildService) Sync(ctx context.Context, g storage.GuildInfo) error {
	return s.guilds.Upsert(ctx, g)
}

// OwnerID returns storage.ErrNotFound for unknown guilds.
func (s *GuildService) OwnerID(ctx context.Context, guildID string) (string, error) {
	return s.guilds.OwnerID(ctx, guildID)
}

func (s *GuildService) OwnedBy(ctx context.Context, userID string) ([]storage.GuildInfo, error) {
	return s.guilds.ListOwnedBy(ctx, userID)
}
