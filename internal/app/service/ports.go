package service

import (
	"context"
	"time"

	"github.com/wardenbot/warden/internal/infra/storage"
)

// Implemented by internal/infra/storage.CaseRepo.
type CaseStore interface {
	MaxNumber(ctx context.Context, guildID string) (int32, error)
	Insert(ctx context.Context, c storage.Case) error
	Get(ctx context.Context, guildID string, number int32) (storage.Case, error)
	List(ctx context.Context, guildID string, f storage.CaseFilter) ([]storage.Case, error)
}

// Implemented by internal/infra/storage.GuildRepo.
type GuildStore interface {
	Upsert(ctx context.Context, g storage.GuildInfo) error
	OwnerID(ctx context.Context, guildID string) (string, error)
	ListOwnedBy(ctx context.Context, userID string) ([]storage.GuildInfo, error)
}

// Implemented by internal/infra/storage.TokenRepo.
type TokenStore interface {
	Insert(ctx context.Context, t storage.APIToken) error
	Lookup(ctx context.Context, userID string, hash []byte) (storage.APIToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
