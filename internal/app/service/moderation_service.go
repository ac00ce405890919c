package service

import (
	"context"
	"time"

	"github.com/wardenbot/warden/internal/infra/storage"
)

// ModerationService owns the moderation-case ledger. Case numbers are
// allocated max+1 per guild under a per-guild mutex so concurrent
// actions in one guild get distinct, gapless numbers while different
// guilds proceed independently.
type ModerationService struct {
	cases CaseStore
	locks *keyedMutex
}

func NewModerationService(cases CaseStore) *ModerationService {
	return &ModerationService{cases: cases, locks: newKeyedMutex()}
}

// CreateCaseOptions carries the optional fields of a new case.
type CreateCaseOptions struct {
	Type      storage.CaseType
	CreatedAt time.Time // zero means now
	ExpiresAt *time.Time

	ActorID  string
	TargetID string

	Reason               *string
	DeleteMessageSeconds *int32
	DMSent               *bool
}

// CreateCase appends a case and returns its per-guild number.
func (s *ModerationService) CreateCase(ctx context.Context, guildID string, opts CreateCaseOptions) (int32, error) {
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = time.Now()
	}

	unlock := s.locks.lock(guildID)
	defer unlock()

	number, err := s.cases.MaxNumber(ctx, guildID)
	if err != nil {
		return 0, err
	}
	number++

	err = s.cases.Insert(ctx, storage.Case{
		GuildID:              guildID,
		Number:               number,
		Type:                 opts.Type,
		CreatedAt:            opts.CreatedAt,
		ExpiresAt:            opts.ExpiresAt,
		ActorID:              opts.ActorID,
		TargetID:             opts.TargetID,
		Reason:               opts.Reason,
		DeleteMessageSeconds: opts.DeleteMessageSeconds,
		DMSent:               opts.DMSent,
	})
	if err != nil {
		return 0, err
	}
	return number, nil
}

// GetCase returns storage.ErrNotFound when the number is unknown.
func (s *ModerationService) GetCase(ctx context.Context, guildID string, number int32) (storage.Case, error) {
	return s.cases.Get(ctx, guildID, number)
}

func (s *ModerationService) ListCases(ctx context.Context, guildID string, f storage.CaseFilter) ([]storage.Case, error) {
	return s.cases.List(ctx, guildID, f)
}
