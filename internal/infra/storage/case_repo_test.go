package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB opens the database named by TEST_DATABASE_URL and migrates it.
// The suite is skipped when the variable is unset.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))

	_, err = db.Exec(`TRUNCATE moderation_cases, guild_info, api_tokens`)
	require.NoError(t, err)
	return db
}

func insertCases(t *testing.T, repo *CaseRepo, guildID string, n int) {
	t.Helper()
	base := time.Now().Truncate(time.Millisecond)

	for i := 1; i <= n; i++ {
		c := Case{
			GuildID:   guildID,
			Number:    int32(i),
			Type:      CaseType(i % 10),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			ActorID:   "100000000000000001",
			TargetID:  fmt.Sprintf("2000000000000000%02d", i),
		}
		if i%2 == 0 {
			reason := fmt.Sprintf("reason %d", i)
			c.Reason = &reason
			sent := true
			c.DMSent = &sent
		}
		require.NoError(t, repo.Insert(context.Background(), c))
	}
}

func TestCaseRepoRoundTrip(t *testing.T) {
	repo := NewCaseRepo(testDB(t))
	ctx := context.Background()

	max, err := repo.MaxNumber(ctx, "guild")
	require.NoError(t, err)
	assert.Zero(t, max)

	reason := "spam"
	seconds := int32(86400)
	sent := true
	expires := time.Now().Add(time.Hour).Truncate(time.Millisecond).UTC()
	want := Case{
		GuildID:              "guild",
		Number:               1,
		Type:                 CaseBan,
		CreatedAt:            time.Now().Truncate(time.Millisecond).UTC(),
		ExpiresAt:            &expires,
		ActorID:              "100000000000000001",
		TargetID:             "200000000000000001",
		Reason:               &reason,
		DeleteMessageSeconds: &seconds,
		DMSent:               &sent,
	}
	require.NoError(t, repo.Insert(ctx, want))

	got, err := repo.Get(ctx, "guild", 1)
	require.NoError(t, err)
	assert.Equal(t, want.Type, got.Type)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, expires.Equal(*got.ExpiresAt))
	assert.Equal(t, want.Reason, got.Reason)
	assert.Equal(t, want.DeleteMessageSeconds, got.DeleteMessageSeconds)
	assert.Equal(t, want.DMSent, got.DMSent)

	max, err = repo.MaxNumber(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, int32(1), max)

	_, err = repo.Get(ctx, "guild", 2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, "other", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaseRepoList(t *testing.T) {
	repo := NewCaseRepo(testDB(t))
	ctx := context.Background()
	insertCases(t, repo, "guild", 20)

	all, err := repo.List(ctx, "guild", CaseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, int32(1), all[0].Number)

	reversed, err := repo.List(ctx, "guild", CaseFilter{Reversed: true, Limit: 5})
	require.NoError(t, err)
	require.Len(t, reversed, 5)
	assert.Equal(t, int32(20), reversed[0].Number)

	before := int32(5)
	low, err := repo.List(ctx, "guild", CaseFilter{NumberLessThan: &before})
	require.NoError(t, err)
	assert.Len(t, low, 4)

	warns, err := repo.List(ctx, "guild", CaseFilter{Types: []CaseType{CaseWarn}})
	require.NoError(t, err)
	for _, c := range warns {
		assert.Equal(t, CaseWarn, c.Type)
	}
	assert.Len(t, warns, 2) // numbers 1 and 11

	sent := true
	dms, err := repo.List(ctx, "guild", CaseFilter{DMSent: &sent})
	require.NoError(t, err)
	assert.Len(t, dms, 10)

	targets, err := repo.List(ctx, "guild", CaseFilter{TargetIDs: []string{"200000000000000003", "200000000000000007"}})
	require.NoError(t, err)
	assert.Len(t, targets, 2)

	other, err := repo.List(ctx, "other", CaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGuildRepoOwnership(t *testing.T) {
	db := testDB(t)
	repo := NewGuildRepo(db)
	ctx := context.Background()

	icon := "a1b2c3"
	require.NoError(t, repo.Upsert(ctx, GuildInfo{
		GuildID: "guild", Name: "before", OwnerID: "owner", IconHash: &icon,
	}))
	require.NoError(t, repo.Upsert(ctx, GuildInfo{
		GuildID: "guild", Name: "after", OwnerID: "owner",
	}))

	owner, err := repo.OwnerID(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, "owner", owner)

	_, err = repo.OwnerID(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	owned, err := repo.ListOwnedBy(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "after", owned[0].Name)
	assert.Nil(t, owned[0].IconHash)
}

func TestTokenRepoExpiry(t *testing.T) {
	db := testDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	hash := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, repo.Insert(ctx, APIToken{
		UserID: "user", Hash: hash, ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Insert(ctx, APIToken{
		UserID: "user", Hash: []byte("fedcba9876543210fedcba9876543210"), ExpiresAt: time.Now().Add(-time.Hour),
	}))

	stored, err := repo.Lookup(ctx, "user", hash)
	require.NoError(t, err)
	assert.Equal(t, "user", stored.UserID)

	_, err = repo.Lookup(ctx, "user", []byte("missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Lookup(ctx, "user", hash)
	require.NoError(t, err)
}
