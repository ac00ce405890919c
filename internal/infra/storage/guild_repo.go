package storage

import (
	"context"
	"database/sql"
)

type GuildRepo struct{ db *sql.DB }

func NewGuildRepo(db *sql.DB) *GuildRepo { return &GuildRepo{db: db} }

func (r *GuildRepo) Upsert(ctx context.Context, g GuildInfo) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO guild_info (guild_id, name, icon_hash, owner_id)
VALUES ($1,$2,$3,$4)
ON CONFLICT (guild_id) DO UPDATE SET
  name      = EXCLUDED.name,
  icon_hash = EXCLUDED.icon_hash,
  owner_id  = EXCLUDED.owner_id
`, g.GuildID, g.Name, g.IconHash, g.OwnerID)
	return err
}

func (r *GuildRepo) OwnerID(ctx context.Context, guildID string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT owner_id FROM guild_info WHERE guild_id = $1
`, guildID)

	var owner string
	if err := row.Scan(&owner); err == sql.ErrNoRows {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return owner, nil
}

// ListOwnedBy returns every known guild owned by the user.
func (r *GuildRepo) ListOwnedBy(ctx context.Context, userID string) ([]GuildInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, name, icon_hash, owner_id
  FROM guild_info
 WHERE owner_id = $1
 ORDER BY guild_id
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GuildInfo
	for rows.Next() {
		var g GuildInfo
		if err := rows.Scan(&g.GuildID, &g.Name, &g.IconHash, &g.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
