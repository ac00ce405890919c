package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type CaseRepo struct{ db *sql.DB }

func NewCaseRepo(db *sql.DB) *CaseRepo { return &CaseRepo{db: db} }

// MaxNumber returns the highest case number for the guild, 0 if none.
// Callers that allocate the next number must hold the per-guild lock
// around MaxNumber+Insert; read-max-then-insert is not safe on its own.
func (r *CaseRepo) MaxNumber(ctx context.Context, guildID string) (int32, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT number
  FROM moderation_cases
 WHERE guild_id = $1
 ORDER BY number DESC
 LIMIT 1
`, guildID)

	var number int32
	if err := row.Scan(&number); err == sql.ErrNoRows {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *CaseRepo) Insert(ctx context.Context, c Case) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO moderation_cases
  (guild_id, number, type, created_at, expires_at, actor_id, target_id, reason, delete_message_seconds, dm_sent)
VALUES
  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		c.GuildID, c.Number, c.Type, c.CreatedAt, c.ExpiresAt,
		c.ActorID, c.TargetID, c.Reason, c.DeleteMessageSeconds, c.DMSent,
	)
	return err
}

func (r *CaseRepo) Get(ctx context.Context, guildID string, number int32) (Case, error) {
	if number < 0 {
		return Case{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
SELECT guild_id, number, type, created_at, expires_at, actor_id, target_id, reason, delete_message_seconds, dm_sent
  FROM moderation_cases
 WHERE guild_id = $1 AND number = $2
`, guildID, number)

	var c Case
	err := row.Scan(&c.GuildID, &c.Number, &c.Type, &c.CreatedAt, &c.ExpiresAt,
		&c.ActorID, &c.TargetID, &c.Reason, &c.DeleteMessageSeconds, &c.DMSent)
	if err == sql.ErrNoRows {
		return Case{}, ErrNotFound
	}
	return c, err
}

// List returns cases matching the filter, ordered by case number.
func (r *CaseRepo) List(ctx context.Context, guildID string, f CaseFilter) ([]Case, error) {
	where := []string{"guild_id = $1"}
	params := []any{guildID}

	arg := func(v any) string {
		params = append(params, v)
		return fmt.Sprintf("$%d", len(params))
	}

	if f.NumberLessThan != nil {
		where = append(where, "number < "+arg(*f.NumberLessThan))
	}
	if f.NumberGreaterThan != nil {
		where = append(where, "number > "+arg(*f.NumberGreaterThan))
	}
	if len(f.Types) != 0 {
		types := make([]int16, len(f.Types))
		for i, t := range f.Types {
			types[i] = int16(t)
		}
		where = append(where, "type = ANY("+arg(pq.Array(types))+"::smallint[])")
	}
	if f.CreatedBefore != nil {
		where = append(where, "created_at < "+arg(*f.CreatedBefore))
	}
	if f.CreatedAfter != nil {
		where = append(where, "created_at > "+arg(*f.CreatedAfter))
	}
	if len(f.ActorIDs) != 0 {
		where = append(where, "actor_id = ANY("+arg(pq.Array(f.ActorIDs))+"::text[])")
	}
	if len(f.TargetIDs) != 0 {
		where = append(where, "target_id = ANY("+arg(pq.Array(f.TargetIDs))+"::text[])")
	}
	if f.DeleteMessageSecondsLessThan != nil {
		where = append(where, "delete_message_seconds < "+arg(*f.DeleteMessageSecondsLessThan))
	}
	if f.DeleteMessageSecondsGreaterThan != nil {
		where = append(where, "delete_message_seconds > "+arg(*f.DeleteMessageSecondsGreaterThan))
	}
	if f.DMSent != nil {
		where = append(where, "dm_sent = "+arg(*f.DMSent))
	}

	order := "ASC"
	if f.Reversed {
		order = "DESC"
	}

	query := `
SELECT guild_id, number, type, created_at, expires_at, actor_id, target_id, reason, delete_message_seconds, dm_sent
  FROM moderation_cases
 WHERE ` + strings.Join(where, "\n   AND ") + `
 ORDER BY number ` + order
	if f.Limit > 0 {
		query += "\n LIMIT " + arg(f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.GuildID, &c.Number, &c.Type, &c.CreatedAt, &c.ExpiresAt,
			&c.ActorID, &c.TargetID, &c.Reason, &c.DeleteMessageSeconds, &c.DMSent); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
