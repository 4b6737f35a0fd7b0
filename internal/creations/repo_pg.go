package creations

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a creation.
func (r *PGRepo) Append(ctx context.Context, c Creation) (Creation, error) {
	c, err := prepare(c, time.Now())
	if err != nil {
		return Creation{}, err
	}
	const query = `
INSERT INTO creations (id, user_id, prompt, content, type, publish, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.DB.ExecContext(ctx, query, c.ID, c.UserID, c.Prompt, c.Content, c.Type, c.Publish, c.CreatedAt); err != nil {
		return Creation{}, err
	}
	return c, nil
}

// ListByUser returns creations for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Creation, error) {
	const query = `
SELECT id, user_id, prompt, content, type, publish, created_at
FROM creations
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Creation{}
	for rows.Next() {
		var c Creation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Prompt, &c.Content, &c.Type, &c.Publish, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
