package usage

import (
	"context"
	"database/sql"
	"errors"

	"quickai-backend/internal/shared/auth"
)

const accountColumns = `user_id, plan, free_usage, updated_at`

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) Store {
	return &pgStore{DB: db}
}

func (s *pgStore) Ensure(ctx context.Context, userID, plan string) (Account, error) {
	const query = `
INSERT INTO usage_accounts (user_id, plan, free_usage, created_at, updated_at)
VALUES ($1, $2, 0, now(), now())
ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, updated_at = now()
RETURNING ` + accountColumns
	return scanAccount(s.DB.QueryRowContext(ctx, query, userID, plan))
}

func (s *pgStore) Get(ctx context.Context, userID string) (Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM usage_accounts WHERE user_id = $1`
	acct, err := scanAccount(s.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Account{UserID: userID, Plan: auth.PlanFree}, nil
	}
	return acct, err
}

// IncrementIfBelow relies on the row-level WHERE guard so concurrent callers
// cannot push the counter past limit.
func (s *pgStore) IncrementIfBelow(ctx context.Context, userID string, limit int) (Account, error) {
	const query = `
INSERT INTO usage_accounts (user_id, plan, free_usage, created_at, updated_at)
VALUES ($1, 'free', 1, now(), now())
ON CONFLICT (user_id) DO UPDATE SET free_usage = usage_accounts.free_usage + 1, updated_at = now()
WHERE usage_accounts.free_usage < $2
RETURNING ` + accountColumns
	acct, err := scanAccount(s.DB.QueryRowContext(ctx, query, userID, limit))
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrLimitReached
	}
	return acct, err
}

func (s *pgStore) Refund(ctx context.Context, userID string) (Account, error) {
	const query = `
UPDATE usage_accounts SET free_usage = GREATEST(free_usage - 1, 0), updated_at = now()
WHERE user_id = $1
RETURNING ` + accountColumns
	acct, err := scanAccount(s.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Account{UserID: userID, Plan: auth.PlanFree}, nil
	}
	return acct, err
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Account, error) {
	const query = `
INSERT INTO usage_accounts (user_id, plan, free_usage, created_at, updated_at)
VALUES ($1, 'free', 0, now(), now())
ON CONFLICT (user_id) DO UPDATE SET free_usage = 0, updated_at = now()
RETURNING ` + accountColumns
	return scanAccount(s.DB.QueryRowContext(ctx, query, userID))
}

func scanAccount(row *sql.Row) (Account, error) {
	var a Account
	if err := row.Scan(&a.UserID, &a.Plan, &a.FreeUsage, &a.UpdatedAt); err != nil {
		return Account{}, err
	}
	return a, nil
}
