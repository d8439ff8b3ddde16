package sqlite

import (
	"context"
	"database/sql"

	"threadbrief/errors"
)

type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) Count(ctx context.Context, identity, dayKey string) (int, error) {
	const op = "RateRepository.Count"

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count FROM rate_counts WHERE identity = ? AND day_key = ?`,
		identity, dayKey,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Internal(op, err, "failed to read rate count")
	}

	return count, nil
}

func (r *RateRepository) Increment(ctx context.Context, identity, dayKey string) error {
	const op = "RateRepository.Increment"

	query := `
		INSERT INTO rate_counts (identity, day_key, count) VALUES (?, ?, 1)
		ON CONFLICT(identity, day_key) DO UPDATE SET count = count + 1`

	err := withRetry(func() error {
		_, execErr := r.db.ExecContext(ctx, query, identity, dayKey)
		return execErr
	})
	if err != nil {
		return errors.Internal(op, err, "failed to increment rate count")
	}

	return nil
}
