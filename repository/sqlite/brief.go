package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"threadbrief/errors"
	"threadbrief/models"
)

type BriefRepository struct {
	db *sql.DB
}

func NewBriefRepository(db *sql.DB) *BriefRepository {
	return &BriefRepository{db: db}
}

func (r *BriefRepository) Save(ctx context.Context, brief *models.Brief) error {
	const op = "BriefRepository.Save"

	bullets, err := json.Marshal(brief.Bullets)
	if err != nil {
		return errors.Internal(op, err, "failed to encode bullets")
	}

	query := `
		INSERT INTO briefs (
			id, share_url, title, overview, bullets, why_it_matters,
			source_type, mode, length, output_language, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = withRetry(func() error {
		_, execErr := r.db.ExecContext(ctx, query,
			brief.ID,
			brief.ShareURL,
			brief.Title,
			brief.Overview,
			string(bullets),
			brief.WhyItMatters,
			string(brief.Meta.SourceType),
			string(brief.Meta.Mode),
			string(brief.Meta.Length),
			brief.Meta.OutputLanguage,
			brief.CreatedAt,
		)
		return execErr
	})
	if err != nil {
		return errors.Internal(op, err, "failed to save brief")
	}

	return nil
}

func (r *BriefRepository) Find(ctx context.Context, id string) (*models.Brief, error) {
	const op = "BriefRepository.Find"

	query := `
		SELECT id, share_url, title, overview, bullets, why_it_matters,
			source_type, mode, length, output_language, created_at
		FROM briefs WHERE id = ?`

	var brief models.Brief
	var bullets string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&brief.ID,
		&brief.ShareURL,
		&brief.Title,
		&brief.Overview,
		&bullets,
		&brief.WhyItMatters,
		&brief.Meta.SourceType,
		&brief.Meta.Mode,
		&brief.Meta.Length,
		&brief.Meta.OutputLanguage,
		&brief.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, err, fmt.Sprintf("brief %s not found", id))
	}
	if err != nil {
		return nil, errors.Internal(op, err, "failed to load brief")
	}

	if err := json.Unmarshal([]byte(bullets), &brief.Bullets); err != nil {
		return nil, errors.Internal(op, err, "failed to decode bullets")
	}

	return &brief, nil
}
