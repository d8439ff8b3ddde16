// Package repository defines the persistence interfaces used by the services.
package repository

import (
	"context"

	"threadbrief/models"
)

// BriefRepository stores generated briefs keyed by their share id.
type BriefRepository interface {
	Save(ctx context.Context, brief *models.Brief) error
	Find(ctx context.Context, id string) (*models.Brief, error)
}

// RateRepository tracks per-identity daily usage counts.
type RateRepository interface {
	Count(ctx context.Context, identity, dayKey string) (int, error)
	Increment(ctx context.Context, identity, dayKey string) error
}
