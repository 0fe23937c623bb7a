package repository

import (
	"context"

	"github.com/cohortics/churn-analytics-service/internal/domain"
)

// FactSet is a windowed, deduplicated projection of the activity log.
// SkippedRows counts source rows rejected during normalization (empty user
// identifier or unrepresentable date); rejected rows never abort a fetch.
type FactSet struct {
	Facts       []domain.ActivityFact
	SkippedRows int
}

// FactRepository defines the interface for activity-fact storage operations
type FactRepository interface {
	// InsertBatch inserts a batch of facts into the storage
	InsertBatch(ctx context.Context, facts []*domain.ActivityFact) (int, error)

	// FetchFacts returns the distinct, month-normalized facts inside the
	// inclusive [from, to] window. A zero from or to leaves that side open.
	FetchFacts(ctx context.Context, from, to domain.Month) (*FactSet, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
