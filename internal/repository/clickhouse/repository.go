package clickhouse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cohortics/churn-analytics-service/internal/domain"
	"github.com/cohortics/churn-analytics-service/internal/repository"
)

// Repository implements FactRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the ClickHouse schema with ReplacingMergeTree engine.
// Duplicate (user_id, active_month) rows collapse on merge; FetchFacts
// additionally deduplicates at query time so the analyzer never sees them.
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS activity_facts (
		fact_id String,
		user_id String,
		active_month Date,
		recorded_at DateTime64(3) DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (user_id, active_month)
	ORDER BY (user_id, active_month)
	PARTITION BY toYYYYMM(active_month)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create activity_facts table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of activity facts into ClickHouse
func (r *Repository) InsertBatch(ctx context.Context, facts []*domain.ActivityFact) (int, error) {
	if len(facts) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO activity_facts")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	insertedCount := 0
	for _, fact := range facts {
		if fact.Version == 0 {
			fact.Version = uint64(time.Now().UnixNano())
		}

		recordedAt := fact.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now().UTC()
		}

		err := batch.Append(
			fact.FactID,
			fact.UserID,
			fact.Month.Time(),
			recordedAt,
			fact.Version,
		)

		if err != nil {
			return 0, fmt.Errorf("failed to append fact to batch: %w", err)
		}
		insertedCount++
	}

	if insertedCount == 0 {
		return 0, fmt.Errorf("no facts could be appended to batch")
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// FetchFacts returns the distinct, month-normalized fact projection for the
// inclusive [from, to] window. Rows with an empty user_id or a zero date
// are skipped and counted rather than failing the fetch.
func (r *Repository) FetchFacts(ctx context.Context, from, to domain.Month) (*repository.FactSet, error) {
	query := `
	SELECT DISTINCT user_id, toStartOfMonth(active_month) AS active_month
	FROM activity_facts
	WHERE 1 = 1
	`
	var args []interface{}
	if !from.IsZero() {
		query += " AND active_month >= ?"
		args = append(args, from.Time())
	}
	if !to.IsZero() {
		query += " AND active_month <= ?"
		args = append(args, to.Next().Time().AddDate(0, 0, -1))
	}
	query += " ORDER BY user_id, active_month"

	rows, err := r.client.Conn().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity facts: %w", err)
	}
	defer rows.Close()

	set := &repository.FactSet{}
	for rows.Next() {
		var userID string
		var activeMonth time.Time
		if err := rows.Scan(&userID, &activeMonth); err != nil {
			return nil, fmt.Errorf("failed to scan activity fact: %w", err)
		}

		if userID == "" || activeMonth.IsZero() {
			set.SkippedRows++
			continue
		}

		set.Facts = append(set.Facts, domain.ActivityFact{
			UserID: userID,
			Month:  domain.MonthOf(activeMonth),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity facts: %w", err)
	}

	if set.SkippedRows > 0 {
		r.log.Warn("Skipped malformed activity rows",
			zap.Int("skipped_rows", set.SkippedRows))
	}

	return set, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}
