package domain

import "time"

// ActivityFact represents a single (user, active month) observation stored
// in ClickHouse. Facts are immutable; duplicates collapse on
// (user_id, active_month) through the ReplacingMergeTree version column.
type ActivityFact struct {
	FactID     string    `ch:"fact_id"`
	UserID     string    `ch:"user_id"`
	Month      Month     `ch:"-"`
	RecordedAt time.Time `ch:"recorded_at"`
	Version    uint64    `ch:"version"`
}
