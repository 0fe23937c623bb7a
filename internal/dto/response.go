package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"user_id is required"`
}

// RecordActivityResponse represents a successful activity ingestion response
type RecordActivityResponse struct {
	FactID string `json:"fact_id" example:"fct_1a2b3c4d5e6f"`
	Status string `json:"status" example:"accepted"`
}

// RecordActivityBulkResponse represents a successful bulk ingestion response
type RecordActivityBulkResponse struct {
	Accepted int      `json:"accepted" example:"5"`
	Rejected int      `json:"rejected" example:"0"`
	FactIDs  []string `json:"fact_ids,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// MonthlyRetentionRow is one month of the retention summary
type MonthlyRetentionRow struct {
	Month            string  `json:"month" example:"2023-02"`
	RetainedUsers    int     `json:"retained_users" example:"120"`
	TotalActiveUsers int     `json:"total_active_users" example:"200"`
	RetentionRate    float64 `json:"retention_rate" example:"0.6"`
}

// MonthlyRetentionResponse represents the monthly retention summary
type MonthlyRetentionResponse struct {
	Rows        []MonthlyRetentionRow `json:"rows"`
	SkippedRows int                   `json:"skipped_rows" example:"0"`
}

// MonthlyChurnRow counts users inferred churned entering a month
type MonthlyChurnRow struct {
	ChurnMonth   string `json:"churn_month" example:"2023-03"`
	ChurnedUsers int    `json:"churned_users" example:"14"`
}

// MonthlyChurnResponse represents the monthly churn summary
type MonthlyChurnResponse struct {
	Rows        []MonthlyChurnRow `json:"rows"`
	SkippedRows int               `json:"skipped_rows" example:"0"`
}

// LifecycleRow counts users carrying a lifecycle status in a month
type LifecycleRow struct {
	Month  string `json:"month" example:"2023-02"`
	Status string `json:"status" example:"Retained"`
	Users  int    `json:"users" example:"120"`
}

// LifecycleResponse represents the per-month lifecycle breakdown
type LifecycleResponse struct {
	Rows        []LifecycleRow `json:"rows"`
	SkippedRows int            `json:"skipped_rows" example:"0"`
}

// RetentionBetweenResponse represents a two-month retention result.
// RetentionRate is a percentage in [0,100].
type RetentionBetweenResponse struct {
	StartMonth    string  `json:"start_month" example:"2023-01"`
	TargetMonth   string  `json:"target_month" example:"2023-02"`
	InitialUsers  int     `json:"initial_users" example:"2"`
	RetainedUsers int     `json:"retained_users" example:"1"`
	RetentionRate float64 `json:"retention_rate" example:"50"`
	SkippedRows   int     `json:"skipped_rows" example:"0"`
}

// ChurnAtResponse represents a reference-month churn result. ChurnRate is
// a percentage in [0,100].
type ChurnAtResponse struct {
	ReferenceMonth string  `json:"reference_month" example:"2023-02"`
	PreviousMonth  string  `json:"previous_month" example:"2023-01"`
	StartingUsers  int     `json:"starting_users" example:"2"`
	ChurnedUsers   int     `json:"churned_users" example:"1"`
	ChurnRate      float64 `json:"churn_rate" example:"50"`
	SkippedRows    int     `json:"skipped_rows" example:"0"`
}
