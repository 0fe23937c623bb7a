package dto

// RecordActivityRequest represents a single activity observation. Date
// accepts YYYY-MM or a full YYYY-MM-DD; either way it is truncated to the
// first of the month before storage.
type RecordActivityRequest struct {
	UserID string `json:"user_id" binding:"required" example:"user_123"`
	Date   string `json:"date" binding:"required" example:"2023-01-15"`
}

// RecordActivityBulkRequest represents a bulk activity request
type RecordActivityBulkRequest struct {
	Facts []RecordActivityRequest `json:"facts" binding:"required,min=1,max=1000,dive"`
}

// MonthWindowQuery restricts an analytics query to an inclusive month range
type MonthWindowQuery struct {
	From string `form:"from" example:"2023-01"`
	To   string `form:"to" example:"2023-12"`
}

// MonthlyChurnQuery represents a monthly churn query
type MonthlyChurnQuery struct {
	From string `form:"from" example:"2023-01"`
	To   string `form:"to" example:"2023-12"`
	// CountFinalMonth overrides the configured churn truncation policy.
	CountFinalMonth *bool `form:"count_final_month"`
}

// RetentionBetweenQuery represents a two-month retention query
type RetentionBetweenQuery struct {
	StartMonth  string `form:"start_month" binding:"required" example:"2023-01"`
	TargetMonth string `form:"target_month" binding:"required" example:"2023-02"`
}

// ChurnAtQuery represents a single reference-month churn query
type ChurnAtQuery struct {
	ReferenceMonth string `form:"reference_month" binding:"required" example:"2023-02"`
}
