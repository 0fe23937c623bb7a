package domain

// MonthlyRetentionRow is one month of the retention summary. RetentionRate
// is a ratio in [0,1], rounded to 2 decimal places, 0 when the month has
// no active users.
type MonthlyRetentionRow struct {
	Month            Month
	RetainedUsers    int
	TotalActiveUsers int
	RetentionRate    float64
}

// MonthlyChurnRow counts users inferred churned entering ChurnMonth.
type MonthlyChurnRow struct {
	ChurnMonth   Month
	ChurnedUsers int
}

// LifecycleRow counts users carrying Label in Month.
type LifecycleRow struct {
	Month Month
	Label LifecycleLabel
	Users int
}

// RetentionBetweenResult answers "of the users active in StartMonth, how
// many were still active in TargetMonth". RetentionRate is a percentage in
// [0,100], 0 when InitialUsers is 0.
type RetentionBetweenResult struct {
	StartMonth    Month
	TargetMonth   Month
	InitialUsers  int
	RetainedUsers int
	RetentionRate float64
}

// ChurnAtResult answers "of the users active in the month before
// ReferenceMonth, how many did not return". ChurnRate is a percentage in
// [0,100], 0 when StartingUsers is 0.
type ChurnAtResult struct {
	ReferenceMonth Month
	PreviousMonth  Month
	StartingUsers  int
	ChurnedUsers   int
	ChurnRate      float64
}
