package domain

// LifecycleLabel classifies a user's arrival in a given month.
type LifecycleLabel string

const (
	// LabelNew marks a user's first active month.
	LabelNew LifecycleLabel = "New"
	// LabelRetained marks activity exactly one month after the previous one.
	LabelRetained LifecycleLabel = "Retained"
	// LabelResurrected marks a return after a gap of more than one month.
	LabelResurrected LifecycleLabel = "Resurrected"
	// LabelChurnedUnknown is a defensive fallback. The New/Retained/
	// Resurrected branches are exhaustive for well-formed input, so this
	// label only surfaces a data bug instead of a panic.
	LabelChurnedUnknown LifecycleLabel = "Churned/Unknown"
)
