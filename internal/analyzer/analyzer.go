// Package analyzer computes retention, churn and lifecycle metrics from an
// immutable collection of activity facts. All operations are pure and
// deterministic; repeated invocation on the same facts yields identical
// output.
package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/cohortics/churn-analytics-service/internal/domain"
)

// ChurnPolicy controls how churn inferred from the final in-range month is
// treated.
type ChurnPolicy int

const (
	// ExcludeFinalMonth suppresses churn inferred for users whose last
	// activity lands in the final month of the dataset. "No next record"
	// there is an artifact of the query horizon, not observed churn.
	ExcludeFinalMonth ChurnPolicy = iota
	// CountFinalMonth treats absence of future data as churn, matching the
	// naive reading of the reference reports.
	CountFinalMonth
)

// userMonths maps each user to their distinct active months, ascending.
func userMonths(facts []domain.ActivityFact) map[string][]domain.Month {
	seen := make(map[string]map[domain.Month]struct{})
	for _, f := range facts {
		if f.UserID == "" || f.Month.IsZero() {
			continue
		}
		if seen[f.UserID] == nil {
			seen[f.UserID] = make(map[domain.Month]struct{})
		}
		seen[f.UserID][f.Month] = struct{}{}
	}

	byUser := make(map[string][]domain.Month, len(seen))
	for user, months := range seen {
		ordered := make([]domain.Month, 0, len(months))
		for m := range months {
			ordered = append(ordered, m)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })
		byUser[user] = ordered
	}
	return byUser
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// MonthlyRetention produces one row per month present in the facts: how
// many distinct users were active, how many of them arrived from activity
// in the immediately preceding month, and their ratio.
func MonthlyRetention(facts []domain.ActivityFact) []domain.MonthlyRetentionRow {
	byUser := userMonths(facts)

	active := make(map[domain.Month]int)
	retained := make(map[domain.Month]int)
	for _, months := range byUser {
		for i, m := range months {
			active[m]++
			if i > 0 && months[i-1].Next() == m {
				retained[m]++
			}
		}
	}

	rows := make([]domain.MonthlyRetentionRow, 0, len(active))
	for m, total := range active {
		rate := 0.0
		if total > 0 {
			rate = round2(float64(retained[m]) / float64(total))
		}
		rows = append(rows, domain.MonthlyRetentionRow{
			Month:            m,
			RetainedUsers:    retained[m],
			TotalActiveUsers: total,
			RetentionRate:    rate,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month.Before(rows[j].Month) })
	return rows
}

// MonthlyChurn counts, per month, the users inferred churned entering that
// month: a user churns entering successor(M) when their activity in M is
// not followed by activity in M+1. The policy decides whether inferences
// drawn from the final month of the dataset count.
func MonthlyChurn(facts []domain.ActivityFact, policy ChurnPolicy) []domain.MonthlyChurnRow {
	byUser := userMonths(facts)

	var finalMonth domain.Month
	for _, months := range byUser {
		last := months[len(months)-1]
		if finalMonth.IsZero() || last.After(finalMonth) {
			finalMonth = last
		}
	}

	churned := make(map[domain.Month]int)
	for _, months := range byUser {
		for i, m := range months {
			if i+1 < len(months) && m.Next() == months[i+1] {
				continue
			}
			if i+1 == len(months) && policy == ExcludeFinalMonth && m == finalMonth {
				continue
			}
			churned[m.Next()]++
		}
	}

	rows := make([]domain.MonthlyChurnRow, 0, len(churned))
	for m, n := range churned {
		rows = append(rows, domain.MonthlyChurnRow{ChurnMonth: m, ChurnedUsers: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ChurnMonth.Before(rows[j].ChurnMonth) })
	return rows
}

// classify labels a single (user, month) arrival given the user's previous
// active month, if any.
func classify(first, prev, curr domain.Month, hasPrev bool) domain.LifecycleLabel {
	switch {
	case curr == first:
		return domain.LabelNew
	case hasPrev && prev.Next() == curr:
		return domain.LabelRetained
	case hasPrev:
		return domain.LabelResurrected
	default:
		return domain.LabelChurnedUnknown
	}
}

// LifecycleStatus labels every (user, month) pair and returns counts
// grouped by (month, label), ordered by month then label lexicographically.
func LifecycleStatus(facts []domain.ActivityFact) []domain.LifecycleRow {
	byUser := userMonths(facts)

	type key struct {
		month domain.Month
		label domain.LifecycleLabel
	}
	counts := make(map[key]int)
	for _, months := range byUser {
		first := months[0]
		for i, m := range months {
			var prev domain.Month
			if i > 0 {
				prev = months[i-1]
			}
			label := classify(first, prev, m, i > 0)
			counts[key{month: m, label: label}]++
		}
	}

	rows := make([]domain.LifecycleRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, domain.LifecycleRow{Month: k.month, Label: k.label, Users: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month.Before(rows[j].Month)
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

// RetentionBetween reports how many users active in start were still
// active in target. The rate follows the stored-procedure semantics: the
// ratio is rounded to 4 decimals, then expressed as a percentage.
func RetentionBetween(facts []domain.ActivityFact, start, target domain.Month) (domain.RetentionBetweenResult, error) {
	if !start.Before(target) {
		return domain.RetentionBetweenResult{}, fmt.Errorf("target month %s must be after start month %s", target, start)
	}

	byUser := userMonths(facts)
	initial, retained := 0, 0
	for _, months := range byUser {
		activeStart, activeTarget := false, false
		for _, m := range months {
			if m == start {
				activeStart = true
			}
			if m == target {
				activeTarget = true
			}
		}
		if activeStart {
			initial++
			if activeTarget {
				retained++
			}
		}
	}

	rate := 0.0
	if initial > 0 {
		rate = round4(float64(retained)/float64(initial)) * 100
	}
	return domain.RetentionBetweenResult{
		StartMonth:    start,
		TargetMonth:   target,
		InitialUsers:  initial,
		RetainedUsers: retained,
		RetentionRate: rate,
	}, nil
}

// ChurnAt reports how many users active in the month before reference did
// not return in reference.
func ChurnAt(facts []domain.ActivityFact, reference domain.Month) (domain.ChurnAtResult, error) {
	previous, err := reference.Prev()
	if err != nil {
		return domain.ChurnAtResult{}, fmt.Errorf("invalid reference month: %w", err)
	}

	byUser := userMonths(facts)
	starting, churned := 0, 0
	for _, months := range byUser {
		activePrev, activeRef := false, false
		for _, m := range months {
			if m == previous {
				activePrev = true
			}
			if m == reference {
				activeRef = true
			}
		}
		if activePrev {
			starting++
			if !activeRef {
				churned++
			}
		}
	}

	rate := 0.0
	if starting > 0 {
		rate = round4(float64(churned) / float64(starting) * 100)
	}
	return domain.ChurnAtResult{
		ReferenceMonth: reference,
		PreviousMonth:  previous,
		StartingUsers:  starting,
		ChurnedUsers:   churned,
		ChurnRate:      rate,
	}, nil
}

// FilterWindow drops facts outside the inclusive [from, to] month range.
// A zero from or to leaves that side unbounded.
func FilterWindow(facts []domain.ActivityFact, from, to domain.Month) []domain.ActivityFact {
	if from.IsZero() && to.IsZero() {
		return facts
	}
	out := make([]domain.ActivityFact, 0, len(facts))
	for _, f := range facts {
		if !from.IsZero() && f.Month.Before(from) {
			continue
		}
		if !to.IsZero() && f.Month.After(to) {
			continue
		}
		out = append(out, f)
	}
	return out
}
