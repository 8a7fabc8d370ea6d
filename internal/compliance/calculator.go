package compliance

import (
	"math"
	"time"
)

// ObligationKind tags whether an obligation comes from the routine
// maintenance catalog or from a regulatory directive.
type ObligationKind string

const (
	KindMaintenance ObligationKind = "maintenance"
	KindDirective   ObligationKind = "directive"
)

// Obligation is the unified due-calculation input shared by maintenance
// records and directives. Aircraft-hour and ground-odometer obligations
// flow through the same shape; only the thresholds differ per type.
type Obligation struct {
	AssetID        string
	Kind           ObligationKind
	Code           string
	NextDueUsage   *float64
	NextDueDate    *time.Time
	UsageThreshold float64
	DayThreshold   float64
}

// Evaluation is the computed compliance state of one obligation.
type Evaluation struct {
	RemainingUsage *float64
	RemainingDays  *int
	Tier           Tier

	// sortKey is the effective remaining signal normalized to a fraction
	// of its threshold, so hour- and day-denominated obligations order
	// consistently. Only meaningful when Tier is ranked.
	sortKey float64
}

// RemainingUsage computes the usage units left until due. Negative means
// overdue by the absolute value. Exact arithmetic, no rounding.
func RemainingUsage(cumulativeUsage, nextDueUsage float64) float64 {
	return nextDueUsage - cumulativeUsage
}

// RemainingDays computes whole days left until the due date using a
// signed ceiling: any positive fraction of a day counts as a full day
// remaining (30h ahead is 2 days, not 1), and a due date 30h in the past
// is overdue by 1 day. The asymmetry never under-reports urgency.
func RemainingDays(nextDueDate, now time.Time) int {
	return int(math.Ceil(nextDueDate.Sub(now).Hours() / 24))
}

// Evaluate computes the compliance state of one obligation against the
// asset's current cumulative usage and the evaluation time.
//
// When both a usage and a date remainder exist, the effective signal is
// whichever is numerically smaller after normalizing each to a fraction
// of its own threshold; raw hours and days are never compared directly.
func Evaluate(ob Obligation, cumulativeUsage float64, now time.Time) Evaluation {
	var ev Evaluation

	if ob.NextDueUsage != nil {
		rem := RemainingUsage(cumulativeUsage, *ob.NextDueUsage)
		ev.RemainingUsage = &rem
	}
	if ob.NextDueDate != nil {
		rem := RemainingDays(*ob.NextDueDate, now)
		ev.RemainingDays = &rem
	}

	switch {
	case ev.RemainingUsage != nil && ev.RemainingDays != nil:
		fracU := *ev.RemainingUsage / ob.UsageThreshold
		fracD := float64(*ev.RemainingDays) / ob.DayThreshold
		if fracU <= fracD {
			ev.Tier = Classify(*ev.RemainingUsage, ob.UsageThreshold)
			ev.sortKey = fracU
		} else {
			ev.Tier = Classify(float64(*ev.RemainingDays), ob.DayThreshold)
			ev.sortKey = fracD
		}
	case ev.RemainingUsage != nil:
		ev.Tier = Classify(*ev.RemainingUsage, ob.UsageThreshold)
		ev.sortKey = *ev.RemainingUsage / ob.UsageThreshold
	case ev.RemainingDays != nil:
		ev.Tier = Classify(float64(*ev.RemainingDays), ob.DayThreshold)
		ev.sortKey = float64(*ev.RemainingDays) / ob.DayThreshold
	default:
		// No due criteria at all. A valid terminal classification, not an
		// error, and excluded from urgency ranking.
		ev.Tier = TierNoObligation
	}

	return ev
}

// validateDue reports the first malformed due field of an obligation, or
// "" when both are usable. A present-but-negative due usage or a
// present-but-zero due date cannot have been produced by record creation
// and marks backend data corruption.
func validateDue(ob Obligation) string {
	if ob.NextDueUsage != nil && *ob.NextDueUsage < 0 {
		return "negative next_due_usage"
	}
	if ob.NextDueDate != nil && ob.NextDueDate.IsZero() {
		return "zero next_due_date"
	}
	return ""
}
