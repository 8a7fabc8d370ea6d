package compliance

// Tier is the 4-level urgency classification, plus the two unranked
// terminal classifications that appear in listings but never in urgency
// ordering.
type Tier string

const (
	TierOverdue  Tier = "overdue"
	TierCritical Tier = "critical"
	TierCaution  Tier = "caution"
	TierOK       Tier = "ok"

	// TierNoObligation marks an obligation whose latest record carries no
	// due criteria at all (unscheduled type).
	TierNoObligation Tier = "no_obligation"

	// TierNoHistory marks a scheduled maintenance type with no record for
	// the asset. Distinct from compliant: the obligation has never been
	// satisfied.
	TierNoHistory Tier = "no_history"
)

// tierRank orders tiers for the worklist. Both unranked classifications
// share the lowest rank and fall back to the deterministic tie-breaks.
var tierRank = map[Tier]int{
	TierOverdue:      0,
	TierCritical:     1,
	TierCaution:      2,
	TierOK:           3,
	TierNoHistory:    4,
	TierNoObligation: 4,
}

// Ranked reports whether the tier participates in urgency ordering.
func (t Tier) Ranked() bool {
	return t == TierOverdue || t == TierCritical || t == TierCaution || t == TierOK
}

// Classify maps a remaining value (usage units or days) and the
// type-specific threshold T to an urgency tier:
//
//	remaining < 0        overdue, regardless of magnitude or threshold
//	0 <= remaining <= T  critical
//	T < remaining <= 2T  caution
//	remaining > 2T       ok
func Classify(remaining, threshold float64) Tier {
	switch {
	case remaining < 0:
		return TierOverdue
	case remaining <= threshold:
		return TierCritical
	case remaining <= 2*threshold:
		return TierCaution
	default:
		return TierOK
	}
}
