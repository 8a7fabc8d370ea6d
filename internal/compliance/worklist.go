package compliance

import (
	"sort"
	"time"

	"github.com/ukydev/fleet-compliance/internal/models"
)

// Item is one entry of the prioritized worklist consumed by the
// presentation layers.
type Item struct {
	AssetID        string         `json:"asset_id"`
	Kind           ObligationKind `json:"obligation_kind"`
	Code           string         `json:"code"`
	Tier           Tier           `json:"urgency_tier"`
	RemainingUsage *float64       `json:"remaining_usage,omitempty"`
	RemainingDays  *int           `json:"remaining_days,omitempty"`

	sortKey float64
}

// Worklist is the ordered obligation sequence plus the side-channel of
// per-obligation anomalies encountered while computing it.
type Worklist struct {
	GeneratedAt time.Time `json:"generated_at"`
	Items       []Item    `json:"items"`
	Anomalies   []Anomaly `json:"anomalies"`
}

// BuildFleetWorklist evaluates every asset in the snapshot and merges all
// open obligations into one priority-ordered sequence. Per-obligation
// faults exclude only that obligation; the rest of the worklist is still
// computed.
func BuildFleetWorklist(snap *Snapshot, now time.Time) Worklist {
	wl := Worklist{GeneratedAt: now}
	for i := range snap.Assets {
		items, anomalies := evaluateAsset(snap, &snap.Assets[i], now)
		wl.Items = append(wl.Items, items...)
		wl.Anomalies = append(wl.Anomalies, anomalies...)
	}
	sortItems(wl.Items)
	return wl
}

// BuildAssetWorklist evaluates a single asset. Returns ErrNotFound when
// the asset id does not resolve.
func BuildAssetWorklist(snap *Snapshot, assetID string, now time.Time) (Worklist, error) {
	asset, err := snap.Asset(assetID)
	if err != nil {
		return Worklist{}, err
	}
	wl := Worklist{GeneratedAt: now}
	wl.Items, wl.Anomalies = evaluateAsset(snap, asset, now)
	sortItems(wl.Items)
	return wl, nil
}

func evaluateAsset(snap *Snapshot, asset *models.Asset, now time.Time) ([]Item, []Anomaly) {
	var items []Item
	var anomalies []Anomaly

	recordsByType := make(map[string][]models.MaintenanceRecord)
	for _, r := range snap.Records {
		if r.AssetID == asset.AssetID {
			recordsByType[r.TypeCode] = append(recordsByType[r.TypeCode], r)
		}
	}

	seen := make(map[string]bool, len(snap.Types))
	for i := range snap.Types {
		mt := &snap.Types[i]
		seen[mt.Code] = true

		latest := LatestRecord(recordsByType[mt.Code])
		if latest == nil {
			// A scheduled type with no ledger entry is a compliance gap,
			// not a clean slate. Unscheduled types without history have
			// nothing due and are not listed.
			if !mt.Unscheduled {
				items = append(items, Item{
					AssetID: asset.AssetID,
					Kind:    KindMaintenance,
					Code:    mt.Code,
					Tier:    TierNoHistory,
				})
			}
			continue
		}

		ob := Obligation{
			AssetID:        asset.AssetID,
			Kind:           KindMaintenance,
			Code:           mt.Code,
			NextDueUsage:   latest.NextDueUsage,
			NextDueDate:    latest.NextDueDate,
			UsageThreshold: mt.EffectiveUsageThreshold(),
			DayThreshold:   mt.EffectiveDayThreshold(),
		}
		if detail := validateDue(ob); detail != "" {
			anomalies = append(anomalies, Anomaly{
				AssetID: asset.AssetID,
				Kind:    KindMaintenance,
				Code:    mt.Code,
				Reason:  ReasonMalformedDueValue,
				Detail:  detail,
			})
			continue
		}
		items = append(items, newItem(ob, Evaluate(ob, asset.CumulativeUsage, now)))
	}

	// Records referencing a type missing from the catalog cannot be
	// ranked; report each such code once and keep going.
	var unknown []string
	for code := range recordsByType {
		if !seen[code] {
			unknown = append(unknown, code)
		}
	}
	sort.Strings(unknown)
	for _, code := range unknown {
		anomalies = append(anomalies, Anomaly{
			AssetID: asset.AssetID,
			Kind:    KindMaintenance,
			Code:    code,
			Reason:  ReasonUnknownType,
			Detail:  "no catalog entry for type",
		})
	}

	for i := range snap.Directives {
		d := &snap.Directives[i]
		if d.AssetID != asset.AssetID {
			continue
		}
		if d.Status == models.DirectiveComplied && !d.Recurring {
			// Terminal. One-time directives stop at complied; no further
			// due computation.
			continue
		}
		ob := Obligation{
			AssetID:        asset.AssetID,
			Kind:           KindDirective,
			Code:           d.DirectiveID,
			NextDueUsage:   d.NextDueUsage,
			NextDueDate:    d.NextDueDate,
			UsageThreshold: d.EffectiveUsageThreshold(),
			DayThreshold:   d.EffectiveDayThreshold(),
		}
		if detail := validateDue(ob); detail != "" {
			anomalies = append(anomalies, Anomaly{
				AssetID: asset.AssetID,
				Kind:    KindDirective,
				Code:    d.DirectiveID,
				Reason:  ReasonMalformedDueValue,
				Detail:  detail,
			})
			continue
		}
		items = append(items, newItem(ob, Evaluate(ob, asset.CumulativeUsage, now)))
	}

	return items, anomalies
}

func newItem(ob Obligation, ev Evaluation) Item {
	return Item{
		AssetID:        ob.AssetID,
		Kind:           ob.Kind,
		Code:           ob.Code,
		Tier:           ev.Tier,
		RemainingUsage: ev.RemainingUsage,
		RemainingDays:  ev.RemainingDays,
		sortKey:        ev.sortKey,
	}
}

// sortItems orders the worklist: urgency tier first; within overdue the
// most overdue first and within the other ranked tiers the soonest due
// first (both are ascending normalized keys); then directives before
// routine maintenance, then code and asset id for determinism. Stable
// and total: every obligation appears exactly once.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if tierRank[a.Tier] != tierRank[b.Tier] {
			return tierRank[a.Tier] < tierRank[b.Tier]
		}
		if a.Tier.Ranked() && b.Tier.Ranked() && a.sortKey != b.sortKey {
			return a.sortKey < b.sortKey
		}
		if a.Kind != b.Kind {
			return a.Kind == KindDirective
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.AssetID < b.AssetID
	})
}
