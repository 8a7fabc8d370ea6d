package compliance

import "errors"

var (
	// ErrNotFound signals an asset, maintenance type or directive id that
	// does not resolve in the current snapshot. Recoverable; callers treat
	// it as absent data.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition signals an attempt to record compliance on a
	// terminal non-recurring directive. Surfaced to the caller as a
	// rejected operation, never silently ignored.
	ErrInvalidTransition = errors.New("invalid directive transition")
)

// Anomaly reason codes.
const (
	ReasonMalformedDueValue = "malformed_due_value"
	ReasonUnknownType       = "unknown_type"
)

// Anomaly reports a single obligation that could not be ranked. The
// evaluation is best-effort: an anomaly excludes only its own obligation
// and the rest of the worklist is still computed.
type Anomaly struct {
	AssetID string          `json:"asset_id"`
	Kind    ObligationKind  `json:"obligation_kind"`
	Code    string          `json:"code"`
	Reason  string          `json:"reason"`
	Detail  string          `json:"detail"`
}
