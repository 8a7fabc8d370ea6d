package poller

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-compliance/internal/compliance"
)

// WorklistPublisher receives the result of each evaluation pass.
type WorklistPublisher interface {
	PublishWorklist(wl compliance.Worklist) error
	PublishAnomalies(anomalies []compliance.Anomaly) error
}

// Poller periodically fetches a fresh snapshot and re-runs the full
// fleet evaluation. Cooperative single-pass recomputation: there is no
// incremental state, so cancelling the context between ticks is the
// whole shutdown story.
type Poller struct {
	source    compliance.SnapshotSource
	publisher WorklistPublisher // nil disables publication
	interval  time.Duration
}

// New creates a poller. A nil publisher means evaluations are only
// logged.
func New(source compliance.SnapshotSource, publisher WorklistPublisher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 45 * time.Second
	}
	return &Poller{source: source, publisher: publisher, interval: interval}
}

// Run evaluates once immediately, then on every tick until the context
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.evaluate(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("compliance poller stopped")
			return
		case <-ticker.C:
			p.evaluate(ctx)
		}
	}
}

func (p *Poller) evaluate(ctx context.Context) {
	snap, err := p.source.FetchSnapshot(ctx)
	if err != nil {
		// Contract-level failure: nothing to evaluate this pass.
		log.WithError(err).Error("failed to fetch compliance snapshot")
		return
	}

	wl := compliance.BuildFleetWorklist(snap, time.Now())

	overdue := 0
	for _, item := range wl.Items {
		if item.Tier == compliance.TierOverdue {
			overdue++
		}
	}
	log.WithFields(log.Fields{
		"assets":    len(snap.Assets),
		"items":     len(wl.Items),
		"overdue":   overdue,
		"anomalies": len(wl.Anomalies),
	}).Info("fleet compliance evaluated")

	for _, a := range wl.Anomalies {
		log.WithFields(log.Fields{
			"asset_id": a.AssetID,
			"kind":     a.Kind,
			"code":     a.Code,
			"reason":   a.Reason,
		}).Warn(a.Detail)
	}

	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishWorklist(wl); err != nil {
		log.WithError(err).Error("failed to publish worklist")
	}
	if err := p.publisher.PublishAnomalies(wl.Anomalies); err != nil {
		log.WithError(err).Error("failed to publish anomalies")
	}
}
