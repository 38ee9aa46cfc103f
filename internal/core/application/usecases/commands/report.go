package commands

import (
	"log/slog"

	"reconciler/internal/core/domain/model/kernel"
)

// ProviderReport counts what happened to one provider's orders during a run.
type ProviderReport struct {
	Provider string

	// Eligible is the size of the eligible set read from the store.
	Eligible int
	// Updated orders had a delivery outcome written.
	Updated int
	// Unavailable orders were skipped because the provider could not answer.
	Unavailable int
	// Unchanged orders are still in transit.
	Unchanged int
	// NotMatched updates found no row for the tracking code.
	NotMatched int
	// Failed updates were rejected by the store.
	Failed int
	// Skipped orders were never queried because the run was cancelled.
	Skipped int
	// CODConfirmed orders were listed in the settlement feed and marked.
	CODConfirmed int

	EligibleReadFailed    bool
	SettlementFetchFailed bool
}

func (p *ProviderReport) add(other ProviderReport) {
	p.Eligible += other.Eligible
	p.Updated += other.Updated
	p.Unavailable += other.Unavailable
	p.Unchanged += other.Unchanged
	p.NotMatched += other.NotMatched
	p.Failed += other.Failed
	p.Skipped += other.Skipped
	p.CODConfirmed += other.CODConfirmed
	p.EligibleReadFailed = p.EligibleReadFailed || other.EligibleReadFailed
	p.SettlementFetchFailed = p.SettlementFetchFailed || other.SettlementFetchFailed
}

func (p ProviderReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("eligible", p.Eligible),
		slog.Int("updated", p.Updated),
		slog.Int("unavailable", p.Unavailable),
		slog.Int("unchanged", p.Unchanged),
		slog.Int("not_matched", p.NotMatched),
		slog.Int("failed", p.Failed),
		slog.Int("skipped", p.Skipped),
		slog.Int("cod_confirmed", p.CODConfirmed),
		slog.Bool("eligible_read_failed", p.EligibleReadFailed),
		slog.Bool("settlement_fetch_failed", p.SettlementFetchFailed),
	)
}

// Report summarises one reconciliation step. Providers keep the order in which
// they were processed.
type Report struct {
	RunID     kernel.RunID
	Providers []ProviderReport
	Cancelled bool
}

func NewReport(runID kernel.RunID) Report {
	return Report{RunID: runID}
}

// Provider returns the counters recorded for name.
func (r Report) Provider(name string) (ProviderReport, bool) {
	for _, p := range r.Providers {
		if p.Provider == name {
			return p, true
		}
	}
	return ProviderReport{}, false
}

// Merge combines the counters of two steps of the same run, keyed by provider.
func (r Report) Merge(other Report) Report {
	merged := Report{
		RunID:     r.RunID,
		Providers: append([]ProviderReport(nil), r.Providers...),
		Cancelled: r.Cancelled || other.Cancelled,
	}

	for _, p := range other.Providers {
		found := false
		for i := range merged.Providers {
			if merged.Providers[i].Provider == p.Provider {
				merged.Providers[i].add(p)
				found = true
				break
			}
		}
		if !found {
			merged.Providers = append(merged.Providers, p)
		}
	}

	return merged
}

// Totals sums the counters of every provider.
func (r Report) Totals() ProviderReport {
	total := ProviderReport{Provider: "total"}
	for _, p := range r.Providers {
		total.add(p)
	}
	return total
}

// AllEligibleReadsFailed reports whether no provider could read its eligible
// set, which means the store is unreachable.
func (r Report) AllEligibleReadsFailed() bool {
	if len(r.Providers) == 0 {
		return false
	}
	for _, p := range r.Providers {
		if !p.EligibleReadFailed {
			return false
		}
	}
	return true
}

func (r Report) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("run_id", r.RunID.String()),
		slog.Bool("cancelled", r.Cancelled),
	}
	for _, p := range r.Providers {
		attrs = append(attrs, slog.Any(p.Provider, p))
	}
	return slog.GroupValue(attrs...)
}

func (r *Report) addProvider(p ProviderReport) {
	r.Providers = append(r.Providers, p)
}
