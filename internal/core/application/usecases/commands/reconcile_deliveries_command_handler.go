package commands

import (
	"context"
	"log/slog"
	"sync"

	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/services"
	"reconciler/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

type orderResult int

const (
	resultUpdated orderResult = iota
	resultUnavailable
	resultUnchanged
	resultNotMatched
	resultFailed
	resultSkipped
)

// ReconcileDeliveriesCommandHandler queries the courier of every eligible order
// and writes the delivery outcome decided by services.StatusDecider.
//
// Providers are processed one after another. Within a provider at most
// workers orders are in flight. Failures are isolated per order: an
// unavailable provider leaves the order untouched and a rejected write is
// counted without aborting the batch.
//
// Example:
//
//	handler := NewReconcileDeliveriesCommandHandler(store, providers, 4, logger)
//	cmd, _ := NewReconcileDeliveriesCommand(kernel.NewRunID())
//	report, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	logger.Info("deliveries reconciled", "report", report)
type ReconcileDeliveriesCommandHandler struct {
	store     ports.OrderRepository
	providers []ports.TrackingProvider
	decider   services.StatusDecider
	workers   int
	logger    *slog.Logger
}

func NewReconcileDeliveriesCommandHandler(
	store ports.OrderRepository,
	providers []ports.TrackingProvider,
	workers int,
	logger *slog.Logger,
) ReconcileDeliveriesCommandHandler {
	if workers < 1 {
		workers = 1
	}

	return ReconcileDeliveriesCommandHandler{
		store:     store,
		providers: providers,
		decider:   services.NewStatusDecider(),
		workers:   workers,
		logger:    logger.With("component", "reconcile_deliveries"),
	}
}

// Handle runs the delivery step for every provider and returns its report.
// The error is non-nil only for an invalid command. When ctx is cancelled no
// further orders are started and the report is marked cancelled; updates
// already written stand.
func (h ReconcileDeliveriesCommandHandler) Handle(ctx context.Context, command ReconcileDeliveriesCommand) (Report, error) {
	if err := command.Validate(); err != nil {
		return Report{}, err
	}

	report := NewReport(command.RunID())
	logger := h.logger.With("run_id", command.RunID().String())

	for _, provider := range h.providers {
		result := h.reconcileProvider(ctx, logger.With("provider", provider.Name()), provider)
		report.addProvider(result)
	}

	report.Cancelled = ctx.Err() != nil
	return report, nil
}

func (h ReconcileDeliveriesCommandHandler) reconcileProvider(
	ctx context.Context,
	logger *slog.Logger,
	provider ports.TrackingProvider,
) ProviderReport {
	result := ProviderReport{Provider: provider.Name()}

	if ctx.Err() != nil {
		return result
	}

	eligible, err := h.store.SelectEligibleOrders(ctx, provider.DeliveryMethod())
	if err != nil {
		logger.Error("failed to read eligible orders", "error", err)
		result.EligibleReadFailed = true
		return result
	}

	result.Eligible = len(eligible)
	if len(eligible) == 0 {
		logger.Debug("no eligible orders")
		return result
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(h.workers)

	for i, o := range eligible {
		if ctx.Err() != nil {
			mu.Lock()
			result.Skipped += len(eligible) - i
			mu.Unlock()
			break
		}

		g.Go(func() error {
			res := resultSkipped
			// g.Go may have waited for a free worker past the run deadline.
			if ctx.Err() == nil {
				res = h.reconcileOrder(ctx, logger, provider, o)
			}

			mu.Lock()
			defer mu.Unlock()
			switch res {
			case resultUpdated:
				result.Updated++
			case resultUnavailable:
				result.Unavailable++
			case resultUnchanged:
				result.Unchanged++
			case resultNotMatched:
				result.NotMatched++
			case resultFailed:
				result.Failed++
			case resultSkipped:
				result.Skipped++
			}
			return nil
		})
	}

	_ = g.Wait()

	if result.Skipped > 0 {
		logger.Warn("run cancelled, remaining orders skipped", "skipped", result.Skipped)
	}
	return result
}

func (h ReconcileDeliveriesCommandHandler) reconcileOrder(
	ctx context.Context,
	logger *slog.Logger,
	provider ports.TrackingProvider,
	eligible order.EligibleOrder,
) orderResult {
	logger = logger.With("tracking_code", eligible.TrackingCode.String())

	event, err := provider.FetchTrackingStatus(ctx, eligible.TrackingCode)
	if err != nil {
		logger.Warn("tracking status unavailable", "error", err)
		return resultUnavailable
	}

	outcome, ok := h.decider.Decide(event, eligible.PaymentMethod)
	if !ok {
		logger.Debug("parcel still in transit")
		return resultUnchanged
	}

	if ctx.Err() != nil {
		logger.Warn("run cancelled before the delivery outcome was written")
		return resultSkipped
	}

	matched, err := h.store.ApplyDeliveryOutcome(ctx, eligible.TrackingCode, outcome)
	if err != nil {
		logger.Error("failed to apply delivery outcome", "error", err)
		return resultFailed
	}
	if !matched {
		logger.Warn("delivery outcome matches no order")
		return resultNotMatched
	}

	logger.Info("delivery outcome applied", "payment_status", outcome.PaymentStatus().String())
	return resultUpdated
}
