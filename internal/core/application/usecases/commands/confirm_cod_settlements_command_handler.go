package commands

import (
	"context"
	"log/slog"

	"reconciler/internal/core/ports"
)

// ConfirmCODSettlementsCommandHandler marks cash on delivery orders whose
// vouchers appear in a courier's settlement feed.
//
// A failed feed fetch aborts that provider's step only. A failed write is
// counted and skipped; the order is picked up again by the next run.
type ConfirmCODSettlementsCommandHandler struct {
	store     ports.OrderRepository
	providers []ports.TrackingProvider
	logger    *slog.Logger
}

func NewConfirmCODSettlementsCommandHandler(
	store ports.OrderRepository,
	providers []ports.TrackingProvider,
	logger *slog.Logger,
) ConfirmCODSettlementsCommandHandler {
	return ConfirmCODSettlementsCommandHandler{
		store:     store,
		providers: providers,
		logger:    logger.With("component", "confirm_cod_settlements"),
	}
}

// Handle runs the settlement step for every provider and returns its report.
// The error is non-nil only for an invalid command.
func (h ConfirmCODSettlementsCommandHandler) Handle(
	ctx context.Context,
	command ConfirmCODSettlementsCommand,
) (Report, error) {
	if err := command.Validate(); err != nil {
		return Report{}, err
	}

	report := NewReport(command.RunID())
	logger := h.logger.With("run_id", command.RunID().String())

	for _, provider := range h.providers {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		report.addProvider(h.confirmProvider(ctx, logger, provider, command))
	}

	return report, nil
}

func (h ConfirmCODSettlementsCommandHandler) confirmProvider(
	ctx context.Context,
	logger *slog.Logger,
	provider ports.TrackingProvider,
	command ConfirmCODSettlementsCommand,
) ProviderReport {
	result := ProviderReport{Provider: provider.Name()}
	logger = logger.With("provider", provider.Name())

	settlements, err := provider.FetchCODSettlements(ctx, command.AsOf())
	if err != nil {
		logger.Warn("settlement feed unavailable, skipping provider", "error", err)
		result.SettlementFetchFailed = true
		return result
	}

	for _, settlement := range settlements {
		if ctx.Err() != nil {
			break
		}

		code := settlement.TrackingCode
		matched, err := h.store.MarkCODConfirmed(ctx, code)
		switch {
		case err != nil:
			logger.Error("failed to mark COD confirmed", "tracking_code", code.String(), "error", err)
			result.Failed++
		case !matched:
			logger.Warn("settled voucher matches no order", "tracking_code", code.String())
			result.NotMatched++
		default:
			logger.Info("COD settlement confirmed", "tracking_code", code.String())
			result.CODConfirmed++
		}
	}

	return result
}
