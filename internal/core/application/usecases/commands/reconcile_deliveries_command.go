package commands

import (
	"errors"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/guard"
)

var ErrReconcileDeliveriesCommandIsNotConstructed = errors.New(
	"ReconcileDeliveriesCommand must be created via NewReconcileDeliveriesCommand constructor",
)

// ReconcileDeliveriesCommand triggers one delivery reconciliation pass over the
// eligible orders of every configured provider.
type ReconcileDeliveriesCommand struct { //nolint:recvcheck //using for validation
	runID kernel.RunID

	guard guard.ConstructorGuard
}

func NewReconcileDeliveriesCommand(runID kernel.RunID) (ReconcileDeliveriesCommand, error) {
	if err := runID.Validate(); err != nil {
		return ReconcileDeliveriesCommand{}, err
	}

	return ReconcileDeliveriesCommand{
		runID: runID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrReconcileDeliveriesCommandIsNotConstructed)
}

func (c ReconcileDeliveriesCommand) RunID() kernel.RunID {
	return c.runID
}
