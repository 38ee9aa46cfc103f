package commands

import (
	"errors"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

var ErrConfirmCODSettlementsCommandIsNotConstructed = errors.New(
	"ConfirmCODSettlementsCommand must be created via NewConfirmCODSettlementsCommand constructor",
)

// ConfirmCODSettlementsCommand asks every provider for the cash on delivery
// vouchers it settled on the date of asOf and marks the matching orders.
//
// Example:
//
//	cmd, err := NewConfirmCODSettlementsCommand(runID, time.Now())
//	if err != nil {
//	    return err
//	}
//	report, err := handler.Handle(ctx, cmd)
type ConfirmCODSettlementsCommand struct { //nolint:recvcheck //using for validation
	runID kernel.RunID
	asOf  time.Time

	guard guard.ConstructorGuard
}

func NewConfirmCODSettlementsCommand(runID kernel.RunID, asOf time.Time) (ConfirmCODSettlementsCommand, error) {
	command := ConfirmCODSettlementsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRunID(runID),
		command.setAsOf(asOf),
	); err != nil {
		return ConfirmCODSettlementsCommand{}, err
	}

	return command, nil
}

func (c ConfirmCODSettlementsCommand) Validate() error {
	return c.guard.Validate(ErrConfirmCODSettlementsCommandIsNotConstructed)
}

func (c ConfirmCODSettlementsCommand) RunID() kernel.RunID {
	return c.runID
}

// AsOf is the settlement date; only its calendar date is meaningful.
func (c ConfirmCODSettlementsCommand) AsOf() time.Time {
	return c.asOf
}

func (c *ConfirmCODSettlementsCommand) setRunID(runID kernel.RunID) error {
	if err := runID.Validate(); err != nil {
		return err
	}

	c.runID = runID
	return nil
}

func (c *ConfirmCODSettlementsCommand) setAsOf(asOf time.Time) error {
	if asOf.IsZero() {
		return errs.NewValueIsRequiredError("settlement date")
	}

	c.asOf = asOf
	return nil
}
