package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
//
// Updates are single statements keyed by tracking code. On MySQL the
// connection must report matched rather than changed rows (clientFoundRows),
// otherwise repeating an update reports no match.
type GormOrderRepository struct {
	db     *gorm.DB
	table  string
	logger *slog.Logger
}

// NewGormOrderRepository creates a repository over table. An empty table name
// selects DefaultTable.
func NewGormOrderRepository(db *gorm.DB, table string, logger *slog.Logger) *GormOrderRepository {
	if table == "" {
		table = DefaultTable
	}

	return &GormOrderRepository{
		db:     db,
		table:  table,
		logger: logger.With("component", "order_repository"),
	}
}

// CheckSchema verifies that the orders table exists with every column the
// repository reads or writes, under the exact names the dialect will quote.
func (r *GormOrderRepository) CheckSchema(ctx context.Context) error {
	migrator := r.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(r.table) {
		return errs.NewObjectNotFoundError("table", r.table)
	}

	var missing []error
	for _, column := range []string{
		colID, colTrackingCode, colStatus, colDeliveryMethod,
		colPaymentMethod, colPaymentStatus, colDeliveryDate, colConsignee,
	} {
		if !migrator.HasColumn(r.table, column) {
			missing = append(missing, errs.NewObjectNotFoundError("column", r.table+"."+column))
		}
	}
	return errors.Join(missing...)
}

func eq(column string, value any) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

// SelectEligibleOrders retrieves dispatched, unsettled orders of one tracked
// delivery method. Every row is restored as an order.Order and checked with
// IsEligibleFor; rows that fail to restore, such as a blank or malformed
// tracking code, are skipped and logged since no courier can be queried for
// them.
func (r *GormOrderRepository) SelectEligibleOrders(
	ctx context.Context,
	method order.DeliveryMethod,
) ([]order.EligibleOrder, error) {
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if !method.IsTracked() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"delivery method",
			fmt.Errorf("%s has no courier tracking API", method),
		)
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Table(r.table).
		Select(colID, colTrackingCode, colStatus, colDeliveryMethod, colPaymentMethod, colPaymentStatus).
		Where(eq(colStatus, int(order.Dispatched))).
		Where(eq(colDeliveryMethod, int(method))).
		Where(eq(colPaymentStatus, int(order.Unsettled))).
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to select eligible %s orders: %w", method, err)
	}

	orders := make([]order.EligibleOrder, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			r.logger.Warn("skipping unreadable order row", "order_id", dto.ID, "error", err)
			continue
		}
		if !o.IsEligibleFor(method) {
			continue
		}
		orders = append(orders, o.Eligible())
	}

	return orders, nil
}

// MarkCODConfirmed sets the payment status of the matching order to
// CODConfirmedPending, whatever its current value.
func (r *GormOrderRepository) MarkCODConfirmed(ctx context.Context, code kernel.TrackingCode) (bool, error) {
	if err := code.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Table(r.table).
		Where(eq(colTrackingCode, code.String())).
		Update(colPaymentStatus, int(order.CODConfirmedPending))
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark COD confirmed for %s: %w", code, result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ApplyDeliveryOutcome writes payment status, delivery date and consignee of
// the matching order.
func (r *GormOrderRepository) ApplyDeliveryOutcome(
	ctx context.Context,
	code kernel.TrackingCode,
	outcome order.DeliveryOutcome,
) (bool, error) {
	if err := errors.Join(code.Validate(), outcome.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Table(r.table).
		Where(eq(colTrackingCode, code.String())).
		Updates(outcomeAssignments(outcome))
	if result.Error != nil {
		return false, fmt.Errorf("failed to apply delivery outcome for %s: %w", code, result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetByTrackingCode retrieves the order carrying code.
func (r *GormOrderRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*order.Order, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where(eq(colTrackingCode, code.String())).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", code.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
