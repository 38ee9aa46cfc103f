// Package orderrepo persists the reconciler's view of orders with GORM.
//
// The orders table belongs to the order-management subsystem and keeps its
// legacy column names. The repository works against MySQL and PostgreSQL; the
// table name is configurable.
package orderrepo

import (
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
)

// DefaultTable is the legacy name of the orders table.
const DefaultTable = "app_orders"

// Column names are quoted by the dialect. On PostgreSQL "or_postID" therefore
// only matches a column created with that exact mixed-case quoted name; a
// legacy table created without quotes folds it to or_postid and must be
// migrated (ALTER TABLE ... RENAME COLUMN or_postid TO "or_postID") before
// the reconciler can run against it. The other columns are lowercase and
// match either way. MySQL column names are case-insensitive.
const (
	colID             = "or_id"
	colTrackingCode   = "or_postID"
	colStatus         = "or_status"
	colDeliveryMethod = "or_deliverymethod"
	colPaymentMethod  = "or_paymethod"
	colPaymentStatus  = "or_pay_status"
	colDeliveryDate   = "or_delivery_date"
	colConsignee      = "or_delivery_consignee"
)

// OrderDTO maps the columns of the orders table the reconciler reads or writes.
// Other columns of the table are left alone.
type OrderDTO struct {
	ID             int64      `gorm:"column:or_id;primaryKey;autoIncrement"`
	TrackingCode   string     `gorm:"column:or_postID;size:64;index"`
	Status         int        `gorm:"column:or_status"`
	DeliveryMethod int        `gorm:"column:or_deliverymethod"`
	PaymentMethod  int        `gorm:"column:or_paymethod"`
	PaymentStatus  int        `gorm:"column:or_pay_status"`
	DeliveryDate   *time.Time `gorm:"column:or_delivery_date;type:date"`
	Consignee      *string    `gorm:"column:or_delivery_consignee;size:255"`
}

// TableName is used by migrations in tests; the repository always names its
// table explicitly.
func (OrderDTO) TableName() string {
	return DefaultTable
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	code, err := kernel.NewTrackingCode(dto.TrackingCode)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		dto.ID,
		code,
		order.DeliveryMethod(dto.DeliveryMethod),
		order.PaymentMethod(dto.PaymentMethod),
		order.Status(dto.Status),
		order.PaymentStatus(dto.PaymentStatus),
		dto.DeliveryDate,
		dto.Consignee,
	)
}

// outcomeAssignments lists the column updates for a delivery outcome. Nil
// date or consignee clear the column.
func outcomeAssignments(outcome order.DeliveryOutcome) map[string]any {
	var deliveryDate any
	if d := outcome.DeliveryDate(); d != nil {
		deliveryDate = *d
	}

	var consignee any
	if c := outcome.Consignee(); c != nil {
		consignee = *c
	}

	return map[string]any{
		colPaymentStatus: int(outcome.PaymentStatus()),
		colDeliveryDate:  deliveryDate,
		colConsignee:     consignee,
	}
}
