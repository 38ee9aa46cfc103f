package orderrepo_test

import (
	"database/sql/driver"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"reconciler/internal/adapters/out/sqlstore/orderrepo"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*orderrepo.GormOrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return orderrepo.NewGormOrderRepository(db, "", slog.New(slog.DiscardHandler)), mock
}

func TestGormOrderRepository_SelectEligibleOrders(t *testing.T) {
	repo, mock := newMockRepository(t)
	columns := []string{"or_id", "or_postID", "or_status", "or_deliverymethod", "or_paymethod", "or_pay_status"}
	dispatched, acs, unsettled := int(order.Dispatched), int(order.ACS), int(order.Unsettled)

	mock.ExpectQuery(`SELECT "or_id", ?"or_postID", ?"or_status", ?"or_deliverymethod", ?"or_paymethod", ?"or_pay_status" ` +
		`FROM "app_orders" WHERE "or_status" = \$1 AND "or_deliverymethod" = \$2 AND "or_pay_status" = \$3`).
		WithArgs(dispatched, acs, unsettled).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "V100", dispatched, acs, int(order.CashOnDelivery), unsettled).
			AddRow(2, "   ", dispatched, acs, int(order.Card), unsettled).
			AddRow(3, "V300", dispatched, acs, 99, unsettled).
			AddRow(4, "V400", dispatched, acs, int(order.Card), int(order.Returned)))

	eligible, err := repo.SelectEligibleOrders(t.Context(), order.ACS)

	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, int64(1), eligible[0].ID)
	assert.Equal(t, "V100", eligible[0].TrackingCode.String())
	assert.Equal(t, order.CashOnDelivery, eligible[0].PaymentMethod)
	assert.Equal(t, order.PaymentMethod(99), eligible[1].PaymentMethod)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_SelectEligibleOrders_DatabaseError(t *testing.T) {
	repo, mock := newMockRepository(t)
	dbErr := errors.New("connection refused")

	mock.ExpectQuery(`SELECT .* FROM "app_orders"`).WillReturnError(dbErr)

	_, err := repo.SelectEligibleOrders(t.Context(), order.Geniki)

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
}

func TestGormOrderRepository_SelectEligibleOrders_UntrackedMethod(t *testing.T) {
	repo, mock := newMockRepository(t)

	for _, method := range []order.DeliveryMethod{order.DeliveryMethodUnknown, order.StorePickup, order.OtherCourier} {
		_, err := repo.SelectEligibleOrders(t.Context(), method)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid, method.String())
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_MarkCODConfirmed(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{name: "matching order", rowsAffected: 1, want: true},
		{name: "no matching order", rowsAffected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "app_orders" SET "or_pay_status"=$1 WHERE "or_postID" = $2`)).
				WithArgs(int(order.CODConfirmedPending), "V200").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			matched, err := repo.MarkCODConfirmed(t.Context(), kernel.MustNewTrackingCode("V200"))

			require.NoError(t, err)
			assert.Equal(t, tt.want, matched)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormOrderRepository_MarkCODConfirmed_DatabaseError(t *testing.T) {
	repo, mock := newMockRepository(t)
	dbErr := errors.New("lock wait timeout exceeded")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "app_orders"`).WillReturnError(dbErr)
	mock.ExpectRollback()

	matched, err := repo.MarkCODConfirmed(t.Context(), kernel.MustNewTrackingCode("V200"))

	assert.False(t, matched)
	assert.ErrorIs(t, err, dbErr)
}

func TestGormOrderRepository_ApplyDeliveryOutcome(t *testing.T) {
	deliveredAt := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	consignee := "J. Doe"
	delivered, err := order.NewDeliveredOutcome(order.CODConfirmedPending, &deliveredAt, &consignee)
	require.NoError(t, err)

	tests := []struct {
		name    string
		outcome order.DeliveryOutcome
		args    []driver.Value
	}{
		{
			name:    "delivered writes date and consignee",
			outcome: delivered,
			args:    []driver.Value{"J. Doe", deliveredAt, int(order.CODConfirmedPending), "V100"},
		},
		{
			name:    "returned clears date and consignee",
			outcome: order.NewReturnedOutcome(),
			args:    []driver.Value{nil, nil, int(order.Returned), "V100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(
				`UPDATE "app_orders" SET "or_delivery_consignee"=$1,"or_delivery_date"=$2,"or_pay_status"=$3 `+
					`WHERE "or_postID" = $4`,
			)).
				WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			matched, err := repo.ApplyDeliveryOutcome(t.Context(), kernel.MustNewTrackingCode("V100"), tt.outcome)

			require.NoError(t, err)
			assert.True(t, matched)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormOrderRepository_ApplyDeliveryOutcome_RejectsUnconstructedOutcome(t *testing.T) {
	repo, _ := newMockRepository(t)

	_, err := repo.ApplyDeliveryOutcome(t.Context(), kernel.MustNewTrackingCode("V100"), order.DeliveryOutcome{})

	assert.ErrorIs(t, err, order.ErrDeliveryOutcomeIsNotConstructed)
}

func TestGormOrderRepository_GetByTrackingCode_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "app_orders" WHERE "or_postID" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"or_id"}))

	_, err := repo.GetByTrackingCode(t.Context(), kernel.MustNewTrackingCode("NOPE"))

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
