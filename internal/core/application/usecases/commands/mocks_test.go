package commands_test

import (
	"context"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/tracking"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) SelectEligibleOrders(
	ctx context.Context,
	method order.DeliveryMethod,
) ([]order.EligibleOrder, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.EligibleOrder), args.Error(1)
}

func (m *MockOrderRepository) MarkCODConfirmed(ctx context.Context, code kernel.TrackingCode) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ApplyDeliveryOutcome(
	ctx context.Context,
	code kernel.TrackingCode,
	outcome order.DeliveryOutcome,
) (bool, error) {
	args := m.Called(ctx, code, outcome)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockTrackingProvider struct {
	mock.Mock

	name   string
	method order.DeliveryMethod
}

func NewMockTrackingProvider(name string, method order.DeliveryMethod) *MockTrackingProvider {
	return &MockTrackingProvider{name: name, method: method}
}

func (m *MockTrackingProvider) Name() string {
	return m.name
}

func (m *MockTrackingProvider) DeliveryMethod() order.DeliveryMethod {
	return m.method
}

func (m *MockTrackingProvider) FetchTrackingStatus(
	ctx context.Context,
	code kernel.TrackingCode,
) (tracking.DeliveryEvent, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(tracking.DeliveryEvent), args.Error(1)
}

func (m *MockTrackingProvider) FetchCODSettlements(ctx context.Context, asOf time.Time) ([]tracking.CODSettlement, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tracking.CODSettlement), args.Error(1)
}
