package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/notification"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
	"github.com/stretchr/testify/mock"
)

type mockBatchRepo struct {
	mock.Mock
}

func (m *mockBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Batch), args.Error(1)
}

func (m *mockBatchRepo) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Batch, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Batch), args.Error(1)
}

func (m *mockBatchRepo) FindByDrug(ctx context.Context, drugID uuid.UUID, filter shared.Filter) ([]stock.Batch, error) {
	args := m.Called(ctx, drugID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Batch), args.Error(1)
}

func (m *mockBatchRepo) FindExpiringWithin(ctx context.Context, withinDays int) ([]stock.Batch, error) {
	args := m.Called(ctx, withinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Batch), args.Error(1)
}

func (m *mockBatchRepo) FindExpiredWithStock(ctx context.Context) ([]stock.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Batch), args.Error(1)
}

func (m *mockBatchRepo) Create(ctx context.Context, batch *stock.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *mockBatchRepo) Save(ctx context.Context, batch *stock.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *mockBatchRepo) ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*stock.Batch, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Batch), args.Error(1)
}

func (m *mockBatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBatchRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.LedgerEntry), args.Error(1)
}

func (m *mockLedgerRepo) FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]stock.LedgerEntry, error) {
	args := m.Called(ctx, batchID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.LedgerEntry), args.Error(1)
}

func (m *mockLedgerRepo) FindPendingSales(ctx context.Context, filter shared.Filter) ([]stock.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.LedgerEntry), args.Error(1)
}

func (m *mockLedgerRepo) Create(ctx context.Context, entry *stock.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockLedgerRepo) UpdateStatus(ctx context.Context, entry *stock.LedgerEntry, previous stock.EntryStatus) error {
	args := m.Called(ctx, entry, previous)
	return args.Error(0)
}

func (m *mockLedgerRepo) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

type mockLocationRepo struct {
	mock.Mock
}

func (m *mockLocationRepo) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]stock.BatchLocation, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.BatchLocation), args.Error(1)
}

func (m *mockLocationRepo) Create(ctx context.Context, loc *stock.BatchLocation) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *mockLocationRepo) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

type mockPOItemRepo struct {
	mock.Mock
}

func (m *mockPOItemRepo) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *mockNotificationRepo) FindUnread(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *mockNotificationRepo) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *mockNotificationRepo) HasUnread(ctx context.Context, ntype notification.Type, entityName string, entityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ntype, entityName, entityID)
	return args.Bool(0), args.Error(1)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepo) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkReadByEntity(ctx context.Context, ntype notification.Type, entityName string, entityID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ntype, entityName, entityID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) EvaluateBatch(ctx context.Context, batchID uuid.UUID) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

var _ stock.BatchRepository = (*mockBatchRepo)(nil)
var _ stock.LedgerEntryRepository = (*mockLedgerRepo)(nil)
var _ stock.BatchLocationRepository = (*mockLocationRepo)(nil)
var _ stock.PurchaseOrderItemRepository = (*mockPOItemRepo)(nil)
var _ notification.Repository = (*mockNotificationRepo)(nil)
var _ shared.EventPublisher = (*mockPublisher)(nil)
var _ BatchEvaluator = (*mockEvaluator)(nil)
