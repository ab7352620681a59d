package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/notification"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
)

// In-memory repository fakes backing the handler tests

type memBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*stock.Batch
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[uuid.UUID]*stock.Batch)}
}

func (m *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.batches[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memBatchRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]stock.Batch, 0, len(m.batches))
	for _, b := range m.batches {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBatchRepo) FindByDrug(_ context.Context, drugID uuid.UUID, _ shared.Filter) ([]stock.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []stock.Batch
	for _, b := range m.batches {
		if b.DrugID == drugID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBatchRepo) FindExpiringWithin(_ context.Context, withinDays int) ([]stock.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	threshold := now.AddDate(0, 0, withinDays)
	var out []stock.Batch
	for _, b := range m.batches {
		if b.ExpiryDate.After(now) && !b.ExpiryDate.After(threshold) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBatchRepo) FindExpiredWithStock(_ context.Context) ([]stock.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []stock.Batch
	for _, b := range m.batches {
		if !b.ExpiryDate.After(time.Now()) && b.CurrentQty > 0 {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBatchRepo) Create(_ context.Context, batch *stock.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *batch
	m.batches[batch.ID] = &copied
	return nil
}

func (m *memBatchRepo) Save(_ context.Context, batch *stock.Batch) error {
	return m.Create(context.Background(), batch)
}

func (m *memBatchRepo) ApplyDelta(_ context.Context, id uuid.UUID, delta int64) (*stock.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if b.CurrentQty+delta < 0 {
		return nil, shared.ErrInsufficientStock
	}
	b.CurrentQty += delta
	b.Version++
	copied := *b
	return &copied, nil
}

func (m *memBatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.batches[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.batches, id)
	return nil
}

func (m *memBatchRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.batches)), nil
}

var _ stock.BatchRepository = (*memBatchRepo)(nil)

type memLedgerRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*stock.LedgerEntry
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{entries: make(map[uuid.UUID]*stock.LedgerEntry)}
}

func (m *memLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memLedgerRepo) FindByBatch(_ context.Context, batchID uuid.UUID, _ shared.Filter) ([]stock.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []stock.LedgerEntry
	for _, e := range m.entries {
		if e.BatchID == batchID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memLedgerRepo) FindPendingSales(_ context.Context, _ shared.Filter) ([]stock.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []stock.LedgerEntry
	for _, e := range m.entries {
		if e.Type == stock.EntryTypeSale && e.Status == stock.EntryStatusPending {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memLedgerRepo) Create(_ context.Context, entry *stock.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *memLedgerRepo) UpdateStatus(_ context.Context, entry *stock.LedgerEntry, previous stock.EntryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.entries[entry.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != previous {
		return shared.ErrConcurrencyConflict
	}
	stored.Status = entry.Status
	stored.Notes = entry.Notes
	return nil
}

func (m *memLedgerRepo) CountByBatch(_ context.Context, batchID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, e := range m.entries {
		if e.BatchID == batchID {
			count++
		}
	}
	return count, nil
}

var _ stock.LedgerEntryRepository = (*memLedgerRepo)(nil)

type memLocationRepo struct {
	counts map[uuid.UUID]int64
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{counts: make(map[uuid.UUID]int64)}
}

func (m *memLocationRepo) FindByBatch(_ context.Context, _ uuid.UUID) ([]stock.BatchLocation, error) {
	return nil, nil
}

func (m *memLocationRepo) Create(_ context.Context, loc *stock.BatchLocation) error {
	m.counts[loc.BatchID]++
	return nil
}

func (m *memLocationRepo) CountByBatch(_ context.Context, batchID uuid.UUID) (int64, error) {
	return m.counts[batchID], nil
}

var _ stock.BatchLocationRepository = (*memLocationRepo)(nil)

type memPOItemRepo struct {
	counts map[uuid.UUID]int64
}

func newMemPOItemRepo() *memPOItemRepo {
	return &memPOItemRepo{counts: make(map[uuid.UUID]int64)}
}

func (m *memPOItemRepo) CountByBatch(_ context.Context, batchID uuid.UUID) (int64, error) {
	return m.counts[batchID], nil
}

var _ stock.PurchaseOrderItemRepository = (*memPOItemRepo)(nil)

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*notification.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[uuid.UUID]*notification.Notification)}
}

func (m *memNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notifications[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memNotificationRepo) FindUnread(_ context.Context, _ shared.Filter) ([]notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notification.Notification
	for _, n := range m.notifications {
		if !n.Read {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memNotificationRepo) FindAll(_ context.Context, _ shared.Filter) ([]notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notification.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, *n)
	}
	return out, nil
}

func (m *memNotificationRepo) HasUnread(_ context.Context, ntype notification.Type, entityName string, entityID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if !n.Read && n.Type == ntype && n.EntityName == entityName && n.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *n
	m.notifications[n.ID] = &copied
	return nil
}

func (m *memNotificationRepo) Save(_ context.Context, n *notification.Notification) error {
	return m.Create(context.Background(), n)
}

func (m *memNotificationRepo) MarkReadByEntity(_ context.Context, ntype notification.Type, entityName string, entityID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var affected int64
	for _, n := range m.notifications {
		if !n.Read && n.Type == ntype && n.EntityName == entityName && n.EntityID == entityID {
			n.MarkRead()
			affected++
		}
	}
	return affected, nil
}

func (m *memNotificationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.notifications)), nil
}

var _ notification.Repository = (*memNotificationRepo)(nil)
