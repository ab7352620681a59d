package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pharmstock/backend/internal/domain/audit"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
	"go.uber.org/zap"
)

const defaultQueueSize = 256

// Recorder turns stock domain events into audit log entries. Entries are
// written by a background worker so the operations emitting them never wait
// on the audit store. A full queue or a failed write only logs a warning.
type Recorder struct {
	repo      audit.LogRepository
	logger    *zap.Logger
	queue     chan *audit.LogEntry
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
	queueSize int
}

// NewRecorder creates a Recorder with the default queue size
func NewRecorder(repo audit.LogRepository, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:      repo,
		logger:    logger,
		queueSize: defaultQueueSize,
	}
}

// NewRecorderWithQueueSize creates a Recorder with an explicit queue size
func NewRecorderWithQueueSize(repo audit.LogRepository, logger *zap.Logger, queueSize int) *Recorder {
	r := NewRecorder(repo, logger)
	if queueSize > 0 {
		r.queueSize = queueSize
	}
	return r
}

var _ shared.EventHandler = (*Recorder)(nil)
var _ audit.Logger = (*Recorder)(nil)

// Start launches the background writer
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}
	r.queue = make(chan *audit.LogEntry, r.queueSize)
	r.running = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for entry := range r.queue {
			r.write(ctx, entry)
		}
	}()

	r.logger.Info("audit recorder started", zap.Int("queue_size", r.queueSize))
	return nil
}

// Stop closes the queue and waits for queued entries to drain
func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	close(r.queue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EventTypes returns the stock events the recorder subscribes to
func (r *Recorder) EventTypes() []string {
	return []string{
		stock.EventTypeLedgerRecorded,
		stock.EventTypeSaleApproved,
		stock.EventTypeSaleDeclined,
		stock.EventTypeBatchCreated,
		stock.EventTypeBatchDeleted,
	}
}

// Handle converts a domain event into an audit entry and enqueues it
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry := r.entryFor(event)
	if entry == nil {
		return nil
	}
	return r.Log(ctx, entry)
}

// Log enqueues an entry for the background writer. When the queue is full
// the entry is dropped with a warning rather than blocking the caller.
func (r *Recorder) Log(_ context.Context, entry *audit.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		r.logger.Warn("audit recorder not running, entry dropped",
			zap.String("action", entry.Action))
		return nil
	}
	select {
	case r.queue <- entry:
	default:
		r.logger.Warn("audit queue full, entry dropped",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID.String()))
	}
	return nil
}

// write persists one entry. When the acting user has been removed since the
// event fired, the write is retried once with the user cleared so the trail
// keeps the action even without its actor.
func (r *Recorder) write(ctx context.Context, entry *audit.LogEntry) {
	err := r.repo.Create(ctx, entry)
	if errors.Is(err, audit.ErrUnknownUser) && entry.UserID != nil {
		entry.UserID = nil
		err = r.repo.Create(ctx, entry)
	}
	if err != nil {
		r.logger.Warn("audit write failed",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err))
	}
}

func (r *Recorder) entryFor(event shared.DomainEvent) *audit.LogEntry {
	switch e := event.(type) {
	case *stock.LedgerRecordedEvent:
		summary := fmt.Sprintf("%s of %d unit(s) recorded against batch %s, balance %d",
			e.EntryType, e.Quantity, e.BatchID, e.BalanceAfter)
		return audit.NewLogEntry("ledger_entry", e.EntryID, "ledger.record", event.ActorID(), summary)
	case *stock.SaleApprovedEvent:
		summary := fmt.Sprintf("Sale of %d unit(s) from batch %s approved", e.Quantity, e.BatchID)
		return audit.NewLogEntry("ledger_entry", e.EntryID, "sale.approve", event.ActorID(), summary)
	case *stock.SaleDeclinedEvent:
		summary := fmt.Sprintf("Sale of %d unit(s) from batch %s declined: %s", e.Quantity, e.BatchID, e.Reason)
		return audit.NewLogEntry("ledger_entry", e.EntryID, "sale.decline", event.ActorID(), summary)
	case *stock.BatchCreatedEvent:
		summary := fmt.Sprintf("Batch %s received with %d unit(s)", e.BatchNumber, e.InitialQty)
		return audit.NewLogEntry("batch", e.AggregateID(), "batch.create", event.ActorID(), summary)
	case *stock.BatchDeletedEvent:
		summary := fmt.Sprintf("Batch %s deleted", e.BatchNumber)
		return audit.NewLogEntry("batch", e.AggregateID(), "batch.delete", event.ActorID(), summary)
	}
	return nil
}
