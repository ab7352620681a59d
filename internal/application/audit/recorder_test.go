package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/audit"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLogRepo struct {
	mu      sync.Mutex
	entries []*audit.LogEntry
	fail    func(entry *audit.LogEntry) error
}

func (s *stubLogRepo) Create(_ context.Context, entry *audit.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		if err := s.fail(entry); err != nil {
			return err
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubLogRepo) FindByEntity(context.Context, string, uuid.UUID, shared.Filter) ([]audit.LogEntry, error) {
	return nil, nil
}

func (s *stubLogRepo) all() []*audit.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*audit.LogEntry(nil), s.entries...)
}

func recordedEvent(t *testing.T, userID *uuid.UUID) *stock.LedgerRecordedEvent {
	t.Helper()
	entry, err := stock.NewLedgerEntry(uuid.New(), stock.EntryTypeInbound, 10, decimal.NewFromInt(5), userID, "")
	require.NoError(t, err)
	return stock.NewLedgerRecordedEvent(entry, 60)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRecorder_WritesEntryForEvent(t *testing.T) {
	ctx := context.Background()
	repo := &stubLogRepo{}
	recorder := NewRecorder(repo, zap.NewNop())
	require.NoError(t, recorder.Start(ctx))
	defer func() { _ = recorder.Stop(ctx) }()

	userID := uuid.New()
	event := recordedEvent(t, &userID)
	require.NoError(t, recorder.Handle(ctx, event))

	waitFor(t, func() bool { return len(repo.all()) == 1 })

	entry := repo.all()[0]
	assert.Equal(t, "ledger_entry", entry.EntityName)
	assert.Equal(t, "ledger.record", entry.Action)
	assert.Equal(t, &userID, entry.UserID)
	assert.Contains(t, entry.Summary, "balance 60")
}

func TestRecorder_RetriesWithoutUnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := &stubLogRepo{
		fail: func(entry *audit.LogEntry) error {
			if entry.UserID != nil {
				return audit.ErrUnknownUser
			}
			return nil
		},
	}
	recorder := NewRecorder(repo, zap.NewNop())
	require.NoError(t, recorder.Start(ctx))
	defer func() { _ = recorder.Stop(ctx) }()

	userID := uuid.New()
	require.NoError(t, recorder.Handle(ctx, recordedEvent(t, &userID)))

	waitFor(t, func() bool { return len(repo.all()) == 1 })

	assert.Nil(t, repo.all()[0].UserID, "retry must clear the removed user")
}

func TestRecorder_SwallowsWriteFailures(t *testing.T) {
	ctx := context.Background()
	repo := &stubLogRepo{
		fail: func(*audit.LogEntry) error { return errors.New("connection reset") },
	}
	recorder := NewRecorder(repo, zap.NewNop())
	require.NoError(t, recorder.Start(ctx))

	err := recorder.Handle(ctx, recordedEvent(t, nil))

	assert.NoError(t, err, "audit failures must never reach the caller")
	require.NoError(t, recorder.Stop(ctx))
	assert.Empty(t, repo.all())
}

func TestRecorder_StopDrainsQueue(t *testing.T) {
	ctx := context.Background()
	repo := &stubLogRepo{}
	recorder := NewRecorder(repo, zap.NewNop())
	require.NoError(t, recorder.Start(ctx))

	for i := 0; i < 10; i++ {
		require.NoError(t, recorder.Handle(ctx, recordedEvent(t, nil)))
	}
	require.NoError(t, recorder.Stop(ctx))

	assert.Len(t, repo.all(), 10)
}

func TestRecorder_DropsWhenNotRunning(t *testing.T) {
	repo := &stubLogRepo{}
	recorder := NewRecorder(repo, zap.NewNop())

	err := recorder.Handle(context.Background(), recordedEvent(t, nil))

	assert.NoError(t, err)
	assert.Empty(t, repo.all())
}

func TestRecorder_EventTypes(t *testing.T) {
	recorder := NewRecorder(&stubLogRepo{}, zap.NewNop())

	types := recorder.EventTypes()

	assert.Contains(t, types, stock.EventTypeLedgerRecorded)
	assert.Contains(t, types, stock.EventTypeSaleApproved)
	assert.Contains(t, types, stock.EventTypeSaleDeclined)
}
