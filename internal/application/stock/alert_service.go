package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/notification"
	"github.com/pharmstock/backend/internal/domain/stock"
	"go.uber.org/zap"
)

const batchEntityName = "batch"

// expiryScanHorizonDays is the widest look-ahead and look-back window the
// expiry scan needs to cover all alert buckets.
const expiryScanHorizonDays = 10

// nearExpirySeverities maps days-until-expiry to the severity of the
// near-expiry alert raised on that day.
var nearExpirySeverities = map[int]notification.Severity{
	10: notification.SeverityLow,
	5:  notification.SeverityLow,
	3:  notification.SeverityMedium,
	2:  notification.SeverityMedium,
	1:  notification.SeverityHigh,
}

// expiredSeverities maps days-past-expiry to the severity of the expired
// alert raised on that day. Only batches still holding stock get these.
var expiredSeverities = map[int]notification.Severity{
	0:  notification.SeverityHigh,
	1:  notification.SeverityHigh,
	2:  notification.SeverityMedium,
	3:  notification.SeverityMedium,
	5:  notification.SeverityLow,
	10: notification.SeverityLow,
}

// AlertService derives stock notifications from batch state. Quantity alerts
// are re-evaluated after every movement; expiry alerts come from the periodic
// scan. An unread notification for the same (type, entity) key suppresses a
// new one, and quantity alerts are marked read once the condition clears.
type AlertService struct {
	batchRepo        stock.BatchRepository
	notificationRepo notification.Repository
	logger           *zap.Logger
}

// NewAlertService creates an AlertService
func NewAlertService(
	batchRepo stock.BatchRepository,
	notificationRepo notification.Repository,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		batchRepo:        batchRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

var _ BatchEvaluator = (*AlertService)(nil)

// EvaluateBatch re-checks the quantity alerts of one batch.
// Out-of-stock fires at zero quantity and clears when any stock returns.
// Low-stock fires while the quantity sits in (0, threshold] and clears once
// the quantity rises above the threshold. A zero threshold disables the
// low-stock band entirely.
func (s *AlertService) EvaluateBatch(ctx context.Context, batchID uuid.UUID) error {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return err
	}

	if batch.IsOutOfStock() {
		msg := fmt.Sprintf("Batch %s is out of stock", batch.BatchNumber)
		if err := s.ensureUnread(ctx, notification.TypeOutOfStock, notification.SeverityHigh, msg, batch.ID); err != nil {
			return err
		}
	} else {
		if err := s.clear(ctx, notification.TypeOutOfStock, batch.ID); err != nil {
			return err
		}
	}

	if batch.IsBelowThreshold() {
		msg := fmt.Sprintf("Batch %s is low on stock (%d left, threshold %d)",
			batch.BatchNumber, batch.CurrentQty, batch.LowStockThreshold)
		if err := s.ensureUnread(ctx, notification.TypeLowStock, notification.SeverityMedium, msg, batch.ID); err != nil {
			return err
		}
	} else if batch.CurrentQty > batch.LowStockThreshold {
		if err := s.clear(ctx, notification.TypeLowStock, batch.ID); err != nil {
			return err
		}
	}

	return nil
}

// RunExpiryScan walks batches approaching or past their expiry date and
// raises the alerts scheduled for today. Near-expiry alerts fire at fixed
// days before expiry regardless of stock; expired alerts fire at fixed days
// after expiry only while the batch still holds units. Per-batch failures
// are logged and the scan moves on.
func (s *AlertService) RunExpiryScan(ctx context.Context) error {
	now := time.Now()

	expiring, err := s.batchRepo.FindExpiringWithin(ctx, expiryScanHorizonDays)
	if err != nil {
		return err
	}
	for i := range expiring {
		batch := &expiring[i]
		severity, ok := nearExpirySeverities[batch.DaysUntilExpiry(now)]
		if !ok {
			continue
		}
		msg := fmt.Sprintf("Batch %s expires in %d day(s) on %s",
			batch.BatchNumber, batch.DaysUntilExpiry(now), batch.ExpiryDate.Format("2006-01-02"))
		if err := s.ensureUnread(ctx, notification.TypeNearExpiry, severity, msg, batch.ID); err != nil {
			s.logger.Warn("near-expiry alert failed",
				zap.String("batch_id", batch.ID.String()),
				zap.Error(err))
		}
	}

	expired, err := s.batchRepo.FindExpiredWithStock(ctx)
	if err != nil {
		return err
	}
	for i := range expired {
		batch := &expired[i]
		daysPast := -batch.DaysUntilExpiry(now)
		severity, ok := expiredSeverities[daysPast]
		if !ok {
			continue
		}
		msg := fmt.Sprintf("Batch %s expired %d day(s) ago with %d unit(s) remaining",
			batch.BatchNumber, daysPast, batch.CurrentQty)
		if err := s.ensureUnread(ctx, notification.TypeExpired, severity, msg, batch.ID); err != nil {
			s.logger.Warn("expired alert failed",
				zap.String("batch_id", batch.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("expiry scan completed",
		zap.Int("expiring_batches", len(expiring)),
		zap.Int("expired_batches", len(expired)))
	return nil
}

// ensureUnread creates a notification unless an unread one already exists
// for the same (type, entity) key
func (s *AlertService) ensureUnread(ctx context.Context, ntype notification.Type, severity notification.Severity, message string, batchID uuid.UUID) error {
	exists, err := s.notificationRepo.HasUnread(ctx, ntype, batchEntityName, batchID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	n, err := notification.New(ntype, severity, message, batchEntityName, batchID)
	if err != nil {
		return err
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Info("stock alert raised",
		zap.String("type", ntype.String()),
		zap.String("severity", severity.String()),
		zap.String("batch_id", batchID.String()))
	return nil
}

// clear marks every unread notification for the (type, entity) key as read
func (s *AlertService) clear(ctx context.Context, ntype notification.Type, batchID uuid.UUID) error {
	cleared, err := s.notificationRepo.MarkReadByEntity(ctx, ntype, batchEntityName, batchID)
	if err != nil {
		return err
	}
	if cleared > 0 {
		s.logger.Info("stock alert cleared",
			zap.String("type", ntype.String()),
			zap.String("batch_id", batchID.String()),
			zap.Int64("count", cleared))
	}
	return nil
}
