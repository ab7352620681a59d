package stock

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryType represents the type of a ledger entry
type EntryType string

const (
	// EntryTypeInbound represents stock received into a batch
	EntryTypeInbound EntryType = "INBOUND"
	// EntryTypeSale represents stock sold from a batch
	EntryTypeSale EntryType = "SALE"
	// EntryTypeReturnIn represents stock returned by a customer (credit)
	EntryTypeReturnIn EntryType = "RETURN_IN"
	// EntryTypeReturnOut represents stock returned to a supplier (debit)
	EntryTypeReturnOut EntryType = "RETURN_OUT"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeInbound, EntryTypeSale, EntryTypeReturnIn, EntryTypeReturnOut:
		return true
	}
	return false
}

// IsCredit returns true if this entry type increases the batch quantity
func (t EntryType) IsCredit() bool {
	return t == EntryTypeInbound || t == EntryTypeReturnIn
}

// IsDebit returns true if this entry type decreases the batch quantity
func (t EntryType) IsDebit() bool {
	return t == EntryTypeSale || t == EntryTypeReturnOut
}

// EntryStatus represents the lifecycle status of a ledger entry
type EntryStatus string

const (
	// EntryStatusCompleted is the terminal status for non-sale entries
	EntryStatusCompleted EntryStatus = "COMPLETED"
	// EntryStatusPending marks a sale awaiting approval or decline
	EntryStatusPending EntryStatus = "PENDING"
	// EntryStatusApproved is the terminal status of an approved sale
	EntryStatusApproved EntryStatus = "APPROVED"
	// EntryStatusDeclined is the terminal status of a declined sale
	EntryStatusDeclined EntryStatus = "DECLINED"
)

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// LedgerEntry is an immutable record of one quantity-affecting event against
// a batch. Only sale entries change after creation, and only their status and
// notes (pending -> approved or pending -> declined).
type LedgerEntry struct {
	shared.BaseEntity
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_batch"`
	Type            EntryType       `gorm:"type:varchar(20);not null;index:idx_ledger_type"`
	Quantity        int64           `gorm:"not null"` // always positive, direction determined by type
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status          EntryStatus     `gorm:"type:varchar(20);not null;index:idx_ledger_status"`
	UserID          *uuid.UUID      `gorm:"type:uuid"` // nulled if the user is later removed
	Notes           string          `gorm:"type:varchar(500)"`
	FromLocationID  *uuid.UUID      `gorm:"type:uuid"`
	ToLocationID    *uuid.UUID      `gorm:"type:uuid"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index:idx_ledger_date"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewLedgerEntry creates a new ledger entry. Sale entries start pending,
// all other types complete immediately.
func NewLedgerEntry(
	batchID uuid.UUID,
	entryType EntryType,
	quantity int64,
	unitPrice decimal.Decimal,
	userID *uuid.UUID,
	notes string,
) (*LedgerEntry, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Batch ID cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("BAD_REQUEST", fmt.Sprintf("Invalid entry type %q", entryType))
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("BAD_REQUEST", "Quantity must be a positive integer")
	}

	status := EntryStatusCompleted
	if entryType == EntryTypeSale {
		status = EntryStatusPending
	}

	entry := &LedgerEntry{
		BaseEntity:      shared.NewBaseEntity(),
		BatchID:         batchID,
		Type:            entryType,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Status:          status,
		UserID:          userID,
		Notes:           notes,
		TransactionDate: time.Now(),
	}

	return entry, nil
}

// WithLocations sets the optional from/to location references
func (e *LedgerEntry) WithLocations(from, to *uuid.UUID) *LedgerEntry {
	e.FromLocationID = from
	e.ToLocationID = to
	return e
}

// SignedQuantity returns the quantity with sign based on the entry type
func (e *LedgerEntry) SignedQuantity() int64 {
	if e.Type.IsDebit() {
		return -e.Quantity
	}
	return e.Quantity
}

// IsPending returns true if the entry awaits approval or decline
func (e *LedgerEntry) IsPending() bool {
	return e.Status == EntryStatusPending
}

// Approve transitions a pending sale to approved. Any other entry is rejected.
func (e *LedgerEntry) Approve(notes string) error {
	if e.Type != EntryTypeSale {
		return shared.NewDomainError("BAD_REQUEST",
			fmt.Sprintf("Only sale entries can be approved, entry is %s", e.Type))
	}
	if e.Status != EntryStatusPending {
		return shared.NewDomainError("BAD_REQUEST",
			fmt.Sprintf("Sale cannot be approved: status is %s, expected %s", e.Status, EntryStatusPending))
	}
	e.Status = EntryStatusApproved
	e.appendNotes(notes)
	e.Touch()
	return nil
}

// Decline transitions a pending sale to declined. The reason is required and
// appended to the entry notes.
func (e *LedgerEntry) Decline(reason string) error {
	if e.Type != EntryTypeSale {
		return shared.NewDomainError("BAD_REQUEST",
			fmt.Sprintf("Only sale entries can be declined, entry is %s", e.Type))
	}
	if e.Status != EntryStatusPending {
		return shared.NewDomainError("BAD_REQUEST",
			fmt.Sprintf("Sale cannot be declined: status is %s, expected %s", e.Status, EntryStatusPending))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("BAD_REQUEST", "Decline reason is required")
	}
	e.Status = EntryStatusDeclined
	e.appendNotes(reason)
	e.Touch()
	return nil
}

func (e *LedgerEntry) appendNotes(notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if e.Notes == "" {
		e.Notes = notes
		return
	}
	e.Notes = e.Notes + "; " + notes
}
