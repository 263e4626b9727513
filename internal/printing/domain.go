package printing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PrintStatus is the recorded outcome of one print attempt.
type PrintStatus string

const (
	StatusSuccess   PrintStatus = "SUCCESS"
	StatusFailed    PrintStatus = "FAILED"
	StatusCancelled PrintStatus = "CANCELLED"
	// StatusVoid is an administrative correction entry noting that a
	// previously recorded leaf was not actually used. It is appended,
	// never written over the original row.
	StatusVoid PrintStatus = "VOID"
)

// QueueItem is one cheque staged for printing. It is transient: recording
// an outcome consumes it.
type QueueItem struct {
	ID         int64           `json:"id"`
	Token      string          `json:"token"`
	PurchaseID *int64          `json:"purchase_id,omitempty"`
	PayeeName  string          `json:"payee_name"`
	Amount     decimal.Decimal `json:"amount"`
	ChequeDate time.Time       `json:"cheque_date"`
	IsACPayee  bool            `json:"is_ac_payee"`
	BookID     int64           `json:"book_id"`
	BankName   string          `json:"bank_name"`
	// LeafNumber is stamped once the allocator has reserved a leaf for
	// this item; zero until then.
	LeafNumber int64     `json:"leaf_number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LedgerEntry is one immutable audit row tying a consumed cheque leaf to
// its print outcome. Corrections are new entries; rows are never updated.
type LedgerEntry struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	PurchaseID   *int64          `json:"purchase_id,omitempty"`
	PayeeName    string          `json:"payee_name"`
	Amount       decimal.Decimal `json:"amount"`
	ChequeNumber int64           `json:"cheque_number"`
	PrintStatus  PrintStatus     `json:"print_status"`
	Remarks      string          `json:"remarks,omitempty"`
	// VoidsEntryID links a VOID correction back to the entry it voids.
	VoidsEntryID *int64    `json:"voids_entry_id,omitempty"`
	PrintedAt    time.Time `json:"printed_at"`
}

var (
	// ErrDuplicateLedger means a SUCCESS entry already exists for the
	// leaf; recording again would double-book a physical cheque.
	ErrDuplicateLedger = errors.New("printing: leaf already recorded as printed")
	// ErrNotFound indicates a missing queue item or ledger entry.
	ErrNotFound = errors.New("printing: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("printing: invalid input")
)

// knownOutcome reports whether a status may be recorded by the caller.
// VOID is excluded: it only enters through the void operation.
func knownOutcome(s PrintStatus) bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}
