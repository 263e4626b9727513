package printing

import "time"

// EnqueueRequest stages one cheque for printing. Amount arrives as the
// raw text the operator typed, parsed defensively like every numeric
// input in the engine.
type EnqueueRequest struct {
	ActorID    int64  `json:"actor_id"`
	PurchaseID *int64 `json:"purchase_id,omitempty"`
	PayeeName  string `json:"payee_name" validate:"required,max=120"`
	Amount     string `json:"amount" validate:"required"`
	ChequeDate string `json:"cheque_date" validate:"required"`
	IsACPayee  bool   `json:"is_ac_payee"`
	BookID     int64  `json:"book_id" validate:"required,gt=0"`
	BankName   string `json:"bank_name" validate:"required,max=60"`
}

// RecordOutcomeRequest reports the result of a print attempt back from
// the printing collaborator.
type RecordOutcomeRequest struct {
	UserID      int64       `json:"user_id"`
	QueueItemID int64       `json:"queue_item_id" validate:"required,gt=0"`
	LeafNumber  int64       `json:"leaf_number" validate:"required,gt=0"`
	Status      PrintStatus `json:"status" validate:"required"`
	Remarks     string      `json:"remarks" validate:"max=500"`
}

// LedgerQuery filters the read-only reporting surface.
type LedgerQuery struct {
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	VendorID   int64      `json:"vendor_id"`
	AmountMin  string     `json:"amount_min"`
	AmountMax  string     `json:"amount_max"`
	IssuedOnly bool       `json:"issued_only"`
	Page       int        `json:"page" validate:"gte=0"`
}
