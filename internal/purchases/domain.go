package purchases

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khata-erp/khata-erp/internal/money"
)

// Payment modes accepted on a purchase entry.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "CASH"
	PaymentCheque       PaymentMode = "CHEQUE"
	PaymentBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentUPI          PaymentMode = "UPI"
	PaymentAdvance      PaymentMode = "ADVANCE"
)

// FeeComponent is one named slice of the market fee. The market fee
// percentage is always the sum of its components and is never set
// independently.
type FeeComponent struct {
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
}

// Purchase is one purchase transaction. Computed amounts are owned by this
// package exclusively; nothing else writes them.
type Purchase struct {
	ID        int64           `json:"id"`
	EntryDate time.Time       `json:"entry_date"`
	VendorID  int64           `json:"vendor_id"`
	Bags      int64           `json:"bags"`
	Rate      decimal.Decimal `json:"rate"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	IsLumpsum bool            `json:"is_lumpsum"`

	MarketFeeComponents []FeeComponent  `json:"market_fee_components,omitempty"`
	CommissionPct       decimal.Decimal `json:"commission_pct"`

	BaseAmount          decimal.Decimal `json:"base_amount"`
	MarketFeeAmount     decimal.Decimal `json:"market_fee_amount"`
	CommissionFeeAmount decimal.Decimal `json:"commission_fee_amount"`
	GrandTotal          decimal.Decimal `json:"grand_total"`

	PaymentMode PaymentMode `json:"payment_mode"`
	AdvancePaid bool        `json:"advance_paid"`
	// FeeOverride marks fee amounts the operator typed in by hand while
	// advance was paid. Once set it survives every recomputation; the only
	// way back is clearing AdvancePaid.
	FeeOverride bool `json:"fee_override"`

	Status    string    `json:"status"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound indicates record missing.
	ErrNotFound = errors.New("purchases: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("purchases: invalid input")
)

// MarketFeePct returns the derived market fee percentage.
func (p *Purchase) MarketFeePct() decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.MarketFeeComponents {
		total = total.Add(c.Percent)
	}
	return total
}

// Validate checks the entry before save. It never mutates the purchase.
func (p *Purchase) Validate() error {
	var problems []string
	if p.EntryDate.IsZero() {
		problems = append(problems, "entry date is required")
	}
	if p.VendorID <= 0 {
		problems = append(problems, "vendor must be selected")
	}
	if p.Bags <= 0 {
		problems = append(problems, "bags must be greater than zero")
	}
	if !p.Rate.IsPositive() {
		problems = append(problems, "rate must be greater than zero")
	}
	if !p.IsLumpsum && !p.WeightKg.IsPositive() {
		problems = append(problems, "weight must be greater than zero")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidationError carries the human-readable messages the UI surfaces
// next to the offending fields.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "purchases: invalid input: " + strings.Join(e.Problems, "; ")
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Recompute derives every computed amount and the status from current
// inputs. It is the single recalculation entry point: the UI calls it
// after each field change instead of relying on cascading listeners.
func (p *Purchase) Recompute() {
	p.BaseAmount = money.Base(p.IsLumpsum, p.Bags, p.WeightKg, p.Rate)

	switch {
	case p.AdvancePaid && !p.FeeOverride:
		// Advance settles the fees; the operator may still override by hand.
		p.MarketFeeAmount = decimal.Zero
		p.CommissionFeeAmount = decimal.Zero
	case p.AdvancePaid && p.FeeOverride:
		// Keep whatever the operator entered.
	default:
		p.MarketFeeAmount = money.Fee(p.BaseAmount, p.MarketFeePct())
		p.CommissionFeeAmount = money.Fee(p.BaseAmount, p.CommissionPct)
	}

	p.GrandTotal = money.GrandTotal(p.BaseAmount, p.MarketFeeAmount, p.CommissionFeeAmount)
	p.Status = DeriveStatus(p.AdvancePaid, string(p.PaymentMode))
}

// DeriveStatus maps payment inputs to a display status. Total and
// idempotent: the same inputs always produce the same status.
func DeriveStatus(advancePaid bool, paymentMode string) string {
	if advancePaid {
		return "PAID (ADVANCE)"
	}
	mode := strings.ToUpper(strings.TrimSpace(paymentMode))
	switch PaymentMode(mode) {
	case PaymentCash, PaymentCheque, PaymentBankTransfer, PaymentUPI, PaymentAdvance:
		return "PAID (" + mode + ")"
	default:
		return "UNPAID"
	}
}
