package purchases

import "time"

// SavePurchaseRequest carries one purchase entry from the UI collaborator.
// Numeric fields arrive as the raw text the operator typed; they are
// parsed defensively and unparseable text becomes zero, which validation
// then rejects where zero is not allowed.
type SavePurchaseRequest struct {
	ID        int64  `json:"id"`
	ActorID   int64  `json:"actor_id"`
	EntryDate string `json:"entry_date" validate:"required"`
	VendorID  int64  `json:"vendor_id" validate:"required"`
	Bags      string `json:"bags"`
	Rate      string `json:"rate"`
	WeightKg  string `json:"weight_kg"`
	IsLumpsum bool   `json:"is_lumpsum"`

	MarketFeeComponents []FeeComponentRequest `json:"market_fee_components" validate:"dive"`
	CommissionPct       string                `json:"commission_pct"`

	PaymentMode string `json:"payment_mode"`
	AdvancePaid bool   `json:"advance_paid"`

	// Operator-typed fee amounts; honoured only while AdvancePaid is set.
	OverrideMarketFee     *string `json:"override_market_fee,omitempty"`
	OverrideCommissionFee *string `json:"override_commission_fee,omitempty"`
}

// FeeComponentRequest is one named market fee slice.
type FeeComponentRequest struct {
	Name    string `json:"name" validate:"required,max=50"`
	Percent string `json:"percent"`
}

// ListPurchasesRequest filters the purchase listing.
type ListPurchasesRequest struct {
	VendorID       int64      `json:"vendor_id"`
	DateFrom       *time.Time `json:"date_from,omitempty"`
	DateTo         *time.Time `json:"date_to,omitempty"`
	IncludeDeleted bool       `json:"include_deleted"`
	Page           int        `json:"page" validate:"gte=0"`
}
