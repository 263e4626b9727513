package vendors

import (
	"errors"
	"time"
)

// NewVendorSentinel is the id the UI collaborator sends when the operator
// typed a vendor name that does not exist yet. A purchase may never be
// saved against it; the vendor has to be created first.
const NewVendorSentinel int64 = -1

// Vendor is a party the business buys from and writes cheques to.
type Vendor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Village   string    `json:"village,omitempty"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound indicates the vendor does not exist.
	ErrNotFound = errors.New("vendors: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("vendors: invalid input")
)
