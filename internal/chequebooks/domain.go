package chequebooks

import (
	"errors"
	"time"
)

// Book is one physical cheque book: a contiguous, pre-printed range of
// leaf numbers. NextNumber is owned by this package and moves in exactly
// one direction; nothing ever decrements it.
type Book struct {
	ID          int64     `json:"id"`
	BookName    string    `json:"book_name"`
	BankName    string    `json:"bank_name"`
	StartNumber int64     `json:"start_number"`
	EndNumber   int64     `json:"end_number"`
	NextNumber  int64     `json:"next_number"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Exhausted reports whether every leaf in the book has been handed out.
func (b Book) Exhausted() bool {
	return b.NextNumber > b.EndNumber
}

// RemainingLeaves counts leaves still available for allocation.
func (b Book) RemainingLeaves() int64 {
	if b.Exhausted() {
		return 0
	}
	return b.EndNumber - b.NextNumber + 1
}

var (
	// ErrBookExhausted means no leaves remain; the operator has to
	// register a fresh book.
	ErrBookExhausted = errors.New("chequebooks: book exhausted")
	// ErrNotFound indicates the book does not exist.
	ErrNotFound = errors.New("chequebooks: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("chequebooks: invalid input")
)
