package chequebooks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so leaf
// reservation can run standalone or inside the print flow's transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ReserveLeaf atomically consumes the next leaf of a book and returns its
// number. One UPDATE guards the whole invariant: the row is only touched
// while next_number is still within range, so two concurrent reservations
// can never observe the same value.
func ReserveLeaf(ctx context.Context, q Querier, bookID int64) (int64, error) {
	var leaf int64
	err := q.QueryRow(ctx, `UPDATE cheque_books
		SET next_number = next_number + 1, updated_at = NOW()
		WHERE id = $1 AND next_number <= end_number
		RETURNING next_number - 1`, bookID).Scan(&leaf)
	if err == nil {
		return leaf, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	// Distinguish a missing book from an exhausted one.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT TRUE FROM cheque_books WHERE id = $1`, bookID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return 0, ErrBookExhausted
}

// Repository provides PostgreSQL backed persistence for cheque books.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create registers a new book with next_number positioned at the start.
// Books are always created inactive; activation flows through SetActive
// so a bank can never gain a second active book.
func (r *Repository) Create(ctx context.Context, b Book) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO cheque_books
		(book_name, bank_name, start_number, end_number, next_number, is_active)
		VALUES ($1, $2, $3, $4, $3, FALSE) RETURNING id`,
		b.BookName, b.BankName, b.StartNumber, b.EndNumber).Scan(&id)
	return id, err
}

// Get fetches a book by id.
func (r *Repository) Get(ctx context.Context, id int64) (Book, error) {
	var b Book
	err := r.pool.QueryRow(ctx, `SELECT id, book_name, bank_name, start_number,
		end_number, next_number, is_active, created_at, updated_at
		FROM cheque_books WHERE id = $1`, id).
		Scan(&b.ID, &b.BookName, &b.BankName, &b.StartNumber, &b.EndNumber,
			&b.NextNumber, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// List returns books, optionally filtered by bank, newest first.
func (r *Repository) List(ctx context.Context, bankName string) ([]Book, error) {
	sql := `SELECT id, book_name, bank_name, start_number, end_number,
		next_number, is_active, created_at, updated_at FROM cheque_books`
	args := []any{}
	if bankName != "" {
		sql += ` WHERE bank_name = $1`
		args = append(args, bankName)
	}
	sql += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.BookName, &b.BankName, &b.StartNumber,
			&b.EndNumber, &b.NextNumber, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// ReserveNextLeaf consumes the next leaf outside any larger transaction.
func (r *Repository) ReserveNextLeaf(ctx context.Context, bookID int64) (int64, error) {
	return ReserveLeaf(ctx, r.pool, bookID)
}

// SetActive makes one book the active book for its bank, deactivating the
// rest in the same transaction.
func (r *Repository) SetActive(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var bank string
	if err := tx.QueryRow(ctx, `SELECT bank_name FROM cheque_books WHERE id = $1 FOR UPDATE`, id).Scan(&bank); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE cheque_books SET is_active = FALSE, updated_at = NOW()
		WHERE bank_name = $1 AND is_active`, bank); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE cheque_books SET is_active = TRUE, updated_at = NOW()
		WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
