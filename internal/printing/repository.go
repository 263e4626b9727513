package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khata-erp/khata-erp/internal/chequebooks"
	"github.com/khata-erp/khata-erp/internal/money"
	"github.com/khata-erp/khata-erp/internal/platform/db"
)

// uniqueViolation is the PostgreSQL error code raised by the partial
// unique index on (cheque_number) WHERE print_status = 'SUCCESS'.
const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for the print queue
// and the ledger.
type Repository struct {
	pool *pgxpool.Pool
	// timeout bounds the reserve-and-record transactions; a timed-out
	// claim rolls the counter increment and the stamp back together.
	timeout time.Duration
}

// NewRepository constructs a repository. A zero timeout leaves
// transaction deadlines to the caller's context.
func NewRepository(pool *pgxpool.Pool, timeout time.Duration) *Repository {
	return &Repository{pool: pool, timeout: timeout}
}

func (r *Repository) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// CreateQueueItem stages a cheque.
func (r *Repository) CreateQueueItem(ctx context.Context, item QueueItem) (int64, error) {
	var purchaseID pgtype.Int8
	if item.PurchaseID != nil {
		purchaseID = pgtype.Int8{Int64: *item.PurchaseID, Valid: true}
	}
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO print_queue
		(token, purchase_id, payee_name, amount, cheque_date, is_ac_payee, book_id, bank_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		item.Token, purchaseID, item.PayeeName, db.DecimalToNumeric(item.Amount),
		item.ChequeDate, item.IsACPayee, item.BookID, item.BankName).Scan(&id)
	return id, err
}

// GetQueueItem fetches a staged cheque by id.
func (r *Repository) GetQueueItem(ctx context.Context, id int64) (QueueItem, error) {
	return scanQueueItem(r.pool.QueryRow(ctx, `SELECT id, token, purchase_id, payee_name,
		amount, cheque_date, is_ac_payee, book_id, bank_name, leaf_number, created_at
		FROM print_queue WHERE id = $1`, id))
}

// ClaimLeaf reserves the next leaf of the item's book and stamps it on
// the queue item in one transaction. Claiming an already-claimed item
// returns its existing leaf, so a retried print job never burns a second
// leaf.
func (r *Repository) ClaimLeaf(ctx context.Context, queueItemID int64) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var leaf int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var bookID int64
		err := tx.QueryRow(ctx, `SELECT book_id, leaf_number FROM print_queue
			WHERE id = $1 FOR UPDATE`, queueItemID).Scan(&bookID, &leaf)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if leaf > 0 {
			return nil
		}
		leaf, err = chequebooks.ReserveLeaf(ctx, tx, bookID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE print_queue SET leaf_number = $2 WHERE id = $1`, queueItemID, leaf)
		return err
	})
	if err != nil {
		return 0, err
	}
	return leaf, nil
}

// AppendOutcome inserts one immutable ledger row and consumes the queue
// item, both in the same transaction.
func (r *Repository) AppendOutcome(ctx context.Context, entry LedgerEntry, queueItemID int64) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertLedgerEntry(ctx, tx, entry, &id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM print_queue WHERE id = $1`, queueItemID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// AppendVoid inserts a VOID correction entry.
func (r *Repository) AppendVoid(ctx context.Context, entry LedgerEntry) (int64, error) {
	var id int64
	if err := insertLedgerEntry(ctx, r.pool, entry, &id); err != nil {
		return 0, err
	}
	return id, nil
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertLedgerEntry(ctx context.Context, q execQuerier, entry LedgerEntry, id *int64) error {
	var purchaseID pgtype.Int8
	if entry.PurchaseID != nil {
		purchaseID = pgtype.Int8{Int64: *entry.PurchaseID, Valid: true}
	}
	var voids pgtype.Int8
	if entry.VoidsEntryID != nil {
		voids = pgtype.Int8{Int64: *entry.VoidsEntryID, Valid: true}
	}
	err := q.QueryRow(ctx, `INSERT INTO print_ledger
		(user_id, purchase_id, payee_name, amount, cheque_number, print_status, remarks, voids_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		entry.UserID, purchaseID, entry.PayeeName, db.DecimalToNumeric(entry.Amount),
		entry.ChequeNumber, string(entry.PrintStatus), entry.Remarks, voids).Scan(id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateLedger
		}
		return err
	}
	return nil
}

// GetLedgerEntry fetches one ledger row.
func (r *Repository) GetLedgerEntry(ctx context.Context, id int64) (LedgerEntry, error) {
	return scanLedgerEntry(r.pool.QueryRow(ctx, `SELECT id, user_id, purchase_id, payee_name,
		amount, cheque_number, print_status, remarks, voids_entry_id, printed_at
		FROM print_ledger WHERE id = $1`, id))
}

// ListLedger returns ledger rows matching the query, newest first.
func (r *Repository) ListLedger(ctx context.Context, q LedgerQuery, limit, offset int) ([]LedgerEntry, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if q.DateFrom != nil {
		where += ` AND l.printed_at >= $` + itoa(argNum)
		args = append(args, *q.DateFrom)
		argNum++
	}
	if q.DateTo != nil {
		where += ` AND l.printed_at <= $` + itoa(argNum)
		args = append(args, *q.DateTo)
		argNum++
	}
	if q.VendorID > 0 {
		where += ` AND EXISTS (SELECT 1 FROM purchase_entries pe WHERE pe.id = l.purchase_id AND pe.vendor_id = $` + itoa(argNum) + `)`
		args = append(args, q.VendorID)
		argNum++
	}
	if min := money.ParseAmount(q.AmountMin); min.IsPositive() {
		where += ` AND l.amount >= $` + itoa(argNum)
		args = append(args, db.DecimalToNumeric(min))
		argNum++
	}
	if max := money.ParseAmount(q.AmountMax); max.IsPositive() {
		where += ` AND l.amount <= $` + itoa(argNum)
		args = append(args, db.DecimalToNumeric(max))
		argNum++
	}
	if q.IssuedOnly {
		where += ` AND l.print_status = 'SUCCESS'`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM print_ledger l`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT l.id, l.user_id, l.purchase_id, l.payee_name, l.amount,
		l.cheque_number, l.print_status, l.remarks, l.voids_entry_id, l.printed_at
		FROM print_ledger l` + where +
		` ORDER BY l.printed_at DESC, l.id DESC LIMIT $` + itoa(argNum) + ` OFFSET $` + itoa(argNum+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func scanQueueItem(row pgx.Row) (QueueItem, error) {
	var (
		item       QueueItem
		purchaseID pgtype.Int8
		amount     pgtype.Numeric
	)
	err := row.Scan(&item.ID, &item.Token, &purchaseID, &item.PayeeName, &amount,
		&item.ChequeDate, &item.IsACPayee, &item.BookID, &item.BankName,
		&item.LeafNumber, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QueueItem{}, ErrNotFound
		}
		return QueueItem{}, err
	}
	if purchaseID.Valid {
		item.PurchaseID = &purchaseID.Int64
	}
	item.Amount = db.NumericToDecimal(amount)
	return item, nil
}

func scanLedgerEntry(row pgx.Row) (LedgerEntry, error) {
	var (
		entry      LedgerEntry
		purchaseID pgtype.Int8
		voids      pgtype.Int8
		amount     pgtype.Numeric
		status     string
	)
	err := row.Scan(&entry.ID, &entry.UserID, &purchaseID, &entry.PayeeName, &amount,
		&entry.ChequeNumber, &status, &entry.Remarks, &voids, &entry.PrintedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LedgerEntry{}, ErrNotFound
		}
		return LedgerEntry{}, err
	}
	if purchaseID.Valid {
		entry.PurchaseID = &purchaseID.Int64
	}
	if voids.Valid {
		entry.VoidsEntryID = &voids.Int64
	}
	entry.Amount = db.NumericToDecimal(amount)
	entry.PrintStatus = PrintStatus(status)
	return entry, nil
}

// itoa converts int to string for dynamic query building.
func itoa(i int) string {
	return fmt.Sprintf("%d", i)
}
