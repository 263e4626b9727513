package purchases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khata-erp/khata-erp/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for purchase entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const purchaseColumns = `id, entry_date, vendor_id, bags, rate, weight_kg, is_lumpsum,
	market_fee_components, commission_pct, base_amount, market_fee_amount,
	commission_fee_amount, grand_total, payment_mode, advance_paid, fee_override,
	status, is_deleted, created_at, updated_at`

// Create inserts a purchase entry and returns its id.
func (r *Repository) Create(ctx context.Context, p Purchase) (int64, error) {
	components, err := json.Marshal(p.MarketFeeComponents)
	if err != nil {
		return 0, fmt.Errorf("purchases: marshal fee components: %w", err)
	}
	var id int64
	err = r.pool.QueryRow(ctx, `INSERT INTO purchase_entries
		(entry_date, vendor_id, bags, rate, weight_kg, is_lumpsum,
		 market_fee_components, commission_pct, base_amount, market_fee_amount,
		 commission_fee_amount, grand_total, payment_mode, advance_paid,
		 fee_override, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		p.EntryDate, p.VendorID, p.Bags,
		db.DecimalToNumeric(p.Rate), db.DecimalToNumeric(p.WeightKg), p.IsLumpsum,
		components, db.DecimalToNumeric(p.CommissionPct),
		db.DecimalToNumeric(p.BaseAmount), db.DecimalToNumeric(p.MarketFeeAmount),
		db.DecimalToNumeric(p.CommissionFeeAmount), db.DecimalToNumeric(p.GrandTotal),
		string(p.PaymentMode), p.AdvancePaid, p.FeeOverride, p.Status).Scan(&id)
	return id, err
}

// Update replaces the entry with the same id.
func (r *Repository) Update(ctx context.Context, p Purchase) error {
	components, err := json.Marshal(p.MarketFeeComponents)
	if err != nil {
		return fmt.Errorf("purchases: marshal fee components: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE purchase_entries SET
		entry_date = $2, vendor_id = $3, bags = $4, rate = $5, weight_kg = $6,
		is_lumpsum = $7, market_fee_components = $8, commission_pct = $9,
		base_amount = $10, market_fee_amount = $11, commission_fee_amount = $12,
		grand_total = $13, payment_mode = $14, advance_paid = $15,
		fee_override = $16, status = $17, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.EntryDate, p.VendorID, p.Bags,
		db.DecimalToNumeric(p.Rate), db.DecimalToNumeric(p.WeightKg), p.IsLumpsum,
		components, db.DecimalToNumeric(p.CommissionPct),
		db.DecimalToNumeric(p.BaseAmount), db.DecimalToNumeric(p.MarketFeeAmount),
		db.DecimalToNumeric(p.CommissionFeeAmount), db.DecimalToNumeric(p.GrandTotal),
		string(p.PaymentMode), p.AdvancePaid, p.FeeOverride, p.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches one entry by id, deleted rows included so the recycle bin
// can show them.
func (r *Repository) Get(ctx context.Context, id int64) (Purchase, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchase_entries WHERE id = $1`, id)
	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Purchase{}, ErrNotFound
		}
		return Purchase{}, err
	}
	return p, nil
}

// SetDeleted flips the soft-delete flag. Rows are never physically removed.
func (r *Repository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE purchase_entries SET is_deleted = $2, updated_at = NOW() WHERE id = $1`, id, deleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns entries matching the filters, newest first.
func (r *Repository) List(ctx context.Context, req ListPurchasesRequest, limit, offset int) ([]Purchase, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if !req.IncludeDeleted {
		where += ` AND NOT is_deleted`
	}
	if req.VendorID > 0 {
		where += ` AND vendor_id = $` + itoa(argNum)
		args = append(args, req.VendorID)
		argNum++
	}
	if req.DateFrom != nil {
		where += ` AND entry_date >= $` + itoa(argNum)
		args = append(args, *req.DateFrom)
		argNum++
	}
	if req.DateTo != nil {
		where += ` AND entry_date <= $` + itoa(argNum)
		args = append(args, *req.DateTo)
		argNum++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT ` + purchaseColumns + ` FROM purchase_entries` + where +
		` ORDER BY entry_date DESC, id DESC LIMIT $` + itoa(argNum) + ` OFFSET $` + itoa(argNum+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func scanPurchase(row pgx.Row) (Purchase, error) {
	var (
		p          Purchase
		rate       pgtype.Numeric
		weight     pgtype.Numeric
		commission pgtype.Numeric
		base       pgtype.Numeric
		marketFee  pgtype.Numeric
		commFee    pgtype.Numeric
		grand      pgtype.Numeric
		components []byte
		mode       string
	)
	err := row.Scan(&p.ID, &p.EntryDate, &p.VendorID, &p.Bags, &rate, &weight,
		&p.IsLumpsum, &components, &commission, &base, &marketFee, &commFee,
		&grand, &mode, &p.AdvancePaid, &p.FeeOverride, &p.Status, &p.IsDeleted,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Purchase{}, err
	}
	p.Rate = db.NumericToDecimal(rate)
	p.WeightKg = db.NumericToDecimal(weight)
	p.CommissionPct = db.NumericToDecimal(commission)
	p.BaseAmount = db.NumericToDecimal(base)
	p.MarketFeeAmount = db.NumericToDecimal(marketFee)
	p.CommissionFeeAmount = db.NumericToDecimal(commFee)
	p.GrandTotal = db.NumericToDecimal(grand)
	p.PaymentMode = PaymentMode(mode)
	if len(components) > 0 {
		if err := json.Unmarshal(components, &p.MarketFeeComponents); err != nil {
			return Purchase{}, fmt.Errorf("purchases: unmarshal fee components: %w", err)
		}
	}
	return p, nil
}

// itoa converts int to string for dynamic query building.
func itoa(i int) string {
	return fmt.Sprintf("%d", i)
}
