package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for vendors.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a vendor and returns its id.
func (r *Repository) Create(ctx context.Context, v Vendor) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vendors (name, phone, village) VALUES ($1, $2, $3) RETURNING id`,
		v.Name, v.Phone, v.Village).Scan(&id)
	return id, err
}

// Get fetches a vendor by id.
func (r *Repository) Get(ctx context.Context, id int64) (Vendor, error) {
	var v Vendor
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(phone, ''), COALESCE(village, ''), is_deleted, created_at, updated_at
		 FROM vendors WHERE id = $1`, id).
		Scan(&v.ID, &v.Name, &v.Phone, &v.Village, &v.IsDeleted, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vendor{}, ErrNotFound
		}
		return Vendor{}, err
	}
	return v, nil
}

// List returns non-deleted vendors matching the search term.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Vendor, int, error) {
	countSQL := `SELECT COUNT(*) FROM vendors WHERE NOT is_deleted`
	dataSQL := `SELECT id, name, COALESCE(phone, ''), COALESCE(village, ''), is_deleted, created_at, updated_at
		FROM vendors WHERE NOT is_deleted`
	args := []any{}
	if search != "" {
		countSQL += ` AND name ILIKE $1`
		dataSQL += ` AND name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	dataSQL += ` ORDER BY name ASC LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Phone, &v.Village, &v.IsDeleted, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// itoa converts int to string for dynamic query building.
func itoa(i int) string {
	return fmt.Sprintf("%d", i)
}
