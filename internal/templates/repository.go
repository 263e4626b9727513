package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for calibrated layouts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the stored calibration for a bank, ErrNotFound when the
// bank has never been calibrated.
func (r *Repository) Get(ctx context.Context, bankName string) (Config, error) {
	var (
		raw       []byte
		updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT config, updated_at FROM cheque_template_config WHERE bank_name = $1`,
		bankName).Scan(&raw, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Config{}, ErrNotFound
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("templates: unmarshal config: %w", err)
	}
	cfg.BankName = bankName
	cfg.UpdatedAt = updatedAt
	return cfg, nil
}

// Save upserts the calibration for a bank, versioned by updated_at.
func (r *Repository) Save(ctx context.Context, cfg Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("templates: marshal config: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO cheque_template_config (bank_name, config, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (bank_name) DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()`,
		cfg.BankName, raw)
	return err
}
