package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Get(ctx context.Context, bankName string) (Config, error)
	Save(ctx context.Context, cfg Config) error
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service resolves and calibrates per-bank cheque layouts.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	audit AuditPort

	// flight collapses concurrent cache misses for the same bank into a
	// single store read.
	flight singleflight.Group
}

// NewService constructs a template service.
func NewService(repo RepositoryPort, cache *Cache, audit AuditPort) *Service {
	return &Service{repo: repo, cache: cache, audit: audit}
}

// Resolve returns the layout the renderer should use for a bank: the
// stored calibration when one exists, factory defaults otherwise.
func (s *Service) Resolve(ctx context.Context, bankName string) (Config, error) {
	bankName = strings.TrimSpace(bankName)
	if bankName == "" {
		return Config{}, fmt.Errorf("%w: bank name required", ErrValidation)
	}
	if cfg, ok := s.cache.Get(ctx, bankName); ok {
		return cfg, nil
	}
	v, err, _ := s.flight.Do(bankName, func() (any, error) {
		cfg, err := s.repo.Get(ctx, bankName)
		if errors.Is(err, ErrNotFound) {
			cfg = FactoryDefaults(bankName)
		} else if err != nil {
			return Config{}, err
		}
		_ = s.cache.Set(ctx, cfg)
		return cfg, nil
	})
	if err != nil {
		return Config{}, err
	}
	return v.(Config), nil
}

// Calibrate applies millimeter offset corrections to a bank's layout and
// stores the result. This is the only write path; calibration is always
// an explicit operator action, never inferred from print results.
func (s *Service) Calibrate(ctx context.Context, actorID int64, bankName string, deltas map[string]FieldDelta) (Config, error) {
	bankName = strings.TrimSpace(bankName)
	if bankName == "" {
		return Config{}, fmt.Errorf("%w: bank name required", ErrValidation)
	}
	if len(deltas) == 0 {
		return Config{}, fmt.Errorf("%w: at least one field delta required", ErrValidation)
	}

	cfg, err := s.repo.Get(ctx, bankName)
	if errors.Is(err, ErrNotFound) {
		cfg = FactoryDefaults(bankName)
	} else if err != nil {
		return Config{}, err
	}
	cfg = cfg.clone()

	for field, delta := range deltas {
		pos, ok := cfg.Fields[field]
		if !ok {
			return Config{}, fmt.Errorf("%w: unknown field %q", ErrValidation, field)
		}
		dx, dy := delta.DX, delta.DY
		if cfg.Unit == UnitPercent {
			// Normalized layouts take their corrections scaled against
			// the standard stock size.
			dx /= StandardWidthMM
			dy /= StandardHeightMM
		}
		pos.X += dx
		pos.Y += dy
		cfg.Fields[field] = pos
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return Config{}, err
	}
	_ = s.cache.Invalidate(ctx, bankName)

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "TEMPLATE_CALIBRATE",
			Entity:   "cheque_template",
			EntityID: bankName,
			Meta:     map[string]any{"fields": len(deltas)},
		})
	}

	// Re-read so the caller sees the stored version timestamp.
	stored, err := s.repo.Get(ctx, bankName)
	if err != nil {
		return cfg, nil
	}
	return stored, nil
}
