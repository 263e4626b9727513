package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, v Vendor) (int64, error)
	Get(ctx context.Context, id int64) (Vendor, error)
	List(ctx context.Context, search string, limit, offset int) ([]Vendor, int, error)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service manages the vendor master list.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs a vendor service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// Create registers a new vendor. The UI calls this before saving any
// purchase that carries the new-vendor sentinel id.
func (s *Service) Create(ctx context.Context, actorID int64, v Vendor) (Vendor, error) {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return Vendor{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	id, err := s.repo.Create(ctx, v)
	if err != nil {
		return Vendor{}, err
	}
	v.ID = id
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "VENDOR_CREATE",
			Entity:   "vendor",
			EntityID: fmt.Sprintf("%d", id),
			Meta:     map[string]any{"name": v.Name},
		})
	}
	return v, nil
}

// Exists reports whether a vendor id refers to a stored vendor. The
// purchase service checks this before persisting an entry.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	_, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get fetches a vendor by id.
func (s *Service) Get(ctx context.Context, id int64) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, fmt.Errorf("%w: vendor id must be positive", ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns vendors for pickers and reports.
func (s *Service) List(ctx context.Context, search string, page int) ([]Vendor, shared.Pagination, error) {
	p := shared.NewPagination(page, shared.DefaultPageSize, 0)
	items, total, err := s.repo.List(ctx, search, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, shared.DefaultPageSize, total), nil
}
