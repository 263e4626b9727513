package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/khata-erp/khata-erp/internal/money"
	"github.com/khata-erp/khata-erp/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, p Purchase) (int64, error)
	Update(ctx context.Context, p Purchase) error
	Get(ctx context.Context, id int64) (Purchase, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) error
	List(ctx context.Context, req ListPurchasesRequest, limit, offset int) ([]Purchase, int, error)
}

// VendorPort verifies the vendor a purchase references.
type VendorPort interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates purchase entry lifecycle: recompute on demand,
// validate, save, soft delete, restore.
type Service struct {
	repo     RepositoryPort
	vendors  VendorPort
	audit    AuditPort
	validate *validator.Validate
}

// NewService constructs a purchase service.
func NewService(repo RepositoryPort, vendors VendorPort, audit AuditPort) *Service {
	return &Service{repo: repo, vendors: vendors, audit: audit, validate: validator.New()}
}

// Preview builds the purchase from raw input and recomputes every derived
// amount without touching storage. The UI calls this after each field
// change; it never fails on partial input.
func (s *Service) Preview(req SavePurchaseRequest) Purchase {
	p := s.fromRequest(req)
	p.Recompute()
	return p
}

// Save validates and persists a purchase entry. A failing validation
// leaves persisted state untouched. Saving with an existing id replaces
// that entry in place.
func (s *Service) Save(ctx context.Context, req SavePurchaseRequest) (Purchase, error) {
	if err := s.validate.Struct(req); err != nil {
		return Purchase{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	p := s.fromRequest(req)
	if err := p.Validate(); err != nil {
		return Purchase{}, err
	}
	if s.vendors != nil {
		ok, err := s.vendors.Exists(ctx, p.VendorID)
		if err != nil {
			return Purchase{}, err
		}
		if !ok {
			return Purchase{}, &ValidationError{Problems: []string{"vendor does not exist; create it first"}}
		}
	}
	p.Recompute()

	action := "PURCHASE_CREATE"
	if p.ID > 0 {
		existing, err := s.repo.Get(ctx, p.ID)
		if err != nil {
			return Purchase{}, err
		}
		p.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(ctx, p); err != nil {
			return Purchase{}, err
		}
		action = "PURCHASE_UPDATE"
	} else {
		id, err := s.repo.Create(ctx, p)
		if err != nil {
			return Purchase{}, err
		}
		p.ID = id
	}

	s.recordAudit(ctx, req.ActorID, action, p.ID, map[string]any{
		"vendor_id":   p.VendorID,
		"grand_total": p.GrandTotal.StringFixed(2),
	})
	return p, nil
}

// Delete soft-deletes an entry; history is never physically removed.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "PURCHASE_DELETE", id, nil)
	return nil
}

// Restore brings a soft-deleted entry back from the recycle bin.
func (s *Service) Restore(ctx context.Context, actorID, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetDeleted(ctx, id, false); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "PURCHASE_RESTORE", id, nil)
	return nil
}

// Get fetches one purchase entry.
func (s *Service) Get(ctx context.Context, id int64) (Purchase, error) {
	return s.repo.Get(ctx, id)
}

// List returns purchase entries with filters and fixed-size pagination.
func (s *Service) List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, shared.Pagination, error) {
	p := shared.NewPagination(req.Page, shared.DefaultPageSize, 0)
	items, total, err := s.repo.List(ctx, req, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(req.Page, shared.DefaultPageSize, total), nil
}

// fromRequest maps raw request text into a purchase. Unparseable numerics
// become zero; validation decides whether zero is acceptable.
func (s *Service) fromRequest(req SavePurchaseRequest) Purchase {
	p := Purchase{
		ID:            req.ID,
		VendorID:      req.VendorID,
		Bags:          money.ParseCount(req.Bags),
		Rate:          money.ParseAmount(req.Rate),
		WeightKg:      money.ParseAmount(req.WeightKg),
		IsLumpsum:     req.IsLumpsum,
		CommissionPct: money.ParseAmount(req.CommissionPct),
		PaymentMode:   PaymentMode(req.PaymentMode),
		AdvancePaid:   req.AdvancePaid,
	}
	if t, err := time.Parse("2006-01-02", req.EntryDate); err == nil {
		p.EntryDate = t
	}
	for _, c := range req.MarketFeeComponents {
		p.MarketFeeComponents = append(p.MarketFeeComponents, FeeComponent{
			Name:    c.Name,
			Percent: money.ParseAmount(c.Percent),
		})
	}
	if req.AdvancePaid && (req.OverrideMarketFee != nil || req.OverrideCommissionFee != nil) {
		p.FeeOverride = true
		p.MarketFeeAmount = decimal.Zero
		p.CommissionFeeAmount = decimal.Zero
		if req.OverrideMarketFee != nil {
			p.MarketFeeAmount = money.ParseAmount(*req.OverrideMarketFee)
		}
		if req.OverrideCommissionFee != nil {
			p.CommissionFeeAmount = money.ParseAmount(*req.OverrideCommissionFee)
		}
	}
	return p
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "purchase",
		EntityID: fmt.Sprintf("%d", id),
		Meta:     meta,
	})
}
