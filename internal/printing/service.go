package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/khata-erp/khata-erp/internal/money"
	"github.com/khata-erp/khata-erp/internal/shared"
	"github.com/khata-erp/khata-erp/internal/templates"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	CreateQueueItem(ctx context.Context, item QueueItem) (int64, error)
	GetQueueItem(ctx context.Context, id int64) (QueueItem, error)
	// ClaimLeaf reserves the next leaf of the item's book and stamps it
	// on the item inside one transaction; a storage timeout rolls both
	// back together.
	ClaimLeaf(ctx context.Context, queueItemID int64) (int64, error)
	// AppendOutcome inserts the ledger row and removes the queue item in
	// one transaction.
	AppendOutcome(ctx context.Context, entry LedgerEntry, queueItemID int64) (int64, error)
	AppendVoid(ctx context.Context, entry LedgerEntry) (int64, error)
	GetLedgerEntry(ctx context.Context, id int64) (LedgerEntry, error)
	ListLedger(ctx context.Context, q LedgerQuery, limit, offset int) ([]LedgerEntry, int, error)
}

// TemplatePort resolves the per-bank cheque layout.
type TemplatePort interface {
	Resolve(ctx context.Context, bankName string) (templates.Config, error)
}

// Dispatcher hands a staged cheque to the background print worker.
type Dispatcher interface {
	DispatchPrint(ctx context.Context, queueItemID int64) error
}

// Printer renders one cheque. Implementations live outside the engine;
// the default one posts to an HTTP render service.
type Printer interface {
	Print(ctx context.Context, bundle RenderBundle) error
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the print queue and the append-only print ledger.
type Service struct {
	repo       RepositoryPort
	tmpl       TemplatePort
	dispatcher Dispatcher
	audit      AuditPort
	validate   *validator.Validate
}

// NewService constructs a printing service. dispatcher may be nil when
// the caller drives printing synchronously.
func NewService(repo RepositoryPort, tmpl TemplatePort, dispatcher Dispatcher, audit AuditPort) *Service {
	return &Service{repo: repo, tmpl: tmpl, dispatcher: dispatcher, audit: audit, validate: validator.New()}
}

// Enqueue stages a cheque for printing. Pure staging: nothing is reserved
// from the book yet.
func (s *Service) Enqueue(ctx context.Context, req EnqueueRequest) (QueueItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return QueueItem{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	amount := money.ParseAmount(req.Amount)
	if !amount.IsPositive() {
		return QueueItem{}, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	chequeDate, err := time.Parse("2006-01-02", req.ChequeDate)
	if err != nil {
		return QueueItem{}, fmt.Errorf("%w: cheque date must be YYYY-MM-DD", ErrValidation)
	}

	item := QueueItem{
		Token:      uuid.NewString(),
		PurchaseID: req.PurchaseID,
		PayeeName:  req.PayeeName,
		Amount:     amount,
		ChequeDate: chequeDate,
		IsACPayee:  req.IsACPayee,
		BookID:     req.BookID,
		BankName:   req.BankName,
	}
	id, err := s.repo.CreateQueueItem(ctx, item)
	if err != nil {
		return QueueItem{}, err
	}
	item.ID = id

	if s.dispatcher != nil {
		if err := s.dispatcher.DispatchPrint(ctx, id); err != nil {
			return QueueItem{}, fmt.Errorf("printing: dispatch: %w", err)
		}
	}
	return item, nil
}

// GetQueueItem fetches one staged cheque.
func (s *Service) GetQueueItem(ctx context.Context, id int64) (QueueItem, error) {
	return s.repo.GetQueueItem(ctx, id)
}

// ClaimLeaf reserves a leaf for a staged cheque. The reservation is
// irreversible: a failed print later records FAILED against the leaf
// instead of putting it back, matching a physically spoiled cheque.
func (s *Service) ClaimLeaf(ctx context.Context, queueItemID int64) (int64, error) {
	return s.repo.ClaimLeaf(ctx, queueItemID)
}

// Bundle resolves the render bundle for a claimed queue item.
func (s *Service) Bundle(ctx context.Context, queueItemID int64) (RenderBundle, error) {
	item, err := s.repo.GetQueueItem(ctx, queueItemID)
	if err != nil {
		return RenderBundle{}, err
	}
	if item.LeafNumber == 0 {
		return RenderBundle{}, fmt.Errorf("%w: leaf not claimed for queue item %d", ErrValidation, queueItemID)
	}
	tmpl, err := s.tmpl.Resolve(ctx, item.BankName)
	if err != nil {
		return RenderBundle{}, err
	}
	return newRenderBundle(item, item.LeafNumber, tmpl), nil
}

// RecordOutcome appends the immutable ledger row for a print attempt and
// consumes the queue item. A second SUCCESS for the same leaf fails with
// ErrDuplicateLedger and is never retried silently.
func (s *Service) RecordOutcome(ctx context.Context, req RecordOutcomeRequest) (LedgerEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return LedgerEntry{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !knownOutcome(req.Status) {
		return LedgerEntry{}, fmt.Errorf("%w: unknown print status %q", ErrValidation, req.Status)
	}

	item, err := s.repo.GetQueueItem(ctx, req.QueueItemID)
	if err != nil {
		return LedgerEntry{}, err
	}
	if item.LeafNumber > 0 && item.LeafNumber != req.LeafNumber {
		return LedgerEntry{}, fmt.Errorf("%w: leaf %d was not claimed for queue item %d",
			ErrValidation, req.LeafNumber, req.QueueItemID)
	}

	entry := LedgerEntry{
		UserID:       req.UserID,
		PurchaseID:   item.PurchaseID,
		PayeeName:    item.PayeeName,
		Amount:       item.Amount,
		ChequeNumber: req.LeafNumber,
		PrintStatus:  req.Status,
		Remarks:      req.Remarks,
	}
	id, err := s.repo.AppendOutcome(ctx, entry, req.QueueItemID)
	if err != nil {
		return LedgerEntry{}, err
	}
	entry.ID = id

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  req.UserID,
			Action:   "PRINT_" + string(req.Status),
			Entity:   "print_ledger",
			EntityID: fmt.Sprintf("%d", id),
			Meta:     map[string]any{"cheque_number": req.LeafNumber},
		})
	}
	return entry, nil
}

// Void appends an administrative VOID correction for a recorded entry.
// It is the only sanctioned way to note a leaf was not actually used; the
// book's counter is never wound back.
func (s *Service) Void(ctx context.Context, actorID, entryID int64, remarks string) (LedgerEntry, error) {
	original, err := s.repo.GetLedgerEntry(ctx, entryID)
	if err != nil {
		return LedgerEntry{}, err
	}
	if original.PrintStatus == StatusVoid {
		return LedgerEntry{}, fmt.Errorf("%w: entry %d is already a void correction", ErrValidation, entryID)
	}

	entry := LedgerEntry{
		UserID:       actorID,
		PurchaseID:   original.PurchaseID,
		PayeeName:    original.PayeeName,
		Amount:       original.Amount,
		ChequeNumber: original.ChequeNumber,
		PrintStatus:  StatusVoid,
		Remarks:      remarks,
		VoidsEntryID: &original.ID,
	}
	id, err := s.repo.AppendVoid(ctx, entry)
	if err != nil {
		return LedgerEntry{}, err
	}
	entry.ID = id

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "PRINT_VOID",
			Entity:   "print_ledger",
			EntityID: fmt.Sprintf("%d", id),
			Meta:     map[string]any{"voids": entryID, "cheque_number": original.ChequeNumber},
		})
	}
	return entry, nil
}

// QueryLedger returns ledger rows for the reporting collaborators.
func (s *Service) QueryLedger(ctx context.Context, q LedgerQuery) ([]LedgerEntry, shared.Pagination, error) {
	p := shared.NewPagination(q.Page, shared.DefaultPageSize, 0)
	items, total, err := s.repo.ListLedger(ctx, q, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(q.Page, shared.DefaultPageSize, total), nil
}
