package chequebooks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, b Book) (int64, error)
	Get(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context, bankName string) ([]Book, error)
	ReserveNextLeaf(ctx context.Context, bookID int64) (int64, error)
	SetActive(ctx context.Context, id int64) error
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns cheque book registration and leaf allocation. Reservation
// is serialized per book: storage enforces it with a conditional UPDATE
// and the service additionally funnels in-process callers through a
// per-book mutex so the allocation order is deterministic under load.
type Service struct {
	repo  RepositoryPort
	audit AuditPort

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService constructs an allocator service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, locks: make(map[int64]*sync.Mutex)}
}

// Register validates and stores a new physical book.
func (s *Service) Register(ctx context.Context, actorID int64, b Book) (Book, error) {
	b.BookName = strings.TrimSpace(b.BookName)
	b.BankName = strings.TrimSpace(b.BankName)
	switch {
	case b.BookName == "":
		return Book{}, fmt.Errorf("%w: book name required", ErrValidation)
	case b.BankName == "":
		return Book{}, fmt.Errorf("%w: bank name required", ErrValidation)
	case b.StartNumber <= 0:
		return Book{}, fmt.Errorf("%w: start number must be positive", ErrValidation)
	case b.EndNumber < b.StartNumber:
		return Book{}, fmt.Errorf("%w: end number must not precede start number", ErrValidation)
	}
	b.NextNumber = b.StartNumber

	// Activation goes through SetActive so registering an active book
	// deactivates the bank's previous one instead of joining it.
	wantActive := b.IsActive
	b.IsActive = false

	id, err := s.repo.Create(ctx, b)
	if err != nil {
		return Book{}, err
	}
	b.ID = id

	if wantActive {
		if err := s.repo.SetActive(ctx, id); err != nil {
			return Book{}, err
		}
		b.IsActive = true
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "BOOK_REGISTER",
			Entity:   "cheque_book",
			EntityID: fmt.Sprintf("%d", id),
			Meta:     map[string]any{"bank": b.BankName, "range": fmt.Sprintf("%d-%d", b.StartNumber, b.EndNumber)},
		})
	}
	return b, nil
}

// ReserveNextLeaf hands out the next unused leaf number of a book. It
// fails with ErrBookExhausted once the range is spent; the counter is
// never rolled back, even when the downstream print fails.
func (s *Service) ReserveNextLeaf(ctx context.Context, bookID int64) (int64, error) {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()
	return s.repo.ReserveNextLeaf(ctx, bookID)
}

// RemainingLeaves reports how many leaves a book can still allocate.
func (s *Service) RemainingLeaves(ctx context.Context, bookID int64) (int64, error) {
	b, err := s.repo.Get(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return b.RemainingLeaves(), nil
}

// Get fetches a book by id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// List returns registered books, optionally scoped to one bank.
func (s *Service) List(ctx context.Context, bankName string) ([]Book, error) {
	return s.repo.List(ctx, bankName)
}

// SetActive selects the book used for allocation within its bank. At most
// one book per bank is active at a time.
func (s *Service) SetActive(ctx context.Context, actorID, id int64) error {
	if err := s.repo.SetActive(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "BOOK_ACTIVATE",
			Entity:   "cheque_book",
			EntityID: fmt.Sprintf("%d", id),
		})
	}
	return nil
}

func (s *Service) bookLock(bookID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[bookID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[bookID] = lock
	}
	return lock
}
