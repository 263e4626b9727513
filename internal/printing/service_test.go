package printing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khata-erp/khata-erp/internal/chequebooks"
	"github.com/khata-erp/khata-erp/internal/templates"
)

type memBook struct {
	next int64
	end  int64
}

type memoryPrintRepo struct {
	mu           sync.Mutex
	queue        map[int64]QueueItem
	ledger       []LedgerEntry
	books        map[int64]*memBook
	nextQueueID  int64
	nextLedgerID int64
}

func newMemoryPrintRepo() *memoryPrintRepo {
	return &memoryPrintRepo{
		queue: make(map[int64]QueueItem),
		books: make(map[int64]*memBook),
	}
}

func (r *memoryPrintRepo) addBook(id, start, end int64) {
	r.books[id] = &memBook{next: start, end: end}
}

func (r *memoryPrintRepo) CreateQueueItem(_ context.Context, item QueueItem) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextQueueID++
	item.ID = r.nextQueueID
	r.queue[item.ID] = item
	return item.ID, nil
}

func (r *memoryPrintRepo) GetQueueItem(_ context.Context, id int64) (QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.queue[id]
	if !ok {
		return QueueItem{}, ErrNotFound
	}
	return item, nil
}

func (r *memoryPrintRepo) ClaimLeaf(_ context.Context, queueItemID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.queue[queueItemID]
	if !ok {
		return 0, ErrNotFound
	}
	if item.LeafNumber > 0 {
		return item.LeafNumber, nil
	}
	book, ok := r.books[item.BookID]
	if !ok {
		return 0, chequebooks.ErrNotFound
	}
	if book.next > book.end {
		return 0, chequebooks.ErrBookExhausted
	}
	leaf := book.next
	book.next++
	item.LeafNumber = leaf
	r.queue[queueItemID] = item
	return leaf, nil
}

func (r *memoryPrintRepo) AppendOutcome(_ context.Context, entry LedgerEntry, queueItemID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queue[queueItemID]; !ok {
		return 0, ErrNotFound
	}
	if entry.PrintStatus == StatusSuccess {
		for _, e := range r.ledger {
			if e.PrintStatus == StatusSuccess && e.ChequeNumber == entry.ChequeNumber {
				return 0, ErrDuplicateLedger
			}
		}
	}
	r.nextLedgerID++
	entry.ID = r.nextLedgerID
	r.ledger = append(r.ledger, entry)
	delete(r.queue, queueItemID)
	return entry.ID, nil
}

func (r *memoryPrintRepo) AppendVoid(_ context.Context, entry LedgerEntry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLedgerID++
	entry.ID = r.nextLedgerID
	r.ledger = append(r.ledger, entry)
	return entry.ID, nil
}

func (r *memoryPrintRepo) GetLedgerEntry(_ context.Context, id int64) (LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.ledger {
		if e.ID == id {
			return e, nil
		}
	}
	return LedgerEntry{}, ErrNotFound
}

func (r *memoryPrintRepo) ListLedger(_ context.Context, q LedgerQuery, limit, offset int) ([]LedgerEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []LedgerEntry
	for _, e := range r.ledger {
		if q.IssuedOnly && e.PrintStatus != StatusSuccess {
			continue
		}
		matched = append(matched, e)
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

type factoryTemplates struct{}

func (factoryTemplates) Resolve(_ context.Context, bankName string) (templates.Config, error) {
	return templates.FactoryDefaults(bankName), nil
}

func newTestService(repo *memoryPrintRepo) *Service {
	return NewService(repo, factoryTemplates{}, nil, nil)
}

func validEnqueue() EnqueueRequest {
	return EnqueueRequest{
		ActorID:    1,
		PayeeName:  "Ramesh Traders",
		Amount:     "1,027.00",
		ChequeDate: "2026-08-28",
		IsACPayee:  true,
		BookID:     1,
		BankName:   "SBI",
	}
}

func TestEnqueueStagesItem(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	item, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	require.NotZero(t, item.ID)
	require.NotEmpty(t, item.Token)
	require.Equal(t, "1027", item.Amount.String())
	require.Zero(t, item.LeafNumber, "staging must not reserve a leaf")
}

func TestEnqueueRejectsBadInput(t *testing.T) {
	svc := newTestService(newMemoryPrintRepo())

	req := validEnqueue()
	req.Amount = "abc"
	_, err := svc.Enqueue(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)

	req = validEnqueue()
	req.Amount = "0"
	_, err = svc.Enqueue(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)

	req = validEnqueue()
	req.ChequeDate = "28-08-2026"
	_, err = svc.Enqueue(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)

	req = validEnqueue()
	req.PayeeName = ""
	_, err = svc.Enqueue(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestClaimLeafSequentialAndIdempotent(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 500, 501)
	svc := newTestService(repo)

	first, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	second, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)

	leaf, err := svc.ClaimLeaf(context.Background(), first.ID)
	require.NoError(t, err)
	require.EqualValues(t, 500, leaf)

	// Reclaiming returns the same leaf instead of burning a new one.
	leaf, err = svc.ClaimLeaf(context.Background(), first.ID)
	require.NoError(t, err)
	require.EqualValues(t, 500, leaf)

	leaf, err = svc.ClaimLeaf(context.Background(), second.ID)
	require.NoError(t, err)
	require.EqualValues(t, 501, leaf)

	third, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	_, err = svc.ClaimLeaf(context.Background(), third.ID)
	require.ErrorIs(t, err, chequebooks.ErrBookExhausted)
}

func TestBundleRequiresClaimedLeaf(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	item, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)

	_, err = svc.Bundle(context.Background(), item.ID)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.ClaimLeaf(context.Background(), item.ID)
	require.NoError(t, err)

	bundle, err := svc.Bundle(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, "Ramesh Traders", bundle.PayeeName)
	require.EqualValues(t, 100, bundle.LeafNumber)
	require.Equal(t, "1,027.00", bundle.AmountFigures)
	require.Equal(t, "One Thousand Twenty Seven Rupees Only", bundle.AmountWords)
	require.True(t, bundle.IsACPayee)
	require.Equal(t, "SBI", bundle.Template.BankName)
}

func TestRecordOutcomeConsumesQueueItem(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	item, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	leaf, err := svc.ClaimLeaf(context.Background(), item.ID)
	require.NoError(t, err)

	entry, err := svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID:      1,
		QueueItemID: item.ID,
		LeafNumber:  leaf,
		Status:      StatusSuccess,
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, entry.PrintStatus)
	require.Equal(t, leaf, entry.ChequeNumber)
	require.Equal(t, item.Amount.String(), entry.Amount.String())

	_, err = svc.GetQueueItem(context.Background(), item.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordOutcomeRejectsDuplicateSuccess(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	first, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	leaf, err := svc.ClaimLeaf(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID: 1, QueueItemID: first.ID, LeafNumber: leaf, Status: StatusSuccess,
	})
	require.NoError(t, err)

	// A second item reporting the same leaf number must be rejected.
	second, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	_, err = svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID: 1, QueueItemID: second.ID, LeafNumber: leaf, Status: StatusSuccess,
	})
	require.ErrorIs(t, err, ErrDuplicateLedger)
}

func TestRecordOutcomeRejectsMismatchedLeaf(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	item, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	leaf, err := svc.ClaimLeaf(context.Background(), item.ID)
	require.NoError(t, err)

	// A leaf other than the one stamped on the item must not be recorded.
	_, err = svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID: 1, QueueItemID: item.ID, LeafNumber: leaf + 1, Status: StatusSuccess,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID: 1, QueueItemID: item.ID, LeafNumber: leaf, Status: StatusSuccess,
	})
	require.NoError(t, err)
}

func TestRecordOutcomeRejectsUnknownStatus(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	item, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)

	_, err = svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID: 1, QueueItemID: item.ID, LeafNumber: 100, Status: "MISPRINT",
	})
	require.ErrorIs(t, err, ErrValidation)

	// VOID enters only through the void operation.
	_, err = svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID: 1, QueueItemID: item.ID, LeafNumber: 100, Status: StatusVoid,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestVoidAppendsCorrection(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	item, err := svc.Enqueue(context.Background(), validEnqueue())
	require.NoError(t, err)
	leaf, err := svc.ClaimLeaf(context.Background(), item.ID)
	require.NoError(t, err)
	original, err := svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
		UserID: 1, QueueItemID: item.ID, LeafNumber: leaf, Status: StatusSuccess,
	})
	require.NoError(t, err)

	correction, err := svc.Void(context.Background(), 2, original.ID, "torn while signing")
	require.NoError(t, err)
	require.Equal(t, StatusVoid, correction.PrintStatus)
	require.NotNil(t, correction.VoidsEntryID)
	require.Equal(t, original.ID, *correction.VoidsEntryID)
	require.Equal(t, original.ChequeNumber, correction.ChequeNumber)

	// The original row is untouched.
	kept, err := repo.GetLedgerEntry(context.Background(), original.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, kept.PrintStatus)

	// A void cannot itself be voided.
	_, err = svc.Void(context.Background(), 2, correction.ID, "double correction")
	require.ErrorIs(t, err, ErrValidation)
}

func TestQueryLedgerIssuedOnly(t *testing.T) {
	repo := newMemoryPrintRepo()
	repo.addBook(1, 100, 199)
	svc := newTestService(repo)

	for _, status := range []PrintStatus{StatusSuccess, StatusFailed, StatusCancelled} {
		item, err := svc.Enqueue(context.Background(), validEnqueue())
		require.NoError(t, err)
		leaf, err := svc.ClaimLeaf(context.Background(), item.ID)
		require.NoError(t, err)
		_, err = svc.RecordOutcome(context.Background(), RecordOutcomeRequest{
			UserID: 1, QueueItemID: item.ID, LeafNumber: leaf, Status: status,
		})
		require.NoError(t, err)
	}

	entries, pagination, err := svc.QueryLedger(context.Background(), LedgerQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, 3, pagination.Total)

	entries, pagination, err = svc.QueryLedger(context.Background(), LedgerQuery{IssuedOnly: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, pagination.Total)
	require.Equal(t, StatusSuccess, entries[0].PrintStatus)
}
