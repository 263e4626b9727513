package chequebooks

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryBookRepo struct {
	mu     sync.Mutex
	books  map[int64]Book
	nextID int64
}

func newMemoryBookRepo() *memoryBookRepo {
	return &memoryBookRepo{books: make(map[int64]Book)}
}

func (r *memoryBookRepo) Create(ctx context.Context, b Book) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	r.books[b.ID] = b
	return b.ID, nil
}

func (r *memoryBookRepo) Get(ctx context.Context, id int64) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *memoryBookRepo) List(ctx context.Context, bankName string) ([]Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var books []Book
	for _, b := range r.books {
		if bankName == "" || b.BankName == bankName {
			books = append(books, b)
		}
	}
	return books, nil
}

// ReserveNextLeaf mirrors the conditional UPDATE the SQL repository runs:
// read-check-increment under one lock.
func (r *memoryBookRepo) ReserveNextLeaf(ctx context.Context, bookID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[bookID]
	if !ok {
		return 0, ErrNotFound
	}
	if b.NextNumber > b.EndNumber {
		return 0, ErrBookExhausted
	}
	leaf := b.NextNumber
	b.NextNumber++
	r.books[bookID] = b
	return leaf, nil
}

func (r *memoryBookRepo) SetActive(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.books[id]
	if !ok {
		return ErrNotFound
	}
	for bid, b := range r.books {
		if b.BankName == target.BankName {
			b.IsActive = bid == id
			r.books[bid] = b
		}
	}
	return nil
}

func newBook(t *testing.T, svc *Service, start, end int64) Book {
	t.Helper()
	b, err := svc.Register(context.Background(), 1, Book{
		BookName:    "BOOK-1",
		BankName:    "SBI",
		StartNumber: start,
		EndNumber:   end,
	})
	require.NoError(t, err)
	return b
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newMemoryBookRepo(), nil)

	_, err := svc.Register(context.Background(), 1, Book{BankName: "SBI", StartNumber: 1, EndNumber: 10})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), 1, Book{BookName: "B", BankName: "SBI", StartNumber: 10, EndNumber: 9})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterPositionsNextAtStart(t *testing.T) {
	svc := NewService(newMemoryBookRepo(), nil)
	b := newBook(t, svc, 500, 599)
	require.EqualValues(t, 500, b.NextNumber)

	remaining, err := svc.RemainingLeaves(context.Background(), b.ID)
	require.NoError(t, err)
	require.EqualValues(t, 100, remaining)
}

func TestSequentialReservationsGapFree(t *testing.T) {
	svc := NewService(newMemoryBookRepo(), nil)
	b := newBook(t, svc, 100, 102)

	for want := int64(100); want <= 102; want++ {
		leaf, err := svc.ReserveNextLeaf(context.Background(), b.ID)
		require.NoError(t, err)
		require.Equal(t, want, leaf)
	}

	_, err := svc.ReserveNextLeaf(context.Background(), b.ID)
	require.ErrorIs(t, err, ErrBookExhausted)

	// Exhaustion leaves the counter parked one past the end, untouched.
	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.EqualValues(t, 103, got.NextNumber)
	require.True(t, got.Exhausted())

	remaining, err := svc.RemainingLeaves(context.Background(), b.ID)
	require.NoError(t, err)
	require.Zero(t, remaining)
}

func TestConcurrentReservationsDistinct(t *testing.T) {
	const workers = 50

	svc := NewService(newMemoryBookRepo(), nil)
	b := newBook(t, svc, 1000, 1000+workers-1)

	leaves := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			leaf, err := svc.ReserveNextLeaf(context.Background(), b.ID)
			require.NoError(t, err)
			leaves <- leaf
		}()
	}
	wg.Wait()
	close(leaves)

	var got []int64
	for leaf := range leaves {
		got = append(got, leaf)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	require.Len(t, got, workers)
	for i, leaf := range got {
		require.Equal(t, int64(1000+i), leaf, "leaves must be distinct and gap-free")
	}

	_, err := svc.ReserveNextLeaf(context.Background(), b.ID)
	require.ErrorIs(t, err, ErrBookExhausted)
}

func TestReserveUnknownBook(t *testing.T) {
	svc := NewService(newMemoryBookRepo(), nil)
	_, err := svc.ReserveNextLeaf(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterActiveDisplacesPriorActiveBook(t *testing.T) {
	repo := newMemoryBookRepo()
	svc := NewService(repo, nil)

	first := newBook(t, svc, 1, 10)
	require.NoError(t, svc.SetActive(context.Background(), 1, first.ID))

	// Registering a second active book for the same bank must not leave
	// two active books.
	second, err := svc.Register(context.Background(), 1, Book{
		BookName:    "BOOK-2",
		BankName:    "SBI",
		StartNumber: 11,
		EndNumber:   20,
		IsActive:    true,
	})
	require.NoError(t, err)
	require.True(t, second.IsActive)

	books, err := svc.List(context.Background(), "SBI")
	require.NoError(t, err)

	active := 0
	for _, b := range books {
		if b.IsActive {
			active++
			require.Equal(t, second.ID, b.ID)
		}
	}
	require.Equal(t, 1, active)
}

func TestSetActiveSingleBookPerBank(t *testing.T) {
	repo := newMemoryBookRepo()
	svc := NewService(repo, nil)

	first := newBook(t, svc, 1, 10)
	require.NoError(t, svc.SetActive(context.Background(), 1, first.ID))

	second := newBook(t, svc, 11, 20)
	require.NoError(t, svc.SetActive(context.Background(), 1, second.ID))

	books, err := svc.List(context.Background(), "SBI")
	require.NoError(t, err)

	active := 0
	for _, b := range books {
		if b.IsActive {
			active++
			require.Equal(t, second.ID, b.ID)
		}
	}
	require.Equal(t, 1, active)
}
