package purchases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryPurchaseRepo struct {
	entries map[int64]Purchase
	nextID  int64
}

func newMemoryPurchaseRepo() *memoryPurchaseRepo {
	return &memoryPurchaseRepo{entries: make(map[int64]Purchase)}
}

func (r *memoryPurchaseRepo) Create(ctx context.Context, p Purchase) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	r.entries[p.ID] = p
	return p.ID, nil
}

func (r *memoryPurchaseRepo) Update(ctx context.Context, p Purchase) error {
	if _, ok := r.entries[p.ID]; !ok {
		return ErrNotFound
	}
	r.entries[p.ID] = p
	return nil
}

func (r *memoryPurchaseRepo) Get(ctx context.Context, id int64) (Purchase, error) {
	p, ok := r.entries[id]
	if !ok {
		return Purchase{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryPurchaseRepo) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	p, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	p.IsDeleted = deleted
	r.entries[id] = p
	return nil
}

func (r *memoryPurchaseRepo) List(ctx context.Context, req ListPurchasesRequest, limit, offset int) ([]Purchase, int, error) {
	var items []Purchase
	for _, p := range r.entries {
		if !req.IncludeDeleted && p.IsDeleted {
			continue
		}
		if req.VendorID > 0 && p.VendorID != req.VendorID {
			continue
		}
		items = append(items, p)
	}
	return items, len(items), nil
}

type allowAllVendors struct{}

func (allowAllVendors) Exists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validRequest() SavePurchaseRequest {
	return SavePurchaseRequest{
		ActorID:   1,
		EntryDate: "2025-04-01",
		VendorID:  7,
		Bags:      "10",
		Rate:      "100",
		IsLumpsum: true,
		MarketFeeComponents: []FeeComponentRequest{
			{Name: "market", Percent: "0.50"},
			{Name: "weighing", Percent: "0.20"},
		},
		CommissionPct: "2.00",
		PaymentMode:   "CHEQUE",
	}
}

func TestSaveComputesWorkedExample(t *testing.T) {
	svc := NewService(newMemoryPurchaseRepo(), allowAllVendors{}, nil)

	p, err := svc.Save(context.Background(), validRequest())
	require.NoError(t, err)

	require.True(t, p.BaseAmount.Equal(dec("1000.00")), "base %s", p.BaseAmount)
	require.True(t, p.MarketFeeAmount.Equal(dec("7.00")), "market %s", p.MarketFeeAmount)
	require.True(t, p.CommissionFeeAmount.Equal(dec("20.00")), "commission %s", p.CommissionFeeAmount)
	require.True(t, p.GrandTotal.Equal(dec("1027.00")), "total %s", p.GrandTotal)
	require.Equal(t, "PAID (CHEQUE)", p.Status)
}

func TestSaveFailsValidationWithoutPersisting(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo, allowAllVendors{}, nil)

	req := validRequest()
	req.Bags = "0"
	req.Rate = "not a number"

	_, err := svc.Save(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, repo.entries)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Problems, "bags must be greater than zero")
	require.Contains(t, vErr.Problems, "rate must be greater than zero")
}

func TestSaveRejectsNewVendorSentinel(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo, allowAllVendors{}, nil)

	req := validRequest()
	req.VendorID = -1

	_, err := svc.Save(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, repo.entries)
}

func TestSaveReplacesSameID(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo, allowAllVendors{}, nil)

	p, err := svc.Save(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.ID = p.ID
	req.Rate = "150"
	updated, err := svc.Save(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, p.ID, updated.ID)
	require.Len(t, repo.entries, 1)
	require.True(t, updated.BaseAmount.Equal(dec("1500.00")))
}

func TestWeightPricing(t *testing.T) {
	svc := NewService(newMemoryPurchaseRepo(), allowAllVendors{}, nil)

	req := validRequest()
	req.IsLumpsum = false
	req.WeightKg = "100"
	req.Rate = "200"

	p, err := svc.Save(context.Background(), req)
	require.NoError(t, err)
	require.True(t, p.BaseAmount.Equal(dec("1000.00")), "base %s", p.BaseAmount)
}

func TestAdvancePaidZeroesFees(t *testing.T) {
	svc := NewService(newMemoryPurchaseRepo(), allowAllVendors{}, nil)

	req := validRequest()
	req.AdvancePaid = true

	p, err := svc.Save(context.Background(), req)
	require.NoError(t, err)
	require.True(t, p.MarketFeeAmount.IsZero())
	require.True(t, p.CommissionFeeAmount.IsZero())
	require.True(t, p.GrandTotal.Equal(dec("1000.00")))
	require.Equal(t, "PAID (ADVANCE)", p.Status)
}

func TestAdvanceFeeOverridePreservedAcrossRecompute(t *testing.T) {
	svc := NewService(newMemoryPurchaseRepo(), allowAllVendors{}, nil)

	market := "5.00"
	req := validRequest()
	req.AdvancePaid = true
	req.OverrideMarketFee = &market

	p, err := svc.Save(context.Background(), req)
	require.NoError(t, err)
	require.True(t, p.FeeOverride)
	require.True(t, p.MarketFeeAmount.Equal(dec("5.00")))
	require.True(t, p.CommissionFeeAmount.IsZero())
	require.True(t, p.GrandTotal.Equal(dec("1005.00")))

	// Recomputing again must not clobber the operator's override.
	p.Recompute()
	require.True(t, p.MarketFeeAmount.Equal(dec("5.00")))
	require.True(t, p.GrandTotal.Equal(dec("1005.00")))
}

func TestPreviewToleratesPartialInput(t *testing.T) {
	svc := NewService(newMemoryPurchaseRepo(), allowAllVendors{}, nil)

	p := svc.Preview(SavePurchaseRequest{Bags: "1", Rate: "12.", WeightKg: ""})
	require.True(t, p.BaseAmount.IsZero())
	require.True(t, p.GrandTotal.IsZero())
	require.Equal(t, "UNPAID", p.Status)
}

func TestStatusDerivationIdempotent(t *testing.T) {
	cases := []struct {
		advance bool
		mode    string
		want    string
	}{
		{true, "CASH", "PAID (ADVANCE)"},
		{false, "cash", "PAID (CASH)"},
		{false, "Cheque", "PAID (CHEQUE)"},
		{false, "bank_transfer", "PAID (BANK_TRANSFER)"},
		{false, "upi", "PAID (UPI)"},
		{false, "", "UNPAID"},
		{false, "IOU", "UNPAID"},
	}
	for _, tc := range cases {
		first := DeriveStatus(tc.advance, tc.mode)
		second := DeriveStatus(tc.advance, tc.mode)
		require.Equal(t, tc.want, first, "mode %q", tc.mode)
		require.Equal(t, first, second)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	repo := newMemoryPurchaseRepo()
	svc := NewService(repo, allowAllVendors{}, nil)

	p, err := svc.Save(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, p.ID))
	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, got.IsDeleted)

	require.NoError(t, svc.Restore(context.Background(), 1, p.ID))
	got, err = svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.False(t, got.IsDeleted)
}

func TestMarketFeeDerivedFromComponents(t *testing.T) {
	p := Purchase{
		MarketFeeComponents: []FeeComponent{
			{Name: "market", Percent: dec("0.50")},
			{Name: "weighing", Percent: dec("0.20")},
		},
	}
	require.True(t, p.MarketFeePct().Equal(dec("0.70")))
}
