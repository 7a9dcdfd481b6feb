package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/promotion"
)

type fakeRepo struct {
	store map[uuid.UUID]*Return
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{store: make(map[uuid.UUID]*Return)}
}

func (f *fakeRepo) Create(_ context.Context, ret *Return) error {
	cp := *ret
	f.store[ret.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Return, error) {
	ret, ok := f.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ret
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]Return, int, error) {
	out := make([]Return, 0, len(f.store))
	for _, ret := range f.store {
		if filter.Type != nil && ret.Type != *filter.Type {
			continue
		}
		out = append(out, *ret)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status ReturnStatus) error {
	ret, ok := f.store[id]
	if !ok {
		return ErrNotFound
	}
	ret.Status = status
	return nil
}

type fakeRedeemer struct {
	limit    int
	redeemed []uuid.UUID
}

func (f *fakeRedeemer) Redeem(_ context.Context, id uuid.UUID) error {
	if f.limit > 0 && len(f.redeemed) >= f.limit {
		return promotion.ErrUsageLimitReached
	}
	f.redeemed = append(f.redeemed, id)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty int64, price string) ItemRequest {
	return ItemRequest{
		ProductID: uuid.New(),
		Quantity:  qty,
		UnitPrice: dec(price),
	}
}

func TestCreateReturnComputesRefund(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeRedeemer{})
	ctx := context.Background()

	ret, err := svc.Create(ctx, uuid.New(), &CreateRequest{
		OriginalSaleID: uuid.New(),
		Reason:         "damaged in transit",
		Items:          []ItemRequest{item(2, "19.99"), item(1, "5.50")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2*19.99 + 1*5.50
	if !ret.RefundTotal.Equal(dec("45.48")) {
		t.Fatalf("expected refund 45.48, got %s", ret.RefundTotal)
	}
	if ret.Status != StatusRequested {
		t.Fatalf("new returns start REQUESTED, got %s", ret.Status)
	}
	if ret.Type != TypeReturn {
		t.Fatalf("unexpected type %s", ret.Type)
	}
}

func TestCreateReturnRequiresItems(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeRedeemer{})

	_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		OriginalSaleID: uuid.New(),
		Reason:         "empty",
	})
	if !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestCreateExchangeRedeemsPromotions(t *testing.T) {
	repo := newFakeRepo()
	redeemer := &fakeRedeemer{}
	svc := NewService(repo, redeemer)
	ctx := context.Background()

	promoID := uuid.New()
	ret, err := svc.CreateExchange(ctx, uuid.New(), &ExchangeRequest{
		OriginalSaleID: uuid.New(),
		Reason:         "wrong size",
		Items:          []ItemRequest{item(1, "29.99")},
		Replacements: []ReplacementRequest{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("29.99"), PromotionID: &promoID},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("9.99")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ret.Status != StatusCompleted {
		t.Fatalf("exchanges complete immediately, got %s", ret.Status)
	}
	if len(redeemer.redeemed) != 1 || redeemer.redeemed[0] != promoID {
		t.Fatalf("expected exactly the applied promotion redeemed, got %v", redeemer.redeemed)
	}
}

func TestCreateExchangeStopsOnExhaustedPromotion(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &alwaysExhausted{})

	promoID := uuid.New()
	_, err := svc.CreateExchange(context.Background(), uuid.New(), &ExchangeRequest{
		OriginalSaleID: uuid.New(),
		Reason:         "wrong size",
		Items:          []ItemRequest{item(1, "29.99")},
		Replacements: []ReplacementRequest{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("29.99"), PromotionID: &promoID},
		},
	})
	if !errors.Is(err, promotion.ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
	if len(repo.store) != 0 {
		t.Fatal("exchange must not be persisted when redemption fails")
	}
}

type alwaysExhausted struct{}

func (alwaysExhausted) Redeem(context.Context, uuid.UUID) error {
	return promotion.ErrUsageLimitReached
}

func TestCreateExchangeRequiresReplacements(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeRedeemer{})

	_, err := svc.CreateExchange(context.Background(), uuid.New(), &ExchangeRequest{
		OriginalSaleID: uuid.New(),
		Reason:         "wrong size",
		Items:          []ItemRequest{item(1, "29.99")},
	})
	if !errors.Is(err, ErrNoReplacements) {
		t.Fatalf("expected ErrNoReplacements, got %v", err)
	}
}

func TestCompleteTransition(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeRedeemer{})
	ctx := context.Background()

	ret, err := svc.Create(ctx, uuid.New(), &CreateRequest{
		OriginalSaleID: uuid.New(),
		Reason:         "changed mind",
		Items:          []ItemRequest{item(1, "10")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed, err := svc.Complete(ctx, ret.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}

	if _, err := svc.Complete(ctx, ret.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}
