package promotion

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestResolveRankingAndAmounts(t *testing.T) {
	productID := uuid.New()

	ten := activePromo("ten-percent", 5, baseTime)
	twenty := activePromo("twenty-percent", 10, baseTime)
	twenty.Value = dec("20")

	applied, err := Resolve([]Promotion{ten, twenty}, baseTime, productID, uuid.Nil,
		PurchaseContext{UnitPrice: dec("100"), Quantity: 2}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(applied) != 2 {
		t.Fatalf("expected 2 results, got %d", len(applied))
	}
	if applied[0].Promotion.Name != "twenty-percent" {
		t.Fatalf("expected highest priority first, got %s", applied[0].Promotion.Name)
	}
	if !applied[0].Discount.Equal(dec("40")) {
		t.Fatalf("expected discount 40, got %s", applied[0].Discount)
	}
	if !applied[1].Discount.Equal(dec("20")) {
		t.Fatalf("expected discount 20, got %s", applied[1].Discount)
	}
}

func TestResolveApplicableOnlyDropsZeroDiscounts(t *testing.T) {
	productID := uuid.New()

	applies := activePromo("applies", 0, baseTime)

	belowMinimum := activePromo("below-minimum", 0, baseTime)
	belowMinimum.MinPurchase = dec("10000")

	promos := []Promotion{applies, belowMinimum}
	pc := PurchaseContext{UnitPrice: dec("50"), Quantity: 1}

	all, err := Resolve(promos, baseTime, productID, uuid.Nil, pc, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected all eligible promotions, got %d", len(all))
	}

	applicable, err := Resolve(promos, baseTime, productID, uuid.Nil, pc, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(applicable) != 1 || applicable[0].Promotion.Name != "applies" {
		t.Fatalf("expected only the applying promotion, got %d results", len(applicable))
	}
}

func TestResolveSkipsExhaustedPromotions(t *testing.T) {
	productID := uuid.New()

	exhausted := activePromo("exhausted", 0, baseTime)
	exhausted.UsageLimit = nullInt(100)
	exhausted.UsageCount = 100

	remaining := activePromo("remaining", 0, baseTime)
	remaining.UsageLimit = nullInt(100)
	remaining.UsageCount = 99

	applied, err := Resolve([]Promotion{exhausted, remaining}, baseTime, productID, uuid.Nil,
		PurchaseContext{UnitPrice: dec("10"), Quantity: 1}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(applied) != 1 || applied[0].Promotion.Name != "remaining" {
		t.Fatalf("expected only the promotion with remaining usage, got %d results", len(applied))
	}
}

func TestResolveUnknownTypePropagates(t *testing.T) {
	corrupt := activePromo("corrupt", 0, baseTime)
	corrupt.Type = "MYSTERY"

	_, err := Resolve([]Promotion{corrupt}, baseTime, uuid.New(), uuid.Nil,
		PurchaseContext{UnitPrice: dec("10"), Quantity: 1}, false)
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestResolveIdempotent(t *testing.T) {
	productID := uuid.New()
	promos := []Promotion{
		activePromo("a", 3, baseTime.Add(-time.Hour)),
		activePromo("b", 3, baseTime),
		activePromo("c", 7, baseTime),
	}
	pc := PurchaseContext{UnitPrice: dec("19.99"), Quantity: 4}

	first, err := Resolve(promos, baseTime, productID, uuid.Nil, pc, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Resolve(promos, baseTime, productID, uuid.Nil, pc, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Promotion.ID != second[i].Promotion.ID || !first[i].Discount.Equal(second[i].Discount) {
			t.Fatalf("results differ at position %d", i)
		}
	}
}
