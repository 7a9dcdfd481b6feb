package promotion

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func percentagePromo(value string) *Promotion {
	return &Promotion{
		Type:      TypePercentage,
		Value:     dec(value),
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
		IsActive:  true,
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		maxDiscount string
		unitPrice   string
		quantity    int64
		want        string
	}{
		{"basic ten percent", "10", "", "100", 2, "20"},
		{"capped by max discount", "10", "15", "100", 2, "15"},
		{"cap above discount has no effect", "10", "25", "100", 2, "20"},
		{"fractional result rounds to cents", "7.5", "", "9.99", 1, "0.75"},
		{"zero value yields zero", "0", "", "100", 3, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := percentagePromo(tt.value)
			if tt.maxDiscount != "" {
				p.MaxDiscount = nullDec(tt.maxDiscount)
			}

			got, err := Calculate(p, PurchaseContext{UnitPrice: dec(tt.unitPrice), Quantity: tt.quantity})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCalculateFixedAmount(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		maxDiscount string
		unitPrice   string
		quantity    int64
		want        string
	}{
		{"below line total", "50", "", "40", 2, "50"},
		{"never exceeds line total", "50", "", "10", 3, "30"},
		{"max discount clamps further", "50", "40", "40", 2, "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Promotion{Type: TypeFixedAmount, Value: dec(tt.value)}
			if tt.maxDiscount != "" {
				p.MaxDiscount = nullDec(tt.maxDiscount)
			}

			got, err := Calculate(p, PurchaseContext{UnitPrice: dec(tt.unitPrice), Quantity: tt.quantity})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCalculateBuyXGetY(t *testing.T) {
	tests := []struct {
		name     string
		buy, get int64
		value    string
		price    string
		quantity int64
		want     string
	}{
		// buy 2 get 1 free, six units => two full sets, two free units
		{"two full sets fully free", 2, 1, "100", "10", 6, "20"},
		{"partial set yields nothing", 2, 1, "100", "10", 2, "0"},
		{"half price on free units", 2, 1, "50", "10", 6, "10"},
		{"one set exactly", 3, 2, "100", "5", 5, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Promotion{
				Type:        TypeBuyXGetY,
				Value:       dec(tt.value),
				BuyQuantity: nullInt(tt.buy),
				GetQuantity: nullInt(tt.get),
			}

			got, err := Calculate(p, PurchaseContext{UnitPrice: dec(tt.price), Quantity: tt.quantity})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCalculateMinPurchase(t *testing.T) {
	p := percentagePromo("10")
	p.MinPurchase = dec("500")

	got, err := Calculate(p, PurchaseContext{UnitPrice: dec("100"), Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero discount below minimum purchase, got %s", got)
	}

	// At the threshold the discount applies
	got, err = Calculate(p, PurchaseContext{UnitPrice: dec("100"), Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("50")) {
		t.Fatalf("expected 50 at minimum purchase threshold, got %s", got)
	}
}

func TestCalculateUnknownTypeFails(t *testing.T) {
	p := &Promotion{Type: "LOYALTY_POINTS", Value: dec("10")}

	_, err := Calculate(p, PurchaseContext{UnitPrice: dec("100"), Quantity: 1})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	p := percentagePromo("12.5")
	p.MaxDiscount = nullDec("40")
	pc := PurchaseContext{UnitPrice: dec("33.33"), Quantity: 7}

	first, err := Calculate(p, pc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Calculate(p, pc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("expected identical results, got %s and %s", first, second)
	}
}
