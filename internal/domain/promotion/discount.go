package promotion

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PurchaseContext carries the purchase details a discount is computed against
type PurchaseContext struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

// Subtotal returns unit price times quantity
func (c PurchaseContext) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(c.Quantity))
}

// Rule is the discount behaviour of one promotion type. The set of
// implementations is closed: Percentage, FixedAmount and BuyXGetY.
// A Promotion with any other type never produces a Rule.
type Rule interface {
	amount(pc PurchaseContext) decimal.Decimal
}

// Percentage discounts a share of the line total, optionally capped
type Percentage struct {
	Value       decimal.Decimal
	MaxDiscount decimal.NullDecimal
}

func (r Percentage) amount(pc PurchaseContext) decimal.Decimal {
	d := pc.Subtotal().Mul(r.Value).Div(hundred)
	return clampMax(d, r.MaxDiscount)
}

// FixedAmount discounts a flat amount, never exceeding the line total
type FixedAmount struct {
	Value       decimal.Decimal
	MaxDiscount decimal.NullDecimal
}

func (r FixedAmount) amount(pc PurchaseContext) decimal.Decimal {
	d := decimal.Min(r.Value, pc.Subtotal())
	return clampMax(d, r.MaxDiscount)
}

// BuyXGetY discounts Get units at Value percent for every full Buy+Get
// set in the purchased quantity. Value=100 means the free units cost nothing.
type BuyXGetY struct {
	Buy   int64
	Get   int64
	Value decimal.Decimal
}

func (r BuyXGetY) amount(pc PurchaseContext) decimal.Decimal {
	setSize := r.Buy + r.Get
	if setSize <= 0 {
		return decimal.Zero
	}
	freeSets := pc.Quantity / setSize
	freeUnits := decimal.NewFromInt(freeSets * r.Get)
	return freeUnits.Mul(pc.UnitPrice).Mul(r.Value).Div(hundred)
}

// DiscountRule maps the promotion to its Rule. An unknown type is an
// error, never a silent zero: a zero here would mask data corruption.
func (p *Promotion) DiscountRule() (Rule, error) {
	switch p.Type {
	case TypePercentage:
		return Percentage{Value: p.Value, MaxDiscount: p.MaxDiscount}, nil
	case TypeFixedAmount:
		return FixedAmount{Value: p.Value, MaxDiscount: p.MaxDiscount}, nil
	case TypeBuyXGetY:
		return BuyXGetY{
			Buy:   p.BuyQuantity.Int64,
			Get:   p.GetQuantity.Int64,
			Value: p.Value,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
}

// Calculate computes the discount the promotion yields for the purchase.
// Pure and deterministic: same inputs always give the same output.
// A subtotal below the minimum purchase yields zero without error; the
// promotion stays listed as eligible but contributes no amount.
func Calculate(p *Promotion, pc PurchaseContext) (decimal.Decimal, error) {
	rule, err := p.DiscountRule()
	if err != nil {
		return decimal.Zero, err
	}

	if pc.Subtotal().LessThan(p.MinPurchase) {
		return decimal.Zero, nil
	}

	d := rule.amount(pc)
	if d.IsNegative() {
		d = decimal.Zero
	}
	return d.Round(2), nil
}

func clampMax(d decimal.Decimal, max decimal.NullDecimal) decimal.Decimal {
	if max.Valid && d.GreaterThan(max.Decimal) {
		return max.Decimal
	}
	return d
}
