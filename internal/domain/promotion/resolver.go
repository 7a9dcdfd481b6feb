package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Applied pairs a promotion with the discount it yields for a purchase
type Applied struct {
	Promotion Promotion
	Discount  decimal.Decimal
}

// Resolve returns the promotions applicable to the given product ranked
// by priority, each annotated with the discount it yields for the
// purchase context. Promotions whose usage limit is exhausted are
// skipped (the counter is consulted read-only, never incremented, so
// resolving is safe to call repeatedly for price preview).
//
// With applicableOnly set, candidates yielding a zero discount (for
// example below their minimum purchase) are dropped; otherwise every
// eligible promotion is returned, zero amounts included.
func Resolve(promos []Promotion, now time.Time, productID, categoryID uuid.UUID, pc PurchaseContext, applicableOnly bool) ([]Applied, error) {
	eligible, err := FilterForTarget(promos, now, productID, categoryID)
	if err != nil {
		return nil, err
	}

	var out []Applied
	for _, p := range eligible {
		if p.Exhausted() {
			continue
		}

		d, err := Calculate(&p, pc)
		if err != nil {
			return nil, err
		}
		if applicableOnly && d.IsZero() {
			continue
		}
		out = append(out, Applied{Promotion: p, Discount: d})
	}
	return out, nil
}
