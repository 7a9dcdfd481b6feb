package promotion

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the discount behaviour of a promotion (matches promotion_type enum)
type Type string

const (
	TypePercentage  Type = "PERCENTAGE"
	TypeFixedAmount Type = "FIXED_AMOUNT"
	TypeBuyXGetY    Type = "BUY_X_GET_Y"
)

// Valid returns true for known promotion types
func (t Type) Valid() bool {
	switch t {
	case TypePercentage, TypeFixedAmount, TypeBuyXGetY:
		return true
	}
	return false
}

// TargetType determines which target list a promotion consults
type TargetType string

const (
	TargetAll      TargetType = "ALL"
	TargetProduct  TargetType = "PRODUCT"
	TargetCategory TargetType = "CATEGORY"
)

// Valid returns true for known target types
func (t TargetType) Valid() bool {
	switch t {
	case TargetAll, TargetProduct, TargetCategory:
		return true
	}
	return false
}

// Promotion represents a discount rule with a validity window and targeting scope
type Promotion struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`

	Type  Type            `db:"type" json:"type"`
	Value decimal.Decimal `db:"value" json:"value"`

	// Required only for BUY_X_GET_Y, null otherwise
	BuyQuantity sql.NullInt64 `db:"buy_quantity" json:"buy_quantity"`
	GetQuantity sql.NullInt64 `db:"get_quantity" json:"get_quantity"`

	MinPurchase decimal.Decimal     `db:"min_purchase" json:"min_purchase"`
	MaxDiscount decimal.NullDecimal `db:"max_discount" json:"max_discount"`

	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`

	TargetType       TargetType  `db:"target_type" json:"target_type"`
	TargetProducts   []uuid.UUID `db:"-" json:"target_products"`
	TargetCategories []uuid.UUID `db:"-" json:"target_categories"`

	Priority   int           `db:"priority" json:"priority"`
	UsageLimit sql.NullInt64 `db:"usage_limit" json:"usage_limit"`
	UsageCount int64         `db:"usage_count" json:"usage_count"`

	// Soft-delete marker: deleted promotions keep their record with is_active=false
	IsActive bool `db:"is_active" json:"is_active"`

	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Version increments on every update; used for optimistic concurrency
	Version int `db:"version" json:"version"`
}

// WithinWindow reports whether now falls inside the validity window.
// Both boundaries are inclusive.
func (p *Promotion) WithinWindow(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// Exhausted reports whether the usage limit has been reached
func (p *Promotion) Exhausted() bool {
	return p.UsageLimit.Valid && p.UsageCount >= p.UsageLimit.Int64
}

// MatchesTarget reports whether the promotion applies to the given product.
// categoryID may be uuid.Nil when the caller has no category context.
func (p *Promotion) MatchesTarget(productID, categoryID uuid.UUID) bool {
	switch p.TargetType {
	case TargetAll:
		return true
	case TargetProduct:
		return containsID(p.TargetProducts, productID)
	case TargetCategory:
		return categoryID != uuid.Nil && containsID(p.TargetCategories, categoryID)
	}
	return false
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
