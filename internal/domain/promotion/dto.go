package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRequest is the payload for creating a promotion.
// Field names follow the public API contract (camelCase).
type CreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`

	Type  string          `json:"type" validate:"required,promotion_type"`
	Value decimal.Decimal `json:"value" validate:"required"`

	BuyQuantity *int64 `json:"buyQuantity"`
	GetQuantity *int64 `json:"getQuantity"`

	MinPurchase *decimal.Decimal `json:"minPurchase"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount"`

	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`

	TargetType       string      `json:"targetType" validate:"target_type"`
	TargetProducts   []uuid.UUID `json:"targetProducts"`
	TargetCategories []uuid.UUID `json:"targetCategories"`

	Priority   int    `json:"priority"`
	UsageLimit *int64 `json:"usageLimit"`
}

// UpdateRequest is the partial-update payload. Only the whitelisted
// fields below are mutable; absent fields keep their stored value.
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`

	Type  *string          `json:"type" validate:"omitempty,promotion_type"`
	Value *decimal.Decimal `json:"value"`

	BuyQuantity *int64 `json:"buyQuantity"`
	GetQuantity *int64 `json:"getQuantity"`

	MinPurchase *decimal.Decimal `json:"minPurchase"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount"`

	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	TargetType       *string      `json:"targetType" validate:"omitempty,target_type"`
	TargetProducts   *[]uuid.UUID `json:"targetProducts"`
	TargetCategories *[]uuid.UUID `json:"targetCategories"`

	IsActive   *bool  `json:"isActive"`
	Priority   *int   `json:"priority"`
	UsageLimit *int64 `json:"usageLimit"`
}

// PromotionResponse is the public representation of a promotion
type PromotionResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	Type  Type            `json:"type"`
	Value decimal.Decimal `json:"value"`

	BuyQuantity *int64 `json:"buyQuantity,omitempty"`
	GetQuantity *int64 `json:"getQuantity,omitempty"`

	MinPurchase decimal.Decimal  `json:"minPurchase"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount,omitempty"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	TargetType       TargetType  `json:"targetType"`
	TargetProducts   []uuid.UUID `json:"targetProducts"`
	TargetCategories []uuid.UUID `json:"targetCategories"`

	Priority   int    `json:"priority"`
	UsageLimit *int64 `json:"usageLimit,omitempty"`
	UsageCount int64  `json:"usageCount"`
	IsActive   bool   `json:"isActive"`

	CreatedBy uuid.UUID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

// AppliedResponse pairs a promotion with its computed discount
type AppliedResponse struct {
	Promotion      PromotionResponse `json:"promotion"`
	DiscountAmount decimal.Decimal   `json:"discountAmount"`
}

// ToResponse converts a promotion entity to its public representation
func ToResponse(p *Promotion) PromotionResponse {
	resp := PromotionResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Type:             p.Type,
		Value:            p.Value,
		MinPurchase:      p.MinPurchase,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		TargetType:       p.TargetType,
		TargetProducts:   p.TargetProducts,
		TargetCategories: p.TargetCategories,
		Priority:         p.Priority,
		UsageCount:       p.UsageCount,
		IsActive:         p.IsActive,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
	}

	if resp.TargetProducts == nil {
		resp.TargetProducts = []uuid.UUID{}
	}
	if resp.TargetCategories == nil {
		resp.TargetCategories = []uuid.UUID{}
	}
	if p.BuyQuantity.Valid {
		v := p.BuyQuantity.Int64
		resp.BuyQuantity = &v
	}
	if p.GetQuantity.Valid {
		v := p.GetQuantity.Int64
		resp.GetQuantity = &v
	}
	if p.MaxDiscount.Valid {
		v := p.MaxDiscount.Decimal
		resp.MaxDiscount = &v
	}
	if p.UsageLimit.Valid {
		v := p.UsageLimit.Int64
		resp.UsageLimit = &v
	}
	return resp
}

// ToResponses converts a slice of promotions
func ToResponses(promos []Promotion) []PromotionResponse {
	out := make([]PromotionResponse, 0, len(promos))
	for i := range promos {
		out = append(out, ToResponse(&promos[i]))
	}
	return out
}

// ToAppliedResponses converts resolver output
func ToAppliedResponses(applied []Applied) []AppliedResponse {
	out := make([]AppliedResponse, 0, len(applied))
	for i := range applied {
		out = append(out, AppliedResponse{
			Promotion:      ToResponse(&applied[i].Promotion),
			DiscountAmount: applied[i].Discount,
		})
	}
	return out
}
