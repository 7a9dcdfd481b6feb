package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest is one returned line in the request payload
type ItemRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
}

// ReplacementRequest is one replacement line in an exchange payload
type ReplacementRequest struct {
	ProductID   uuid.UUID       `json:"productId" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"required"`
	PromotionID *uuid.UUID      `json:"promotionId"`
}

// CreateRequest is the payload for registering a return
type CreateRequest struct {
	OriginalSaleID uuid.UUID     `json:"originalSaleId" validate:"required"`
	Reason         string        `json:"reason" validate:"required,max=1000"`
	Items          []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ExchangeRequest is the payload for registering an exchange
type ExchangeRequest struct {
	OriginalSaleID uuid.UUID            `json:"originalSaleId" validate:"required"`
	Reason         string               `json:"reason" validate:"required,max=1000"`
	Items          []ItemRequest        `json:"items" validate:"required,min=1,dive"`
	Replacements   []ReplacementRequest `json:"replacements" validate:"required,min=1,dive"`
}

// ItemResponse is the public representation of a returned line
type ItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ReplacementResponse is the public representation of a replacement line
type ReplacementResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	PromotionID *uuid.UUID      `json:"promotionId,omitempty"`
}

// ReturnResponse is the public representation of a return
type ReturnResponse struct {
	ID             uuid.UUID             `json:"id"`
	Type           ReturnType            `json:"type"`
	OriginalSaleID uuid.UUID             `json:"originalSaleId"`
	Reason         string                `json:"reason"`
	RefundTotal    decimal.Decimal       `json:"refundTotal"`
	Status         ReturnStatus          `json:"status"`
	ProcessedBy    uuid.UUID             `json:"processedBy"`
	Items          []ItemResponse        `json:"items"`
	Replacements   []ReplacementResponse `json:"replacements,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// ToResponse converts a return entity to its public representation
func ToResponse(ret *Return) ReturnResponse {
	resp := ReturnResponse{
		ID:             ret.ID,
		Type:           ret.Type,
		OriginalSaleID: ret.OriginalSaleID,
		Reason:         ret.Reason,
		RefundTotal:    ret.RefundTotal,
		Status:         ret.Status,
		ProcessedBy:    ret.ProcessedBy,
		Items:          make([]ItemResponse, 0, len(ret.Items)),
		CreatedAt:      ret.CreatedAt,
		UpdatedAt:      ret.UpdatedAt,
	}
	for _, item := range ret.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	for _, rep := range ret.Replacements {
		resp.Replacements = append(resp.Replacements, ReplacementResponse{
			ProductID:   rep.ProductID,
			Quantity:    rep.Quantity,
			UnitPrice:   rep.UnitPrice,
			PromotionID: rep.PromotionID,
		})
	}
	return resp
}

// ToResponses converts a slice of returns
func ToResponses(returns []Return) []ReturnResponse {
	out := make([]ReturnResponse, 0, len(returns))
	for i := range returns {
		out = append(out, ToResponse(&returns[i]))
	}
	return out
}
