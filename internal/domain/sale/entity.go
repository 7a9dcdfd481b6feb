package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnType distinguishes plain refunds from exchanges
type ReturnType string

const (
	TypeReturn   ReturnType = "RETURN"
	TypeExchange ReturnType = "EXCHANGE"
)

// ReturnStatus is the lifecycle of a return
type ReturnStatus string

const (
	StatusRequested ReturnStatus = "REQUESTED"
	StatusCompleted ReturnStatus = "COMPLETED"
)

// Return records items coming back from a completed sale. An exchange
// additionally carries the replacement items going out.
type Return struct {
	ID             uuid.UUID       `db:"id"`
	Type           ReturnType      `db:"type"`
	OriginalSaleID uuid.UUID       `db:"original_sale_id"`
	Reason         string          `db:"reason"`
	RefundTotal    decimal.Decimal `db:"refund_total"`
	Status         ReturnStatus    `db:"status"`
	ProcessedBy    uuid.UUID       `db:"processed_by"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Items        []ReturnItem   `db:"-"`
	Replacements []ExchangeItem `db:"-"`
}

// ReturnItem is one returned line
type ReturnItem struct {
	ID        uuid.UUID       `db:"id"`
	ReturnID  uuid.UUID       `db:"return_id"`
	ProductID uuid.UUID       `db:"product_id"`
	Quantity  int64           `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

// ExchangeItem is one replacement line going out in an exchange.
// PromotionID, when set, is the promotion applied to the line; its
// usage is consumed when the exchange completes.
type ExchangeItem struct {
	ID          uuid.UUID       `db:"id"`
	ReturnID    uuid.UUID       `db:"return_id"`
	ProductID   uuid.UUID       `db:"product_id"`
	Quantity    int64           `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	PromotionID *uuid.UUID      `db:"promotion_id"`
}

// LineTotal returns quantity times unit price
func (i ReturnItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
