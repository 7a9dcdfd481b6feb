package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Repo is the persistence surface the service depends on
type Repo interface {
	Create(ctx context.Context, ret *Return) error
	GetByID(ctx context.Context, id uuid.UUID) (*Return, error)
	List(ctx context.Context, filter ListFilter) ([]Return, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ReturnStatus) error
}

// PromotionRedeemer consumes promotion usage. Redemption happens only
// here, when a replacement sale actually completes; price previews and
// listings never touch usage counters.
type PromotionRedeemer interface {
	Redeem(ctx context.Context, promotionID uuid.UUID) error
}

// Service owns the return and exchange workflow
type Service struct {
	repo       Repo
	promotions PromotionRedeemer
}

// NewService creates a returns service
func NewService(repo Repo, promotions PromotionRedeemer) *Service {
	return &Service{repo: repo, promotions: promotions}
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Create registers a plain return in REQUESTED state
func (s *Service) Create(ctx context.Context, processedBy uuid.UUID, req *CreateRequest) (*Return, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	ret := buildReturn(TypeReturn, processedBy, req.OriginalSaleID, req.Reason, req.Items)
	if err := s.repo.Create(ctx, ret); err != nil {
		return nil, err
	}

	log.Info().
		Str("return_id", ret.ID.String()).
		Str("refund_total", ret.RefundTotal.String()).
		Msg("Return registered")
	return ret, nil
}

// CreateExchange registers an exchange and completes it immediately:
// the replacement items go out now, so any promotions applied to them
// are redeemed as part of the same operation
func (s *Service) CreateExchange(ctx context.Context, processedBy uuid.UUID, req *ExchangeRequest) (*Return, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	if len(req.Replacements) == 0 {
		return nil, ErrNoReplacements
	}

	ret := buildReturn(TypeExchange, processedBy, req.OriginalSaleID, req.Reason, req.Items)
	for _, rep := range req.Replacements {
		ret.Replacements = append(ret.Replacements, ExchangeItem{
			ID:          uuid.New(),
			ReturnID:    ret.ID,
			ProductID:   rep.ProductID,
			Quantity:    rep.Quantity,
			UnitPrice:   rep.UnitPrice,
			PromotionID: rep.PromotionID,
		})
	}

	for _, rep := range ret.Replacements {
		if rep.PromotionID == nil {
			continue
		}
		if err := s.promotions.Redeem(ctx, *rep.PromotionID); err != nil {
			return nil, err
		}
	}

	ret.Status = StatusCompleted
	if err := s.repo.Create(ctx, ret); err != nil {
		return nil, err
	}

	log.Info().
		Str("return_id", ret.ID.String()).
		Int("replacements", len(ret.Replacements)).
		Msg("Exchange completed")
	return ret, nil
}

// List returns a page of returns plus the total count
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Return, int, error) {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return s.repo.List(ctx, filter)
}

// Get returns a single return
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Return, error) {
	return s.repo.GetByID(ctx, id)
}

// Complete moves a requested return to COMPLETED
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Return, error) {
	ret, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		return nil, err
	}
	ret.Status = StatusCompleted

	log.Info().Str("return_id", id.String()).Msg("Return completed")
	return ret, nil
}

func buildReturn(t ReturnType, processedBy, saleID uuid.UUID, reason string, items []ItemRequest) *Return {
	now := time.Now()
	ret := &Return{
		ID:             uuid.New(),
		Type:           t,
		OriginalSaleID: saleID,
		Reason:         reason,
		Status:         StatusRequested,
		ProcessedBy:    processedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	total := decimal.Zero
	for _, item := range items {
		line := ReturnItem{
			ID:        uuid.New(),
			ReturnID:  ret.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		ret.Items = append(ret.Items, line)
		total = total.Add(line.LineTotal())
	}
	ret.RefundTotal = total.Round(2)
	return ret
}
