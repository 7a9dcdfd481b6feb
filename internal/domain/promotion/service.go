package promotion

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Repo is the persistence surface the service depends on
type Repo interface {
	Create(ctx context.Context, p *Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	List(ctx context.Context, filter ListFilter) ([]Promotion, int, error)
	ListActive(ctx context.Context, now time.Time) ([]Promotion, error)
	Update(ctx context.Context, p *Promotion) error
	RedeemUsage(ctx context.Context, id uuid.UUID) error
}

// Service owns promotion business rules. It holds no mutable state of
// its own; reads are pure queries and safe to run concurrently.
type Service struct {
	repo  Repo
	cache *Cache
}

// NewService creates a promotion service. cache may be nil.
func NewService(repo Repo, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Create validates and persists a new promotion
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req *CreateRequest) (*Promotion, error) {
	promoType := Type(req.Type)
	if !promoType.Valid() {
		return nil, ErrUnknownType
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidDateRange
	}
	if err := validateQuantities(promoType, req.BuyQuantity, req.GetQuantity); err != nil {
		return nil, err
	}
	if err := validateAmounts(req.Value, req.MinPurchase, req.MaxDiscount, req.UsageLimit); err != nil {
		return nil, err
	}

	targetType := TargetType(req.TargetType)
	if targetType == "" {
		targetType = TargetAll
	}
	if !targetType.Valid() {
		return nil, ErrInvalidTargetType
	}

	now := time.Now()
	p := &Promotion{
		ID:               uuid.New(),
		Name:             req.Name,
		Description:      req.Description,
		Type:             promoType,
		Value:            req.Value,
		MinPurchase:      decimal.Zero,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		TargetType:       targetType,
		TargetProducts:   req.TargetProducts,
		TargetCategories: req.TargetCategories,
		Priority:         req.Priority,
		IsActive:         true,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
		Version:          1,
	}

	if promoType == TypeBuyXGetY {
		p.BuyQuantity = sql.NullInt64{Int64: *req.BuyQuantity, Valid: true}
		p.GetQuantity = sql.NullInt64{Int64: *req.GetQuantity, Valid: true}
	}
	if req.MinPurchase != nil {
		p.MinPurchase = *req.MinPurchase
	}
	if req.MaxDiscount != nil {
		p.MaxDiscount = decimal.NullDecimal{Decimal: *req.MaxDiscount, Valid: true}
	}
	if req.UsageLimit != nil {
		p.UsageLimit = sql.NullInt64{Int64: *req.UsageLimit, Valid: true}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	log.Info().
		Str("promotion_id", p.ID.String()).
		Str("type", string(p.Type)).
		Str("created_by", createdBy.String()).
		Msg("Promotion created")
	return p, nil
}

// List returns a promotion page plus the total count. Page and limit
// fall back to defaults when non-positive.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Promotion, int, error) {
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

// Get returns a single promotion by ID, soft-deleted records included
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a whitelisted partial update. When expectedVersion is
// non-nil (from an If-Match header) it must match the stored version;
// the write itself is also version-guarded against concurrent edits.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest, expectedVersion *int) (*Promotion, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != nil && *expectedVersion != p.Version {
		return nil, ErrVersionConflict
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Type != nil {
		t := Type(*req.Type)
		if !t.Valid() {
			return nil, ErrUnknownType
		}
		p.Type = t
	}
	if req.Value != nil {
		p.Value = *req.Value
	}
	if req.MinPurchase != nil {
		p.MinPurchase = *req.MinPurchase
	}
	if req.MaxDiscount != nil {
		p.MaxDiscount = decimal.NullDecimal{Decimal: *req.MaxDiscount, Valid: true}
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = *req.EndDate
	}
	if req.TargetType != nil {
		t := TargetType(*req.TargetType)
		if !t.Valid() {
			return nil, ErrInvalidTargetType
		}
		p.TargetType = t
	}
	if req.TargetProducts != nil {
		p.TargetProducts = *req.TargetProducts
	}
	if req.TargetCategories != nil {
		p.TargetCategories = *req.TargetCategories
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.UsageLimit != nil {
		p.UsageLimit = sql.NullInt64{Int64: *req.UsageLimit, Valid: true}
	}

	// Date ordering is re-checked when the payload touches both dates
	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		return nil, ErrInvalidDateRange
	}

	if req.BuyQuantity != nil {
		p.BuyQuantity = sql.NullInt64{Int64: *req.BuyQuantity, Valid: true}
	}
	if req.GetQuantity != nil {
		p.GetQuantity = sql.NullInt64{Int64: *req.GetQuantity, Valid: true}
	}
	// Quantity fields exist only on BUY_X_GET_Y records
	if p.Type == TypeBuyXGetY {
		if !p.BuyQuantity.Valid || !p.GetQuantity.Valid || p.BuyQuantity.Int64 < 1 || p.GetQuantity.Int64 < 1 {
			return nil, ErrBuyGetRequired
		}
	} else {
		if req.BuyQuantity != nil || req.GetQuantity != nil {
			return nil, ErrBuyGetForbidden
		}
		p.BuyQuantity = sql.NullInt64{}
		p.GetQuantity = sql.NullInt64{}
	}

	if p.Value.IsNegative() || p.MinPurchase.IsNegative() ||
		(p.MaxDiscount.Valid && p.MaxDiscount.Decimal.IsNegative()) ||
		(p.UsageLimit.Valid && p.UsageLimit.Int64 < 1) {
		return nil, ErrInvalidValue
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	log.Info().Str("promotion_id", p.ID.String()).Int("version", p.Version).Msg("Promotion updated")
	return p, nil
}

// Delete soft-deletes a promotion: the record stays for audit and
// direct lookup but disappears from active listings
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	p.IsActive = false
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	log.Info().Str("promotion_id", id.String()).Msg("Promotion deactivated")
	return nil
}

// Active returns the promotions active at the given instant, ordered
// by priority, with no target restriction
func (s *Service) Active(ctx context.Context, now time.Time) ([]Promotion, error) {
	if cached, ok := s.cache.GetActive(ctx); ok {
		return FilterActive(cached, now), nil
	}

	promos, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	s.cache.SetActive(ctx, promos)
	return promos, nil
}

// ForProduct resolves the promotions applicable to a product at the
// given instant, annotated with the discount each yields. Read-only:
// usage counters are never touched, so repeated price previews are safe.
func (s *Service) ForProduct(ctx context.Context, now time.Time, productID, categoryID uuid.UUID, pc PurchaseContext, applicableOnly bool) ([]Applied, error) {
	candidates, err := s.Active(ctx, now)
	if err != nil {
		return nil, err
	}
	return Resolve(candidates, now, productID, categoryID, pc, applicableOnly)
}

// Redeem consumes one usage of the promotion. Called by the
// sale-completion workflow only, never by read paths.
func (s *Service) Redeem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.RedeemUsage(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func validateQuantities(t Type, buy, get *int64) error {
	if t == TypeBuyXGetY {
		if buy == nil || get == nil || *buy < 1 || *get < 1 {
			return ErrBuyGetRequired
		}
		return nil
	}
	if buy != nil || get != nil {
		return ErrBuyGetForbidden
	}
	return nil
}

func validateAmounts(value decimal.Decimal, minPurchase, maxDiscount *decimal.Decimal, usageLimit *int64) error {
	if value.IsNegative() {
		return ErrInvalidValue
	}
	if minPurchase != nil && minPurchase.IsNegative() {
		return ErrInvalidValue
	}
	if maxDiscount != nil && maxDiscount.IsNegative() {
		return ErrInvalidValue
	}
	if usageLimit != nil && *usageLimit < 1 {
		return ErrInvalidValue
	}
	return nil
}
