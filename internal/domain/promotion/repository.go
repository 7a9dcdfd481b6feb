package promotion

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ListFilter narrows and paginates promotion listings
type ListFilter struct {
	IsActive   *bool
	TargetType *TargetType
	Page       int
	Limit      int
}

// Repository handles promotion database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new promotion repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const promotionColumns = `id, name, description, type, value, buy_quantity, get_quantity,
	min_purchase, max_discount, start_date, end_date, target_type, target_products,
	target_categories, priority, usage_limit, usage_count, is_active, created_by,
	created_at, updated_at, version`

// Create inserts a new promotion
func (r *Repository) Create(ctx context.Context, p *Promotion) error {
	query := `
		INSERT INTO promotions (
			id, name, description, type, value, buy_quantity, get_quantity,
			min_purchase, max_discount, start_date, end_date, target_type,
			target_products, target_categories, priority, usage_limit,
			usage_count, is_active, created_by, created_at, updated_at, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Type,
		p.Value,
		p.BuyQuantity,
		p.GetQuantity,
		p.MinPurchase,
		p.MaxDiscount,
		p.StartDate,
		p.EndDate,
		p.TargetType,
		idsToArray(p.TargetProducts),
		idsToArray(p.TargetCategories),
		p.Priority,
		p.UsageLimit,
		p.UsageCount,
		p.IsActive,
		p.CreatedBy,
		p.CreatedAt,
		p.UpdatedAt,
		p.Version,
	)
	return err
}

// GetByID returns a promotion by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions WHERE id = $1`, promotionColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanPromotion(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns promotions matching the filter plus the total count
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Promotion, int, error) {
	where := ""
	args := []interface{}{}

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = appendCondition(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	if filter.TargetType != nil {
		args = append(args, *filter.TargetType)
		where = appendCondition(where, "target_type = $"+strconv.Itoa(len(args)))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM promotions` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM promotions%s
		ORDER BY priority DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, promotionColumns, where, len(args)-1, len(args))

	promos, err := r.queryPromotions(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

// ListActive returns active promotions whose validity window contains
// the given instant, ordered by priority then creation time. The window
// is inclusive at both ends.
func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]Promotion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM promotions
		WHERE is_active = true AND start_date <= $1 AND end_date >= $1
		ORDER BY priority DESC, created_at DESC
	`, promotionColumns)

	return r.queryPromotions(ctx, query, now)
}

// Update writes all mutable columns guarded by the record version.
// On success the version on the passed promotion is incremented.
// Zero rows means either the record is gone or someone updated it
// concurrently; the two cases map to different errors.
func (r *Repository) Update(ctx context.Context, p *Promotion) error {
	query := `
		UPDATE promotions SET
			name = $2, description = $3, type = $4, value = $5,
			buy_quantity = $6, get_quantity = $7, min_purchase = $8,
			max_discount = $9, start_date = $10, end_date = $11,
			target_type = $12, target_products = $13, target_categories = $14,
			priority = $15, usage_limit = $16, is_active = $17,
			updated_at = NOW(), version = version + 1
		WHERE id = $1 AND version = $18
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Type,
		p.Value,
		p.BuyQuantity,
		p.GetQuantity,
		p.MinPurchase,
		p.MaxDiscount,
		p.StartDate,
		p.EndDate,
		p.TargetType,
		idsToArray(p.TargetProducts),
		idsToArray(p.TargetCategories),
		p.Priority,
		p.UsageLimit,
		p.IsActive,
		p.Version,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM promotions WHERE id = $1)`, p.ID); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	p.Version++
	return nil
}

// RedeemUsage atomically increments the usage counter, refusing once
// the usage limit is reached. Belongs to the sale-completion workflow;
// read paths never call this.
func (r *Repository) RedeemUsage(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE promotions
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1 AND is_active = true
			AND (usage_limit IS NULL OR usage_count < usage_limit)
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM promotions WHERE id = $1 AND is_active = true)`, id); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrUsageLimitReached
	}
	return nil
}

func (r *Repository) queryPromotions(ctx context.Context, query string, args ...interface{}) ([]Promotion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return promos, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPromotion(row rowScanner) (*Promotion, error) {
	var p Promotion
	var targetProducts, targetCategories pq.StringArray

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Type, &p.Value,
		&p.BuyQuantity, &p.GetQuantity, &p.MinPurchase, &p.MaxDiscount,
		&p.StartDate, &p.EndDate, &p.TargetType, &targetProducts,
		&targetCategories, &p.Priority, &p.UsageLimit, &p.UsageCount,
		&p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		return nil, err
	}

	if p.TargetProducts, err = arrayToIDs(targetProducts); err != nil {
		return nil, err
	}
	if p.TargetCategories, err = arrayToIDs(targetCategories); err != nil {
		return nil, err
	}
	return &p, nil
}

func idsToArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func arrayToIDs(arr pq.StringArray) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(arr))
	for _, s := range arr {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func appendCondition(where, cond string) string {
	if where == "" {
		return " WHERE " + cond
	}
	return where + " AND " + cond
}
