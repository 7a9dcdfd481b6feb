package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ListFilter narrows and pages the returns listing
type ListFilter struct {
	Type   *ReturnType
	Status *ReturnStatus
	Page   int
	Limit  int
}

// Repository persists returns and their line items
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a returns repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const returnColumns = `id, type, original_sale_id, reason, refund_total, status, processed_by, created_at, updated_at`

// Create inserts the return and all line items in one transaction
func (r *Repository) Create(ctx context.Context, ret *Return) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("return create: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO returns (id, type, original_sale_id, reason, refund_total, status, processed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ret.ID, ret.Type, ret.OriginalSaleID, ret.Reason, ret.RefundTotal,
		ret.Status, ret.ProcessedBy, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("return create: %w", err)
	}

	for i := range ret.Items {
		item := &ret.Items[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO return_items (id, return_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, ret.ID, item.ProductID, item.Quantity, item.UnitPrice,
		); err != nil {
			return fmt.Errorf("return create item: %w", err)
		}
	}

	for i := range ret.Replacements {
		rep := &ret.Replacements[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO exchange_items (id, return_id, product_id, quantity, unit_price, promotion_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rep.ID, ret.ID, rep.ProductID, rep.Quantity, rep.UnitPrice, rep.PromotionID,
		); err != nil {
			return fmt.Errorf("return create replacement: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID returns a return with its line items loaded
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Return, error) {
	var ret Return
	err := r.db.GetContext(ctx, &ret,
		`SELECT `+returnColumns+` FROM returns WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("return get: %w", err)
	}
	if err := r.loadItems(ctx, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// List returns a page of returns plus the total count
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Return, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where = fmt.Sprintf(" WHERE type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		if where == "" {
			where = fmt.Sprintf(" WHERE status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM returns`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("return count: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM returns%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		returnColumns, where, len(args)-1, len(args))

	var returns []Return
	if err := r.db.SelectContext(ctx, &returns, query, args...); err != nil {
		return nil, 0, fmt.Errorf("return list: %w", err)
	}
	for i := range returns {
		if err := r.loadItems(ctx, &returns[i]); err != nil {
			return nil, 0, err
		}
	}
	return returns, total, nil
}

// UpdateStatus moves the return through its lifecycle
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status ReturnStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE returns SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("return update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) loadItems(ctx context.Context, ret *Return) error {
	if err := r.db.SelectContext(ctx, &ret.Items, `
		SELECT id, return_id, product_id, quantity, unit_price
		FROM return_items WHERE return_id = $1`, ret.ID); err != nil {
		return fmt.Errorf("return load items: %w", err)
	}
	if err := r.db.SelectContext(ctx, &ret.Replacements, `
		SELECT id, return_id, product_id, quantity, unit_price, promotion_id
		FROM exchange_items WHERE return_id = $1`, ret.ID); err != nil {
		return fmt.Errorf("return load replacements: %w", err)
	}
	return nil
}
