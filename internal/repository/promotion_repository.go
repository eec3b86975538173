package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

// PromotionRepository manages promotion persistence, including the
// product-to-promotion link table.
type PromotionRepository interface {
	Create(ctx context.Context, promotion *domain.Promotion) error
	Update(ctx context.Context, promotion *domain.Promotion) error
	GetByID(ctx context.Context, id int64) (*domain.Promotion, error)
	ListCurrent(ctx context.Context, now time.Time) ([]domain.Promotion, error)
	Deactivate(ctx context.Context, id int64) error
}

type promotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository builds the repository.
func NewPromotionRepository(pool *pgxpool.Pool) PromotionRepository {
	return &promotionRepository{pool: pool}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *domain.Promotion) error {
	const query = `
        INSERT INTO promotions (name, description, discount_percent, starts_at, ends_at, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		promotion.Name,
		promotion.Description,
		promotion.DiscountPercent,
		promotion.StartsAt,
		promotion.EndsAt,
		promotion.Active,
	).Scan(&promotion.ID, &promotion.CreatedAt, &promotion.UpdatedAt); err != nil {
		return err
	}
	return r.replaceProducts(ctx, promotion.ID, promotion.ProductIDs)
}

func (r *promotionRepository) Update(ctx context.Context, promotion *domain.Promotion) error {
	const query = `
        UPDATE promotions SET name=$1, description=$2, discount_percent=$3, starts_at=$4, ends_at=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		promotion.Name,
		promotion.Description,
		promotion.DiscountPercent,
		promotion.StartsAt,
		promotion.EndsAt,
		promotion.Active,
		promotion.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return r.replaceProducts(ctx, promotion.ID, promotion.ProductIDs)
}

func (r *promotionRepository) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	const query = `
        SELECT id, name, description, discount_percent, starts_at, ends_at, is_active, created_at, updated_at
        FROM promotions WHERE id=$1`
	var promotion domain.Promotion
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&promotion.ID,
		&promotion.Name,
		&promotion.Description,
		&promotion.DiscountPercent,
		&promotion.StartsAt,
		&promotion.EndsAt,
		&promotion.Active,
		&promotion.CreatedAt,
		&promotion.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.loadProducts(ctx, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) ListCurrent(ctx context.Context, now time.Time) ([]domain.Promotion, error) {
	const query = `
        SELECT id, name, description, discount_percent, starts_at, ends_at, is_active, created_at, updated_at
        FROM promotions
        WHERE is_active=true AND starts_at <= $1 AND ends_at >= $1
        ORDER BY starts_at`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promotions []domain.Promotion
	for rows.Next() {
		var promotion domain.Promotion
		if err := rows.Scan(
			&promotion.ID,
			&promotion.Name,
			&promotion.Description,
			&promotion.DiscountPercent,
			&promotion.StartsAt,
			&promotion.EndsAt,
			&promotion.Active,
			&promotion.CreatedAt,
			&promotion.UpdatedAt,
		); err != nil {
			return nil, err
		}
		promotions = append(promotions, promotion)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range promotions {
		if err := r.loadProducts(ctx, &promotions[i]); err != nil {
			return nil, err
		}
	}
	return promotions, nil
}

func (r *promotionRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE promotions SET is_active=false, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *promotionRepository) replaceProducts(ctx context.Context, promotionID int64, productIDs []int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM promotion_products WHERE promotion_id=$1`, promotionID); err != nil {
		return err
	}
	for _, productID := range productIDs {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO promotion_products (promotion_id, product_id) VALUES ($1,$2)`,
			promotionID, productID); err != nil {
			return err
		}
	}
	return nil
}

func (r *promotionRepository) loadProducts(ctx context.Context, promotion *domain.Promotion) error {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id FROM promotion_products WHERE promotion_id=$1`, promotion.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		if err := rows.Scan(&productID); err != nil {
			return err
		}
		promotion.ProductIDs = append(promotion.ProductIDs, productID)
	}
	return rows.Err()
}
